// Package ws serves seesaw snapshots to websocket observers and forwards
// their spawn and reset requests to the driver goroutine.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/seesaw"
)

const (
	writeWait  = 5 * time.Second
	clientSend = 16
)

type Hub struct {
	log      *log.Logger
	cmds     chan<- driver.Command
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.Mutex
	clients map[string]chan []byte
	last    []byte
}

// NewHub returns a hub that forwards client commands to cmds.
func NewHub(cmds chan<- driver.Command, logger *log.Logger) *Hub {
	return &Hub{
		log:  logger,
		cmds: cmds,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: make(map[string]chan []byte),
	}
}

// Render broadcasts the snapshot. Slow observers miss frames instead of
// stalling the driver.
func (h *Hub) Render(s seesaw.Snapshot) error {
	b, err := json.Marshal(NewSnapshotMsg(s))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for _, ch := range h.clients {
		select {
		case ch <- b:
		default:
		}
	}
	return nil
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) join() (string, chan []byte) {
	id := fmt.Sprintf("O%d", h.nextID.Add(1))
	ch := make(chan []byte, clientSend)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = ch
	if h.last != nil {
		ch <- h.last
	}
	return id, ch
}

func (h *Hub) leave(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// StateHandler serves the latest snapshot as plain JSON.
func (h *Hub) StateHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.mu.Lock()
		b := h.last
		h.mu.Unlock()
		if b == nil {
			http.Error(rw, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(b)
	}
}

func (h *Hub) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.join()
		defer h.leave(id)
		h.log.Printf("ws: %s connected from %s", id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				h.log.Printf("ws: %s disconnected: %v", id, err)
				return
			}
			cmd, err := parseClientMsg(msg)
			if err != nil {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
					time.Now().Add(time.Second))
				return
			}
			select {
			case h.cmds <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}

func parseClientMsg(b []byte) (driver.Command, error) {
	var m ClientMsg
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("bad message")
	}
	switch m.Type {
	case "spawn":
		return driver.SpawnCommand{X: m.X, Weight: m.Weight}, nil
	case "reset":
		return driver.ResetCommand{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
}
