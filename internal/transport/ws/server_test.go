package ws

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/seesaw"
)

var quiet = log.New(io.Discard, "", 0)

func testSnapshot(t *testing.T) seesaw.Snapshot {
	t.Helper()
	st, err := seesaw.New(seesaw.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	st.Deserialize([]seesaw.RestingItem{{X: -50, Weight: 2}})
	st.Spawn(st.Params().CenterX+10, 9)
	return st.Snapshot()
}

func TestNewSnapshotMsg(t *testing.T) {
	msg := NewSnapshotMsg(testSnapshot(t))

	if msg.Phase != "active" {
		t.Errorf("expected active phase, got %s", msg.Phase)
	}
	if msg.LeftWeight != 2 || msg.RightWeight != 0 {
		t.Errorf("expected loads 2/0, got %d/%d", msg.LeftWeight, msg.RightWeight)
	}
	if len(msg.Bodies) != 2 || !msg.Bodies[0].Resting || msg.Bodies[1].Resting {
		t.Errorf("unexpected bodies %+v", msg.Bodies)
	}
	if msg.Bodies[1].Size != "big" {
		t.Errorf("expected big tier, got %s", msg.Bodies[1].Size)
	}
}

func TestParseClientMsg(t *testing.T) {
	cmd, err := parseClientMsg([]byte(`{"type":"spawn","x":123.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if sc, ok := cmd.(driver.SpawnCommand); !ok || sc.X != 123.5 || sc.Weight != 0 {
		t.Errorf("unexpected command %#v", cmd)
	}

	cmd, err = parseClientMsg([]byte(`{"type":"reset"}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(driver.ResetCommand); !ok {
		t.Errorf("unexpected command %#v", cmd)
	}

	for _, bad := range []string{`{"type":"fly"}`, `nope`} {
		if _, err := parseClientMsg([]byte(bad)); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestStateHandler(t *testing.T) {
	h := NewHub(make(chan driver.Command), quiet)

	rec := httptest.NewRecorder()
	h.StateHandler()(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before first render, got %d", rec.Code)
	}

	if err := h.Render(testSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h.StateHandler()(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var msg SnapshotMsg
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "SNAPSHOT" {
		t.Errorf("unexpected type %s", msg.Type)
	}
}

func TestWSRoundTrip(t *testing.T) {
	cmds := make(chan driver.Command, 1)
	h := NewHub(cmds, quiet)
	if err := h.Render(testSnapshot(t)); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(h.WSHandler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg SnapshotMsg
	if err := json.Unmarshal(b, &msg); err != nil || msg.Type != "SNAPSHOT" {
		t.Fatalf("expected snapshot on join, got %s (%v)", b, err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"spawn","x":42,"w":3}`)); err != nil {
		t.Fatal(err)
	}
	select {
	case cmd := <-cmds:
		sc, ok := cmd.(driver.SpawnCommand)
		if !ok || sc.X != 42 || sc.Weight != 3 {
			t.Errorf("unexpected command %#v", cmd)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command never forwarded")
	}
}
