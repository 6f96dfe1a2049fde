package storage

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/san-kum/seesaw/internal/seesaw"
)

// Store persists the resting item set. Falling items never reach a store.
type Store interface {
	Load() ([]seesaw.RestingItem, error)
	Save(items []seesaw.RestingItem) error
	Close() error
}

const (
	stateFile  = "state.json"
	sqliteFile = "seesaw.db"
	journalDir = "journal"
)

// Open builds the store for backend inside dataDir.
func Open(backend, dataDir string, logger *log.Logger) (Store, error) {
	switch backend {
	case "json", "":
		return NewFileStore(filepath.Join(dataDir, stateFile), logger), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dataDir, sqliteFile), logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

func JournalDir(dataDir string) string {
	return filepath.Join(dataDir, journalDir)
}

// MemoryStore keeps the document in memory. It stores the encoded form so
// it exercises the same codec as the file store.
type MemoryStore struct {
	data  []byte
	saves int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() ([]seesaw.RestingItem, error) {
	if m.data == nil {
		return []seesaw.RestingItem{}, nil
	}
	items, err := Decode(m.data)
	if err != nil {
		return []seesaw.RestingItem{}, nil
	}
	return items, nil
}

func (m *MemoryStore) Save(items []seesaw.RestingItem) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// SetRaw replaces the stored document verbatim.
func (m *MemoryStore) SetRaw(data []byte) { m.data = data }

func (m *MemoryStore) Saves() int { return m.saves }

func (m *MemoryStore) Close() error { return nil }
