package storage

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/san-kum/seesaw/internal/seesaw"
)

// FileStore keeps the state document as a single JSON file.
type FileStore struct {
	path string
	log  *log.Logger
}

func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &FileStore{path: path, log: logger}
}

func (s *FileStore) Path() string { return s.path }

// Load returns an empty set when the file is missing or malformed; only
// I/O failures other than absence are reported.
func (s *FileStore) Load() ([]seesaw.RestingItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []seesaw.RestingItem{}, nil
		}
		return []seesaw.RestingItem{}, err
	}

	items, err := Decode(data)
	if err != nil {
		s.log.Printf("storage: ignoring %s: %v", s.path, err)
		return []seesaw.RestingItem{}, nil
	}
	return items, nil
}

// Save writes through a temp file so a crash never leaves half a document.
func (s *FileStore) Save(items []seesaw.RestingItem) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Close() error { return nil }
