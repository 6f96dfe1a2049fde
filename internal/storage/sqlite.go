package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/san-kum/seesaw/internal/seesaw"
)

// SQLiteStore keeps one row per resting item, ordered by arrival.
type SQLiteStore struct {
	db  *sql.DB
	log *log.Logger
}

func OpenSQLite(path string, logger *log.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, log: logger}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS resting_items (
			seq   INTEGER PRIMARY KEY,
			x     REAL    NOT NULL,
			w     INTEGER NOT NULL,
			color INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite init: %w", err)
		}
	}
	return nil
}

// Load treats rows it cannot read the same way the file store treats a
// malformed document: the set starts empty.
func (s *SQLiteStore) Load() ([]seesaw.RestingItem, error) {
	rows, err := s.db.Query("SELECT x, w, color FROM resting_items ORDER BY seq")
	if err != nil {
		return []seesaw.RestingItem{}, err
	}
	defer rows.Close()

	items := make([]seesaw.RestingItem, 0)
	for rows.Next() {
		var it seesaw.RestingItem
		if err := rows.Scan(&it.X, &it.Weight, &it.Color); err != nil {
			s.log.Printf("storage: ignoring sqlite state: %v", err)
			return []seesaw.RestingItem{}, nil
		}
		if it.Weight < 1 {
			s.log.Printf("storage: ignoring sqlite state: weight %d", it.Weight)
			return []seesaw.RestingItem{}, nil
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return []seesaw.RestingItem{}, err
	}
	return items, nil
}

// Save replaces the whole set in one transaction.
func (s *SQLiteStore) Save(items []seesaw.RestingItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM resting_items"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO resting_items(seq, x, w, color) VALUES(?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		if _, err := stmt.Exec(i, it.X, it.Weight, it.Color); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
