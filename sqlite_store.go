package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLStore persists snapshots as JSON blobs in sqlite. One row per
// player, one singleton row for world state.
type SQLStore struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS players (
	name     TEXT PRIMARY KEY,
	snapshot TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS world (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	snapshot TEXT NOT NULL
);`

func OpenSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY churn under the snapshot write cadence.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Load(name string) (PlayerSnapshot, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT snapshot FROM players WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerSnapshot{}, false, nil
	}
	if err != nil {
		return PlayerSnapshot{}, false, fmt.Errorf("load player %s: %w", name, err)
	}
	var snap PlayerSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return PlayerSnapshot{}, false, fmt.Errorf("decode player %s: %w", name, err)
	}
	return snap, true, nil
}

func (s *SQLStore) Save(name string, snap PlayerSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode player %s: %w", name, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO players (name, snapshot, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET snapshot = excluded.snapshot, saved_at = excluded.saved_at`,
		name, string(raw), snap.SavedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save player %s: %w", name, err)
	}
	return nil
}

func (s *SQLStore) LoadWorld() (WorldSnapshot, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT snapshot FROM world WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return WorldSnapshot{}, false, nil
	}
	if err != nil {
		return WorldSnapshot{}, false, fmt.Errorf("load world: %w", err)
	}
	var snap WorldSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return WorldSnapshot{}, false, fmt.Errorf("decode world: %w", err)
	}
	return snap, true, nil
}

func (s *SQLStore) SaveWorld(snap WorldSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode world: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO world (id, snapshot) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot`,
		string(raw))
	if err != nil {
		return fmt.Errorf("save world: %w", err)
	}
	return nil
}
