package endpoint

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("endpoint store: open: %w", err)
	}

	// Enable WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("endpoint store: wal: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS endpoints (
			key        TEXT PRIMARY KEY,
			config     TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("endpoint store: migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (Config, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT config FROM endpoints WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, fmt.Errorf("endpoint store: get: %w", err)
	}
	cfg, err := DecodeConfig([]byte(raw))
	if err != nil {
		return Config{}, false, fmt.Errorf("endpoint store: decode %q: %w", key, err)
	}
	return cfg, true, nil
}

func (s *SQLiteStore) GetAll() (map[string]Config, error) {
	rows, err := s.db.Query(`SELECT key, config FROM endpoints ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("endpoint store: list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Config)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("endpoint store: scan: %w", err)
		}
		cfg, err := DecodeConfig([]byte(raw))
		if err != nil {
			// A corrupt record must not hide the rest of the store.
			continue
		}
		out[key] = cfg
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Put(key string, cfg Config) error {
	cfg.Normalize()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("endpoint store: encode %q: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO endpoints (key, config, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET config=excluded.config, updated_at=excluded.updated_at
	`, NormalizeKey(key), string(raw), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("endpoint store: put: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM endpoints WHERE key = ?`, NormalizeKey(key))
	if err != nil {
		return fmt.Errorf("endpoint store: delete: %w", err)
	}
	return nil
}

// DB returns the underlying database connection (for testing or direct access).
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}
