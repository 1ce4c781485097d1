package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/pkg/storage"
	_ "modernc.org/sqlite"
)

const saveSlotsSchema = `
CREATE TABLE IF NOT EXISTS save_slots (
	session_id TEXT NOT NULL,
	slot TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, slot)
)`

// SQLiteStorage implements the Store interface on a single SQLite file,
// one row per save slot.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Store interface
var _ storage.Store = (*SQLiteStorage)(nil)

// OpenSQLiteStorage opens (creating if needed) the database at path.
func OpenSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(saveSlotsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create save_slots table: %w", err)
	}
	logger.Info("SQLite storage opened", "path", path)
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) Get(ctx context.Context, session uuid.UUID, slot string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM save_slots WHERE session_id = ? AND slot = ?`,
		session.String(), slot,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Failed to load save slot", "session_id", session, "slot", slot, "error", err)
		return "", false, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, session uuid.UUID, slot, value string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO save_slots (session_id, slot, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (session_id, slot) DO UPDATE SET
	value = excluded.value,
	updated_at = excluded.updated_at
`,
		session.String(), slot, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		s.logger.Error("Failed to save slot", "session_id", session, "slot", slot, "error", err)
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStorage) Clear(ctx context.Context, session uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE session_id = ?`, session.String()); err != nil {
		s.logger.Error("Failed to clear save", "session_id", session, "error", err)
		return fmt.Errorf("failed to clear save: %w", err)
	}
	return nil
}
