package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS save_slots (
	slot_index            INTEGER PRIMARY KEY,
	name                  TEXT    NOT NULL,
	save_id               TEXT    NOT NULL,
	last_saved_show_index INTEGER NOT NULL,
	saved_at              INTEGER NOT NULL,
	payload               BLOB
)`

// SQLiteStore keeps save slots in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SQLiteStore{db: db, opts: o}, nil
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// ListSlots implements Store.
func (s *SQLiteStore) ListSlots(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot_index, name, save_id, last_saved_show_index, saved_at
		   FROM save_slots
		  ORDER BY slot_index`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots := emptySlots(s.opts.slotCount)
	for rows.Next() {
		var (
			info    SlotInfo
			last    int
			savedAt int64
		)
		if err := rows.Scan(&info.Index, &info.Name, &info.SaveID, &last, &savedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		if info.Index < 1 || info.Index > len(slots) {
			continue
		}
		info.Exists = true
		info.LastSavedShowIndex = &last
		info.SavedAt = fromMillis(savedAt)
		slots[info.Index-1] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, req SaveRequest) (SlotInfo, error) {
	if err := validateRequest(req, s.opts.slotCount); err != nil {
		return SlotInfo{}, err
	}

	payload := newPayload(req, s.opts.newID(), s.opts.now())
	data, err := json.Marshal(payload)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("encode save: %w", err)
	}
	last := lastSavedShowIndex(req.ShowIndex)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO save_slots (slot_index, name, save_id, last_saved_show_index, saved_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot_index) DO UPDATE SET
		   name = excluded.name,
		   save_id = excluded.save_id,
		   last_saved_show_index = excluded.last_saved_show_index,
		   saved_at = excluded.saved_at,
		   payload = excluded.payload`,
		req.Slot, req.Name, payload.SaveID, *last, toMillis(payload.SavedAt), data,
	)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("save slot %d: %w", req.Slot, err)
	}
	return SlotInfo{
		Index:              req.Slot,
		Name:               req.Name,
		Exists:             true,
		LastSavedShowIndex: last,
		SaveID:             payload.SaveID,
		SavedAt:            fromMillis(toMillis(payload.SavedAt)),
	}, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, slot int) (Payload, error) {
	if err := checkSlot(slot, s.opts.slotCount); err != nil {
		return Payload{}, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM save_slots WHERE slot_index = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Payload{}, fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	if err != nil {
		return Payload{}, fmt.Errorf("load slot %d: %w", slot, err)
	}
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("%w: %d", ErrMissingSaveFile, slot)
	}
	return decodePayload(data)
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context, slot int) error {
	if err := checkSlot(slot, s.opts.slotCount); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE slot_index = ?`, slot); err != nil {
		return fmt.Errorf("clear slot %d: %w", slot, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
