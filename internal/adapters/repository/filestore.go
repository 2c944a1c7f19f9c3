package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const slotIndexFile = "slots.json"

// FileStore keeps each slot in slot_<n>.json next to a slots.json index.
type FileStore struct {
	dir  string
	opts options
	mu   sync.Mutex
}

type slotIndex struct {
	Slots []SlotInfo `json:"slots"`
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("save dir is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileStore{dir: dir, opts: o}, nil
}

// ListSlots implements Store.
func (s *FileStore) ListSlots(ctx context.Context) ([]SlotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, req SaveRequest) (SlotInfo, error) {
	if err := ctx.Err(); err != nil {
		return SlotInfo{}, err
	}
	if err := validateRequest(req, s.opts.slotCount); err != nil {
		return SlotInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payload := newPayload(req, s.opts.newID(), s.opts.now())
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return SlotInfo{}, fmt.Errorf("encode save: %w", err)
	}
	if err := writeFileAtomic(s.slotPath(req.Slot), data); err != nil {
		return SlotInfo{}, fmt.Errorf("write save: %w", err)
	}

	slots, err := s.readIndex()
	if err != nil {
		return SlotInfo{}, err
	}
	info := SlotInfo{
		Index:              req.Slot,
		Name:               req.Name,
		Exists:             true,
		LastSavedShowIndex: lastSavedShowIndex(req.ShowIndex),
		SaveID:             payload.SaveID,
		SavedAt:            payload.SavedAt,
	}
	slots[req.Slot-1] = info
	if err := s.writeIndex(slots); err != nil {
		return SlotInfo{}, err
	}
	return info, nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, slot int) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	if err := checkSlot(slot, s.opts.slotCount); err != nil {
		return Payload{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readIndex()
	if err != nil {
		return Payload{}, err
	}
	if !slots[slot-1].Exists {
		return Payload{}, fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	data, err := os.ReadFile(s.slotPath(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return Payload{}, fmt.Errorf("%w: %d", ErrMissingSaveFile, slot)
	}
	if err != nil {
		return Payload{}, fmt.Errorf("read save: %w", err)
	}
	return decodePayload(data)
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context, slot int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSlot(slot, s.opts.slotCount); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.slotPath(slot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove save: %w", err)
	}
	slots, err := s.readIndex()
	if err != nil {
		return err
	}
	slots[slot-1] = SlotInfo{Index: slot}
	return s.writeIndex(slots)
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) slotPath(slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf("slot_%d.json", slot))
}

// readIndex merges the stored index over the default empty slots. Unknown
// or malformed entries are skipped.
func (s *FileStore) readIndex() ([]SlotInfo, error) {
	slots := emptySlots(s.opts.slotCount)
	data, err := os.ReadFile(filepath.Join(s.dir, slotIndexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return slots, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot index: %w", err)
	}

	var idx slotIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return slots, nil
	}
	for _, entry := range idx.Slots {
		if entry.Index < 1 || entry.Index > len(slots) {
			continue
		}
		slots[entry.Index-1] = entry
	}
	return slots, nil
}

func (s *FileStore) writeIndex(slots []SlotInfo) error {
	data, err := json.MarshalIndent(slotIndex{Slots: slots}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode slot index: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, slotIndexFile), data); err != nil {
		return fmt.Errorf("write slot index: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
