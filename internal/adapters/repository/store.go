// Package repository persists save slots.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SaveVersion is the payload version written by this build. Payloads with a
// higher version are refused.
const SaveVersion = 1

// SlotInfo describes one save slot for selection screens.
type SlotInfo struct {
	Index  int    `json:"slot_index"`
	Name   string `json:"name,omitempty"`
	Exists bool   `json:"exists"`
	// LastSavedShowIndex is the last completed show; nil for an empty slot.
	LastSavedShowIndex *int      `json:"last_saved_show_index"`
	SaveID             string    `json:"save_id,omitempty"`
	SavedAt            time.Time `json:"saved_at,omitzero"`
}

// SlotRef identifies the slot a payload was written to.
type SlotRef struct {
	Index int    `json:"slot_index"`
	Name  string `json:"name"`
}

// Payload is the versioned save document. State is opaque to the store.
type Payload struct {
	Version int             `json:"version"`
	Slot    SlotRef         `json:"slot"`
	SaveID  string          `json:"save_id"`
	SavedAt time.Time       `json:"saved_at"`
	State   json.RawMessage `json:"state"`
}

// SaveRequest is what a caller hands the store to write a slot.
type SaveRequest struct {
	Slot int
	Name string
	// ShowIndex is the index of the next show to run.
	ShowIndex int
	State     json.RawMessage
}

// Store provides access to save slots. Slots are 1-based.
type Store interface {
	// ListSlots returns every slot in index order, empty ones included.
	ListSlots(ctx context.Context) ([]SlotInfo, error)
	// Save writes a payload and marks the slot as existing.
	Save(ctx context.Context, req SaveRequest) (SlotInfo, error)
	// Load reads the payload of an existing slot.
	Load(ctx context.Context, slot int) (Payload, error)
	// Clear removes the payload and resets the slot metadata.
	Clear(ctx context.Context, slot int) error
	// Close releases resources held by the store.
	Close() error
}

func checkSlot(slot, count int) error {
	if slot < 1 || slot > count {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

func lastSavedShowIndex(showIndex int) *int {
	v := max(showIndex-1, 0)
	return &v
}

func emptySlots(count int) []SlotInfo {
	slots := make([]SlotInfo, count)
	for i := range slots {
		slots[i] = SlotInfo{Index: i + 1}
	}
	return slots
}

func newPayload(req SaveRequest, id string, at time.Time) Payload {
	return Payload{
		Version: SaveVersion,
		Slot:    SlotRef{Index: req.Slot, Name: req.Name},
		SaveID:  id,
		SavedAt: at.UTC(),
		State:   req.State,
	}
}

func decodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	if p.Version > SaveVersion {
		return Payload{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}
	return p, nil
}

func validateRequest(req SaveRequest, count int) error {
	if err := checkSlot(req.Slot, count); err != nil {
		return err
	}
	if req.Name == "" {
		return ErrNameRequired
	}
	return nil
}
