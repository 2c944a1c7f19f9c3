package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// SlotKind discriminates the two shapes a show slot can take.
type SlotKind string

// Slot kinds.
const (
	SlotMatch SlotKind = "match"
	SlotPromo SlotKind = "promo"
)

// ErrUnknownSlotKind is returned when decoding a slot with an unknown type.
var ErrUnknownSlotKind = errors.New("unknown slot type")

// Slot is one booked segment of a show: either a Match or a Promo.
type Slot interface {
	Kind() SlotKind
	// Performers lists every performer booked in the slot.
	Performers() []string
	isSlot()
}

// Match books two to four performers against each other.
type Match struct {
	PerformerIDs []string
	CategoryID   string
	MatchTypeID  string
}

// Kind implements Slot.
func (Match) Kind() SlotKind { return SlotMatch }

// Performers implements Slot.
func (m Match) Performers() []string { return slices.Clone(m.PerformerIDs) }

func (Match) isSlot() {}

// Promo books one performer on the microphone.
type Promo struct {
	PerformerID string
}

// Kind implements Slot.
func (Promo) Kind() SlotKind { return SlotPromo }

// Performers implements Slot.
func (p Promo) Performers() []string { return []string{p.PerformerID} }

func (Promo) isSlot() {}

// SlotRecord is the tagged wire form of a Slot.
type SlotRecord struct {
	Type        SlotKind `json:"type"`
	WrestlerIDs []string `json:"wrestler_ids,omitempty"`
	CategoryID  string   `json:"match_category_id,omitempty"`
	MatchTypeID string   `json:"match_type_id,omitempty"`
	WrestlerID  string   `json:"wrestler_id,omitempty"`
}

// RecordFromSlot converts a slot to its wire form. A nil slot yields nil.
func RecordFromSlot(s Slot) *SlotRecord {
	switch v := s.(type) {
	case Match:
		return &SlotRecord{
			Type:        SlotMatch,
			WrestlerIDs: slices.Clone(v.PerformerIDs),
			CategoryID:  v.CategoryID,
			MatchTypeID: v.MatchTypeID,
		}
	case Promo:
		return &SlotRecord{Type: SlotPromo, WrestlerID: v.PerformerID}
	default:
		return nil
	}
}

// Slot converts the wire form back into a Slot.
func (r *SlotRecord) Slot() (Slot, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Type {
	case SlotMatch:
		ids := r.WrestlerIDs
		if ids == nil {
			ids = []string{}
		}
		return Match{
			PerformerIDs: slices.Clone(ids),
			CategoryID:   r.CategoryID,
			MatchTypeID:  r.MatchTypeID,
		}, nil
	case SlotPromo:
		return Promo{PerformerID: r.WrestlerID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlotKind, r.Type)
	}
}

// MarshalSlot encodes a slot as JSON with its type discriminator.
func MarshalSlot(s Slot) ([]byte, error) {
	return json.Marshal(RecordFromSlot(s))
}

// UnmarshalSlot decodes a JSON slot. JSON null decodes to a nil Slot.
func UnmarshalSlot(data []byte) (Slot, error) {
	var rec *SlotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}
	return rec.Slot()
}
