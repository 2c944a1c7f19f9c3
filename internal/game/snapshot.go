package game

import (
	"fmt"

	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/domain/rng"
	"github.com/okian/wrestlegm/internal/domain/sim"
)

// Snapshot is the persistable form of a session. RNGState is opaque and
// encodes as base64 in JSON.
type Snapshot struct {
	Roster    []model.Performer     `json:"roster"`
	Rivalries []model.RivalryState  `json:"rivalry_states"`
	Cooldowns []model.CooldownState `json:"cooldown_states"`
	ShowIndex int                   `json:"show_index"`
	Card      []*model.SlotRecord   `json:"show_card"`
	Seed      int64                 `json:"rng_seed"`
	RNGState  []byte                `json:"rng_state"`
}

// Snapshot captures everything needed to resume the session.
func (s *State) Snapshot() (Snapshot, error) {
	state, err := s.engine.Stream().State()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	card := make([]*model.SlotRecord, len(s.card))
	for i, slot := range s.card {
		card[i] = model.RecordFromSlot(slot)
	}
	return Snapshot{
		Roster:    s.Roster(),
		Rivalries: s.Rivalries(),
		Cooldowns: s.Cooldowns(),
		ShowIndex: s.showIndex,
		Card:      card,
		Seed:      s.Seed(),
		RNGState:  state,
	}, nil
}

// Restore replaces the session with a snapshot. The roster is taken from the
// snapshot as-is, the card is padded or truncated to SlotCount and the last
// show is forgotten. On error the session is left untouched.
func (s *State) Restore(snap Snapshot) error {
	stream := rng.New(snap.Seed)
	if snap.RNGState != nil {
		if err := stream.Restore(snap.RNGState); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}

	card := make([]model.Slot, SlotCount)
	for i, rec := range snap.Card {
		if i >= SlotCount {
			break
		}
		slot, err := rec.Slot()
		if err != nil {
			return fmt.Errorf("restore card slot %d: %w", i, err)
		}
		card[i] = slot
	}

	showIndex := snap.ShowIndex
	if showIndex < 1 {
		showIndex = 1
	}

	s.roster = model.NewRoster(snap.Roster)
	s.rivalries.Restore(snap.Rivalries, snap.Cooldowns)
	s.engine = sim.NewEngine(stream)
	s.showIndex = showIndex
	s.card = card
	s.lastShow = nil
	s.blowoffs = nil
	return nil
}
