// Package game owns one session: the roster, the match-type catalog, the show
// card being booked, and the rivalry history. RunShow is the single entry
// point that turns a booked card into a Show.
//
// State is not safe for concurrent use.
package game

import (
	"fmt"
	"slices"

	"github.com/okian/wrestlegm/internal/domain/applier"
	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/domain/rivalry"
	"github.com/okian/wrestlegm/internal/domain/rng"
	"github.com/okian/wrestlegm/internal/domain/sim"
)

const (
	// DefaultSeed seeds sessions that do not pick their own.
	DefaultSeed int64 = 1337
	// MinBookableStamina is the stamina a performer must exceed to wrestle.
	MinBookableStamina = 10
	// NoSlot means a validation is not tied to a card position.
	NoSlot = -1
)

// slotPattern is the fixed kind expected at each card position.
var slotPattern = []model.SlotKind{
	model.SlotMatch,
	model.SlotPromo,
	model.SlotMatch,
	model.SlotPromo,
	model.SlotMatch,
}

// SlotCount is the number of positions on a card.
var SlotCount = len(slotPattern)

// Option applies a configuration option to the State.
type Option func(*State)

// WithRecovery overrides the stamina performers regain by sitting out a show.
func WithRecovery(stamina int) Option {
	return func(s *State) {
		s.applier = applier.New(applier.WithRecovery(stamina))
	}
}

// State is the in-memory game.
type State struct {
	roster     model.Roster
	matchTypes map[string]model.MatchType
	engine     *sim.Engine
	applier    *applier.ShowApplier
	rivalries  *rivalry.Manager
	showIndex  int
	card       []model.Slot
	lastShow   *model.Show
	blowoffs   []model.PairKey
}

// New starts a fresh session from static definitions.
func New(performers []model.Performer, matchTypes []model.MatchType, seed int64, opts ...Option) *State {
	types := make(map[string]model.MatchType, len(matchTypes))
	for _, mt := range matchTypes {
		types[mt.ID] = mt
	}
	s := &State{
		roster:     model.NewRoster(performers),
		matchTypes: types,
		engine:     sim.NewEngine(rng.New(seed)),
		applier:    applier.New(),
		rivalries:  rivalry.NewManager(),
		showIndex:  1,
		card:       make([]model.Slot, SlotCount),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SlotKindAt returns the kind expected at a card position.
func SlotKindAt(index int) (model.SlotKind, error) {
	if index < 0 || index >= len(slotPattern) {
		return "", fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}
	return slotPattern[index], nil
}

// SetSlot validates slot for position index and books it. Nothing is written
// when validation fails.
func (s *State) SetSlot(index int, slot model.Slot) error {
	if _, err := SlotKindAt(index); err != nil {
		return err
	}
	if codes := s.ValidateSlot(slot, index); len(codes) > 0 {
		return &ValidationError{Kind: ErrInvalidSlot, Codes: codes}
	}
	s.card[index] = slot
	return nil
}

// ClearSlot empties a card position.
func (s *State) ClearSlot(index int) error {
	if _, err := SlotKindAt(index); err != nil {
		return err
	}
	s.card[index] = nil
	return nil
}

// Card returns a copy of the card. Empty positions are nil.
func (s *State) Card() []model.Slot {
	return slices.Clone(s.card)
}

// RunShow validates the full card, simulates it, applies the results and
// advances rivalries. On success the card is cleared and the show index moves on.
func (s *State) RunShow() (model.Show, error) {
	if codes := s.ValidateShow(); len(codes) > 0 {
		return model.Show{}, &ValidationError{Kind: ErrInvalidShow, Codes: codes}
	}

	slots := make([]model.Slot, 0, len(s.card))
	for _, slot := range s.card {
		if slot != nil {
			slots = append(slots, slot)
		}
	}

	// Simulation does not touch the roster, so a failure here leaves the
	// session as it was apart from the consumed random draws.
	results, err := s.engine.SimulateShow(slots, s.roster, s.matchTypes, s.rivalries.ContextForMatch)
	if err != nil {
		return model.Show{}, fmt.Errorf("simulate show %d: %w", s.showIndex, err)
	}

	show := model.Show{
		Index:   s.showIndex,
		Slots:   slots,
		Results: results,
		Rating:  sim.AggregateShowRating(results),
	}
	s.ApplyShowResults(show)
	s.lastShow = &show
	s.showIndex++
	s.card = make([]model.Slot, SlotCount)
	return show, nil
}

// ApplyShowResults applies stat deltas and recovery, then advances rivalries.
// Applying the same show twice applies it twice.
func (s *State) ApplyShowResults(show model.Show) applier.Summary {
	summary := s.applier.Apply(show, s.roster)
	s.blowoffs = s.rivalries.Advance(show)
	return summary
}

// Blowoffs returns the pairs that blew off in the most recently applied show.
func (s *State) Blowoffs() []model.PairKey {
	return slices.Clone(s.blowoffs)
}

// RivalryValue returns the rivalry level between two performers.
func (s *State) RivalryValue(a, b string) int {
	return s.rivalries.RivalryValue(a, b)
}

// CooldownRemaining returns the cooldown shows left between two performers.
func (s *State) CooldownRemaining(a, b string) int {
	return s.rivalries.CooldownRemaining(a, b)
}

// RivalryEmojis renders the rivalry glyphs for a line-up.
func (s *State) RivalryEmojis(ids []string) string {
	return s.rivalries.Emojis(ids)
}

// Rivalries lists every active rivalry.
func (s *State) Rivalries() []model.RivalryState { return s.rivalries.Rivalries() }

// Cooldowns lists every active cooldown.
func (s *State) Cooldowns() []model.CooldownState { return s.rivalries.Cooldowns() }

// Roster returns copies of every performer ordered by id.
func (s *State) Roster() []model.Performer {
	out, _ := s.roster.Lookup(s.roster.IDs())
	return out
}

// Performer returns a copy of one performer.
func (s *State) Performer(id string) (model.Performer, bool) {
	p, ok := s.roster[id]
	if !ok {
		return model.Performer{}, false
	}
	return *p, true
}

// MatchTypes returns the catalog ordered by id.
func (s *State) MatchTypes() []model.MatchType {
	out := make([]model.MatchType, 0, len(s.matchTypes))
	for _, mt := range s.matchTypes {
		out = append(out, mt)
	}
	slices.SortFunc(out, func(a, b model.MatchType) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return out
}

// ShowIndex is the 1-based index of the next show to run.
func (s *State) ShowIndex() int { return s.showIndex }

// LastShow returns the most recently run show.
func (s *State) LastShow() (model.Show, bool) {
	if s.lastShow == nil {
		return model.Show{}, false
	}
	return *s.lastShow, true
}

// Seed returns the seed of the session's random stream.
func (s *State) Seed() int64 { return s.engine.Stream().Seed() }
