// Package service owns the running session: one game.State plus the save
// slot it belongs to. Every call is serialized under a lock so the HTTP layer
// can be concurrent while the game core stays single-owner.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/wrestlegm/internal/adapters/repository"
	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/game"
	"github.com/okian/wrestlegm/pkg/logger"
	"github.com/okian/wrestlegm/pkg/metrics"
)

// Catalog supplies the static definitions a game is built from.
type Catalog interface {
	Performers(ctx context.Context) ([]model.Performer, error)
	MatchTypes(ctx context.Context) ([]model.MatchType, error)
}

// Session describes the active save slot and progress.
type Session struct {
	Slot        int    `json:"slot_index,omitempty"`
	PendingName string `json:"pending_name,omitempty"`
	ShowIndex   int    `json:"show_index"`
}

// RivalryInfo describes the history between two performers.
type RivalryInfo struct {
	A        string `json:"wrestler_a_id"`
	B        string `json:"wrestler_b_id"`
	Value    int    `json:"value"`
	Cooldown int    `json:"cooldown_remaining"`
	Emojis   string `json:"emojis"`
}

// Service implements the API dependencies for a single game session.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	catalog Catalog

	seed       int64
	gameOpts   []game.Option
	performers []model.Performer
	matchTypes []model.MatchType

	state       *game.State
	slot        int
	pendingName string

	logger logger.Logger
}

// New constructs a Service. Start must be called before any session call.
// The global logger must be initialized unless WithLogger is given.
func New(store repository.Store, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		seed:    game.DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start loads the catalog and opens an unsaved game.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil {
		return nil
	}

	performers, err := s.catalog.Performers(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	matchTypes, err := s.catalog.MatchTypes(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	s.performers = performers
	s.matchTypes = matchTypes
	s.state = s.newState(s.seed)
	s.publishGauges()

	s.logger.Info(ctx, "session service started",
		logger.Int("performers", len(performers)),
		logger.Int("matchTypes", len(matchTypes)),
		logger.Int64("seed", s.seed),
	)
	return nil
}

// Stop releases the save store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "close save store", logger.Error(err))
		}
	}
	s.logger.Info(context.Background(), "session service stopped")
	s.state = nil
}

func (s *Service) newState(seed int64) *game.State {
	return game.New(s.performers, s.matchTypes, seed, s.gameOpts...)
}

func (s *Service) publishGauges() {
	metrics.UpdateRivalryCounts(len(s.state.Rivalries()), len(s.state.Cooldowns()))
	metrics.UpdateShowIndex(s.state.ShowIndex())
}

// read runs fn under the read lock.
func (s *Service) read(fn func(st *game.State)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ErrNotStarted
	}
	fn(s.state)
	return nil
}

// ListSlots returns every save slot.
func (s *Service) ListSlots(ctx context.Context) ([]repository.SlotInfo, error) {
	return s.store.ListSlots(ctx)
}

// Session reports the active slot and the next show index.
func (s *Service) Session() (Session, error) {
	var out Session
	err := s.read(func(st *game.State) {
		out = Session{Slot: s.slot, PendingName: s.pendingName, ShowIndex: st.ShowIndex()}
	})
	return out, err
}

// NewGame resets the session to fresh definitions and binds it to slot.
// Nothing is written until SaveCurrent.
func (s *Service) NewGame(ctx context.Context, slot int, name string) error {
	if name == "" {
		return ErrSlotNameRequired
	}
	if err := s.checkSlot(ctx, slot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNotStarted
	}
	s.state = s.newState(s.seed)
	s.slot = slot
	s.pendingName = name
	s.publishGauges()

	s.logger.Info(ctx, "new game", logger.Int("slot", slot), logger.String("name", name))
	return nil
}

// LoadGame replaces the session with the game saved in slot. On error the
// current session is kept.
func (s *Service) LoadGame(ctx context.Context, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNotStarted
	}

	st, err := s.loadState(ctx, slot)
	if err != nil {
		metrics.RecordPersistence("load", metrics.OutcomeError)
		s.logger.Warn(ctx, "load game failed", logger.Int("slot", slot), logger.Error(err))
		return err
	}
	s.state = st
	s.slot = slot
	s.pendingName = ""
	s.publishGauges()
	metrics.RecordPersistence("load", metrics.OutcomeOK)

	s.logger.Info(ctx, "game loaded", logger.Int("slot", slot), logger.Int("showIndex", st.ShowIndex()))
	return nil
}

func (s *Service) loadState(ctx context.Context, slot int) (*game.State, error) {
	payload, err := s.store.Load(ctx, slot)
	if err != nil {
		return nil, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal(payload.State, &snap); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %w", repository.ErrCorruptSave, slot, err)
	}
	st := s.newState(snap.Seed)
	if err := st.Restore(snap); err != nil {
		return nil, fmt.Errorf("%w: slot %d: %w", repository.ErrCorruptSave, slot, err)
	}
	return st, nil
}

// SaveCurrent writes the session to its slot. An existing slot keeps its
// name; otherwise the name given to NewGame is used.
func (s *Service) SaveCurrent(ctx context.Context) (repository.SlotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return repository.SlotInfo{}, ErrNotStarted
	}
	if s.slot == 0 {
		return repository.SlotInfo{}, ErrNoActiveSlot
	}

	info, err := s.save(ctx)
	if err != nil {
		metrics.RecordPersistence("save", metrics.OutcomeError)
		s.logger.Error(ctx, "save game failed", logger.Int("slot", s.slot), logger.Error(err))
		return repository.SlotInfo{}, err
	}
	s.pendingName = ""
	metrics.RecordPersistence("save", metrics.OutcomeOK)

	s.logger.Info(ctx, "game saved",
		logger.Int("slot", info.Index),
		logger.String("name", info.Name),
		logger.String("saveID", info.SaveID),
	)
	return info, nil
}

func (s *Service) save(ctx context.Context) (repository.SlotInfo, error) {
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return repository.SlotInfo{}, err
	}
	name := ""
	for _, info := range slots {
		if info.Index == s.slot && info.Exists {
			name = info.Name
		}
	}
	if name == "" {
		name = s.pendingName
	}
	if name == "" {
		return repository.SlotInfo{}, ErrSlotNameRequired
	}

	snap, err := s.state.Snapshot()
	if err != nil {
		return repository.SlotInfo{}, err
	}
	state, err := json.Marshal(snap)
	if err != nil {
		return repository.SlotInfo{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return s.store.Save(ctx, repository.SaveRequest{
		Slot:      s.slot,
		Name:      name,
		ShowIndex: s.state.ShowIndex(),
		State:     state,
	})
}

// ClearSave erases a save slot. The running session is not affected.
func (s *Service) ClearSave(ctx context.Context, slot int) error {
	if err := s.store.Clear(ctx, slot); err != nil {
		metrics.RecordPersistence("clear", metrics.OutcomeError)
		return err
	}
	metrics.RecordPersistence("clear", metrics.OutcomeOK)
	s.logger.Info(ctx, "save slot cleared", logger.Int("slot", slot))
	return nil
}

func (s *Service) checkSlot(ctx context.Context, slot int) error {
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return err
	}
	if slot < 1 || slot > len(slots) {
		return fmt.Errorf("%w: %d", repository.ErrInvalidSlot, slot)
	}
	return nil
}

// SetSlot books a segment at a card position. Rejected bookings count their
// codes and return a *game.ValidationError.
func (s *Service) SetSlot(ctx context.Context, index int, slot model.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNotStarted
	}

	err := s.state.SetSlot(index, slot)
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		recordFindings(verr.Codes)
		s.logger.Debug(ctx, "booking rejected",
			logger.Int("index", index),
			logger.String("reason", verr.Error()),
		)
	}
	return err
}

// ClearCardSlot empties a card position.
func (s *Service) ClearCardSlot(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNotStarted
	}
	return s.state.ClearSlot(index)
}

// Card returns the card being booked. Empty positions are nil.
func (s *Service) Card() ([]model.Slot, error) {
	var out []model.Slot
	err := s.read(func(st *game.State) { out = st.Card() })
	return out, err
}

// ValidateCard returns the findings that would stop the show from running.
func (s *Service) ValidateCard() ([]game.Code, error) {
	var out []game.Code
	err := s.read(func(st *game.State) { out = st.ValidateShow() })
	return out, err
}

// Suggestions maps unknown performer ids on slot to their closest roster ids.
func (s *Service) Suggestions(slot model.Slot) map[string]string {
	var out map[string]string
	_ = s.read(func(st *game.State) { out = st.Suggestions(slot) })
	return out
}

// RunShow simulates the booked card and applies the results.
func (s *Service) RunShow(ctx context.Context) (model.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return model.Show{}, ErrNotStarted
	}

	show, err := s.state.RunShow()
	if err != nil {
		var verr *game.ValidationError
		if errors.As(err, &verr) {
			recordFindings(verr.Codes)
			s.logger.Debug(ctx, "show rejected", logger.String("reason", verr.Error()))
		} else {
			s.logger.Error(ctx, "show simulation failed", logger.Error(err))
		}
		return model.Show{}, err
	}

	var matches, promos int
	for _, r := range show.Results {
		if r.Kind() == model.SlotMatch {
			matches++
		} else {
			promos++
		}
		metrics.RecordSegmentRating(string(r.Kind()), r.StarRating())
	}
	blowoffs := s.state.Blowoffs()
	metrics.RecordShow(show.Rating, matches, promos)
	metrics.RecordBlowoffs(len(blowoffs))
	s.publishGauges()

	s.logger.Info(ctx, "show complete",
		logger.Int("showIndex", show.Index),
		logger.Float64("rating", show.Rating),
		logger.Int("slots", len(show.Slots)),
		logger.Int("blowoffs", len(blowoffs)),
		logger.Bool("blowoff", len(blowoffs) > 0),
	)
	return show, nil
}

// LastShow returns the most recent show of this session.
func (s *Service) LastShow() (model.Show, bool, error) {
	var (
		show model.Show
		ok   bool
	)
	err := s.read(func(st *game.State) { show, ok = st.LastShow() })
	return show, ok, err
}

// Roster returns every performer ordered by id.
func (s *Service) Roster() ([]model.Performer, error) {
	var out []model.Performer
	err := s.read(func(st *game.State) { out = st.Roster() })
	return out, err
}

// MatchTypes returns the match-type catalog ordered by id.
func (s *Service) MatchTypes() ([]model.MatchType, error) {
	var out []model.MatchType
	err := s.read(func(st *game.State) { out = st.MatchTypes() })
	return out, err
}

// Rivalry reports the rivalry, cooldown and glyphs between two performers.
func (s *Service) Rivalry(a, b string) (RivalryInfo, error) {
	var out RivalryInfo
	err := s.read(func(st *game.State) {
		out = RivalryInfo{
			A:        a,
			B:        b,
			Value:    st.RivalryValue(a, b),
			Cooldown: st.CooldownRemaining(a, b),
			Emojis:   st.RivalryEmojis([]string{a, b}),
		}
	})
	return out, err
}

// RivalryEmojis renders glyphs for a line-up.
func (s *Service) RivalryEmojis(ids []string) (string, error) {
	var out string
	err := s.read(func(st *game.State) { out = st.RivalryEmojis(ids) })
	return out, err
}

// Rivalries lists active rivalries and cooldowns.
func (s *Service) Rivalries() ([]model.RivalryState, []model.CooldownState, error) {
	var (
		rivalries []model.RivalryState
		cooldowns []model.CooldownState
	)
	err := s.read(func(st *game.State) {
		rivalries = st.Rivalries()
		cooldowns = st.Cooldowns()
	})
	return rivalries, cooldowns, err
}

func recordFindings(codes []game.Code) {
	for _, c := range codes {
		metrics.RecordValidationFinding(string(c))
	}
}
