// Package applier folds a simulated show back into the roster.
package applier

import (
	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/domain/sim"
)

// Option applies a configuration option to the ShowApplier.
type Option func(*ShowApplier)

// WithRecovery sets the stamina regained by performers who sit out a show.
func WithRecovery(stamina int) Option {
	return func(a *ShowApplier) {
		if stamina >= 0 {
			a.recovery = stamina
		}
	}
}

// ShowApplier applies aggregated stat deltas and rest recovery.
type ShowApplier struct {
	recovery int
}

// New creates a ShowApplier with the default full recovery.
func New(opts ...Option) *ShowApplier {
	a := &ShowApplier{recovery: sim.FullRecovery}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summary reports who was touched by an Apply call.
type Summary struct {
	// Participants appeared in at least one result.
	Participants []string
	// Rested sat the show out and recovered stamina.
	Rested []string
}

// Apply sums every delta in the show, applies them with clamping, then lets
// every roster member who did not appear recover stamina. Calling it twice
// with the same show applies the deltas twice.
func (a *ShowApplier) Apply(show model.Show, roster model.Roster) Summary {
	totals := make(map[string]model.StatDelta)
	for _, r := range show.Results {
		for id, d := range r.Deltas() {
			totals[id] = totals[id].Add(d)
		}
	}

	participants := show.Participants()
	played := make(map[string]struct{}, len(participants))
	for _, id := range participants {
		played[id] = struct{}{}
	}

	for id, d := range totals {
		p, ok := roster[id]
		if !ok {
			continue
		}
		p.Popularity = model.ClampStat(p.Popularity + d.Popularity)
		p.Stamina = model.ClampStat(p.Stamina + d.Stamina)
	}

	var rested []string
	for _, id := range roster.IDs() {
		if _, ok := played[id]; ok {
			continue
		}
		p := roster[id]
		p.Stamina = model.ClampStat(p.Stamina + a.recovery)
		rested = append(rested, id)
	}

	return Summary{Participants: participants, Rested: rested}
}
