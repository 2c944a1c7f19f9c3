// Package rivalry tracks feud levels and post-blowoff cooldowns per performer pair.
package rivalry

import (
	"slices"
	"strings"

	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/domain/sim"
)

const (
	// LevelCap is the highest rivalry level. Meeting again at the cap is a blowoff.
	LevelCap = 4
	// CooldownShows is how many shows a pair stays cold after a blowoff.
	CooldownShows = 6
)

var levelEmojis = map[int]string{
	1: "⚡",
	2: "🔥",
	3: "⚔️",
	4: "💥",
}

// Manager holds rivalry and cooldown state keyed by normalized pair.
// It is not safe for concurrent use.
type Manager struct {
	rivalries map[model.PairKey]int
	cooldowns map[model.PairKey]int
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		rivalries: make(map[model.PairKey]int),
		cooldowns: make(map[model.PairKey]int),
	}
}

// RivalryValue returns the rivalry level between a and b, or 0.
func (m *Manager) RivalryValue(a, b string) int {
	return m.rivalries[model.NewPairKey(a, b)]
}

// CooldownRemaining returns the remaining cooldown shows between a and b, or 0.
func (m *Manager) CooldownRemaining(a, b string) int {
	return m.cooldowns[model.NewPairKey(a, b)]
}

// ContextForMatch scans every pair in the match against the current state.
func (m *Manager) ContextForMatch(match model.Match) sim.RivalryContext {
	var c sim.RivalryContext
	for _, pair := range model.Pairs(match.PerformerIDs) {
		key := model.NewPairKey(pair[0], pair[1])
		if _, ok := m.cooldowns[key]; ok {
			c.HasCooldown = true
			continue
		}
		switch v := m.rivalries[key]; {
		case v <= 0:
		case v >= LevelCap:
			c.BlowoffPairs++
		default:
			c.ActivePairs++
		}
	}
	return c
}

// Emojis renders one glyph per pair, in pair order. Cooldowns take precedence
// over rivalries. Empty ids are ignored.
func (m *Manager) Emojis(ids []string) string {
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) < 2 {
		return ""
	}

	var b strings.Builder
	for _, pair := range model.Pairs(filtered) {
		key := model.NewPairKey(pair[0], pair[1])
		if remaining, ok := m.cooldowns[key]; ok {
			b.WriteString(cooldownEmoji(remaining))
			continue
		}
		if v := m.rivalries[key]; v > 0 {
			b.WriteString(levelEmojis[min(LevelCap, v)])
		}
	}
	return b.String()
}

func cooldownEmoji(remaining int) string {
	switch {
	case remaining >= 5:
		return "🧊"
	case remaining >= 3:
		return "❄️"
	case remaining >= 1:
		return "💧"
	default:
		return ""
	}
}

// Advance moves every pair one show forward. Pairs that met in a match this
// show either heat up or blow off; cooldowns tick down. It returns the pairs
// that blew off, sorted.
func (m *Manager) Advance(show model.Show) []model.PairKey {
	cold := make(map[model.PairKey]struct{}, len(m.cooldowns))
	for key := range m.cooldowns {
		cold[key] = struct{}{}
	}

	blowoffs := make(map[model.PairKey]struct{})
	for _, slot := range show.Slots {
		match, ok := slot.(model.Match)
		if !ok {
			continue
		}
		for _, pair := range model.Pairs(match.PerformerIDs) {
			key := model.NewPairKey(pair[0], pair[1])
			if _, ok := cold[key]; ok {
				delete(m.rivalries, key)
				continue
			}
			v := m.rivalries[key]
			if v >= LevelCap {
				blowoffs[key] = struct{}{}
				continue
			}
			m.rivalries[key] = min(LevelCap, v+1)
		}
	}

	for key, remaining := range m.cooldowns {
		if remaining <= 1 {
			delete(m.cooldowns, key)
			continue
		}
		m.cooldowns[key] = remaining - 1
	}

	out := make([]model.PairKey, 0, len(blowoffs))
	for key := range blowoffs {
		delete(m.rivalries, key)
		m.cooldowns[key] = CooldownShows
		out = append(out, key)
	}
	slices.SortFunc(out, comparePairs)
	return out
}

// Rivalries returns every rivalry sorted by pair.
func (m *Manager) Rivalries() []model.RivalryState {
	keys := sortedKeys(m.rivalries)
	out := make([]model.RivalryState, len(keys))
	for i, key := range keys {
		out[i] = model.RivalryState{WrestlerAID: key.A, WrestlerBID: key.B, Value: m.rivalries[key]}
	}
	return out
}

// Cooldowns returns every cooldown sorted by pair.
func (m *Manager) Cooldowns() []model.CooldownState {
	keys := sortedKeys(m.cooldowns)
	out := make([]model.CooldownState, len(keys))
	for i, key := range keys {
		out[i] = model.CooldownState{WrestlerAID: key.A, WrestlerBID: key.B, RemainingShows: m.cooldowns[key]}
	}
	return out
}

// Restore replaces all state. Entries with non-positive values are skipped.
func (m *Manager) Restore(rivalries []model.RivalryState, cooldowns []model.CooldownState) {
	m.rivalries = make(map[model.PairKey]int, len(rivalries))
	m.cooldowns = make(map[model.PairKey]int, len(cooldowns))
	for _, r := range rivalries {
		if r.Value > 0 {
			m.rivalries[model.NewPairKey(r.WrestlerAID, r.WrestlerBID)] = r.Value
		}
	}
	for _, c := range cooldowns {
		if c.RemainingShows > 0 {
			m.cooldowns[model.NewPairKey(c.WrestlerAID, c.WrestlerBID)] = c.RemainingShows
		}
	}
}

func sortedKeys(m map[model.PairKey]int) []model.PairKey {
	keys := make([]model.PairKey, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, comparePairs)
	return keys
}

func comparePairs(a, b model.PairKey) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
