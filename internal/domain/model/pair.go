package model

// PairKey identifies an unordered performer pair. A is always <= B, so
// (a, b) and (b, a) produce the same key.
type PairKey struct {
	A string
	B string
}

// NewPairKey normalizes two performer ids into a PairKey.
func NewPairKey(a, b string) PairKey {
	if a <= b {
		return PairKey{A: a, B: b}
	}
	return PairKey{A: b, B: a}
}

// Less orders keys by A then B.
func (k PairKey) Less(o PairKey) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	return k.B < o.B
}

// Pairs returns every unordered combination of ids, in list order:
// for [a b c] it yields (a,b), (a,c), (b,c).
func Pairs(ids []string) [][2]string {
	if len(ids) < 2 {
		return nil
	}
	out := make([][2]string, 0, len(ids)*(len(ids)-1)/2)
	for i := range ids {
		for _, other := range ids[i+1:] {
			out = append(out, [2]string{ids[i], other})
		}
	}
	return out
}

// RivalryState is the feud level between a pair.
type RivalryState struct {
	WrestlerAID string `json:"wrestler_a_id"`
	WrestlerBID string `json:"wrestler_b_id"`
	Value       int    `json:"rivalry_value"`
}

// CooldownState is the post-blowoff countdown for a pair.
type CooldownState struct {
	WrestlerAID    string `json:"wrestler_a_id"`
	WrestlerBID    string `json:"wrestler_b_id"`
	RemainingShows int    `json:"remaining_shows"`
}
