// Package model contains domain models passed between layers.
package model

import "sort"

// Alignment is the two-valued character trait of a performer.
type Alignment string

// Known alignments.
const (
	AlignmentFace Alignment = "Face"
	AlignmentHeel Alignment = "Heel"
)

// Valid reports whether a is one of the known alignments.
func (a Alignment) Valid() bool {
	return a == AlignmentFace || a == AlignmentHeel
}

// Stat bounds for popularity and stamina.
const (
	StatMin = 0
	StatMax = 100
)

// Performer is a roster entry. Popularity and stamina change between shows,
// everything else is fixed for the session.
type Performer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Alignment  Alignment `json:"alignment"`
	Popularity int       `json:"popularity"`
	Stamina    int       `json:"stamina"`
	MicSkill   int       `json:"mic_skill"`
}

// Roster maps performer id to the mutable performer record.
type Roster map[string]*Performer

// NewRoster builds a roster holding copies of the given performers.
func NewRoster(performers []Performer) Roster {
	r := make(Roster, len(performers))
	for i := range performers {
		p := performers[i]
		r[p.ID] = &p
	}
	return r
}

// Lookup resolves ids to performer copies in the given order. The second
// return value is the first id that is not on the roster.
func (r Roster) Lookup(ids []string) ([]Performer, string) {
	out := make([]Performer, 0, len(ids))
	for _, id := range ids {
		p, ok := r[id]
		if !ok {
			return nil, id
		}
		out = append(out, *p)
	}
	return out, ""
}

// IDs returns the roster ids in ascending order.
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClampStat bounds v to [StatMin, StatMax].
func ClampStat(v int) int {
	return max(StatMin, min(StatMax, v))
}
