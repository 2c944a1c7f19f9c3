package game

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/okian/wrestlegm/internal/domain/model"
)

// SuggestPerformer returns the roster id closest to an unknown id, matching
// against both ids and names. It returns false when nothing is close enough.
func (s *State) SuggestPerformer(query string) (string, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "", false
	}

	best, bestDist := "", -1
	for _, id := range s.roster.IDs() {
		p := s.roster[id]
		for _, cand := range []string{strings.ToLower(p.ID), strings.ToLower(p.Name)} {
			dist := levenshtein.ComputeDistance(query, cand)
			if dist > distanceLimit(len(cand)) {
				continue
			}
			if bestDist < 0 || dist < bestDist {
				best, bestDist = id, dist
			}
		}
	}
	return best, bestDist >= 0
}

// Suggestions maps every unknown performer on slot to its closest roster id.
func (s *State) Suggestions(slot model.Slot) map[string]string {
	if slot == nil {
		return nil
	}
	out := make(map[string]string)
	for _, id := range slot.Performers() {
		if _, ok := s.roster[id]; ok {
			continue
		}
		if suggestion, ok := s.SuggestPerformer(id); ok {
			out[id] = suggestion
		}
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
