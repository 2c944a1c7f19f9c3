package catalog

import (
	"fmt"

	"github.com/okian/wrestlegm/internal/domain/model"
)

func validatePerformer(p model.Performer, seen map[string]struct{}) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if _, dup := seen[p.ID]; dup {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, p.ID)
	}
	seen[p.ID] = struct{}{}
	if !p.Alignment.Valid() {
		return fmt.Errorf("%w: %s: alignment %q", ErrInvalidDefinition, p.ID, p.Alignment)
	}
	stats := []struct {
		name  string
		value int
	}{
		{"popularity", p.Popularity},
		{"stamina", p.Stamina},
		{"mic_skill", p.MicSkill},
	}
	for _, st := range stats {
		if st.value < model.StatMin || st.value > model.StatMax {
			return fmt.Errorf("%w: %s: %s %d out of range", ErrInvalidDefinition, p.ID, st.name, st.value)
		}
	}
	return nil
}

func validateMatchType(mt model.MatchType, seen map[string]struct{}) error {
	if mt.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if _, dup := seen[mt.ID]; dup {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, mt.ID)
	}
	seen[mt.ID] = struct{}{}
	if c := mt.Modifiers.OutcomeChaos; c < 0 || c > 1 {
		return fmt.Errorf("%w: %s: outcome_chaos %v out of range", ErrInvalidDefinition, mt.ID, c)
	}
	if mt.Modifiers.RatingVariance < 0 {
		return fmt.Errorf("%w: %s: negative rating_variance", ErrInvalidDefinition, mt.ID)
	}
	for _, c := range mt.AllowedCategories {
		if _, ok := model.CategoryByID(c); !ok {
			return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidDefinition, mt.ID, c)
		}
	}
	return nil
}
