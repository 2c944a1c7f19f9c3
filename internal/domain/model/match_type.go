package model

import "slices"

// Modifiers tune how a match type resolves.
type Modifiers struct {
	// OutcomeChaos in [0,1] blends win odds toward a coin flip.
	OutcomeChaos          float64 `json:"outcome_chaos"`
	RatingBonus           int     `json:"rating_bonus"`
	RatingVariance        int     `json:"rating_variance"`
	StaminaCostWinner     int     `json:"stamina_cost_winner"`
	StaminaCostLoser      int     `json:"stamina_cost_loser"`
	PopularityDeltaWinner int     `json:"popularity_delta_winner"`
	PopularityDeltaLoser  int     `json:"popularity_delta_loser"`
}

// MatchType is a static stipulation definition such as a ladder or street fight.
type MatchType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Modifiers   Modifiers `json:"modifiers"`
	// AllowedCategories restricts the categories the type can be booked in.
	// Nil means every category is allowed.
	AllowedCategories []string `json:"allowed_categories,omitempty"`
}

// AllowsCategory reports whether the match type may be used with categoryID.
func (t MatchType) AllowsCategory(categoryID string) bool {
	if t.AllowedCategories == nil {
		return true
	}
	return slices.Contains(t.AllowedCategories, categoryID)
}

// MatchCategory fixes how many performers a match holds.
type MatchCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Category ids.
const (
	CategorySingles      = "singles"
	CategoryTripleThreat = "triple-threat"
	CategoryFatalFourWay = "fatal-4-way"
)

var categories = []MatchCategory{
	{ID: CategorySingles, Name: "Singles", Size: 2},
	{ID: CategoryTripleThreat, Name: "Triple Threat", Size: 3},
	{ID: CategoryFatalFourWay, Name: "Fatal 4-Way", Size: 4},
}

// Categories returns the match categories in display order.
func Categories() []MatchCategory {
	return slices.Clone(categories)
}

// CategoryByID looks up a match category.
func CategoryByID(id string) (MatchCategory, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return MatchCategory{}, false
}
