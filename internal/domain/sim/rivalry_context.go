package sim

// RivalryContext summarizes the feud state of the pairs inside one match.
type RivalryContext struct {
	ActivePairs  int  `json:"active_pairs"`
	BlowoffPairs int  `json:"blowoff_pairs"`
	HasCooldown  bool `json:"has_cooldown"`
}

// Adjust applies rivalry bonuses and the cooldown penalty to a star rating.
func (c RivalryContext) Adjust(stars float64) float64 {
	stars += float64(c.ActivePairs) * RivalryBonus
	stars += float64(c.BlowoffPairs) * BlowoffBonus
	if c.HasCooldown {
		stars -= CooldownPenalty
	}
	return clamp(stars, 0, maxStars)
}
