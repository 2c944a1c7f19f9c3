package game

import "github.com/okian/wrestlegm/internal/domain/model"

// ValidateMatch checks a match against the catalog, the roster and the rest
// of the card. index excludes that position from the already-booked check;
// pass NoSlot to check against the whole card.
func (s *State) ValidateMatch(m model.Match, index int) []Code {
	var codes []Code

	category, knownCategory := model.CategoryByID(m.CategoryID)
	if !knownCategory {
		codes = append(codes, CodeUnknownCategory)
	}
	matchType, knownType := s.matchTypes[m.MatchTypeID]
	if !knownType {
		codes = append(codes, CodeUnknownMatchType)
	}

	seen := make(map[string]struct{}, len(m.PerformerIDs))
	for _, id := range m.PerformerIDs {
		seen[id] = struct{}{}
	}
	if len(seen) != len(m.PerformerIDs) {
		codes = append(codes, CodeDuplicatePerformer)
	}
	for _, id := range m.PerformerIDs {
		if _, ok := s.roster[id]; !ok {
			codes = append(codes, CodeUnknownPerformer)
			break
		}
	}

	if knownCategory && len(m.PerformerIDs) != category.Size {
		codes = append(codes, CodeInvalidPerformerCount)
	}
	if knownType && !matchType.AllowsCategory(m.CategoryID) {
		codes = append(codes, CodeInvalidMatchTypeCategory)
	}

	for _, id := range m.PerformerIDs {
		p, ok := s.roster[id]
		if !ok {
			continue
		}
		if s.IsPerformerBooked(id, index) {
			codes = append(codes, CodeAlreadyBooked)
			break
		}
		if p.Stamina <= MinBookableStamina {
			codes = append(codes, CodeNotEnoughStamina)
			break
		}
	}
	return codes
}

// ValidatePromo checks a promo against the roster and the rest of the card.
func (s *State) ValidatePromo(p model.Promo, index int) []Code {
	if _, ok := s.roster[p.PerformerID]; !ok {
		return []Code{CodeUnknownPerformer}
	}
	if s.IsPerformerBooked(p.PerformerID, index) {
		return []Code{CodeAlreadyBooked}
	}
	return nil
}

// ValidateSlot checks that slot fits position index, then validates it by kind.
// A nil slot is incomplete.
func (s *State) ValidateSlot(slot model.Slot, index int) []Code {
	if slot == nil {
		return []Code{CodeIncomplete}
	}

	var codes []Code
	if expected, err := SlotKindAt(index); err == nil && expected != slot.Kind() {
		codes = append(codes, CodeSlotTypeMismatch)
	}
	switch v := slot.(type) {
	case model.Match:
		codes = append(codes, s.ValidateMatch(v, index)...)
	case model.Promo:
		codes = append(codes, s.ValidatePromo(v, index)...)
	}
	return codes
}

// ValidateShow checks the whole card. An unfinished card reports only
// CodeIncomplete. Otherwise every slot is revalidated and a performer booked
// more than once anywhere on the card is reported as a duplicate.
func (s *State) ValidateShow() []Code {
	for _, slot := range s.card {
		if slot == nil {
			return []Code{CodeIncomplete}
		}
	}

	var codes []Code
	seen := make(map[string]struct{})
	for i, slot := range s.card {
		codes = append(codes, s.ValidateSlot(slot, i)...)
		for _, id := range slot.Performers() {
			if _, ok := seen[id]; ok {
				codes = append(codes, CodeDuplicatePerformer)
			}
			seen[id] = struct{}{}
		}
	}
	return codes
}

// IsPerformerBooked reports whether id appears anywhere on the card other
// than position exclude.
func (s *State) IsPerformerBooked(id string, exclude int) bool {
	for i, slot := range s.card {
		if slot == nil || i == exclude {
			continue
		}
		for _, booked := range slot.Performers() {
			if booked == id {
				return true
			}
		}
	}
	return false
}
