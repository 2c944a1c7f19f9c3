package model

import (
	"encoding/json"
	"slices"
)

// StatDelta is a signed change to a performer's popularity and stamina.
type StatDelta struct {
	Popularity int `json:"popularity"`
	Stamina    int `json:"stamina"`
}

// Add sums two deltas.
func (d StatDelta) Add(o StatDelta) StatDelta {
	return StatDelta{Popularity: d.Popularity + o.Popularity, Stamina: d.Stamina + o.Stamina}
}

// Result is the outcome of one simulated slot: a MatchResult or a PromoResult.
type Result interface {
	Kind() SlotKind
	// StarRating is the 0.0-5.0 quality of the segment.
	StarRating() float64
	// Involved lists every performer that took part.
	Involved() []string
	// Deltas returns the per-performer stat changes the segment produced.
	Deltas() map[string]StatDelta
	isResult()
}

// MatchResult is the immutable outcome of a match.
type MatchResult struct {
	WinnerID     string               `json:"winner_id"`
	NonWinnerIDs []string             `json:"non_winner_ids"`
	Rating       float64              `json:"rating"`
	CategoryID   string               `json:"match_category_id"`
	MatchTypeID  string               `json:"match_type_id"`
	Modifiers    Modifiers            `json:"applied_modifiers"`
	StatDeltas   map[string]StatDelta `json:"stat_deltas"`
}

// Kind implements Result.
func (MatchResult) Kind() SlotKind { return SlotMatch }

// StarRating implements Result.
func (r MatchResult) StarRating() float64 { return r.Rating }

// Involved implements Result.
func (r MatchResult) Involved() []string {
	return append([]string{r.WinnerID}, r.NonWinnerIDs...)
}

// Deltas implements Result.
func (r MatchResult) Deltas() map[string]StatDelta { return r.StatDeltas }

func (MatchResult) isResult() {}

// MarshalJSON adds the type discriminator.
func (r MatchResult) MarshalJSON() ([]byte, error) {
	type plain MatchResult
	return json.Marshal(struct {
		Type SlotKind `json:"type"`
		plain
	}{Type: SlotMatch, plain: plain(r)})
}

// PromoResult is the immutable outcome of a promo.
type PromoResult struct {
	PerformerID string               `json:"wrestler_id"`
	Rating      float64              `json:"rating"`
	StatDeltas  map[string]StatDelta `json:"stat_deltas"`
}

// Kind implements Result.
func (PromoResult) Kind() SlotKind { return SlotPromo }

// StarRating implements Result.
func (r PromoResult) StarRating() float64 { return r.Rating }

// Involved implements Result.
func (r PromoResult) Involved() []string { return []string{r.PerformerID} }

// Deltas implements Result.
func (r PromoResult) Deltas() map[string]StatDelta { return r.StatDeltas }

func (PromoResult) isResult() {}

// MarshalJSON adds the type discriminator.
func (r PromoResult) MarshalJSON() ([]byte, error) {
	type plain PromoResult
	return json.Marshal(struct {
		Type SlotKind `json:"type"`
		plain
	}{Type: SlotPromo, plain: plain(r)})
}

// Show is one simulated card: the slots that ran and their results in the same order.
type Show struct {
	Index   int
	Slots   []Slot
	Results []Result
	Rating  float64
}

// MarshalJSON renders slots through their tagged wire form.
func (s Show) MarshalJSON() ([]byte, error) {
	slots := make([]*SlotRecord, len(s.Slots))
	for i, slot := range s.Slots {
		slots[i] = RecordFromSlot(slot)
	}
	return json.Marshal(struct {
		Index   int           `json:"show_index"`
		Slots   []*SlotRecord `json:"scheduled_slots"`
		Results []Result      `json:"results"`
		Rating  float64       `json:"show_rating"`
	}{Index: s.Index, Slots: slots, Results: s.Results, Rating: s.Rating})
}

// Participants returns the ids of every performer that appeared in the show, sorted.
func (s Show) Participants() []string {
	seen := make(map[string]struct{})
	for _, r := range s.Results {
		for _, id := range r.Involved() {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
