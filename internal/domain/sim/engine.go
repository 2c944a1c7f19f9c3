// Package sim computes match and promo outcomes, ratings and stat changes.
//
// All randomness comes from one rng.Stream owned by the Engine. For a match
// the draws happen in a fixed order: one Float64 for the winner, then one
// IntRange for the rating swing. A promo draws one IntRange for its swing.
// Slots are simulated in card order, so replaying a seed with the same inputs
// reproduces every result exactly.
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/domain/rng"
)

// Tuning constants.
const (
	PowerPopularityWeight = 0.6
	PowerStaminaWeight    = 0.4

	RatingPopularityWeight = 0.7
	RatingStaminaWeight    = 0.3
	AlignBonus             = 5.0

	PromoMicWeight        = 0.7
	PromoPopularityWeight = 0.3
	PromoVariance         = 8
	PromoPopularityDelta  = 5
	PromoQualityThreshold = 50.0

	// FullRecovery is the stamina a performer regains by sitting out a show.
	FullRecovery = 15

	RivalryBonus    = 0.25
	BlowoffBonus    = 0.5
	CooldownPenalty = 1.0

	maxScore = 100.0
	maxStars = 5.0
)

// Sentinel errors for invalid engine input.
var (
	ErrEmptyParticipants = errors.New("cannot simulate without performers")
	ErrUnknownMatchType  = errors.New("unknown match type")
	ErrUnknownPerformer  = errors.New("unknown performer")
	ErrUnknownSlot       = errors.New("unknown slot kind")
)

// Engine runs the simulation pipeline against one random stream.
type Engine struct {
	stream *rng.Stream
}

// NewEngine creates an engine drawing from stream.
func NewEngine(stream *rng.Stream) *Engine {
	return &Engine{stream: stream}
}

// Stream returns the random stream the engine draws from.
func (e *Engine) Stream() *rng.Stream { return e.stream }

// OutcomeDebug exposes the intermediate values of SimulateOutcome.
type OutcomeDebug struct {
	Powers             []float64
	BaseProbabilities  []float64
	OutcomeChaos       float64
	FinalProbabilities []float64
	Roll               float64
	WinnerID           string
}

// SimulateOutcome picks a winner. Each performer's odds are proportional to
// its power, blended toward a uniform draw by the outcome chaos modifier.
func (e *Engine) SimulateOutcome(performers []model.Performer, mods model.Modifiers) (string, []string, OutcomeDebug, error) {
	n := len(performers)
	if n == 0 {
		return "", nil, OutcomeDebug{}, ErrEmptyParticipants
	}

	powers := make([]float64, n)
	total := 0.0
	for i, p := range performers {
		powers[i] = float64(p.Popularity)*PowerPopularityWeight + float64(p.Stamina)*PowerStaminaWeight
		total += powers[i]
	}

	uniform := 1.0 / float64(n)
	base := make([]float64, n)
	for i := range base {
		if total <= 0 {
			base[i] = uniform
		} else {
			base[i] = powers[i] / total
		}
	}

	final := make([]float64, n)
	finalTotal := 0.0
	for i, p := range base {
		final[i] = lerp(p, uniform, mods.OutcomeChaos)
		finalTotal += final[i]
	}
	for i := range final {
		if finalTotal <= 0 {
			final[i] = uniform
		} else {
			final[i] /= finalTotal
		}
	}

	roll := e.stream.Float64()
	winner := n - 1
	cumulative := 0.0
	for i, p := range final {
		cumulative += p
		if roll <= cumulative {
			winner = i
			break
		}
	}

	winnerID := performers[winner].ID
	nonWinners := make([]string, 0, n-1)
	for i, p := range performers {
		if i != winner {
			nonWinners = append(nonWinners, p.ID)
		}
	}

	return winnerID, nonWinners, OutcomeDebug{
		Powers:             powers,
		BaseProbabilities:  base,
		OutcomeChaos:       mods.OutcomeChaos,
		FinalProbabilities: final,
		Roll:               roll,
		WinnerID:           winnerID,
	}, nil
}

// RatingDebug exposes the intermediate values of SimulateRating.
type RatingDebug struct {
	PopularityAvg  float64
	StaminaAvg     float64
	Base           float64
	AlignmentMod   float64
	RatingBonus    int
	RatingVariance int
	Swing          int
	Score          float64
	Stars          float64
}

// SimulateRating scores a match on the 0-100 scale and converts it to stars.
func (e *Engine) SimulateRating(performers []model.Performer, matchType model.MatchType) (float64, RatingDebug, error) {
	n := len(performers)
	if n == 0 {
		return 0, RatingDebug{}, ErrEmptyParticipants
	}

	popSum, staSum := 0, 0
	for _, p := range performers {
		popSum += p.Popularity
		staSum += p.Stamina
	}
	popAvg := float64(popSum) / float64(n)
	staAvg := float64(staSum) / float64(n)

	base := popAvg*RatingPopularityWeight + staAvg*RatingStaminaWeight
	alignment := AlignmentModifier(performers)
	mods := matchType.Modifiers
	swing := e.stream.IntRange(-mods.RatingVariance, mods.RatingVariance)

	score := clamp(base+alignment+float64(mods.RatingBonus)+float64(swing), 0, maxScore)
	stars := toStars(score)

	return stars, RatingDebug{
		PopularityAvg:  popAvg,
		StaminaAvg:     staAvg,
		Base:           base,
		AlignmentMod:   alignment,
		RatingBonus:    mods.RatingBonus,
		RatingVariance: mods.RatingVariance,
		Swing:          swing,
		Score:          score,
		Stars:          stars,
	}, nil
}

// AlignmentModifier returns the face/heel dynamic bonus for a match.
//
// Singles reward a face against a heel and punish two heels. In multi-person
// matches an all-heel field is punished, a heel majority is rewarded and a
// face majority is penalized; all-face and even splits are neutral.
func AlignmentModifier(performers []model.Performer) float64 {
	faces := 0
	for _, p := range performers {
		if p.Alignment == model.AlignmentFace {
			faces++
		}
	}
	n := len(performers)
	heels := n - faces

	if n == 2 {
		switch {
		case faces == 1:
			return AlignBonus
		case heels == 2:
			return -2 * AlignBonus
		default:
			return 0
		}
	}
	switch {
	case heels == n:
		return -2 * AlignBonus
	case faces == n:
		return 0
	case heels > faces:
		return AlignBonus
	case heels == faces:
		return 0
	default:
		return -AlignBonus
	}
}

// SimulateStatDeltas assigns the winner and every non-winner their deltas.
func (e *Engine) SimulateStatDeltas(winnerID string, nonWinnerIDs []string, mods model.Modifiers) map[string]model.StatDelta {
	deltas := make(map[string]model.StatDelta, len(nonWinnerIDs)+1)
	deltas[winnerID] = model.StatDelta{
		Popularity: mods.PopularityDeltaWinner,
		Stamina:    -mods.StaminaCostWinner,
	}
	for _, id := range nonWinnerIDs {
		deltas[id] = model.StatDelta{
			Popularity: mods.PopularityDeltaLoser,
			Stamina:    -mods.StaminaCostLoser,
		}
	}
	return deltas
}

// PromoDebug exposes the intermediate values of SimulatePromoRating.
type PromoDebug struct {
	Base  float64
	Swing int
	Score float64
	Stars float64
}

// SimulatePromoRating rates a promo and returns both the star rating and the 0-100 score.
func (e *Engine) SimulatePromoRating(p model.Performer) (float64, float64, PromoDebug) {
	base := float64(p.MicSkill)*PromoMicWeight + float64(p.Popularity)*PromoPopularityWeight
	swing := e.stream.IntRange(-PromoVariance, PromoVariance)
	score := clamp(base+float64(swing), 0, maxScore)
	stars := toStars(score)
	return stars, score, PromoDebug{Base: base, Swing: swing, Score: score, Stars: stars}
}

// SimulatePromoDeltas converts a promo score into a stat change. Promos always
// give back half a show's worth of stamina.
func (e *Engine) SimulatePromoDeltas(score float64) model.StatDelta {
	pop := -PromoPopularityDelta
	if score >= PromoQualityThreshold {
		pop = PromoPopularityDelta
	}
	return model.StatDelta{Popularity: pop, Stamina: FullRecovery / 2}
}

// SimulateMatch resolves outcome, then rating, then deltas. A non-nil rivalry
// context adjusts the rating.
func (e *Engine) SimulateMatch(m model.Match, roster model.Roster, matchTypes map[string]model.MatchType, rc *RivalryContext) (model.MatchResult, error) {
	matchType, ok := matchTypes[m.MatchTypeID]
	if !ok {
		return model.MatchResult{}, fmt.Errorf("%w: %s", ErrUnknownMatchType, m.MatchTypeID)
	}
	performers, missing := roster.Lookup(m.PerformerIDs)
	if missing != "" {
		return model.MatchResult{}, fmt.Errorf("%w: %s", ErrUnknownPerformer, missing)
	}

	winnerID, nonWinners, _, err := e.SimulateOutcome(performers, matchType.Modifiers)
	if err != nil {
		return model.MatchResult{}, err
	}
	rating, _, err := e.SimulateRating(performers, matchType)
	if err != nil {
		return model.MatchResult{}, err
	}
	if rc != nil {
		rating = rc.Adjust(rating)
	}

	return model.MatchResult{
		WinnerID:     winnerID,
		NonWinnerIDs: nonWinners,
		Rating:       rating,
		CategoryID:   m.CategoryID,
		MatchTypeID:  m.MatchTypeID,
		Modifiers:    matchType.Modifiers,
		StatDeltas:   e.SimulateStatDeltas(winnerID, nonWinners, matchType.Modifiers),
	}, nil
}

// SimulatePromo resolves a promo's rating and deltas.
func (e *Engine) SimulatePromo(p model.Promo, roster model.Roster) (model.PromoResult, error) {
	performer, ok := roster[p.PerformerID]
	if !ok {
		return model.PromoResult{}, fmt.Errorf("%w: %s", ErrUnknownPerformer, p.PerformerID)
	}
	rating, score, _ := e.SimulatePromoRating(*performer)
	return model.PromoResult{
		PerformerID: p.PerformerID,
		Rating:      rating,
		StatDeltas:  map[string]model.StatDelta{p.PerformerID: e.SimulatePromoDeltas(score)},
	}, nil
}

// ContextProvider supplies the rivalry context for a match about to be simulated.
type ContextProvider func(m model.Match) RivalryContext

// SimulateShow simulates slots in card order. Results line up positionally with slots.
func (e *Engine) SimulateShow(slots []model.Slot, roster model.Roster, matchTypes map[string]model.MatchType, provider ContextProvider) ([]model.Result, error) {
	results := make([]model.Result, 0, len(slots))
	for i, slot := range slots {
		switch s := slot.(type) {
		case model.Match:
			var rc *RivalryContext
			if provider != nil {
				c := provider(s)
				rc = &c
			}
			res, err := e.SimulateMatch(s, roster, matchTypes, rc)
			if err != nil {
				return nil, fmt.Errorf("slot %d: %w", i, err)
			}
			results = append(results, res)
		case model.Promo:
			res, err := e.SimulatePromo(s, roster)
			if err != nil {
				return nil, fmt.Errorf("slot %d: %w", i, err)
			}
			results = append(results, res)
		default:
			return nil, fmt.Errorf("slot %d: %w", i, ErrUnknownSlot)
		}
	}
	return results, nil
}

// AggregateShowRating is the mean star rating of results, or 0 when there are none.
func AggregateShowRating(results []model.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.StarRating()
	}
	return sum / float64(len(results))
}

func lerp(start, end, amount float64) float64 {
	return start + (end-start)*amount
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// toStars maps a 0-100 score to 0.0-5.0 stars rounded to one decimal.
// Ties round to the even tenth, so 45 gives 2.2 and 55 gives 2.8.
func toStars(score float64) float64 {
	stars := score / maxScore * maxStars
	return math.RoundToEven(stars*10) / 10
}
