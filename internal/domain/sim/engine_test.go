package sim_test

import (
	"errors"
	"testing"

	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/domain/rng"
	"github.com/okian/wrestlegm/internal/domain/sim"
	. "github.com/smartystreets/goconvey/convey"
)

func performers() []model.Performer {
	return []model.Performer{
		{ID: "a", Name: "Alpha", Alignment: model.AlignmentFace, Popularity: 90, Stamina: 90, MicSkill: 80},
		{ID: "b", Name: "Bravo", Alignment: model.AlignmentHeel, Popularity: 10, Stamina: 10, MicSkill: 40},
		{ID: "c", Name: "Charlie", Alignment: model.AlignmentFace, Popularity: 50, Stamina: 50, MicSkill: 60},
	}
}

func singles() model.MatchType {
	return model.MatchType{
		ID:   "singles",
		Name: "Singles",
		Modifiers: model.Modifiers{
			OutcomeChaos:          0.2,
			RatingBonus:           5,
			RatingVariance:        3,
			StaminaCostWinner:     10,
			StaminaCostLoser:      12,
			PopularityDeltaWinner: 2,
			PopularityDeltaLoser:  -1,
		},
	}
}

func flat() model.MatchType {
	return model.MatchType{ID: "flat", Name: "Flat"}
}

func newEngine(seed int64) *sim.Engine {
	return sim.NewEngine(rng.New(seed))
}

func TestEngine_Determinism(t *testing.T) {
	Convey("Given two engines seeded with 123", t, func() {
		roster := model.NewRoster(performers())
		types := map[string]model.MatchType{"singles": singles()}
		m := model.Match{PerformerIDs: []string{"a", "b"}, CategoryID: model.CategorySingles, MatchTypeID: "singles"}

		one := newEngine(123)
		two := newEngine(123)

		Convey("When simulating the same match on both", func() {
			r1, err1 := one.SimulateMatch(m, roster, types, nil)
			r2, err2 := two.SimulateMatch(m, roster, types, nil)

			Convey("Then winner, non-winners and rating are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(r1.WinnerID, ShouldEqual, r2.WinnerID)
				So(r1.NonWinnerIDs, ShouldResemble, r2.NonWinnerIDs)
				So(r1.Rating, ShouldEqual, r2.Rating)
			})
		})

		Convey("When simulating a whole card repeatedly", func() {
			slots := []model.Slot{
				m,
				model.Promo{PerformerID: "c"},
				model.Match{PerformerIDs: []string{"a", "b", "c"}, CategoryID: model.CategoryTripleThreat, MatchTypeID: "singles"},
			}
			var first, second []model.Result
			for i := 0; i < 5; i++ {
				a, err := one.SimulateShow(slots, roster, types, nil)
				So(err, ShouldBeNil)
				b, err := two.SimulateShow(slots, roster, types, nil)
				So(err, ShouldBeNil)
				first = append(first, a...)
				second = append(second, b...)
			}

			Convey("Then every result matches", func() {
				So(first, ShouldResemble, second)
			})
		})
	})
}

func TestEngine_SimulateOutcome(t *testing.T) {
	Convey("Given an engine", t, func() {
		e := newEngine(1)

		Convey("When the participant list is empty", func() {
			_, _, _, err := e.SimulateOutcome(nil, model.Modifiers{})

			Convey("Then it fails with ErrEmptyParticipants", func() {
				So(errors.Is(err, sim.ErrEmptyParticipants), ShouldBeTrue)
			})
		})

		Convey("When one performer dwarfs the other", func() {
			strong := model.Performer{ID: "a", Popularity: 100, Stamina: 100}
			weak := model.Performer{ID: "b", Popularity: 0, Stamina: 0}
			_, _, debug, err := e.SimulateOutcome([]model.Performer{strong, weak}, model.Modifiers{})

			Convey("Then base probabilities are valid and sum to one", func() {
				So(err, ShouldBeNil)
				sum := 0.0
				for _, p := range debug.BaseProbabilities {
					So(p, ShouldBeBetweenOrEqual, 0, 1)
					sum += p
				}
				So(sum, ShouldAlmostEqual, 1, 1e-6)
				So(debug.BaseProbabilities[0], ShouldEqual, 1)
				So(debug.WinnerID, ShouldEqual, "a")
			})
		})

		Convey("When total power is zero", func() {
			zero := []model.Performer{{ID: "a"}, {ID: "b"}, {ID: "c"}}
			_, _, debug, err := e.SimulateOutcome(zero, model.Modifiers{})

			Convey("Then the odds are uniform", func() {
				So(err, ShouldBeNil)
				for _, p := range debug.BaseProbabilities {
					So(p, ShouldAlmostEqual, 1.0/3.0, 1e-9)
				}
			})
		})

		Convey("When chaos is total", func() {
			_, _, debug, err := e.SimulateOutcome(performers(), model.Modifiers{OutcomeChaos: 1})

			Convey("Then final odds ignore power", func() {
				So(err, ShouldBeNil)
				for _, p := range debug.FinalProbabilities {
					So(p, ShouldAlmostEqual, 1.0/3.0, 1e-9)
				}
			})
		})

		Convey("When simulating a multi-person match", func() {
			roster := performers()
			winner, nonWinners, _, err := e.SimulateOutcome(roster, model.Modifiers{OutcomeChaos: 0.5})

			Convey("Then non-winners keep listed order without the winner", func() {
				So(err, ShouldBeNil)
				So(nonWinners, ShouldHaveLength, 2)
				So(nonWinners, ShouldNotContain, winner)
				var expected []string
				for _, p := range roster {
					if p.ID != winner {
						expected = append(expected, p.ID)
					}
				}
				So(nonWinners, ShouldResemble, expected)
			})
		})
	})
}

func TestEngine_SimulateRating(t *testing.T) {
	Convey("Given an engine", t, func() {
		e := newEngine(2)

		Convey("When the variance is extreme", func() {
			mt := flat()
			mt.Modifiers.RatingVariance = 50
			a := model.Performer{ID: "a", Alignment: model.AlignmentFace, Popularity: 100, Stamina: 100}
			b := model.Performer{ID: "b", Alignment: model.AlignmentHeel}

			Convey("Then ratings stay in bounds", func() {
				for i := 0; i < 200; i++ {
					stars, debug, err := e.SimulateRating([]model.Performer{a, b}, mt)
					So(err, ShouldBeNil)
					So(stars, ShouldBeBetweenOrEqual, 0, 5)
					So(debug.Score, ShouldBeBetweenOrEqual, 0, 100)
				}
			})
		})

		Convey("When every stat is maxed and the bonus is large", func() {
			mt := flat()
			mt.Modifiers.RatingBonus = 100
			mt.Modifiers.RatingVariance = 10
			a := model.Performer{ID: "a", Alignment: model.AlignmentFace, Popularity: 100, Stamina: 100}
			b := model.Performer{ID: "b", Alignment: model.AlignmentHeel, Popularity: 100, Stamina: 100}
			stars, debug, err := e.SimulateRating([]model.Performer{a, b}, mt)

			Convey("Then the rating caps at five stars", func() {
				So(err, ShouldBeNil)
				So(stars, ShouldEqual, 5.0)
				So(debug.Score, ShouldEqual, 100)
			})
		})

		Convey("When every stat is zero and the bonus is negative", func() {
			mt := flat()
			mt.Modifiers.RatingBonus = -100
			a := model.Performer{ID: "a", Alignment: model.AlignmentHeel}
			b := model.Performer{ID: "b", Alignment: model.AlignmentHeel}
			stars, _, err := e.SimulateRating([]model.Performer{a, b}, mt)

			Convey("Then the rating floors at zero", func() {
				So(err, ShouldBeNil)
				So(stars, ShouldEqual, 0)
			})
		})

		Convey("When there is no variance", func() {
			a := model.Performer{ID: "a", Alignment: model.AlignmentFace, Popularity: 60, Stamina: 60}
			b := model.Performer{ID: "b", Alignment: model.AlignmentFace, Popularity: 60, Stamina: 60}
			stars, debug, err := e.SimulateRating([]model.Performer{a, b}, flat())

			Convey("Then the score is the weighted average", func() {
				So(err, ShouldBeNil)
				So(debug.Swing, ShouldEqual, 0)
				So(debug.Score, ShouldAlmostEqual, 60, 1e-9)
				So(stars, ShouldAlmostEqual, 3.0, 1e-9)
			})
		})

		Convey("When the score lands exactly between two tenths", func() {
			a := model.Performer{ID: "a", Alignment: model.AlignmentFace, Popularity: 50, Stamina: 50}
			b := model.Performer{ID: "b", Alignment: model.AlignmentFace, Popularity: 50, Stamina: 50}
			cases := []struct {
				bonus int
				score float64
				stars float64
			}{
				{bonus: -45, score: 5, stars: 0.2},
				{bonus: -25, score: 25, stars: 1.2},
				{bonus: -5, score: 45, stars: 2.2},
				{bonus: 5, score: 55, stars: 2.8},
				{bonus: 15, score: 65, stars: 3.2},
				{bonus: 35, score: 85, stars: 4.2},
			}

			Convey("Then the tie rounds to the even tenth", func() {
				for _, tc := range cases {
					mt := flat()
					mt.Modifiers.RatingBonus = tc.bonus
					stars, debug, err := e.SimulateRating([]model.Performer{a, b}, mt)
					So(err, ShouldBeNil)
					So(debug.Score, ShouldAlmostEqual, tc.score, 1e-9)
					So(stars, ShouldAlmostEqual, tc.stars, 1e-9)
				}
			})
		})

		Convey("When the participant list is empty", func() {
			_, _, err := e.SimulateRating(nil, flat())

			Convey("Then it fails", func() {
				So(errors.Is(err, sim.ErrEmptyParticipants), ShouldBeTrue)
			})
		})
	})
}

func TestAlignmentModifier(t *testing.T) {
	face := model.Performer{ID: "f", Alignment: model.AlignmentFace}
	heel := model.Performer{ID: "h", Alignment: model.AlignmentHeel}

	Convey("Given the alignment table", t, func() {
		Convey("Then a face against a heel earns the bonus", func() {
			So(sim.AlignmentModifier([]model.Performer{face, heel}), ShouldEqual, sim.AlignBonus)
			So(sim.AlignmentModifier([]model.Performer{heel, face}), ShouldEqual, sim.AlignBonus)
		})

		Convey("Then two heels are punished twice over", func() {
			So(sim.AlignmentModifier([]model.Performer{heel, heel}), ShouldEqual, -2*sim.AlignBonus)
		})

		Convey("Then two faces are neutral", func() {
			So(sim.AlignmentModifier([]model.Performer{face, face}), ShouldEqual, 0)
		})

		Convey("Then three heels are punished twice over", func() {
			So(sim.AlignmentModifier([]model.Performer{heel, heel, heel}), ShouldEqual, -2*sim.AlignBonus)
		})

		Convey("Then an all-face field is neutral", func() {
			So(sim.AlignmentModifier([]model.Performer{face, face, face}), ShouldEqual, 0)
		})

		Convey("Then a heel majority earns the bonus", func() {
			So(sim.AlignmentModifier([]model.Performer{heel, heel, face}), ShouldEqual, sim.AlignBonus)
			So(sim.AlignmentModifier([]model.Performer{heel, face, heel, heel}), ShouldEqual, sim.AlignBonus)
		})

		Convey("Then an even split is neutral", func() {
			So(sim.AlignmentModifier([]model.Performer{heel, face, heel, face}), ShouldEqual, 0)
		})

		Convey("Then a face majority is penalized", func() {
			So(sim.AlignmentModifier([]model.Performer{face, face, heel}), ShouldEqual, -sim.AlignBonus)
			So(sim.AlignmentModifier([]model.Performer{face, face, face, heel}), ShouldEqual, -sim.AlignBonus)
		})
	})
}

func TestEngine_SimulateStatDeltas(t *testing.T) {
	Convey("Given winner and loser modifiers", t, func() {
		mods := model.Modifiers{
			StaminaCostWinner:     7,
			StaminaCostLoser:      9,
			PopularityDeltaWinner: 3,
			PopularityDeltaLoser:  -2,
		}
		deltas := newEngine(4).SimulateStatDeltas("a", []string{"b", "c"}, mods)

		Convey("Then each performer gets its own deltas", func() {
			So(deltas, ShouldHaveLength, 3)
			So(deltas["a"], ShouldResemble, model.StatDelta{Popularity: 3, Stamina: -7})
			So(deltas["b"], ShouldResemble, model.StatDelta{Popularity: -2, Stamina: -9})
			So(deltas["c"], ShouldResemble, model.StatDelta{Popularity: -2, Stamina: -9})
		})
	})
}

func TestEngine_Promo(t *testing.T) {
	Convey("Given two engines seeded with 101", t, func() {
		roster := model.NewRoster(performers())
		one := newEngine(101)
		two := newEngine(101)

		Convey("When both simulate the same promo", func() {
			r1, err1 := one.SimulatePromo(model.Promo{PerformerID: "a"}, roster)
			r2, err2 := two.SimulatePromo(model.Promo{PerformerID: "a"}, roster)

			Convey("Then the results match", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(r1, ShouldResemble, r2)
				So(r1.StatDeltas, ShouldContainKey, "a")
				So(r1.Rating, ShouldBeBetweenOrEqual, 0, 5)
			})
		})

		Convey("When the performer is not on the roster", func() {
			_, err := one.SimulatePromo(model.Promo{PerformerID: "zz"}, roster)

			Convey("Then it fails", func() {
				So(errors.Is(err, sim.ErrUnknownPerformer), ShouldBeTrue)
			})
		})
	})

	Convey("Given the promo delta threshold", t, func() {
		e := newEngine(202)

		Convey("Then a score below 50 costs popularity", func() {
			So(e.SimulatePromoDeltas(49), ShouldResemble, model.StatDelta{Popularity: -5, Stamina: sim.FullRecovery / 2})
		})

		Convey("Then a score of 50 earns popularity", func() {
			So(e.SimulatePromoDeltas(50), ShouldResemble, model.StatDelta{Popularity: 5, Stamina: 7})
		})
	})

	Convey("Given a promo rating", t, func() {
		e := newEngine(303)
		p := model.Performer{ID: "a", MicSkill: 80, Popularity: 50}

		Convey("Then the swing stays within the promo variance", func() {
			for i := 0; i < 100; i++ {
				stars, score, debug := e.SimulatePromoRating(p)
				So(debug.Base, ShouldAlmostEqual, 71, 1e-9)
				So(debug.Swing, ShouldBeBetweenOrEqual, -sim.PromoVariance, sim.PromoVariance)
				So(score, ShouldAlmostEqual, debug.Base+float64(debug.Swing), 1e-9)
				So(stars, ShouldBeBetweenOrEqual, 0, 5)
			}
		})
	})
}

func TestEngine_SimulateShow(t *testing.T) {
	Convey("Given a card of match, promo, match", t, func() {
		roster := model.NewRoster(performers())
		types := map[string]model.MatchType{"singles": singles()}
		slots := []model.Slot{
			model.Match{PerformerIDs: []string{"a", "b"}, CategoryID: model.CategorySingles, MatchTypeID: "singles"},
			model.Promo{PerformerID: "c"},
			model.Match{PerformerIDs: []string{"b", "a"}, CategoryID: model.CategorySingles, MatchTypeID: "singles"},
		}

		Convey("When the show is simulated", func() {
			calls := 0
			provider := func(model.Match) sim.RivalryContext {
				calls++
				return sim.RivalryContext{}
			}
			results, err := newEngine(8).SimulateShow(slots, roster, types, provider)

			Convey("Then results follow card order", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 3)
				So(results[0].Kind(), ShouldEqual, model.SlotMatch)
				So(results[1].Kind(), ShouldEqual, model.SlotPromo)
				So(results[2].Kind(), ShouldEqual, model.SlotMatch)
				So(results[1].Involved(), ShouldResemble, []string{"c"})
			})

			Convey("And the provider is asked once per match", func() {
				So(calls, ShouldEqual, 2)
			})
		})

		Convey("When a match type is unknown", func() {
			bad := []model.Slot{model.Match{PerformerIDs: []string{"a", "b"}, MatchTypeID: "nope"}}
			_, err := newEngine(8).SimulateShow(bad, roster, types, nil)

			Convey("Then the error names the match type", func() {
				So(errors.Is(err, sim.ErrUnknownMatchType), ShouldBeTrue)
			})
		})
	})
}

func TestAggregateShowRating(t *testing.T) {
	Convey("Given show results", t, func() {
		Convey("Then the rating is their mean", func() {
			results := []model.Result{
				model.MatchResult{Rating: 4.0},
				model.PromoResult{Rating: 1.0},
				model.MatchResult{Rating: 2.0},
			}
			So(sim.AggregateShowRating(results), ShouldEqual, 7.0/3.0)
		})

		Convey("Then an empty show rates exactly zero", func() {
			So(sim.AggregateShowRating(nil), ShouldEqual, 0.0)
		})
	})
}

func TestRivalryContext_Adjust(t *testing.T) {
	Convey("Given rivalry contexts", t, func() {
		Convey("Then active pairs add a quarter star each", func() {
			So(sim.RivalryContext{ActivePairs: 2}.Adjust(3.0), ShouldEqual, 3.5)
		})

		Convey("Then blowoff pairs add half a star each", func() {
			So(sim.RivalryContext{BlowoffPairs: 1}.Adjust(3.0), ShouldEqual, 3.5)
		})

		Convey("Then a cooldown costs a full star", func() {
			So(sim.RivalryContext{HasCooldown: true, ActivePairs: 1}.Adjust(3.0), ShouldEqual, 2.25)
		})

		Convey("Then the adjusted rating is clamped", func() {
			So(sim.RivalryContext{BlowoffPairs: 3}.Adjust(4.8), ShouldEqual, 5.0)
			So(sim.RivalryContext{HasCooldown: true}.Adjust(0.4), ShouldEqual, 0.0)
		})

		Convey("Then an empty context changes nothing", func() {
			So(sim.RivalryContext{}.Adjust(2.7), ShouldEqual, 2.7)
		})
	})
}
