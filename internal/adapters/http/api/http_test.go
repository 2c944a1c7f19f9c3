package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/wrestlegm/internal/adapters/http/api"
	"github.com/okian/wrestlegm/internal/adapters/repository"
	service "github.com/okian/wrestlegm/internal/app"
	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type fixedCatalog struct{}

func (fixedCatalog) Performers(context.Context) ([]model.Performer, error) {
	return []model.Performer{
		{ID: "zed", Name: "Zed Zenith", Alignment: model.AlignmentHeel, Popularity: 60, Stamina: 70, MicSkill: 55},
		{ID: "emile", Name: "Émile Roux", Alignment: model.AlignmentFace, Popularity: 65, Stamina: 70, MicSkill: 60},
		{ID: "ada", Name: "ada Blaze", Alignment: model.AlignmentFace, Popularity: 70, Stamina: 70, MicSkill: 65},
		{ID: "brick", Name: "Brick Baron", Alignment: model.AlignmentHeel, Popularity: 55, Stamina: 70, MicSkill: 45},
		{ID: "finn", Name: "Finn Ford", Alignment: model.AlignmentFace, Popularity: 50, Stamina: 70, MicSkill: 50},
		{ID: "gus", Name: "Gus Grit", Alignment: model.AlignmentHeel, Popularity: 45, Stamina: 70, MicSkill: 40},
		{ID: "hana", Name: "Hana Hale", Alignment: model.AlignmentFace, Popularity: 58, Stamina: 70, MicSkill: 70},
		{ID: "ivo", Name: "Ivo Iron", Alignment: model.AlignmentHeel, Popularity: 52, Stamina: 70, MicSkill: 35},
	}, nil
}

func (fixedCatalog) MatchTypes(context.Context) ([]model.MatchType, error) {
	return []model.MatchType{{ID: "standard", Name: "Standard", Modifiers: model.Modifiers{RatingVariance: 4}}}, nil
}

func newMux(t *testing.T) *http.ServeMux {
	store, err := repository.NewFileStore(t.TempDir())
	So(err, ShouldBeNil)
	svc := service.New(store, fixedCatalog{}, service.WithSeed(7))
	So(svc.Start(context.Background()), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

const (
	matchAB = `{"type":"match","wrestler_ids":["ada","brick"],"match_category_id":"singles","match_type_id":"standard"}`
	promoE  = `{"type":"promo","wrestler_id":"emile"}`
	matchFG = `{"type":"match","wrestler_ids":["finn","gus"],"match_category_id":"singles","match_type_id":"standard"}`
	promoH  = `{"type":"promo","wrestler_id":"hana"}`
	matchIZ = `{"type":"match","wrestler_ids":["ivo","zed"],"match_category_id":"singles","match_type_id":"standard"}`
)

func bookCard(mux *http.ServeMux) {
	for i, body := range []string{matchAB, promoE, matchFG, promoH, matchIZ} {
		w := do(mux, http.MethodPut, "/card/"+string(rune('0'+i)), body)
		So(w.Code, ShouldEqual, http.StatusOK)
	}
}

func TestServer_Health(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux := newMux(t)

		Convey("Then healthz answers ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("Then metrics are exposed", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "wrestlegm_booking_http_requests_total")
		})

		Convey("Then unknown routes are 404", func() {
			So(do(mux, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Catalog(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux := newMux(t)

		Convey("When listing the roster", func() {
			w := do(mux, http.MethodGet, "/roster", "")

			Convey("Then performers are ordered by name ignoring case and accents", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var roster []model.Performer
				decode(w, &roster)
				names := make([]string, len(roster))
				for i, p := range roster {
					names[i] = p.ID
				}
				So(names, ShouldResemble, []string{"ada", "brick", "emile", "finn", "gus", "hana", "ivo", "zed"})
			})
		})

		Convey("When listing categories and match types", func() {
			var categories []model.MatchCategory
			decode(do(mux, http.MethodGet, "/categories", ""), &categories)
			var types []model.MatchType
			decode(do(mux, http.MethodGet, "/match-types", ""), &types)

			Convey("Then both are returned", func() {
				So(categories, ShouldHaveLength, 3)
				So(categories[2].Size, ShouldEqual, 4)
				So(types, ShouldHaveLength, 1)
			})
		})
	})
}

func TestServer_Card(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux := newMux(t)

		Convey("When booking a typo'd performer", func() {
			body := `{"type":"match","wrestler_ids":["ada","brik"],"match_category_id":"singles","match_type_id":"standard"}`
			w := do(mux, http.MethodPut, "/card/0", body)

			Convey("Then a 422 carries the codes and a suggestion", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				var resp struct {
					Code        string            `json:"code"`
					Codes       []string          `json:"codes"`
					Suggestions map[string]string `json:"suggestions"`
				}
				decode(w, &resp)
				So(resp.Code, ShouldEqual, "invalid_slot")
				So(resp.Codes, ShouldContain, "unknown_wrestler")
				So(resp.Suggestions["brik"], ShouldEqual, "brick")
			})
		})

		Convey("When booking a promo in a match position", func() {
			w := do(mux, http.MethodPut, "/card/0", promoE)

			Convey("Then the slot type mismatches", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(w.Body.String(), ShouldContainSubstring, "slot_type_mismatch")
			})
		})

		Convey("When the body or index is malformed", func() {
			So(do(mux, http.MethodPut, "/card/x", matchAB).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPut, "/card/0", `{"type":"dance"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPut, "/card/0", `null`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPut, "/card/9", matchAB).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a slot is booked", func() {
			So(do(mux, http.MethodPut, "/card/0", matchAB).Code, ShouldEqual, http.StatusOK)

			Convey("Then the card shows it and validation reports the gaps", func() {
				var card struct {
					ShowIndex int `json:"show_index"`
					Slots     []struct {
						Expected string            `json:"expected_type"`
						Slot     *model.SlotRecord `json:"slot"`
					} `json:"slots"`
				}
				decode(do(mux, http.MethodGet, "/card", ""), &card)
				So(card.ShowIndex, ShouldEqual, 1)
				So(card.Slots, ShouldHaveLength, 5)
				So(card.Slots[0].Slot.WrestlerIDs, ShouldResemble, []string{"ada", "brick"})
				So(card.Slots[1].Expected, ShouldEqual, "promo")
				So(card.Slots[1].Slot, ShouldBeNil)

				var v struct {
					Valid bool     `json:"valid"`
					Codes []string `json:"codes"`
				}
				decode(do(mux, http.MethodGet, "/card/validate", ""), &v)
				So(v.Valid, ShouldBeFalse)
				So(v.Codes, ShouldResemble, []string{"incomplete"})
			})

			Convey("Then deleting it frees the position", func() {
				So(do(mux, http.MethodDelete, "/card/0", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, http.MethodPut, "/card/2", matchAB).Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestServer_Shows(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux := newMux(t)

		Convey("When no show has run", func() {
			Convey("Then the last show is not found", func() {
				So(do(mux, http.MethodGet, "/shows/last", "").Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Then running an empty card is rejected", func() {
				w := do(mux, http.MethodPost, "/shows", "")
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(w.Body.String(), ShouldContainSubstring, "invalid_show")
			})
		})

		Convey("When a full card runs", func() {
			bookCard(mux)
			w := do(mux, http.MethodPost, "/shows", "")

			Convey("Then the results come back", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var show struct {
					Index   int               `json:"show_index"`
					Results []json.RawMessage `json:"results"`
					Rating  float64           `json:"show_rating"`
				}
				decode(w, &show)
				So(show.Index, ShouldEqual, 1)
				So(show.Results, ShouldHaveLength, 5)
				So(show.Rating, ShouldBeBetweenOrEqual, 0, 5)

				So(do(mux, http.MethodGet, "/shows/last", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then the rivalries heat up", func() {
				var info service.RivalryInfo
				decode(do(mux, http.MethodGet, "/rivalries?a=brick&b=ada", ""), &info)
				So(info.Value, ShouldEqual, 1)
				So(info.Emojis, ShouldEqual, "⚡")

				var all struct {
					Rivalries []model.RivalryState  `json:"rivalry_states"`
					Cooldowns []model.CooldownState `json:"cooldown_states"`
				}
				decode(do(mux, http.MethodGet, "/rivalries", ""), &all)
				So(all.Rivalries, ShouldHaveLength, 3)
				So(all.Cooldowns, ShouldBeEmpty)

				var emojis map[string]string
				decode(do(mux, http.MethodGet, "/rivalries/emojis?ids=ada,brick,finn", ""), &emojis)
				So(emojis["emojis"], ShouldEqual, "⚡")
			})
		})

		Convey("When a rivalry query names one side", func() {
			So(do(mux, http.MethodGet, "/rivalries?a=ada", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/rivalries/emojis", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestServer_Saves(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux := newMux(t)

		Convey("When listing slots", func() {
			var slots []repository.SlotInfo
			decode(do(mux, http.MethodGet, "/saves", ""), &slots)

			Convey("Then every slot starts empty", func() {
				So(slots, ShouldHaveLength, repository.DefaultSlotCount)
				So(slots[0].Exists, ShouldBeFalse)
			})
		})

		Convey("When saving with no slot chosen", func() {
			w := do(mux, http.MethodPost, "/saves/current", "")

			Convey("Then it conflicts", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When loading an empty slot", func() {
			w := do(mux, http.MethodPost, "/saves/2/load", "")

			Convey("Then the error code says so", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "empty_slot")
			})
		})

		Convey("When starting without a name", func() {
			w := do(mux, http.MethodPost, "/saves/1/new", `{"name":"  "}`)

			Convey("Then a name is required", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "save_slot_name_required")
			})
		})

		Convey("When a new game is started, played and saved", func() {
			So(do(mux, http.MethodPost, "/saves/1/new", `{"name":"Wrestle Kingdom"}`).Code, ShouldEqual, http.StatusCreated)
			bookCard(mux)
			So(do(mux, http.MethodPost, "/shows", "").Code, ShouldEqual, http.StatusCreated)

			w := do(mux, http.MethodPost, "/saves/current", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then the slot is listed", func() {
				var info repository.SlotInfo
				decode(w, &info)
				So(info.Name, ShouldEqual, "Wrestle Kingdom")
				So(*info.LastSavedShowIndex, ShouldEqual, 1)
			})

			Convey("Then it loads back", func() {
				w := do(mux, http.MethodPost, "/saves/1/load", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var session service.Session
				decode(w, &session)
				So(session.Slot, ShouldEqual, 1)
				So(session.ShowIndex, ShouldEqual, 2)
			})

			Convey("Then it can be cleared", func() {
				So(do(mux, http.MethodDelete, "/saves/1", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, http.MethodPost, "/saves/1/load", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a slot is out of range", func() {
			So(do(mux, http.MethodDelete, "/saves/7", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
