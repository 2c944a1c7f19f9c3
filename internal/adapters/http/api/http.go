// Package api serves the JSON HTTP surface a booking UI drives: roster and
// catalog lookups, card booking, running shows, rivalries and save slots.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/wrestlegm/internal/adapters/repository"
	service "github.com/okian/wrestlegm/internal/app"
	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/game"
)

// Dependencies required by HTTP handlers. The session service satisfies it.
type Dependencies interface {
	Roster() ([]model.Performer, error)
	MatchTypes() ([]model.MatchType, error)

	Card() ([]model.Slot, error)
	SetSlot(ctx context.Context, index int, slot model.Slot) error
	ClearCardSlot(index int) error
	ValidateCard() ([]game.Code, error)
	Suggestions(slot model.Slot) map[string]string

	RunShow(ctx context.Context) (model.Show, error)
	LastShow() (model.Show, bool, error)

	Rivalry(a, b string) (service.RivalryInfo, error)
	RivalryEmojis(ids []string) (string, error)
	Rivalries() ([]model.RivalryState, []model.CooldownState, error)

	Session() (service.Session, error)
	ListSlots(ctx context.Context) ([]repository.SlotInfo, error)
	NewGame(ctx context.Context, slot int, name string) error
	LoadGame(ctx context.Context, slot int) error
	SaveCurrent(ctx context.Context) (repository.SlotInfo, error)
	ClearSave(ctx context.Context, slot int) error
}

// Server wires HTTP routes for the booking API.
type Server struct {
	healthHandler  *HealthHandler
	catalogHandler *CatalogHandler
	cardHandler    *CardHandler
	showHandler    *ShowHandler
	rivalryHandler *RivalryHandler
	saveHandler    *SaveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		catalogHandler: NewCatalogHandler(deps),
		cardHandler:    NewCardHandler(deps),
		showHandler:    NewShowHandler(deps),
		rivalryHandler: NewRivalryHandler(deps),
		saveHandler:    NewSaveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)

	mux.HandleFunc("GET /roster", MetricsMiddleware(s.catalogHandler.HandleRoster, "roster"))
	mux.HandleFunc("GET /match-types", MetricsMiddleware(s.catalogHandler.HandleMatchTypes, "match_types"))
	mux.HandleFunc("GET /categories", MetricsMiddleware(s.catalogHandler.HandleCategories, "categories"))

	mux.HandleFunc("GET /card", MetricsMiddleware(s.cardHandler.HandleGetCard, "card"))
	mux.HandleFunc("GET /card/validate", MetricsMiddleware(s.cardHandler.HandleValidate, "card_validate"))
	mux.HandleFunc("PUT /card/{index}", MetricsMiddleware(s.cardHandler.HandleSetSlot, "card_slot"))
	mux.HandleFunc("DELETE /card/{index}", MetricsMiddleware(s.cardHandler.HandleClearSlot, "card_slot"))

	mux.HandleFunc("POST /shows", MetricsMiddleware(s.showHandler.HandleRunShow, "shows"))
	mux.HandleFunc("GET /shows/last", MetricsMiddleware(s.showHandler.HandleLastShow, "shows_last"))

	mux.HandleFunc("GET /rivalries", MetricsMiddleware(s.rivalryHandler.HandleRivalries, "rivalries"))
	mux.HandleFunc("GET /rivalries/emojis", MetricsMiddleware(s.rivalryHandler.HandleEmojis, "rivalry_emojis"))

	mux.HandleFunc("GET /saves", MetricsMiddleware(s.saveHandler.HandleList, "saves"))
	mux.HandleFunc("POST /saves/current", MetricsMiddleware(s.saveHandler.HandleSaveCurrent, "saves_current"))
	mux.HandleFunc("POST /saves/{slot}/new", MetricsMiddleware(s.saveHandler.HandleNewGame, "saves_new"))
	mux.HandleFunc("POST /saves/{slot}/load", MetricsMiddleware(s.saveHandler.HandleLoad, "saves_load"))
	mux.HandleFunc("DELETE /saves/{slot}", MetricsMiddleware(s.saveHandler.HandleClear, "saves_clear"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validationResponse is the 422 body for a rejected booking or show.
type validationResponse struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Codes       []game.Code       `json:"codes"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure renders err, turning validation errors into 422 responses.
func writeFailure(w http.ResponseWriter, err error, suggestions map[string]string) {
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		code := "invalid_slot"
		if errors.Is(err, game.ErrInvalidShow) {
			code = "invalid_show"
		}
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Code:        code,
			Message:     verr.Error(),
			Codes:       verr.Codes,
			Suggestions: suggestions,
		})
		return
	}
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// pathInt reads an integer path value.
func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrBadRequest, name, err)
	}
	return v, nil
}
