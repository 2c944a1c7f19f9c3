package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/wrestlegm/internal/domain/model"
)

// RivalryHandler reports rivalry history.
type RivalryHandler struct {
	deps Dependencies
}

// NewRivalryHandler creates a new rivalry handler.
func NewRivalryHandler(deps Dependencies) *RivalryHandler {
	return &RivalryHandler{deps: deps}
}

type rivalriesResponse struct {
	Rivalries []model.RivalryState  `json:"rivalry_states"`
	Cooldowns []model.CooldownState `json:"cooldown_states"`
}

// HandleRivalries handles GET /rivalries. With both a and b set it reports
// that pair; otherwise it lists every active rivalry and cooldown.
func (h *RivalryHandler) HandleRivalries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, b := strings.TrimSpace(q.Get("a")), strings.TrimSpace(q.Get("b"))
	switch {
	case a != "" && b != "":
		info, err := h.deps.Rivalry(a, b)
		if err != nil {
			writeFailure(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, info)
	case a != "" || b != "":
		writeFailure(w, fmt.Errorf("%w: both a and b are required", ErrBadRequest), nil)
	default:
		rivalries, cooldowns, err := h.deps.Rivalries()
		if err != nil {
			writeFailure(w, err, nil)
			return
		}
		if rivalries == nil {
			rivalries = []model.RivalryState{}
		}
		if cooldowns == nil {
			cooldowns = []model.CooldownState{}
		}
		writeJSON(w, http.StatusOK, rivalriesResponse{Rivalries: rivalries, Cooldowns: cooldowns})
	}
}

// HandleEmojis handles GET /rivalries/emojis?ids=a,b,c.
func (h *RivalryHandler) HandleEmojis(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeFailure(w, fmt.Errorf("%w: ids is required", ErrBadRequest), nil)
		return
	}
	ids := strings.Split(raw, ",")
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}
	emojis, err := h.deps.RivalryEmojis(ids)
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"emojis": emojis})
}
