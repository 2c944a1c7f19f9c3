package api

import (
	"fmt"
	"net/http"
)

// ShowHandler runs shows and reports their results.
type ShowHandler struct {
	deps Dependencies
}

// NewShowHandler creates a new show handler.
func NewShowHandler(deps Dependencies) *ShowHandler {
	return &ShowHandler{deps: deps}
}

// HandleRunShow handles POST /shows.
func (h *ShowHandler) HandleRunShow(w http.ResponseWriter, r *http.Request) {
	show, err := h.deps.RunShow(r.Context())
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, show)
}

// HandleLastShow handles GET /shows/last.
func (h *ShowHandler) HandleLastShow(w http.ResponseWriter, _ *http.Request) {
	show, ok, err := h.deps.LastShow()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	if !ok {
		writeFailure(w, fmt.Errorf("%w: no show has run yet", ErrNotFound), nil)
		return
	}
	writeJSON(w, http.StatusOK, show)
}
