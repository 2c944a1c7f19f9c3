package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// SaveHandler drives the save slot flows.
type SaveHandler struct {
	deps Dependencies
}

// NewSaveHandler creates a new save handler.
func NewSaveHandler(deps Dependencies) *SaveHandler {
	return &SaveHandler{deps: deps}
}

type newGameRequest struct {
	Name string `json:"name"`
}

// HandleList handles GET /saves.
func (h *SaveHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	slots, err := h.deps.ListSlots(r.Context())
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// HandleNewGame handles POST /saves/{slot}/new with a {"name"} body.
func (h *SaveHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	slot, err := pathInt(r, "slot")
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", ErrBadRequest, err), nil)
		return
	}
	if err := h.deps.NewGame(r.Context(), slot, strings.TrimSpace(req.Name)); err != nil {
		writeFailure(w, err, nil)
		return
	}
	h.writeSession(w, http.StatusCreated)
}

// HandleLoad handles POST /saves/{slot}/load.
func (h *SaveHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	slot, err := pathInt(r, "slot")
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	if err := h.deps.LoadGame(r.Context(), slot); err != nil {
		writeFailure(w, err, nil)
		return
	}
	h.writeSession(w, http.StatusOK)
}

// HandleSaveCurrent handles POST /saves/current.
func (h *SaveHandler) HandleSaveCurrent(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.SaveCurrent(r.Context())
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleClear handles DELETE /saves/{slot}.
func (h *SaveHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	slot, err := pathInt(r, "slot")
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	if err := h.deps.ClearSave(r.Context(), slot); err != nil {
		writeFailure(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaveHandler) writeSession(w http.ResponseWriter, status int) {
	session, err := h.deps.Session()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	writeJSON(w, status, session)
}
