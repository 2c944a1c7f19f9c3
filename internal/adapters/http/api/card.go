package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/game"
)

const maxSlotBody = 1 << 16

// CardHandler books and inspects the show card.
type CardHandler struct {
	deps Dependencies
}

// NewCardHandler creates a new card handler.
func NewCardHandler(deps Dependencies) *CardHandler {
	return &CardHandler{deps: deps}
}

type cardSlot struct {
	Index    int               `json:"index"`
	Expected model.SlotKind    `json:"expected_type"`
	Slot     *model.SlotRecord `json:"slot"`
	Emojis   string            `json:"emojis,omitempty"`
}

type cardResponse struct {
	ShowIndex int        `json:"show_index"`
	Slots     []cardSlot `json:"slots"`
}

type validateResponse struct {
	Valid bool        `json:"valid"`
	Codes []game.Code `json:"codes"`
}

// HandleGetCard handles GET /card.
func (h *CardHandler) HandleGetCard(w http.ResponseWriter, _ *http.Request) {
	card, err := h.deps.Card()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	session, err := h.deps.Session()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}

	resp := cardResponse{ShowIndex: session.ShowIndex, Slots: make([]cardSlot, len(card))}
	for i, slot := range card {
		kind, _ := game.SlotKindAt(i)
		entry := cardSlot{Index: i, Expected: kind, Slot: model.RecordFromSlot(slot)}
		if m, ok := slot.(model.Match); ok {
			if entry.Emojis, err = h.deps.RivalryEmojis(m.PerformerIDs); err != nil {
				writeFailure(w, err, nil)
				return
			}
		}
		resp.Slots[i] = entry
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleValidate handles GET /card/validate.
func (h *CardHandler) HandleValidate(w http.ResponseWriter, _ *http.Request) {
	codes, err := h.deps.ValidateCard()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	if codes == nil {
		codes = []game.Code{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(codes) == 0, Codes: codes})
}

// HandleSetSlot handles PUT /card/{index} with a tagged slot body.
func (h *CardHandler) HandleSetSlot(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSlotBody))
	if err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", ErrBadRequest, err), nil)
		return
	}
	slot, err := model.UnmarshalSlot(body)
	if err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", ErrBadRequest, err), nil)
		return
	}
	if slot == nil {
		writeFailure(w, fmt.Errorf("%w: slot body is empty", ErrBadRequest), nil)
		return
	}

	if err := h.deps.SetSlot(r.Context(), index, slot); err != nil {
		writeFailure(w, err, h.deps.Suggestions(slot))
		return
	}
	writeJSON(w, http.StatusOK, cardSlot{Index: index, Expected: slot.Kind(), Slot: model.RecordFromSlot(slot)})
}

// HandleClearSlot handles DELETE /card/{index}.
func (h *CardHandler) HandleClearSlot(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	if err := h.deps.ClearCardSlot(index); err != nil {
		writeFailure(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
