package api

import (
	"errors"
	"net/http"

	"github.com/okian/wrestlegm/internal/adapters/repository"
	service "github.com/okian/wrestlegm/internal/app"
	"github.com/okian/wrestlegm/internal/domain/model"
	"github.com/okian/wrestlegm/internal/game"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// statusFor maps a service error to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrUnknownSlotKind):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrSlotIndex):
		return http.StatusNotFound, "card_slot_not_found"
	case errors.Is(err, repository.ErrInvalidSlot):
		return http.StatusNotFound, "save_slot_not_found"
	case errors.Is(err, repository.ErrEmptySlot):
		return http.StatusNotFound, "empty_slot"
	case errors.Is(err, repository.ErrMissingSaveFile):
		return http.StatusNotFound, "missing_save_file"
	case errors.Is(err, repository.ErrCorruptSave):
		return http.StatusUnprocessableEntity, "corrupt_save_file"
	case errors.Is(err, repository.ErrUnsupportedVersion):
		return http.StatusUnprocessableEntity, "unsupported_save_version"
	case errors.Is(err, service.ErrSlotNameRequired), errors.Is(err, repository.ErrNameRequired):
		return http.StatusBadRequest, "save_slot_name_required"
	case errors.Is(err, service.ErrNoActiveSlot):
		return http.StatusConflict, "no_active_slot"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
