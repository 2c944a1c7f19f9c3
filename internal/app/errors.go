package service

import "errors"

var (
	// ErrNotStarted is returned by every session call made before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoActiveSlot is returned when saving without a chosen slot.
	ErrNoActiveSlot = errors.New("no active save slot")
	// ErrSlotNameRequired is returned when a save has no name to write.
	ErrSlotNameRequired = errors.New("save_slot_name_required")
)
