package repository

import "errors"

// Sentinel kinds for save-slot errors.
var (
	ErrInvalidSlot        = errors.New("invalid save slot")
	ErrEmptySlot          = errors.New("empty_slot")
	ErrMissingSaveFile    = errors.New("missing_save_file")
	ErrCorruptSave        = errors.New("corrupt_save_file")
	ErrUnsupportedVersion = errors.New("unsupported_save_version")
	ErrNameRequired       = errors.New("save slot name is required")
)
