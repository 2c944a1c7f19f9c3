package config

import "errors"

// Sentinel error kinds, matched with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrUnknownStore  = errors.New("unknown store")
)
