package catalog

import "errors"

// Sentinel errors for catalog loading.
var (
	ErrLoadCatalog       = errors.New("load catalog")
	ErrInvalidDefinition = errors.New("invalid definition")
)
