package metrics

// Persistence outcomes used as label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
