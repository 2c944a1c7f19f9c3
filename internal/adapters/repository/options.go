package repository

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSlotCount is the number of save slots offered when none is configured.
const DefaultSlotCount = 3

type options struct {
	slotCount int
	now       func() time.Time
	newID     func() string
}

func defaultOptions() options {
	return options{
		slotCount: DefaultSlotCount,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Option applies a configuration option to a Store implementation.
type Option func(*options)

// WithSlotCount sets the number of save slots.
func WithSlotCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.slotCount = n
		}
	}
}

// WithClock overrides the time source used for saved_at stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides how save ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}
