// Package rng provides the single deterministic random stream a game session draws from.
//
// A Stream is seeded once and every draw advances it. Its full internal state
// can be captured and restored, so a saved game continues with exactly the
// draws it would have produced had it never been saved.
package rng

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// ErrRestoreState is returned when a captured state cannot be restored.
var ErrRestoreState = errors.New("restore rng state")

// Stream is a seeded PCG stream.
type Stream struct {
	seed int64
	src  *rand.PCG
	r    *rand.Rand
}

// New creates a stream from seed.
func New(seed int64) *Stream {
	// Non-cryptographic PRNG is intentional for reproducible simulation.
	// #nosec G404
	src := rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b"))
	return &Stream{seed: seed, src: src, r: rand.New(src)}
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 { return s.seed }

// Float64 draws a value in [0, 1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// IntRange draws an integer uniformly from the inclusive range [lo, hi].
// Bounds given in the wrong order are swapped. Exactly one value is consumed
// from the stream even when lo == hi.
func (s *Stream) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// State captures the stream position as an opaque blob.
func (s *Stream) State() ([]byte, error) {
	b, err := s.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("capture rng state: %w", err)
	}
	return b, nil
}

// Restore rewinds or advances the stream to a previously captured state.
func (s *Stream) Restore(state []byte) error {
	if err := s.src.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("%w: %w", ErrRestoreState, err)
	}
	return nil
}
