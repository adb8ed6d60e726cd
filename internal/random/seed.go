// Package random provides seed generation helpers for deterministic systems.
//
// Crypto-sourced seeds initialize pseudo-random generators in production;
// explicit seeds reproduce any prior run. Every sampling path in the engine
// takes an injected *rand.Rand so concurrent workers stay independently
// reproducible. Seeds are non-negative so a seed logged from one run can be
// fed back verbatim through configuration.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"

	apperrors "github.com/louisbranch/rumormill/internal/platform/errors"
)

// ErrSeedOutOfRange indicates a configured seed outside the accepted range.
var ErrSeedOutOfRange = apperrors.New(apperrors.CodeSeedOutOfRange, "seed must be non-negative")

// NewSeed generates a random non-negative seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// NewSeededRNG creates a seeded random number generator.
// If seed is 0, a crypto-sourced seed is drawn and returned alongside the
// generator so callers can log it for reproducibility. Negative seeds are
// rejected with ErrSeedOutOfRange.
func NewSeededRNG(seed int64) (*mrand.Rand, int64, error) {
	if seed < 0 {
		return nil, 0, ErrSeedOutOfRange
	}
	if seed == 0 {
		fresh, err := NewSeed()
		if err != nil {
			return nil, 0, err
		}
		seed = fresh
	}
	return mrand.New(mrand.NewSource(seed)), seed, nil
}
