package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// CountingSource wraps a rand.Source and counts how many values were drawn.
type CountingSource struct {
	rand.Source
	Draws int
}

func (c *CountingSource) Int63() int64 {
	c.Draws++
	return c.Source.Int63()
}

// NewCountingRNG returns an RNG whose draws are counted by the returned source.
func NewCountingRNG(seed int64) (*rand.Rand, *CountingSource) {
	src := &CountingSource{Source: rand.NewSource(seed)}
	return rand.New(src), src
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}
