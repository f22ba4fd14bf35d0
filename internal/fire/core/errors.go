package core

import (
	"context"
	"errors"
)

var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidGridSize     = errors.New("grid size must be positive")
	ErrIgnitionOutOfBounds = errors.New("ignition point out of bounds")
	ErrEvenSuppressionBox  = errors.New("suppression box must be a positive odd integer")
	ErrNegativeAgentCount  = errors.New("agent count must be non-negative")
	ErrAgentOutOfBounds    = errors.New("agent position out of bounds")
	ErrNoRuns              = errors.New("no runs requested")
	ErrRunFinished         = errors.New("run is finished")
	ErrRunInternal         = errors.New("run-internal error")
)

// Error kinds carried by failed result records.
const (
	KindConfig   = "config"
	KindInternal = "internal"
	KindCanceled = "canceled"
)

// ErrorKind classifies err into one of the Kind* values, or "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidConfig):
		return KindConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
