package virtual

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid list config")

// Epsilon is the smallest height change that counts as a new measurement.
// Smaller differences are treated as measurement noise.
const Epsilon = 0.5

// DefaultMaxMeasurePasses bounds how many consecutive height changes a single
// item may report before the engine stops recomputing on its behalf.
const DefaultMaxMeasurePasses = 4

// Config describes how a virtual list sizes its items.
type Config struct {
	// FixedItemHeight switches the list to fixed-height mode when > 0.
	// Zero selects variable-height mode.
	FixedItemHeight float64
	// EstimatedItemHeight is the height assumed for items that have not been
	// measured yet. It also sizes the overscan band in variable-height mode.
	EstimatedItemHeight float64
	// Overscan is the number of extra items rendered past each viewport edge.
	Overscan int
	// EndThreshold is the distance from the bottom edge that signals the
	// consumer to append more items.
	EndThreshold float64
	// DedupeEndReached fires the end-reached callback once per approach
	// instead of on every qualifying update.
	DedupeEndReached bool
	// MaxMeasurePasses overrides DefaultMaxMeasurePasses when > 0.
	MaxMeasurePasses int
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	switch {
	case c.Overscan < 0:
		return fmt.Errorf("%w: overscan must be >= 0, got %d", ErrInvalidConfig, c.Overscan)
	case !(c.EstimatedItemHeight > 0) || math.IsInf(c.EstimatedItemHeight, 0):
		return fmt.Errorf("%w: estimated item height must be > 0, got %v", ErrInvalidConfig, c.EstimatedItemHeight)
	case c.FixedItemHeight < 0 || math.IsNaN(c.FixedItemHeight) || math.IsInf(c.FixedItemHeight, 0):
		return fmt.Errorf("%w: fixed item height must be >= 0, got %v", ErrInvalidConfig, c.FixedItemHeight)
	case c.EndThreshold < 0 || math.IsNaN(c.EndThreshold):
		return fmt.Errorf("%w: end threshold must be >= 0, got %v", ErrInvalidConfig, c.EndThreshold)
	case c.MaxMeasurePasses < 0:
		return fmt.Errorf("%w: max measure passes must be >= 0, got %d", ErrInvalidConfig, c.MaxMeasurePasses)
	}
	return nil
}

// Fixed reports whether the configuration selects fixed-height mode.
func (c Config) Fixed() bool {
	return c.FixedItemHeight > 0
}

func (c Config) maxMeasurePasses() int {
	if c.MaxMeasurePasses > 0 {
		return c.MaxMeasurePasses
	}
	return DefaultMaxMeasurePasses
}
