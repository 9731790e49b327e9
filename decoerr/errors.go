// Package decoerr collects the sentinel errors raised across the
// decompression engine, plus small wrapper types that attach per-call
// context (depth, iteration count) via the standard errors.Is/errors.As
// machinery. Grounded on the error-handling pattern used across the
// example pack's internal/dynamo/errors.go-style sentinel + wrapper
// struct split.
package decoerr

import (
	"errors"
	"fmt"

	"github.com/divetools/thalmann/pressure"
)

// Sentinel errors, one per error kind named for the engine.
var (
	// ErrMaxDepthTooShallow is returned when a requested maximum depth is
	// shallower than the configured last stop.
	ErrMaxDepthTooShallow = errors.New("decoerr: maximum depth is shallower than the last stop")

	// ErrScheduleCapacity is returned when a decompression schedule would
	// need more stop slots than the schedule solver was given.
	ErrScheduleCapacity = errors.New("decoerr: not enough space to store stops for this dive")

	// ErrScheduleOverride is returned when the solver is asked to revisit
	// a stop row it has already resolved.
	ErrScheduleOverride = errors.New("decoerr: attempting to override or repeat a stop")

	// ErrInvalidGasMix is returned when a gas mix's fractions are outside
	// their valid range.
	ErrInvalidGasMix = errors.New("decoerr: invalid gas mix fractions")

	// ErrDepthSampleUnavailable names the case of a depth sampler that
	// cannot produce a fresh depth reading. driver.DepthSampler has no
	// error return, so nothing in this module returns it.
	ErrDepthSampleUnavailable = errors.New("decoerr: depth sample unavailable")

	// ErrICDPrecondition is returned when every gas a caller would
	// otherwise select causes isobaric counterdiffusion and the caller
	// required it to be prevented.
	ErrICDPrecondition = errors.New("decoerr: gas selection would cause isobaric counterdiffusion")

	// ErrNoCandidateMix is returned when no available gas satisfies the
	// operational PO2 and density limits, for a reason other than ICD.
	ErrNoCandidateMix = errors.New("decoerr: no candidate gas satisfies the operational limits")
)

// ScheduleError wraps one of the schedule sentinel errors with the depth
// at which the error was raised.
type ScheduleError struct {
	Kind  error
	Depth pressure.Msw
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("%v: at depth %.1f msw", e.Kind, float64(e.Depth))
}

func (e *ScheduleError) Unwrap() error {
	return e.Kind
}

// DriverError wraps an error encountered by the real-time driver with the
// iteration count at which it occurred.
type DriverError struct {
	Kind       error
	Iterations int
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%v: after %d iterations", e.Kind, e.Iterations)
}

func (e *DriverError) Unwrap() error {
	return e.Kind
}
