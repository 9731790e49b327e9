// Package driver implements the real-time decompression loop: it polls a
// Clock for elapsed time, samples the current depth, advances the tissue
// loading, and recomputes the current maximum allowed depth (the
// shallowest depth the diver may legally be at right now) until the
// diver has surfaced or an error occurs. Grounded on the original
// source's thalmann.rs driver function.
package driver

import (
	"time"

	"github.com/divetools/thalmann/decoerr"
	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/loading"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/tissue"
)

// Clock abstracts the wall-clock source the driver polls. SystemClock is
// the production implementation; tests and simulations can substitute a
// fake that advances time deterministically.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads elapsed time from the real wall clock. Run polls it
// in a busy-wait loop, matching the original source's driver, which has
// no sleep/yield between clock reads. This is carried as-is: spec.md §9
// calls this out as an explicit, intentional architecture note for a
// bare-metal host with no scheduler to yield to, not a bug to fix.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a SystemClock whose epoch is the moment of
// construction.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMillis returns milliseconds elapsed since the clock was constructed.
func (c *SystemClock) NowMillis() int64 {
	return time.Since(c.start).Milliseconds()
}

// DepthSampler abstracts reading the diver's actual depth. A host
// embedding this engine against a real depth sensor supplies its own
// implementation; PlaceholderDepthSampler is the engine's own default.
type DepthSampler interface {
	SampleDepth(currentMaximumAllowedDepth pressure.Msw) pressure.Msw
}

// PlaceholderDepthSampler returns currentMaximumAllowedDepth unchanged,
// i.e. it assumes the diver is always exactly at the current ceiling.
// This mirrors the original source's explicit TODO ("Measure actual
// depth") — spec.md §9 names this as an intentional placeholder for a
// real sensor integration, not a defect to remove.
type PlaceholderDepthSampler struct{}

// SampleDepth implements DepthSampler by returning the input unchanged.
func (PlaceholderDepthSampler) SampleDepth(currentMaximumAllowedDepth pressure.Msw) pressure.Msw {
	return currentMaximumAllowedDepth
}

// Outcome reports how a Run call concluded.
type Outcome struct {
	Iterations int
	Reason     string
}

// Run drives the decompression loop against maxDepth: it waits for the
// clock to advance, samples the depth, updates the tissue loading, and
// asks for the next first-stop depth, looping until either the current
// maximum allowed depth reaches the surface or no further stop is
// required. maxDepth must be at or below the last-stop depth; shallower
// values are rejected before the loop starts.
func Run(l *loading.TissueLoading, maxDepth pressure.Pressure, breathingGas gas.Mix, mValues *[tissue.NumStopDepths]tissue.Row, clock Clock, sampler DepthSampler) (Outcome, error) {
	if maxDepth.ToMsw() < tissue.LastStop {
		return Outcome{}, &decoerr.DriverError{Kind: decoerr.ErrMaxDepthTooShallow}
	}

	currentMaximumAllowedDepth := maxDepth.ToMsw()

	var prevMs, currentMs int64
	currentMs = clock.NowMillis()

	iterCount := 0
	for {
		iterCount++

		currentMs = clock.NowMillis()
		for prevMs >= currentMs {
			currentMs = clock.NowMillis()
		}

		currentDepth := sampler.SampleDepth(currentMaximumAllowedDepth)
		if currentMaximumAllowedDepth <= 0 {
			return Outcome{Iterations: iterCount, Reason: "current maximum allowed depth reached the surface"}, nil
		}

		duration := time.Duration(currentMs-prevMs) * time.Millisecond
		prevMs = currentMs

		loading.Update(l, breathingGas, mValues, currentDepth, duration)

		firstStop, required := loading.FirstStopDepth(l, mValues)
		if !required {
			return Outcome{Iterations: iterCount, Reason: "no first stop remaining"}, nil
		}
		currentMaximumAllowedDepth = firstStop

		// The stop time at the new ceiling is computed so a host embedding
		// this driver can display it; the loop itself does not block on it,
		// matching the original source (it discards the duration and
		// continues polling the clock).
		_ = loading.StopTime(l, breathingGas, mValues, currentMaximumAllowedDepth)
	}
}
