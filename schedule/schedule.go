// Package schedule turns a tissue loading into a concrete decompression
// schedule: a fixed-capacity list of stops, each with a depth and a
// duration, solved by repeatedly asking the loading package for the next
// required stop and how long to spend there. It also replays a recorded
// dive profile (depth samples over time) back into a tissue loading.
// Grounded on the original source's thalmann.rs (calc_deco_schedule) and
// update.rs (loadings_from_dive_profile).
package schedule

import (
	"time"

	"github.com/divetools/thalmann/decoerr"
	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/loading"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/tissue"
)

// MaxStops bounds how many stops a single schedule can hold: one per
// M-value table row, since CalcDecoSchedule resolves each row at most
// once and reports a second visit as an override error.
const MaxStops = tissue.NumStopDepths

// Stop is a single decompression stop: a depth and how long to remain
// there before ascending further.
type Stop struct {
	Depth    pressure.Msw
	Duration time.Duration
}

// StopSchedule is the fixed-capacity, shallowest-last sequence of stops
// a dive's decompression obligation resolves into, plus the total time
// to surface.
type StopSchedule struct {
	Stops   [MaxStops]Stop
	NumUsed int
	TTS     time.Duration
}

// totalTimeToSurface sums every used stop's duration.
func (s *StopSchedule) totalTimeToSurface() time.Duration {
	var tts time.Duration
	for i := 0; i < s.NumUsed; i++ {
		tts += s.Stops[i].Duration
	}
	return tts
}

// CalcDecoSchedule solves the full decompression schedule for the given
// tissue loading and breathing gas: it repeatedly finds the next required
// stop, computes how long to spend there, advances the loading through
// that stop, and continues until no further stop is required. Stops are
// appended in the order they are resolved, and each M-value table row
// can only be resolved once per call; if FirstStopDepth reports a row
// that already has a stop, that is reported as an override error rather
// than recorded a second time. Grounded on the original source's
// calc_deco_schedule_intern.
func CalcDecoSchedule(l *loading.TissueLoading, breathingGas gas.Mix, mValues *[tissue.NumStopDepths]tissue.Row) (StopSchedule, error) {
	var sched StopSchedule
	var filled [tissue.NumStopDepths]bool

	for {
		depth, required := loading.FirstStopDepth(l, mValues)
		if !required {
			break
		}

		rowIdx := tissue.DepthIdx(depth)
		if rowIdx >= MaxStops {
			return sched, &decoerr.ScheduleError{Kind: decoerr.ErrScheduleCapacity, Depth: depth}
		}
		if filled[rowIdx] {
			return sched, &decoerr.ScheduleError{Kind: decoerr.ErrScheduleOverride, Depth: depth}
		}

		duration := loading.StopTime(l, breathingGas, mValues, depth)
		loading.Update(l, breathingGas, mValues, depth, duration)

		sched.Stops[sched.NumUsed] = Stop{Depth: depth, Duration: duration}
		filled[rowIdx] = true
		sched.NumUsed++
	}

	sched.TTS = sched.totalTimeToSurface()

	return sched, nil
}

// DiveMeasurement is one recorded depth sample: the elapsed time since
// dive start, the depth at that time, and which gas index from the
// profile's gas list was being breathed.
type DiveMeasurement struct {
	TimeMs int64
	Depth  pressure.Msw
	GasIdx int
}

// DiveProfile is a recorded dive: its available gases and the ordered
// depth samples taken throughout the dive.
type DiveProfile struct {
	DiveID       string
	MaxDepth     pressure.Msw
	Gases        []gas.Mix
	Measurements []DiveMeasurement
}

// LoadingsFromDiveProfile replays a recorded dive profile into a tissue
// loading, starting every compartment equilibrated at surface pressure.
// Between consecutive samples it updates the model at the midpoint depth
// of the two samples, matching how a continuous descent/ascent between
// two recorded points is best approximated.
func LoadingsFromDiveProfile(profile DiveProfile, mValues *[tissue.NumStopDepths]tissue.Row, surface pressure.Pa) loading.TissueLoading {
	startGas := gas.Air
	if len(profile.Measurements) > 0 {
		startGas = profile.Gases[profile.Measurements[0].GasIdx]
	} else if len(profile.Gases) > 0 {
		startGas = profile.Gases[0]
	}
	l := loading.AtSurface(startGas, surface)

	for i := 1; i < len(profile.Measurements); i++ {
		prev := profile.Measurements[i-1]
		cur := profile.Measurements[i]

		deltaTime := time.Duration(cur.TimeMs-prev.TimeMs) * time.Millisecond
		midpoint := pressure.Msw((float64(prev.Depth) + float64(cur.Depth)) / 2.0)

		loading.Update(&l, profile.Gases[cur.GasIdx], mValues, midpoint, deltaTime)
	}

	return l
}
