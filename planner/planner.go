// Package planner answers gas-logistics and feasibility questions about
// a planned sequence of dive stops, powered by the Thalmann/MPTT engine
// instead of an alternative decompression algorithm. Grounded on the
// teacher's diveplanner.go; the gas-logistics arithmetic (minimum gas,
// working gas, rule-of-thirds gas requirement, pulmonary oxygen
// toxicity, sawtooth-profile detection) is algorithm-agnostic and is
// carried over near-verbatim, while the decompression-limit and
// profile-charting operations are re-pointed at loading/schedule instead
// of the teacher's Bühlmann model.
package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/loading"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/schedule"
	"github.com/divetools/thalmann/tissue"
)

// Common dive-factor multipliers, used to scale SAC rate for the
// exertion level expected during a stage of the dive.
const (
	DiveFactorEasy          = 1.5
	DiveFactorModerate      = 1.8
	DiveFactorTough         = 2.0
	DiveFactorStressful     = 2.5
	DiveFactorSeriousStress = 3.0

	otuRepetitiveDiveLimit = 300.0
	otuSingleDiveLimit     = 850.0

	safetyStopDepth = pressure.Msw(5.0)
)

// Stop is a single target stop in a dive plan: a depth, how long to
// spend there, and whether it is a computed transition between two
// planned stops rather than a stop the diver chose.
type Stop struct {
	Depth        pressure.Msw
	Duration     time.Duration
	IsTransition bool
	Comment      string
}

// GasRequirement calculates the amount of breathing gas this stop
// requires for a diver with the given Surface Air Consumption (SAC)
// rate in litres/minute.
func (s *Stop) GasRequirement(sacRate, diveFactor float64) float64 {
	p := float64(s.Depth.ToBar())
	return p * sacRate * diveFactor * s.Duration.Minutes()
}

// Plan is a dive plan: its equipment/consumption parameters and the
// sequence of stops the diver intends to execute.
type Plan struct {
	Name            string
	Notes           string
	IsSoloDive      bool
	DescentRate     float64 // msw per minute
	AscentRate      float64 // msw per minute
	SACRate         float64 // litres per minute
	TankCount       int
	TankCapacity    float64
	WorkingPressure int
	DiveFactor      float64
	Gas             gas.Mix
	MaxPPO2         pressure.Bar
	Stops           []*Stop
}

// transitionDuration calculates how long, rounded up to the nearest
// minute for conservatism, it takes to move between two depths at the
// plan's configured ascent/descent rate. A delta under half a metre is
// not considered a transition and returns zero.
func (p *Plan) transitionDuration(fromD, toD pressure.Msw) time.Duration {
	depthDelta := float64(toD - fromD)

	var minutes float64
	switch {
	case depthDelta >= 0.5:
		minutes = math.Abs(depthDelta / p.DescentRate)
	case depthDelta <= -0.5:
		minutes = math.Abs(depthDelta / p.AscentRate)
	default:
		return 0
	}

	return time.Duration(math.Ceil(minutes)) * time.Minute
}

// transitionStop returns a Stop representing the transition between two
// depths; its depth is the average of the two.
func (p *Plan) transitionStop(fromD, toD pressure.Msw) *Stop {
	dir := "Descent"
	if toD < fromD {
		dir = "Ascent"
	}

	return &Stop{
		Duration:     p.transitionDuration(fromD, toD),
		Depth:        pressure.Msw(math.Abs(float64(fromD+toD) / 2.0)),
		IsTransition: true,
		Comment:      fmt.Sprintf("%s from %.1fm to %.1fm", dir, fromD, toD),
	}
}

// Profile returns every stop in the plan interleaved with the computed
// transition to it from the previous stop, plus the final transition
// back to the surface.
func (p *Plan) Profile() []*Stop {
	var currDepth pressure.Msw
	var profile []*Stop

	for _, s := range p.Stops {
		if s.Depth > 0 && s.Duration > 0 {
			t := p.transitionStop(currDepth, s.Depth)
			profile = append(profile, t, s)
			currDepth = s.Depth
		}
	}

	if len(profile) > 0 {
		t := p.transitionStop(currDepth, 0)
		profile = append(profile, t)
	}

	return profile
}

// MaxDepth returns the deepest planned stop, or zero if there are none.
func (p *Plan) MaxDepth() pressure.Msw {
	var maxDepth pressure.Msw
	for _, s := range p.Stops {
		if s.Depth > maxDepth {
			maxDepth = s.Depth
		}
	}
	return maxDepth
}

// Runtime sums the duration of every stage in the plan, including
// ascents and descents.
func (p *Plan) Runtime() time.Duration {
	var runtime time.Duration
	for _, s := range p.Profile() {
		runtime += s.Duration
	}
	return runtime
}

// DSREntry is one row of a Depth/Stop/Run table: a stop's depth, its
// duration, and the cumulative runtime at the end of it.
type DSREntry struct {
	Depth    pressure.Msw
	Duration time.Duration
	Run      time.Duration
}

// DSRTable returns the plan's non-transition stops as a Depth/Stop/Run
// table.
func (p *Plan) DSRTable() []DSREntry {
	var table []DSREntry
	var run time.Duration

	for _, s := range p.Profile() {
		run += s.Duration
		if !s.IsTransition {
			table = append(table, DSREntry{Depth: s.Depth, Duration: s.Duration, Run: run})
		}
	}

	return table
}

// POT returns the dive's cumulative Pulmonary Oxygen Toxicity in Oxygen
// Tolerance Units (OTUs): one OTU is breathing 100% Oxygen at 1 bar for
// 1 minute. The single-dive limit is 850 OTU; the repetitive-dive limit
// (day 2+) is 300 OTU.
func (p *Plan) POT() float64 {
	var otu float64
	for _, s := range p.Profile() {
		otu += float64(p.Gas.PO2(s.Depth)) / float64(pressure.Bar(1).ToPa()) * s.Duration.Minutes()
	}
	return otu
}

// MinGas returns the gas required to get two divers (or one diving solo,
// who must still carry double from two independent sources) to the
// surface in an emergency from the deepest point of the dive, including
// a safety stop.
func (p *Plan) MinGas() float64 {
	const buddyMultiplier = 2.0
	maxDepth := p.MaxDepth()
	maxPressure := float64(maxDepth.ToBar())
	avgPressure := float64(pressure.Msw(float64(maxDepth) / 2.0).ToBar())
	stopPressure := float64(safetyStopDepth.ToBar())
	ascentTime := p.transitionDuration(maxDepth, 0).Minutes()

	elevatedSACRate := p.SACRate * p.DiveFactor * buddyMultiplier * 1.5

	preparationGas := 1.0 * maxPressure * elevatedSACRate
	ascentGas := ascentTime * avgPressure * elevatedSACRate
	stopGas := 3.0 * stopPressure * elevatedSACRate

	return preparationGas + ascentGas + stopGas
}

// GasAvailable returns the total gas available across all tanks.
func (p *Plan) GasAvailable() float64 {
	return float64(p.TankCount) * p.TankCapacity * float64(p.WorkingPressure)
}

// WorkingGas is the gas available once the minimum gas reserve has been
// set aside for every tank.
func (p *Plan) WorkingGas() float64 {
	return p.GasAvailable() - (p.MinGas() * float64(p.TankCount))
}

// baseGasRequired sums the gas required for each stage of the plan with
// no contingency margin.
func (p *Plan) baseGasRequired() float64 {
	var required float64
	for _, s := range p.Profile() {
		required += s.GasRequirement(p.SACRate, p.DiveFactor)
	}
	return required
}

// GasRequired applies the rule of thirds: one third out, one third
// back, one third in reserve.
func (p *Plan) GasRequired() float64 {
	return p.baseGasRequired() * 1.5
}

// GasSpare is how much gas remains across all tanks at the end of the
// planned dive.
func (p *Plan) GasSpare() float64 {
	return p.WorkingGas() - p.GasRequired()
}

// IsSawToothProfile reports whether any planned stop is deeper than the
// one preceding it, other than the initial descent.
func (p *Plan) IsSawToothProfile() bool {
	var prevDepth pressure.Msw
	for i, s := range p.Stops {
		if s.Depth > prevDepth && i != 0 {
			return true
		}
		prevDepth = s.Depth
	}
	return false
}

// Schedule replays the plan's stops into a tissue loading seeded at
// surface equilibrium on the plan's gas, stopping the replay at the
// deepest point of the dive (the final ascent back to the surface is
// excluded), then solves the decompression schedule from there. It
// replaces the teacher's Bühlmann-driven DiveProfile.
func (p *Plan) Schedule(mValues *[tissue.NumStopDepths]tissue.Row) (schedule.StopSchedule, error) {
	l := loading.AtSurface(p.Gas, pressure.Bar(1.0).ToPa())

	maxDepth := p.MaxDepth()
	for _, s := range p.Profile() {
		loading.Update(&l, p.Gas, mValues, s.Depth, s.Duration)
		if s.Depth >= maxDepth {
			break
		}
	}

	return schedule.CalcDecoSchedule(&l, p.Gas, mValues)
}

// WithinDecoLimits reports whether the plan can be executed with no
// decompression stop obligation: it advances a tissue loading across
// every planned stop and transition and returns false as soon as
// FirstStopDepth reports any required stop. Stops already in the plan
// do not count towards meeting an obligation. It replaces the teacher's
// Bühlmann-driven WithinNDLs.
func (p *Plan) WithinDecoLimits(mValues *[tissue.NumStopDepths]tissue.Row) bool {
	l := loading.AtSurface(p.Gas, pressure.Bar(1.0).ToPa())

	for _, s := range p.Profile() {
		loading.Update(&l, p.Gas, mValues, s.Depth, s.Duration)
		if stopDepth, required := loading.FirstStopDepth(&l, mValues); required && stopDepth > 0 {
			return false
		}
	}

	return true
}

// DiveIsPossible reports whether the plan is free of a sawtooth profile,
// has non-negative spare gas, stays within the gas mix's MOD, and stays
// within the engine's decompression limits.
func (p *Plan) DiveIsPossible(mValues *[tissue.NumStopDepths]tissue.Row) bool {
	isSawTooth := p.IsSawToothProfile()
	sufficientGas := p.GasSpare() >= 0.0
	withinMOD := p.MaxDepth() <= p.Gas.MOD(p.MaxPPO2)
	withinLimits := p.WithinDecoLimits(mValues)
	return !isSawTooth && sufficientGas && withinMOD && withinLimits
}
