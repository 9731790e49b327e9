// Package loading tracks each tissue compartment's inert-gas partial
// pressure and exposes the first-stop predicate that scans the M-value
// table. The per-timestep update law and stop-time solver are supplied
// by one of two build-tagged files (update_exp.go or
// update_thalmann.go) selected at compile time, mirroring the original
// source's feature-gated updater strategies.
package loading

import (
	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/tissue"
)

// TissueLoading holds each compartment's current Nitrogen and Helium
// partial pressure. It satisfies gas.TissueLoadingReader structurally.
type TissueLoading struct {
	N2 [tissue.NumTissues]pressure.Pa
	He [tissue.NumTissues]pressure.Pa
}

// N2At returns compartment i's Nitrogen partial pressure.
func (l *TissueLoading) N2At(i int) pressure.Pa { return l.N2[i] }

// HeAt returns compartment i's Helium partial pressure.
func (l *TissueLoading) HeAt(i int) pressure.Pa { return l.He[i] }

// NumTissues reports the fixed compartment count.
func (l *TissueLoading) NumTissues() int { return tissue.NumTissues }

// AtSurface returns a loading with every compartment equilibrated to the
// partial pressures of breathingGas at the given surface pressure (one
// atmosphere in the ordinary case). Air's trace Helium fraction means
// He is equilibrated to a small nonzero value, not exactly zero.
func AtSurface(breathingGas gas.Mix, surface pressure.Pa) TissueLoading {
	var l TissueLoading
	n2 := breathingGas.PN2(surface)
	he := breathingGas.PHe(surface)
	for i := 0; i < tissue.NumTissues; i++ {
		l.N2[i] = n2
		l.He[i] = he
	}
	return l
}

// FirstStopDepth scans the M-value table from the deepest row to the
// shallowest and returns the first (deepest) depth at which any
// compartment's Nitrogen or Helium loading exceeds that row's ceiling.
// It returns (0, false) if no stop is required anywhere in the table.
func FirstStopDepth(l *TissueLoading, mValues *[tissue.NumStopDepths]tissue.Row) (pressure.Msw, bool) {
	for row := tissue.NumStopDepths - 1; row >= 0; row-- {
		r := mValues[row]
		for i := 0; i < tissue.NumTissues; i++ {
			if l.N2[i] > r.MaxSaturation[i] || l.He[i] > r.MaxSaturation[i] {
				return r.Depth, true
			}
		}
	}
	return 0, false
}
