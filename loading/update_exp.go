//go:build !thalmann

// Package loading's default build implements the pure Schreiner
// (exponential-only) update law and its matching stop-time solver.
// Grounded on the original source's update_exp.rs.
package loading

import (
	"math"
	"time"

	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/tissue"
)

// Update advances every compartment's loading across deltaTime at the
// given ambient depth, breathing breathingGas, using the Schreiner
// equation:
//
//	dP = (p_inspired - p_tissue) * (1 - e^(-k*dt))
//
// mValues is unused by the Schreiner strategy (its update law has no
// ceiling dependence); it is accepted so callers can use the same
// signature regardless of which updater strategy is built in.
func Update(l *TissueLoading, breathingGas gas.Mix, mValues *[tissue.NumStopDepths]tissue.Row, currentDepth pressure.Pressure, deltaTime time.Duration) {
	dtMinutes := deltaTime.Minutes()
	currentDepthPa := currentDepth.ToPa()

	for tissueIdx := 0; tissueIdx < tissue.NumTissues; tissueIdx++ {
		k := tissue.Compartments[tissueIdx].RateConstant()
		oneMinusExp := 1.0 - math.Exp(-k*dtMinutes)

		pInspiredN2 := pressure.Pa(float64(currentDepthPa) * breathingGas.FN2())
		deltaN2 := (float64(pInspiredN2) - float64(l.N2[tissueIdx])) * oneMinusExp
		l.N2[tissueIdx] += pressure.Pa(deltaN2)

		pInspiredHe := pressure.Pa(float64(currentDepthPa) * breathingGas.FHe())
		deltaHe := (float64(pInspiredHe) - float64(l.He[tissueIdx])) * oneMinusExp
		l.He[tissueIdx] += pressure.Pa(deltaHe)
	}
}

// StopTime returns how long a diver breathing breathingGas must remain at
// stopDepth for every compartment to come within its M-value ceiling at
// that depth, under pure exponential offgassing:
//
//	t = -ln((M - p_inspired) / (p_tissue - p_inspired)) / k
func StopTime(l *TissueLoading, breathingGas gas.Mix, mValues *[tissue.NumStopDepths]tissue.Row, stopDepth pressure.Msw) time.Duration {
	stopDepthIdx := tissue.DepthIdx(stopDepth)
	stopDepthPa := stopDepth.ToPa()

	var tStopMins float64
	for tissueIdx := 0; tissueIdx < tissue.NumTissues; tissueIdx++ {
		k := tissue.Compartments[tissueIdx].RateConstant()
		mValue := mValues[stopDepthIdx].MaxSaturation[tissueIdx]

		for _, species := range [2]struct {
			pTissue   pressure.Pa
			pInspired pressure.Pa
		}{
			{pTissue: l.N2[tissueIdx], pInspired: pressure.Pa(float64(stopDepthPa) * breathingGas.FN2())},
			{pTissue: l.He[tissueIdx], pInspired: pressure.Pa(float64(stopDepthPa) * breathingGas.FHe())},
		} {
			deltaP := float64(mValue) - float64(species.pTissue)
			if deltaP >= 0.0 {
				continue
			}
			tGasTissue := -math.Log((float64(mValue)-float64(species.pInspired))/(float64(species.pTissue)-float64(species.pInspired))) / k
			if tGasTissue > tStopMins {
				tStopMins = tGasTissue
			}
		}
	}

	return time.Duration(tStopMins * float64(time.Minute))
}
