//go:build thalmann

// The thalmann build tag selects the Navy linear-exponential (MPTT)
// update law in place of the default pure Schreiner offgassing model.
// Grounded on the original source's update_thalmann.rs.
package loading

import (
	"math"
	"time"

	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/tissue"
)

// Update advances every compartment's loading across deltaTime at the
// given ambient depth using the linear-exponential law: the compartment
// follows the Schreiner exponential toward its M-value ceiling at the
// current depth until the crossover time t_x, then switches to linear
// offgassing at the rate fixed at crossover. t_x is computed against the
// M-value row for the current depth, so Update (unlike the Schreiner
// strategy) needs the M-value table even outside of StopTime.
func Update(l *TissueLoading, breathingGas gas.Mix, mValues *[tissue.NumStopDepths]tissue.Row, currentDepth pressure.Pressure, deltaTime time.Duration) {
	dtMinutes := deltaTime.Minutes()
	currentDepthPa := currentDepth.ToPa()
	depthIdx := tissue.DepthIdx(currentDepth)

	pInspiredN2 := float64(breathingGas.PN2(currentDepthPa))
	pInspiredHe := float64(breathingGas.PHe(currentDepthPa))

	for tissueIdx := 0; tissueIdx < tissue.NumTissues; tissueIdx++ {
		k := tissue.Compartments[tissueIdx].RateConstant()
		mValue := float64(mValues[depthIdx].MaxSaturation[tissueIdx])

		l.N2[tissueIdx] = updateOne(l.N2[tissueIdx], pInspiredN2, mValue, k, dtMinutes)
		l.He[tissueIdx] = updateOne(l.He[tissueIdx], pInspiredHe, mValue, k, dtMinutes)
	}
}

// updateOne advances a single compartment's single-species loading
// across dtMinutes given the ceiling it is tracking toward. When the
// compartment is already exactly at the inspired pressure there is no
// driving force left (deltaP = 0) and t_x is not needed: the loading is
// already at its fixed point and stays there.
func updateOne(pOld pressure.Pa, pInspired, mValue, k, dtMinutes float64) pressure.Pa {
	if float64(pOld) == pInspired {
		return pOld
	}

	tX := -math.Log((mValue-pInspired)/(float64(pOld)-pInspired)) / k
	pCrossover := expPressure(pInspired, float64(pOld), k, tX)
	r := (pCrossover - pInspired) * k

	var pNew float64
	switch {
	case tX >= dtMinutes:
		pNew = expPressure(pInspired, float64(pOld), k, dtMinutes)
	case tX <= 0.0:
		pNew = float64(pOld) - r*dtMinutes
	default:
		tLin := dtMinutes - tX
		pNew = pCrossover - r*tLin
	}
	return pressure.Pa(pNew)
}

func expPressure(pInspired, pOld, k, t float64) float64 {
	return pInspired + (pOld-pInspired)*math.Exp(-k*t)
}

// StopTime returns how long a diver must remain at stopDepth for every
// compartment to reach its M-value ceiling at that depth under the
// linear-exponential law: an exponential approach to the ceiling followed
// by linear offgassing at the rate fixed when the ceiling is crossed.
func StopTime(l *TissueLoading, breathingGas gas.Mix, mValues *[tissue.NumStopDepths]tissue.Row, stopDepth pressure.Msw) time.Duration {
	stopDepthPa := stopDepth.ToPa()
	stopIdx := tissue.DepthIdx(stopDepth)

	pInspiredN2 := float64(breathingGas.PN2(stopDepthPa))
	pInspiredHe := float64(breathingGas.PHe(stopDepthPa))

	var tStopMins float64
	for tissueIdx := 0; tissueIdx < tissue.NumTissues; tissueIdx++ {
		k := tissue.Compartments[tissueIdx].RateConstant()
		mValue := float64(mValues[stopIdx].MaxSaturation[tissueIdx])

		for _, species := range [2]struct {
			pTissue   float64
			pInspired float64
		}{
			{pTissue: float64(l.N2[tissueIdx]), pInspired: pInspiredN2},
			{pTissue: float64(l.He[tissueIdx]), pInspired: pInspiredHe},
		} {
			if species.pTissue <= mValue {
				continue
			}
			if species.pTissue == species.pInspired {
				// Already at the inspired pressure but over the ceiling: no
				// exponential decay is possible (deltaP = 0), so the
				// compartment never clears under this law.
				continue
			}

			tX := -math.Log((mValue-species.pInspired)/(species.pTissue-species.pInspired)) / k

			var tTissue float64
			if tX <= 0.0 {
				r := (species.pTissue - species.pInspired) * k
				tTissue = (species.pTissue - mValue) / r
			} else {
				pCross := species.pInspired + (species.pTissue-species.pInspired)*math.Exp(-k*tX)
				if pCross <= mValue {
					tTissue = tX
				} else {
					r := (pCross - species.pInspired) * k
					tTissue = tX + (pCross-mValue)/r
				}
			}

			if tTissue > tStopMins {
				tStopMins = tTissue
			}
		}
	}

	return time.Duration(tStopMins * float64(time.Minute))
}
