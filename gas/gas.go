// Package gas implements fractional gas-mix composition, partial
// pressure at depth, gas density at depth, best-mix selection and the
// isobaric counterdiffusion check. Open-circuit and closed-circuit
// (set-point) gases share the same capability set over a depth; adapted
// from the teacher's gasmix package, generalized to carry Helium and
// Hydrogen fractions and to operate on typed pressures instead of raw
// depths in metres.
package gas

import (
	"fmt"

	"github.com/divetools/thalmann/decoerr"
	"github.com/divetools/thalmann/pressure"
)

// Index of each inert gas species within a TissueLoading's per-species
// arrays. Only N2 and He are tracked by the tissue model (spec.md §3);
// H2 contributes to partial pressure and density but has no tissue
// compartment of its own in the XVAL-HE9-040 table.
const (
	N2Idx = 0
	HeIdx = 1
)

// Density constants in kg/m^3 at 1 bar (spec.md §3).
const (
	densityO2 = 1.43
	densityN2 = 1.2506
	densityHe = 0.1785
	densityH2 = 0.0899
)

// Operational oxygen ceilings and density ceilings (spec.md §4.2).
const (
	MaxPO2Working    = pressure.Bar(1.4)
	MaxPO2Deco       = pressure.Bar(1.6)
	MaxPO2CCRWorking = pressure.Bar(1.3)
	MaxO2CCRDeco     = pressure.Bar(1.5)
	MaxO2Diluent     = pressure.Bar(1.1)

	MaxGasDensity      = pressure.Bar(5.2)
	MaxGasDensityLimit = pressure.Bar(6.2)
)

// Mix is a breathing gas's fractional composition. FN2 is derived, never
// stored, so that the invariant fO2+fHe+fH2+fN2 == 1 cannot be broken by
// direct field mutation.
type Mix struct {
	fO2 float64
	fHe float64
	fH2 float64
}

// Air is the canonical air mix. Air's trace Helium content is treated as
// numerically nonzero (spec.md §3), so a surface-equilibrated loading on
// air carries a small nonzero Helium partial pressure rather than exactly
// zero.
var Air = Mix{fO2: 0.21, fHe: 5.2e-6}

// NewMix constructs a gas mix from its Oxygen, Helium and Hydrogen
// fractions. The Nitrogen fraction is derived as 1 - fO2 - fHe - fH2.
func NewMix(fO2, fHe, fH2 float64) (Mix, error) {
	if fO2 < 0 || fHe < 0 || fH2 < 0 {
		return Mix{}, fmt.Errorf("%w: fractions must be non-negative (fO2=%v, fHe=%v, fH2=%v)", decoerr.ErrInvalidGasMix, fO2, fHe, fH2)
	}
	if fO2+fHe+fH2 > 1.0 {
		return Mix{}, fmt.Errorf("%w: fO2 + fHe + fH2 should be <= 1, got %v", decoerr.ErrInvalidGasMix, fO2+fHe+fH2)
	}
	return Mix{fO2: fO2, fHe: fHe, fH2: fH2}, nil
}

// NewNitrox constructs a Nitrox mix with the given Oxygen fraction.
func NewNitrox(fO2 float64) (Mix, error) {
	return NewMix(fO2, 0, 0)
}

// NewTrimix constructs a Trimix mix with the given Oxygen and Helium
// fractions.
func NewTrimix(fO2, fHe float64) (Mix, error) {
	return NewMix(fO2, fHe, 0)
}

func (m Mix) FO2() float64 { return m.fO2 }
func (m Mix) FHe() float64 { return m.fHe }
func (m Mix) FH2() float64 { return m.fH2 }
func (m Mix) FN2() float64 { return 1.0 - m.fO2 - m.fHe - m.fH2 }

// PO2 returns the partial pressure of Oxygen at the given ambient depth.
func (m Mix) PO2(depth pressure.Pressure) pressure.Pa {
	return pressure.Pa(m.fO2 * float64(depth.ToPa()))
}

// PN2 returns the partial pressure of Nitrogen at the given ambient depth.
func (m Mix) PN2(depth pressure.Pressure) pressure.Pa {
	return pressure.Pa(m.FN2() * float64(depth.ToPa()))
}

// PHe returns the partial pressure of Helium at the given ambient depth.
func (m Mix) PHe(depth pressure.Pressure) pressure.Pa {
	return pressure.Pa(m.fHe * float64(depth.ToPa()))
}

// PH2 returns the partial pressure of Hydrogen at the given ambient depth.
func (m Mix) PH2(depth pressure.Pressure) pressure.Pa {
	return pressure.Pa(m.fH2 * float64(depth.ToPa()))
}

// Density returns the gas density at the given ambient depth in kg/m^3.
func (m Mix) Density(depth pressure.Pressure) float64 {
	ratio := float64(depth.ToPa()) / float64(pressure.Bar(1).ToPa())
	return (m.fO2*densityO2 + m.FN2()*densityN2 + m.fHe*densityHe + m.fH2*densityH2) * ratio
}

// BestMixFO2 returns the maximum safe Oxygen fraction at depth for the
// given operational PO2 ceiling.
func BestMixFO2(maxPO2 pressure.Pressure, depth pressure.Pressure) float64 {
	return float64(maxPO2.ToPa()) / float64(depth.ToPa())
}

// MOD returns the gas mix's Maximum Operating Depth for a given maximum
// Partial Pressure of Oxygen. Adapted from the teacher's GasMix.MOD,
// generalized to return a typed pressure instead of a raw metre float.
func (m Mix) MOD(maxPO2 pressure.Bar) pressure.Msw {
	return pressure.Msw(10.0 * (float64(maxPO2)/m.fO2 - 1.0))
}

// EAD returns the Nitrox mix's Equivalent Air Depth at the given depth.
// Adapted from the teacher's GasMix.EAD.
func (m Mix) EAD(depth pressure.Msw) pressure.Msw {
	d := float64(depth)
	if d < 0 {
		d = -d
	}
	return pressure.Msw((d+10.0)*m.FN2()/0.79 - 10.0)
}

// TissueLoadingReader is the minimal view of a tissue loading that gas
// selection needs. loading.TissueLoading satisfies this structurally, so
// gas never imports loading and the dependency graph stays acyclic.
type TissueLoadingReader interface {
	N2At(i int) pressure.Pa
	HeAt(i int) pressure.Pa
	NumTissues() int
}

// IsobaricCounterdiffusion reports whether switching to newGas at depth
// would put any compartment into the hazardous pattern of Nitrogen rising
// while Helium falls (spec.md §4.2).
func IsobaricCounterdiffusion(loading TissueLoadingReader, depth pressure.Pressure, newGas Mix) bool {
	newPN2 := newGas.PN2(depth)
	newPHe := newGas.PHe(depth)
	for i := 0; i < loading.NumTissues(); i++ {
		if loading.N2At(i) < newPN2 && loading.HeAt(i) > newPHe {
			return true
		}
	}
	return false
}

// BestAvailableMix filters gases by operational PO2 ceiling, by isobaric
// counterdiffusion safety (unless ignoreICD) and by a density limit (if
// set), then picks the survivor with the highest fO2, tie-breaking on the
// highest fHe. If no gas qualifies, it returns decoerr.ErrICDPrecondition
// when isobaric counterdiffusion was the only reason every PO2-eligible
// candidate was rejected, or decoerr.ErrNoCandidateMix otherwise.
func BestAvailableMix(maxPO2 pressure.Pressure, depth pressure.Pressure, gases []Mix, loading TissueLoadingReader, ignoreICD bool, densityLimit float64) (int, Mix, error) {
	bestFO2 := BestMixFO2(maxPO2, depth)

	bestIdx := -1
	var best Mix
	icdBlocked := false
	densityBlocked := false
	for i, g := range gases {
		if g.fO2 > bestFO2 {
			continue
		}
		if densityLimit > 0 && g.Density(depth) >= densityLimit {
			densityBlocked = true
			continue
		}
		if !ignoreICD && IsobaricCounterdiffusion(loading, depth, g) {
			icdBlocked = true
			continue
		}
		if bestIdx == -1 || g.fO2 > best.fO2 || (g.fO2 == best.fO2 && g.fHe > best.fHe) {
			bestIdx = i
			best = g
		}
	}
	if bestIdx == -1 {
		if icdBlocked && !densityBlocked {
			return 0, Mix{}, decoerr.ErrICDPrecondition
		}
		return 0, Mix{}, decoerr.ErrNoCandidateMix
	}
	return bestIdx, best, nil
}

// CCRGas is a closed-circuit rebreather gas: a diluent plus a target
// Oxygen set point. Its effective PO2 at depth is clamped to the set
// point once ambient pressure exceeds it; the remaining fractions are
// reconstituted from the diluent so the loop mix always sums to 1.
type CCRGas struct {
	Diluent  Mix
	SetPoint pressure.Bar
}

// EffectivePO2 returns min(ambient, setPoint) as an absolute pressure.
func (c CCRGas) EffectivePO2(depth pressure.Pressure) pressure.Pa {
	ambient := depth.ToPa()
	setPoint := c.SetPoint.ToPa()
	if ambient < setPoint {
		return ambient
	}
	return setPoint
}

// EffectiveMix reconstructs the loop's breathing mix at depth: the
// effective PO2 fixes fO2, and the diluent's He/N2/H2 fractions are
// scaled down proportionally so the loop mix still sums to 1.
func (c CCRGas) EffectiveMix(depth pressure.Pressure) Mix {
	fO2 := float64(c.EffectivePO2(depth)) / float64(depth.ToPa())
	if fO2 > 1.0 {
		fO2 = 1.0
	}
	remaining := 1.0 - fO2
	diluentInert := c.Diluent.fHe + c.Diluent.fH2 + c.Diluent.FN2()
	if diluentInert <= 0 {
		return Mix{fO2: fO2}
	}
	scale := remaining / diluentInert
	return Mix{
		fO2: fO2,
		fHe: c.Diluent.fHe * scale,
		fH2: c.Diluent.fH2 * scale,
	}
}

// PO2 returns the CCR loop's effective partial pressure of Oxygen.
func (c CCRGas) PO2(depth pressure.Pressure) pressure.Pa {
	return c.EffectivePO2(depth)
}

// PN2 returns the CCR loop's effective partial pressure of Nitrogen.
func (c CCRGas) PN2(depth pressure.Pressure) pressure.Pa {
	return c.EffectiveMix(depth).PN2(depth)
}

// PHe returns the CCR loop's effective partial pressure of Helium.
func (c CCRGas) PHe(depth pressure.Pressure) pressure.Pa {
	return c.EffectiveMix(depth).PHe(depth)
}
