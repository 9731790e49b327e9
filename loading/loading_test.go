package loading

import (
	"testing"
	"time"

	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/tissue"
)

func TestAtSurfaceEquilibrates(t *testing.T) {
	surface := pressure.Bar(1.0).ToPa()
	l := AtSurface(gas.Air, surface)
	wantN2 := gas.Air.PN2(surface)
	wantHe := gas.Air.PHe(surface)
	for i := 0; i < tissue.NumTissues; i++ {
		if l.N2[i] != wantN2 {
			t.Errorf("compartment %d: want N2 %v; got %v", i, wantN2, l.N2[i])
		}
		if l.He[i] != wantHe {
			t.Errorf("compartment %d: want He %v; got %v", i, wantHe, l.He[i])
		}
		if l.He[i] == surface {
			t.Errorf("compartment %d: He loaded to a full atmosphere of surface pressure, not air's trace fraction", i)
		}
	}
}

func TestFirstStopDepthNoneWhenUnderCeiling(t *testing.T) {
	l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
	mValues := tissue.SetM(0)
	_, ok := FirstStopDepth(&l, &mValues)
	if ok {
		t.Errorf("a surface-equilibrated loading should require no stop")
	}
}

func TestFirstStopDepthFindsDeepestViolation(t *testing.T) {
	l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
	mValues := tissue.SetM(0)
	// Force every compartment's loading far past every M-value ceiling.
	for i := range l.N2 {
		l.N2[i] = pressure.Bar(50).ToPa()
	}

	depth, ok := FirstStopDepth(&l, &mValues)
	if !ok {
		t.Fatalf("expected a required stop")
	}
	if depth != tissue.GetDepth(tissue.NumStopDepths-1) {
		t.Errorf("expected the deepest row's depth; got %v", depth)
	}
}

// Property: monotonicity. Offgassing (ambient lower than loading) should
// never increase a compartment's loading; ongassing should never decrease
// it (spec.md §8 property 2).
func TestUpdateMonotonic(t *testing.T) {
	mValues := tissue.SetM(0)

	t.Run("ongassing increases loading", func(t *testing.T) {
		l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
		before := l.N2[0]
		Update(&l, gas.Air, &mValues, pressure.Bar(4.0), 10*time.Minute)
		if l.N2[0] <= before {
			t.Errorf("descending should increase N2 loading: before %v, after %v", before, l.N2[0])
		}
	})

	t.Run("offgassing decreases loading", func(t *testing.T) {
		l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
		Update(&l, gas.Air, &mValues, pressure.Bar(4.0), 60*time.Minute)
		before := l.N2[0]
		Update(&l, gas.Air, &mValues, pressure.Bar(1.0), 10*time.Minute)
		if l.N2[0] >= before {
			t.Errorf("ascending to the surface should decrease N2 loading: before %v, after %v", before, l.N2[0])
		}
	})
}

// Property: fixed point. Holding depth constant for a very long time
// should converge loading to the ambient inspired pressure (spec.md §8
// property 3).
func TestUpdateConvergesToFixedPoint(t *testing.T) {
	mValues := tissue.SetM(0)
	l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
	depth := pressure.Bar(3.0)

	Update(&l, gas.Air, &mValues, depth, 10000*time.Minute)

	want := float64(gas.Air.PN2(depth))
	if !pressure.AlmostEqual(float64(l.N2[0]), want, want*1e-3) {
		t.Errorf("expected convergence to inspired pressure %v; got %v", want, l.N2[0])
	}
}

func TestStopTimeZeroWhenUnderCeiling(t *testing.T) {
	mValues := tissue.SetM(0)
	l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
	d := StopTime(&l, gas.Air, &mValues, tissue.GetDepth(0))
	if d != 0 {
		t.Errorf("a compartment under ceiling should require no stop time; got %v", d)
	}
}

func TestStopTimePositiveWhenOverCeiling(t *testing.T) {
	mValues := tissue.SetM(0)
	l := AtSurface(gas.Air, pressure.Bar(1.0).ToPa())
	Update(&l, gas.Air, &mValues, pressure.Bar(4.0), 120*time.Minute)

	d := StopTime(&l, gas.Air, &mValues, tissue.GetDepth(0))
	if d <= 0 {
		t.Errorf("an overloaded compartment should require positive stop time; got %v", d)
	}
}
