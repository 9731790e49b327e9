package pressure

import "testing"

func TestMswToPaRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msw  Msw
	}{
		{name: "surface", msw: 0.0},
		{name: "safety stop", msw: 5.0},
		{name: "recreational limit", msw: 40.0},
		{name: "deep stop", msw: 96.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := tt.msw.ToPa().ToMsw()
			if !AlmostEqual(float64(back), float64(tt.msw), 1e-3) {
				t.Errorf("round trip: want %v; got %v", tt.msw, back)
			}
		})
	}
}

func TestUnitRoundTripAllPairs(t *testing.T) {
	// Property 1 in spec.md §8: toU(toV(x)) ~= x within 1 part in 1e5.
	samples := []Pa{Pa(atmPa), Pa(atmPa * 2), Pa(atmPa * 5.5)}

	for _, x := range samples {
		units := []Pressure{x, x.ToHPa(), x.ToKPa(), x.ToBar(), x.ToMsw(), x.ToFsw()}
		for _, u := range units {
			back := u.ToPa()
			tol := float64(x) * 1e-5
			if tol < 1e-6 {
				tol = 1e-6
			}
			if !AlmostEqual(float64(back), float64(x), tol) {
				t.Errorf("round trip through %T: want %v Pa; got %v Pa", u, float64(x), float64(back))
			}
		}
	}
}

func TestFswToPa(t *testing.T) {
	got := Fsw(33.0).ToPa()
	want := Pa(33.0*fswPerPa + atmPa)
	if got != want {
		t.Errorf("want %v; got %v", want, got)
	}
}

func TestBarToMsw(t *testing.T) {
	// 1 atm absolute should be zero relative to the surface.
	got := Bar(1.013).ToMsw()
	if !AlmostEqual(float64(got), 0.0, 1e-2) {
		t.Errorf("want ~0 msw; got %v", got)
	}
}

func TestScalarArithmeticPreservesUnit(t *testing.T) {
	a := Msw(10.0)
	b := Msw(5.0)
	if a+b != Msw(15.0) {
		t.Errorf("want 15 msw; got %v", a+b)
	}
	if a-b != Msw(5.0) {
		t.Errorf("want 5 msw; got %v", a-b)
	}
	if a*2.0 != Msw(20.0) {
		t.Errorf("want 20 msw; got %v", a*2)
	}
	ratio := float64(a) / float64(b)
	if ratio != 2.0 {
		t.Errorf("want dimensionless ratio 2.0; got %v", ratio)
	}
}
