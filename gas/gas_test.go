package gas

import (
	"errors"
	"testing"

	"github.com/divetools/thalmann/decoerr"
	"github.com/divetools/thalmann/pressure"
)

func TestNewMixValidation(t *testing.T) {
	tests := []struct {
		name          string
		fO2, fHe, fH2 float64
		wantErr       bool
	}{
		{name: "air-like", fO2: 0.21, fHe: 0, fH2: 0, wantErr: false},
		{name: "trimix", fO2: 0.18, fHe: 0.45, fH2: 0, wantErr: false},
		{name: "negative fraction", fO2: -0.1, fHe: 0, fH2: 0, wantErr: true},
		{name: "over 1.0", fO2: 0.8, fHe: 0.3, fH2: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMix(tt.fO2, tt.fHe, tt.fH2)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMix(%v,%v,%v) error = %v, wantErr %v", tt.fO2, tt.fHe, tt.fH2, err, tt.wantErr)
			}
		})
	}
}

func TestFN2Derived(t *testing.T) {
	m, err := NewTrimix(0.18, 0.45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1.0 - 0.18 - 0.45
	if !pressure.AlmostEqual(m.FN2(), want, 1e-9) {
		t.Errorf("FN2: want %v; got %v", want, m.FN2())
	}
}

func TestPartialPressures(t *testing.T) {
	m := Air
	depth := pressure.Bar(2.0)
	sum := float64(m.PO2(depth)) + float64(m.PN2(depth)) + float64(m.PHe(depth)) + float64(m.PH2(depth))
	if !pressure.AlmostEqual(sum, float64(depth.ToPa()), 1e-3) {
		t.Errorf("partial pressures should sum to ambient: want %v; got %v", depth.ToPa(), sum)
	}
}

func TestMOD(t *testing.T) {
	m, err := NewNitrox(0.32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.MOD(1.4)
	want := pressure.Msw(10.0 * (1.4/0.32 - 1.0))
	if !pressure.AlmostEqual(float64(got), float64(want), 1e-6) {
		t.Errorf("MOD: want %v; got %v", want, got)
	}
}

func TestEAD(t *testing.T) {
	m, err := NewNitrox(0.32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.EAD(30.0)
	if got >= 30.0 {
		t.Errorf("EAD of a leaner-than-air mix should be shallower than actual depth; got %v", got)
	}
}

type fakeLoading struct {
	n2, he [5]pressure.Pa
}

func (f fakeLoading) N2At(i int) pressure.Pa { return f.n2[i] }
func (f fakeLoading) HeAt(i int) pressure.Pa { return f.he[i] }
func (f fakeLoading) NumTissues() int        { return 5 }

func TestIsobaricCounterdiffusion(t *testing.T) {
	depth := pressure.Bar(3.0)
	newGas, _ := NewTrimix(0.18, 0.45)

	hazard := fakeLoading{
		n2: [5]pressure.Pa{0, 0, 0, 0, 0},
		he: [5]pressure.Pa{1e6, 1e6, 1e6, 1e6, 1e6},
	}
	if !IsobaricCounterdiffusion(hazard, depth, newGas) {
		t.Errorf("expected ICD hazard when loaded N2 is low and loaded He is high relative to the new gas")
	}

	safe := fakeLoading{
		n2: [5]pressure.Pa{1e6, 1e6, 1e6, 1e6, 1e6},
		he: [5]pressure.Pa{0, 0, 0, 0, 0},
	}
	if IsobaricCounterdiffusion(safe, depth, newGas) {
		t.Errorf("expected no ICD hazard when loaded N2 is already high and loaded He is already low")
	}
}

func TestBestAvailableMix(t *testing.T) {
	depth := pressure.Bar(3.0)
	loading := fakeLoading{}
	gases := []Mix{Air, mustNitrox(0.32), mustNitrox(0.5)}

	idx, best, err := BestAvailableMix(MaxPO2Working, depth, gases, loading, true, 0)
	if err != nil {
		t.Fatalf("expected a usable gas: %v", err)
	}
	if idx != 1 {
		t.Errorf("want EAN32 (index 1) to win at 3 bar; got index %d (%v)", idx, best)
	}
}

func TestBestAvailableMixICDPrecondition(t *testing.T) {
	depth := pressure.Bar(3.0)
	newGas, _ := NewTrimix(0.18, 0.45)
	hazard := fakeLoading{
		n2: [5]pressure.Pa{0, 0, 0, 0, 0},
		he: [5]pressure.Pa{1e6, 1e6, 1e6, 1e6, 1e6},
	}

	_, _, err := BestAvailableMix(MaxPO2Working, depth, []Mix{newGas}, hazard, false, 0)
	if !errors.Is(err, decoerr.ErrICDPrecondition) {
		t.Errorf("want decoerr.ErrICDPrecondition; got %v", err)
	}
}

func TestBestAvailableMixNoCandidate(t *testing.T) {
	depth := pressure.Bar(3.0)
	loading := fakeLoading{}

	_, _, err := BestAvailableMix(MaxPO2Working, depth, []Mix{mustNitrox(0.99)}, loading, true, 0)
	if !errors.Is(err, decoerr.ErrNoCandidateMix) {
		t.Errorf("want decoerr.ErrNoCandidateMix; got %v", err)
	}
}

func mustNitrox(fO2 float64) Mix {
	m, err := NewNitrox(fO2)
	if err != nil {
		panic(err)
	}
	return m
}

func TestCCRGasEffectivePO2Clamps(t *testing.T) {
	ccr := CCRGas{Diluent: Air, SetPoint: 1.2}

	shallow := pressure.Bar(1.0)
	if got := ccr.EffectivePO2(shallow); got != shallow.ToPa() {
		t.Errorf("below set point, effective PO2 should track ambient: want %v; got %v", shallow.ToPa(), got)
	}

	deep := pressure.Bar(4.0)
	want := ccr.SetPoint.ToPa()
	if got := ccr.EffectivePO2(deep); got != want {
		t.Errorf("beyond set point, effective PO2 should clamp: want %v; got %v", want, got)
	}
}

func TestCCRGasEffectiveMixSumsToOne(t *testing.T) {
	ccr := CCRGas{Diluent: Air, SetPoint: 1.2}
	depth := pressure.Bar(4.0)
	mix := ccr.EffectiveMix(depth)
	sum := mix.FO2() + mix.FHe() + mix.FH2() + mix.FN2()
	if !pressure.AlmostEqual(sum, 1.0, 1e-9) {
		t.Errorf("reconstructed loop mix should sum to 1: got %v", sum)
	}
}
