package radioactive

import (
	"math"
	"testing"
)

func TestDecayCompositionConservesMass(t *testing.T) {
	elemZ := []int{28, 27, 26}
	elemA := []int{56, 56, 56}
	X := []float64{1.0, 0.0, 0.0}

	total0 := X[0] + X[1] + X[2]
	DecayComposition(elemZ, elemA, X, 10*day)
	total1 := X[0] + X[1] + X[2]

	if math.Abs(total0-total1) > 1e-9 {
		t.Errorf("mass not conserved: %g -> %g", total0, total1)
	}
	if X[0] <= 0 || X[0] >= 1 {
		t.Errorf("Ni56 fraction at 10 days = %g, want in (0,1)", X[0])
	}
}

func TestDecayCompositionAllNiAtTimeZero(t *testing.T) {
	elemZ := []int{28, 27, 26}
	elemA := []int{56, 56, 56}
	X := []float64{1.0, 0.0, 0.0}
	DecayComposition(elemZ, elemA, X, 0)
	if math.Abs(X[0]-1) > 1e-6 {
		t.Errorf("Ni56 fraction at t=0 = %g, want 1", X[0])
	}
}

func TestDecayEnergyRatePositive(t *testing.T) {
	total, gfrac := DecayEnergyRate(28, 56, 5*day)
	if total <= 0 {
		t.Errorf("Ni56 decay energy rate = %g, want > 0", total)
	}
	if gfrac < 0 || gfrac > 1 {
		t.Errorf("gamma fraction = %g, want in [0,1]", gfrac)
	}
}

func TestDecayEnergyRateUnknownIsotopeIsZero(t *testing.T) {
	total, gfrac := DecayEnergyRate(1, 1, 100)
	if total != 0 || gfrac != 0 {
		t.Errorf("unknown isotope rate = (%g, %g), want (0, 0)", total, gfrac)
	}
}

func TestRProcessHeatingRatePositiveAndDecaying(t *testing.T) {
	early, _ := RProcessHeatingRate(0.1 * day)
	late, _ := RProcessHeatingRate(10 * day)
	if early <= 0 || late <= 0 {
		t.Fatalf("heating rate should stay positive: early=%g late=%g", early, late)
	}
	if late >= early {
		t.Errorf("heating rate should decay: early=%g, late=%g", early, late)
	}
}

func TestDecayForcesRProcessAboveZ57(t *testing.T) {
	elemZ := []int{78}
	elemA := []int{195}
	X := []float64{1.0}
	rate, gfrac := Decay(elemZ, elemA, X, 1e-13, 1*day, false)
	if rate <= 0 {
		t.Errorf("r-process rate = %g, want > 0", rate)
	}
	if gfrac != 0 {
		t.Errorf("r-process gamma fraction = %g, want 0", gfrac)
	}
}
