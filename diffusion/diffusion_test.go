package diffusion

import (
	"math"
	"testing"

	"github.com/gomcrt/mcrt/grid"
	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/rng"
)

func thickGrid(n int) *grid.Sphere1D {
	g := grid.NewSphere1D(1e8, 1e9, n, 1e5, []int{26}, []int{56})
	for i := 0; i < n; i++ {
		g.Zone(i).PlanckMeanOpacity = 1e4
		g.Zone(i).JNu = make([]float64, 1)
	}
	return g
}

func TestComputeProbabilitiesSumToOne(t *testing.T) {
	g := thickGrid(5)
	probs := ComputeProbabilities(g, 1e-3, constants.Default)
	for i, p := range probs {
		sum := p.Up + p.Dn + p.Abs + p.Adv + p.Stay
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("zone %d probabilities sum to %g, want 1", i, sum)
		}
		if p.Up < 0 || p.Dn < 0 || p.Stay < 0 {
			t.Errorf("zone %d has a negative probability: %+v", i, p)
		}
	}
}

func TestComputeProbabilitiesNoInwardLeakAtInnerZone(t *testing.T) {
	g := thickGrid(5)
	probs := ComputeProbabilities(g, 1e-3, constants.Default)
	if probs[0].Dn != 0 {
		t.Errorf("innermost zone Dn = %g, want 0", probs[0].Dn)
	}
}

func TestStepDDMCConservesEscapeOrAbsorbOrStop(t *testing.T) {
	g := thickGrid(5)
	stream := rng.New(42)
	x := 0.5 * (1e8 + 1e9)
	st := &State{Zone: 2, X: [3]float64{0, 0, x}, E: 1.0}
	fate, tallies := StepDDMC(st, g, 1e-3, constants.Default, stream)
	if fate != Stopped && fate != Absorbed && fate != Escaped {
		t.Errorf("unexpected fate %d", fate)
	}
	for _, tl := range tallies {
		if tl.JNu < 0 {
			t.Errorf("negative JNu tally in zone %d: %g", tl.Zone, tl.JNu)
		}
	}
}

func TestStepIMDFromInnermostZoneNeverLeaksInward(t *testing.T) {
	g := thickGrid(5)
	probs := ComputeProbabilities(g, 1e-3, constants.Default)
	stream := rng.New(7)
	st := &State{Zone: 0, X: [3]float64{0, 0, 1.5e13}, D: [3]float64{0, 0, 1}, E: 1.0}
	for i := 0; i < 50; i++ {
		fate, _, _ := StepIMD(st, g, probs, 1e-3, constants.Default, stream)
		if fate != Stopped {
			return
		}
		if st.Zone < 0 {
			t.Fatalf("zone went negative at iteration %d", i)
		}
	}
}
