package gas

import (
	"math"
	"testing"

	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/internal/constants"
)

// twoLevelHydrogen builds a minimal one-ion, two-level atom for the LTE
// and NLTE equilibrium tests.
func twoLevelHydrogen() *atomic.Atom {
	return &atomic.Atom{
		Z: 1,
		Ions: []atomic.Ion{
			{Stage: 0, GroundLevel: 0, Chi: 13.6},
			{Stage: 1, GroundLevel: 2},
		},
		Levels: []atomic.Level{
			{Ion: 0, IC: 2, G: 2, E: 0, EIon: 13.6},
			{Ion: 0, IC: 2, G: 8, E: 10.2, EIon: 3.4},
			{Ion: 1, IC: atomic.NoIonization, G: 1, E: 0, EIon: 0},
		},
		Lines: []atomic.Line{
			{Lower: 0, Upper: 1, FLU: 0.4162, AUL: 4.7e8, BUL: 1, BLU: 1, Nu: 2.47e15},
		},
		NDens: 1e10,
	}
}

func TestSolveLTEIonFractionsSumToOne(t *testing.T) {
	a := twoLevelHydrogen()
	pc := constants.Default
	solveLTE(a, pc, 10000, 1e12)

	var sum float64
	for i := range a.Ions {
		sum += a.Ions[i].Frac
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("ion fractions sum to %g, want 1", sum)
	}
	for i := range a.Levels {
		if a.Levels[i].N < 0 {
			t.Errorf("level %d population %g, want >= 0", i, a.Levels[i].N)
		}
	}
}

// TestSolveLTEMatchesSahaEquation checks the Saha ionization-fraction
// ratio against the textbook closed form directly, at a temperature and
// density low enough that ionization stays a small perturbation (so the
// two-ion normalization in solveLTE doesn't mask an exponent error the
// way a sum-to-one or monotonic-trend check would).
func TestSolveLTEMatchesSahaEquation(t *testing.T) {
	a := twoLevelHydrogen()
	pc := constants.Default
	const T = 6000.0
	const ne = 1e14

	solveLTE(a, pc, T, ne)

	u0 := float64(a.Levels[0].G) + float64(a.Levels[1].G)*math.Exp(-a.Levels[1].E/pc.KEV/T)
	u1 := float64(a.Levels[2].G)
	lamT3 := math.Pow(pc.H*pc.H/(2*pc.Pi*pc.Me*pc.K*T), 1.5)
	wantRatio := (2 / ne / lamT3) * (u1 / u0) * math.Exp(-a.Ions[0].Chi/pc.KEV/T)

	gotRatio := a.Ions[1].Frac / a.Ions[0].Frac
	if rel := math.Abs(gotRatio-wantRatio) / wantRatio; rel > 1e-9 {
		t.Errorf("ion1/ion0 fraction ratio = %g, want %g (Saha equation, rel err %g)", gotRatio, wantRatio, rel)
	}
}

func TestGasSolveStateElectronDensityConverges(t *testing.T) {
	g := New([]*atomic.Atom{twoLevelHydrogen()}, constants.Default)
	g.Temp = 10000
	if err := g.SolveState(); err != nil {
		t.Fatalf("SolveState: %v", err)
	}
	if g.Ne <= 0 {
		t.Errorf("solved n_e = %g, want > 0", g.Ne)
	}
	if err := g.Validate(0); err != nil {
		t.Errorf("Validate after SolveState: %v", err)
	}
}

func TestIonizationStateMonotonicWithTemperature(t *testing.T) {
	lowT := twoLevelHydrogen()
	highT := twoLevelHydrogen()
	pc := constants.Default
	solveLTE(lowT, pc, 3000, 1e10)
	solveLTE(highT, pc, 30000, 1e10)

	if ionizationState(highT) < ionizationState(lowT) {
		t.Errorf("mean ionization at 30000K (%g) should exceed 3000K (%g)",
			ionizationState(highT), ionizationState(lowT))
	}
}

func TestBrentFindsKnownRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	root, err := brent(f, 0, 2)
	if err != nil {
		t.Fatalf("brent: %v", err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-5 {
		t.Errorf("brent root = %g, want %g", root, math.Sqrt2)
	}
}

func TestComputeSobolevTauLaserRegimeClamps(t *testing.T) {
	a := twoLevelHydrogen()
	a.Levels[0].N = 1e-3
	a.Levels[1].N = 1.0 // n_u*g_l > n_l*g_u given g_l=2, g_u=8
	pc := constants.Default
	computeSobolevTau(a, pc, 0, 1e5)

	ln := &a.Lines[0]
	if ln.Tau != 0 || ln.Beta != 1 {
		t.Errorf("laser regime: Tau=%g Beta=%g, want Tau=0 Beta=1", ln.Tau, ln.Beta)
	}
}

func TestComputeSobolevTauOpticallyThinBetaNearOne(t *testing.T) {
	a := twoLevelHydrogen()
	a.Levels[0].N = 1e-30
	a.Levels[1].N = 0
	a.NDens = 1e10
	pc := constants.Default
	computeSobolevTau(a, pc, 0, 1e5)

	if a.Lines[0].Beta < 0.99 {
		t.Errorf("optically thin line: Beta = %g, want ~1", a.Lines[0].Beta)
	}
}
