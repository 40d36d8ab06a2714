package spectrum

import (
	"testing"

	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/locate"
)

func testSpectrum() *Spectrum {
	return New(
		locate.NewLinear(0, 10, 5),
		locate.NewLinear(1e14, 1e16, 10),
		locate.NewLinear(-1, 1, 4),
		locate.NewLinear(0, 2*3.14159265, 4),
	)
}

func TestAddAccumulatesEnergy(t *testing.T) {
	s := testSpectrum()
	s.Add(1, 5e14, 0.5, 1.0, 2.0)
	s.Add(1, 5e14, 0.5, 1.0, 3.0)
	var total float64
	for _, v := range s.Raw() {
		total += v
	}
	if total != 5.0 {
		t.Errorf("total accumulated = %g, want 5", total)
	}
}

func TestAddIgnoresOutOfRange(t *testing.T) {
	s := testSpectrum()
	s.Add(1000, 5e14, 0.5, 1.0, 2.0)
	for _, v := range s.Raw() {
		if v != 0 {
			t.Fatalf("out-of-range Add should be ignored, found %g", v)
		}
	}
}

func TestReduceSingleRankIsIdentity(t *testing.T) {
	s := testSpectrum()
	s.Add(1, 5e14, 0.5, 1.0, 2.0)
	before := append([]float64(nil), s.Raw()...)
	s.Reduce(constants.SingleRank(1))
	for i := range before {
		if before[i] != s.Raw()[i] {
			t.Errorf("single-rank reduce changed bin %d: %g -> %g", i, before[i], s.Raw()[i])
		}
	}
}

func TestReduceZoneTalliesSumsAcrossRanks(t *testing.T) {
	zones := []ZoneTally{
		{EAbs: 1.0, LRadioEmit: 2.0, JNu: []float64{1, 2}},
		{EAbs: 3.0, LRadioEmit: 4.0, JNu: []float64{3, 4}},
	}
	wc := constants.WorkerContext{
		Reduce: func(src []float64) []float64 {
			out := make([]float64, len(src))
			for i, v := range src {
				out[i] = v * 2
			}
			return out
		},
	}
	if err := ReduceZoneTallies(wc, zones); err != nil {
		t.Fatalf("ReduceZoneTallies: %v", err)
	}
	if zones[0].EAbs != 2.0 || zones[1].EAbs != 6.0 {
		t.Errorf("EAbs after reduce = %v, want [2, 6]", []float64{zones[0].EAbs, zones[1].EAbs})
	}
	if zones[0].JNu[0] != 2 || zones[1].JNu[1] != 8 {
		t.Errorf("JNu after reduce = %v", zones)
	}
}
