package opacity

import (
	"math"
	"testing"

	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/locate"
)

func testContext() *Context {
	a := &atomic.Atom{
		Z:     26,
		NDens: 1e8,
		Ions: []atomic.Ion{
			{Stage: 0, Frac: 0.3},
			{Stage: 1, Frac: 0.7},
		},
	}
	return &Context{
		Atoms:    []*atomic.Atom{a},
		MassFrac: []float64{1.0},
		ElemA:    []int{56},
		Dens:     1e-13,
		Temp:     8000,
		Ne:       1e9,
		Time:     1e5,
		NuGrid:   locate.NewLog(1e13, 1e16, 0.02),
		Pc:       constants.Default,
		Epsilon:  0.5,
	}
}

func TestGreyTermSplitsAbsAndScatByEpsilon(t *testing.T) {
	c := testContext()
	comp := NewComposer(Params{GreyOpacity: 0.2})
	s := comp.Compose(c)
	for i := range s.Abs {
		if s.Abs[i] < 0 || s.Scat[i] < 0 {
			t.Fatalf("negative opacity at bin %d: abs=%g scat=%g", i, s.Abs[i], s.Scat[i])
		}
	}
	mid := c.NuGrid.Size() / 2
	want := c.Dens * 0.2
	if math.Abs(s.Abs[mid]+s.Scat[mid]-want) > 1e-12 {
		t.Errorf("grey abs+scat = %g, want %g", s.Abs[mid]+s.Scat[mid], want)
	}
}

func TestElectronScatteringOpacityMatchesThomson(t *testing.T) {
	c := testContext()
	s := newSpectra(c.NuGrid.Size())
	electronScatteringTerm(c, s)
	want := c.Ne * c.Pc.SigmaT
	for i := range s.Scat {
		if math.Abs(s.Scat[i]-want) > 1e-30 {
			t.Errorf("bin %d scat = %g, want %g", i, s.Scat[i], want)
			break
		}
	}
}

func TestVoigtHjertingAtLineCenterIsOne(t *testing.T) {
	if v := VoigtHjerting(0, 0.01); math.Abs(v-1) > 1e-6 {
		t.Errorf("H(a,0) = %g, want 1", v)
	}
}

func TestVoigtHjertingDecaysAwayFromCenter(t *testing.T) {
	h0 := VoigtHjerting(0, 0.01)
	h3 := VoigtHjerting(3, 0.01)
	if h3 >= h0 {
		t.Errorf("H(a,3)=%g should be less than H(a,0)=%g", h3, h0)
	}
}

func TestLineExpansionOpacityNonNegative(t *testing.T) {
	c := testContext()
	a := c.Atoms[0]
	a.Lines = []atomic.Line{
		{ETau: 0.5, Bin: 10},
		{ETau: 0.9, Bin: 10},
	}
	s := newSpectra(c.NuGrid.Size())
	lineExpansionTerm(c, s)
	for i := range s.Abs {
		if s.Abs[i] < 0 || s.Scat[i] < 0 {
			t.Errorf("bin %d negative: abs=%g scat=%g", i, s.Abs[i], s.Scat[i])
		}
	}
}
