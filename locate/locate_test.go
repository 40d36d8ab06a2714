package locate

import (
	"math"
	"testing"
)

func TestLocateBoundaries(t *testing.T) {
	a := NewLinear(0, 10, 10)
	for i := 0; i < a.Size(); i++ {
		edge := a.Edge(i)
		const eps = 1e-9
		if got := a.Locate(edge - eps); got != i {
			t.Errorf("locate(x[%d]-eps) = %d, want %d", i, got, i)
		}
		if got := a.Locate(edge + eps); got != i+1 {
			t.Errorf("locate(x[%d]+eps) = %d, want %d", i, got, i+1)
		}
	}
}

func TestLocateUnderOverflow(t *testing.T) {
	a := NewLinear(0, 10, 5)
	if got := a.Locate(-1); got != 0 {
		t.Errorf("underflow locate = %d, want 0", got)
	}
	if got := a.Locate(100); got != a.Size() {
		t.Errorf("overflow locate = %d, want %d", got, a.Size())
	}
}

func TestLocateCatchAll(t *testing.T) {
	a := NewLinear(5, 5, 10) // start == stop -> catch-all
	if a.Size() != 1 {
		t.Fatalf("catch-all size = %d, want 1", a.Size())
	}
	if got := a.Locate(1e300); got != 0 {
		t.Errorf("catch-all locate = %d, want 0", got)
	}
}

func TestValueAtExtrapolateMonotone(t *testing.T) {
	a := NewLinear(0, 10, 5)
	y := []float64{1, 2, 3, 4, 5}
	prev := math.Inf(-1)
	for x := -5.0; x <= 15.0; x += 0.5 {
		v := a.ValueAtExtrapolate(x, y)
		if v < prev-1e-9 {
			t.Fatalf("value_at_extrapolate not monotone near x=%v: %v < %v", x, v, prev)
		}
		prev = v
	}
}

func TestCDFSampleMonotoneInU(t *testing.T) {
	c := NewCDF(4)
	c.SetValue(0, 1)
	c.SetValue(1, 2)
	c.SetValue(2, 0)
	c.SetValue(3, 1)
	c.Normalize()
	prev := -1
	for i := 0; i <= 1000; i++ {
		u := float64(i) / 1001.0
		idx := c.Sample(u)
		if idx < prev {
			t.Fatalf("CDF sample not monotone in u: idx=%d < prev=%d at u=%v", idx, prev, u)
		}
		prev = idx
	}
}

func TestCDFSampleRespectsWeights(t *testing.T) {
	c := NewCDF(2)
	c.SetValue(0, 0)
	c.SetValue(1, 1)
	c.Normalize()
	if idx := c.Sample(0.5); idx != 1 {
		t.Errorf("all weight in bin 1: sample(0.5) = %d, want 1", idx)
	}
}
