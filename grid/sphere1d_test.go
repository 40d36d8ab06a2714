package grid

import "testing"

func TestGetZoneInnerOuter(t *testing.T) {
	g := NewSphere1D(1e8, 1e9, 10, 1e5, []int{28}, []int{56})
	if z := g.GetZone([3]float64{0, 0, 0.5e13}); z != OutOfDomain {
		t.Errorf("inside inner boundary should be OutOfDomain, got %d", z)
	}
	outer := g.radius(10)
	if z := g.GetZone([3]float64{0, 0, outer * 1.01}); z != OutOfDomain {
		t.Errorf("outside outer boundary should be OutOfDomain, got %d", z)
	}
	mid := 0.5 * (g.radius(4) + g.radius(5))
	if z := g.GetZone([3]float64{0, 0, mid}); z != 4 {
		t.Errorf("GetZone(mid of zone 4) = %d, want 4", z)
	}
}

func TestZoneVolumePositive(t *testing.T) {
	g := NewSphere1D(1e8, 1e9, 5, 1e5, nil, nil)
	for i := 0; i < g.NZones(); i++ {
		if v := g.ZoneVolume(i); v <= 0 {
			t.Errorf("zone %d volume = %v, want > 0", i, v)
		}
	}
}

func TestVelocityHomologous(t *testing.T) {
	g := NewSphere1D(1e8, 1e9, 5, 2e5, nil, nil)
	x := [3]float64{1e13, 0, 0}
	v, dvds := g.Velocity(0, x, [3]float64{1, 0, 0})
	want := x[0] / g.Time()
	if v[0] != want {
		t.Errorf("v = %v, want %v", v[0], want)
	}
	if dvds != 1.0/g.Time() {
		t.Errorf("dvds = %v, want %v", dvds, 1.0/g.Time())
	}
}

func TestPacketAtOuterRadiusEscapesOutward(t *testing.T) {
	g := NewSphere1D(1e8, 1e9, 3, 1e5, nil, nil)
	outerIdx := g.NZones() - 1
	r := g.radius(g.NZones())
	x := [3]float64{0, 0, r}
	d := [3]float64{0, 0, 1}
	dist := g.DistanceToBoundary(outerIdx, x, d)
	x2 := [3]float64{x[0], x[1], x[2] + dist}
	if z := g.GetZone(x2); z != OutOfDomain {
		t.Errorf("packet moving outward from outer radius should escape, got zone %d", z)
	}
}
