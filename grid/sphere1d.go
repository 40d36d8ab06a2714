/*
Copyright (C) 2026 the mcrt authors.
This file is part of mcrt.

mcrt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mcrt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mcrt.  If not, see <http://www.gnu.org/licenses/>.
*/

package grid

import "math"

// Sphere1D is a 1D homologously-expanding spherical grid: zone
// boundaries sit at fixed velocity coordinates v_i, so the physical
// radius of boundary i at time t is r_i(t) = v_i * t. It is the
// reference Grid used by the DDMC/IMD test scenarios and the demo
// command; production deployments supply a richer Grid of their own.
type Sphere1D struct {
	t      float64   // current simulation time, s
	vEdges []float64 // outer velocity boundary of each zone, cm/s (len = n+1, vEdges[0] is inner)
	zones  []*Zone
	elemZ  []int
	elemA  []int
}

// NewSphere1D builds a Sphere1D with n zones between vInner and vOuter
// (cm/s), uniformly spaced in velocity, at initial time t0 (s).
func NewSphere1D(vInner, vOuter float64, n int, t0 float64, elemZ, elemA []int) *Sphere1D {
	edges := make([]float64, n+1)
	dv := (vOuter - vInner) / float64(n)
	for i := 0; i <= n; i++ {
		edges[i] = vInner + float64(i)*dv
	}
	zones := make([]*Zone, n)
	for i := range zones {
		zones[i] = &Zone{XGas: make(map[int]float64)}
	}
	return &Sphere1D{t: t0, vEdges: edges, zones: zones, elemZ: elemZ, elemA: elemA}
}

// SetTime advances the grid's homologous-expansion clock. Transport
// calls this once per step so that ZoneVolume, ZoneSize, and GetZone
// reflect the new radii.
func (g *Sphere1D) SetTime(t float64) { g.t = t }

// Time returns the grid's current homologous-expansion time.
func (g *Sphere1D) Time() float64 { return g.t }

func (g *Sphere1D) radius(i int) float64 { return g.vEdges[i] * g.t }

// NZones implements Grid.
func (g *Sphere1D) NZones() int { return len(g.zones) }

// Zone implements Grid.
func (g *Sphere1D) Zone(i int) *Zone { return g.zones[i] }

// ZoneVolume implements Grid.
func (g *Sphere1D) ZoneVolume(i int) float64 {
	rIn, rOut := g.radius(i), g.radius(i+1)
	return 4.0 / 3.0 * math.Pi * (rOut*rOut*rOut - rIn*rIn*rIn)
}

// ZoneSize implements Grid.
func (g *Sphere1D) ZoneSize(i int) float64 {
	return g.radius(i+1) - g.radius(i)
}

func radiusOf(x [3]float64) float64 {
	return math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
}

// GetZone implements Grid.
func (g *Sphere1D) GetZone(x [3]float64) int {
	r := radiusOf(x)
	if r < g.radius(0) {
		return OutOfDomain
	}
	for i := range g.zones {
		if r < g.radius(i+1) || i == len(g.zones)-1 && r <= g.radius(i+1) {
			return i
		}
	}
	return OutOfDomain
}

// SampleInZone implements Grid: it samples uniformly in volume between
// the zone's inner and outer radii, and isotropically in angle.
func (g *Sphere1D) SampleInZone(i int, u [3]float64) [3]float64 {
	rIn, rOut := g.radius(i), g.radius(i+1)
	r3 := rIn*rIn*rIn + u[0]*(rOut*rOut*rOut-rIn*rIn*rIn)
	r := math.Cbrt(r3)
	mu := 1 - 2*u[1]
	phi := 2 * math.Pi * u[2]
	smu := math.Sqrt(math.Max(0, 1-mu*mu))
	return [3]float64{r * smu * math.Cos(phi), r * smu * math.Sin(phi), r * mu}
}

// Velocity implements Grid for homologous expansion: v = x/t exactly,
// so dv/ds along any direction is 1/t.
func (g *Sphere1D) Velocity(i int, x, d [3]float64) ([3]float64, float64) {
	if g.t == 0 {
		return [3]float64{0, 0, 0}, 0
	}
	v := [3]float64{x[0] / g.t, x[1] / g.t, x[2] / g.t}
	return v, 1.0 / g.t
}

// DistanceToBoundary implements Grid: the positive root of
// |x + s*d|^2 = r_edge^2 for whichever edge (inner or outer) is struck
// first along direction d.
func (g *Sphere1D) DistanceToBoundary(i int, x, d [3]float64) float64 {
	best := math.Inf(1)
	for _, redge := range [2]float64{g.radius(i), g.radius(i + 1)} {
		if redge <= 0 {
			continue
		}
		if s, ok := raySphereDistance(x, d, redge); ok && s < best {
			best = s
		}
	}
	return best
}

// raySphereDistance returns the smallest positive distance along ray
// x + s*d to the sphere of radius r, if any.
func raySphereDistance(x, d [3]float64, r float64) (float64, bool) {
	b := x[0]*d[0] + x[1]*d[1] + x[2]*d[2]
	c := x[0]*x[0] + x[1]*x[1] + x[2]*x[2] - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	s1, s2 := -b-sq, -b+sq
	const eps = 1e-9
	if s1 > eps {
		return s1, true
	}
	if s2 > eps {
		return s2, true
	}
	return 0, false
}

// ElemZ implements Grid.
func (g *Sphere1D) ElemZ() []int { return g.elemZ }

// ElemA implements Grid.
func (g *Sphere1D) ElemA() []int { return g.elemA }
