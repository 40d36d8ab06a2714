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

// Package grid declares the abstract Grid collaborator contract that the
// transport, opacity, and gas packages depend on, plus one concrete
// implementation (Sphere1D) used by tests and the demo command. Grid
// geometry, mesh I/O, and the hydrodynamic step are out of scope for
// this module; real deployments supply their own Grid.
package grid

// OutOfDomain is the sentinel zone index GetZone returns for a position
// outside every zone.
const OutOfDomain = -1

// Zone holds the per-cell physical and tally state that Transport reads
// and writes. Grid owns the physical fields; Transport writes only to
// EAbs, LRadioEmit, and JNu.
type Zone struct {
	Rho   float64            // mass density, g/cm^3
	TGas  float64            // gas temperature, K
	TRad  float64            // radiation temperature, K
	XGas  map[int]float64    // mass fraction per element, keyed by atomic number Z
	ERad  float64            // radiation energy density, erg/cm^3 (used for initial thermal emission)

	// Tallies: write-accumulating, zeroed by Transport at the start of
	// every step.
	EAbs       float64   // energy absorbed this step, erg
	LRadioEmit float64   // radioactive luminosity emitted this step, erg/s
	JNu        []float64 // binned mean intensity * dt * c accumulator, one per frequency bin

	// Derived: recomputed by the opacity engine every step.
	AbsOpac           []float64 // absorption extinction coefficient per frequency bin, cm^-1
	ScatOpac          []float64 // scattering extinction coefficient per frequency bin, cm^-1
	Emissivity        []float64 // emissivity per frequency bin
	PlanckMeanOpacity float64
	LineOpacity       []float64 // Sobolev optical depth per line
}

// Grid is the abstract geometric/fluid collaborator. Implementations own
// zone geometry and physical fields; Transport writes only to the
// designated Zone tally fields above.
type Grid interface {
	// NZones returns the number of interior zones.
	NZones() int

	// Zone returns a pointer to zone i's state. The pointer is stable
	// for the lifetime of the Grid.
	Zone(i int) *Zone

	// ZoneVolume returns the volume of zone i, cm^3.
	ZoneVolume(i int) float64

	// ZoneSize returns the characteristic size (delta-x) of zone i
	// along the propagation direction, cm.
	ZoneSize(i int) float64

	// GetZone returns the index of the zone containing position x, or
	// OutOfDomain if x lies outside every zone.
	GetZone(x [3]float64) int

	// SampleInZone returns a position uniformly distributed within zone
	// i, using three uniform deviates in [0,1).
	SampleInZone(i int, u [3]float64) [3]float64

	// Velocity returns the local fluid velocity at position x moving in
	// direction d within zone i, and d(v)/ds along that direction.
	// Homologous expansion gives v = x/t.
	Velocity(i int, x, d [3]float64) (v [3]float64, dvds float64)

	// DistanceToBoundary returns the distance from x along direction d
	// to the nearest zone boundary of zone i.
	DistanceToBoundary(i int, x, d [3]float64) float64

	// ElemZ and ElemA return the atomic numbers and atomic weights of
	// the elements present in the composition, in a fixed, shared order
	// with each other and with every Zone.XGas map.
	ElemZ() []int
	ElemA() []int
}
