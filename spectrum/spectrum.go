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

// Package spectrum accumulates escaped packet energy into a 4D
// [time][frequency][cos-angle][azimuth] histogram and reduces per-zone
// and spectral tallies across worker processes.
package spectrum

import (
	"fmt"

	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/locate"
)

// Spectrum is a 4D escaped-energy histogram, flattened row-major in
// [time][nu][mu][phi] order.
type Spectrum struct {
	TimeGrid *locate.Array
	NuGrid   *locate.Array
	MuGrid   *locate.Array
	PhiGrid  *locate.Array

	data []float64
}

// New builds an empty Spectrum over the given axis grids.
func New(timeGrid, nuGrid, muGrid, phiGrid *locate.Array) *Spectrum {
	n := timeGrid.Size() * nuGrid.Size() * muGrid.Size() * phiGrid.Size()
	return &Spectrum{TimeGrid: timeGrid, NuGrid: nuGrid, MuGrid: muGrid, PhiGrid: phiGrid, data: make([]float64, n)}
}

func (s *Spectrum) index(it, inu, imu, iphi int) int {
	nNu, nMu, nPhi := s.NuGrid.Size(), s.MuGrid.Size(), s.PhiGrid.Size()
	return ((it*nNu+inu)*nMu+imu)*nPhi + iphi
}

// Add bins one packet's escaped energy by its escape time, frequency,
// and direction.
func (s *Spectrum) Add(t, nu, mu, phi, energy float64) {
	it := s.TimeGrid.Locate(t)
	inu := s.NuGrid.Locate(nu)
	imu := s.MuGrid.Locate(mu)
	iphi := s.PhiGrid.Locate(phi)
	if it >= s.TimeGrid.Size() || inu >= s.NuGrid.Size() || imu >= s.MuGrid.Size() || iphi >= s.PhiGrid.Size() {
		return
	}
	s.data[s.index(it, inu, imu, iphi)] += energy
}

// At returns the accumulated energy in the given bin.
func (s *Spectrum) At(it, inu, imu, iphi int) float64 {
	return s.data[s.index(it, inu, imu, iphi)]
}

// Raw exposes the flattened backing array, for Reduce and for writing
// the spectrum out.
func (s *Spectrum) Raw() []float64 { return s.data }

// Reduce all-reduces this rank's histogram against every other rank's
// via wc.Reduce, replacing the local data with the combined sum. A
// single-rank WorkerContext's identity Reduce makes this a no-op.
func (s *Spectrum) Reduce(wc constants.WorkerContext) {
	s.data = wc.Reduce(s.data)
}

// ZoneTally holds one zone's write-accumulating fields, mirroring
// grid.Zone's tally fields, so ReduceZoneTallies can merge them without
// importing the grid package. There is no import cycle to avoid (grid
// does not import spectrum); keeping this package grid-agnostic keeps
// both sides of the boundary simple.
type ZoneTally struct {
	EAbs       float64
	LRadioEmit float64
	JNu        []float64
}

// ReduceZoneTallies all-reduces every zone's scalar and per-bin tallies
// across worker processes in place.
func ReduceZoneTallies(wc constants.WorkerContext, zones []ZoneTally) error {
	n := len(zones)
	eAbs := make([]float64, n)
	lRadio := make([]float64, n)
	for i, z := range zones {
		eAbs[i] = z.EAbs
		lRadio[i] = z.LRadioEmit
	}
	eAbs = wc.Reduce(eAbs)
	lRadio = wc.Reduce(lRadio)

	var jNuLen int
	if n > 0 {
		jNuLen = len(zones[0].JNu)
	}
	flat := make([]float64, 0, n*jNuLen)
	for _, z := range zones {
		if len(z.JNu) != jNuLen {
			return fmt.Errorf("spectrum: ReduceZoneTallies: inconsistent JNu length (zone has %d, want %d)", len(z.JNu), jNuLen)
		}
		flat = append(flat, z.JNu...)
	}
	flat = wc.Reduce(flat)

	for i := range zones {
		zones[i].EAbs = eAbs[i]
		zones[i].LRadioEmit = lRadio[i]
		copy(zones[i].JNu, flat[i*jNuLen:(i+1)*jNuLen])
	}
	return nil
}
