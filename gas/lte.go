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

// Package gas aggregates a set of atomic.Atom values into the per-zone
// gas state solver: LTE Saha-Boltzmann, NLTE rate-matrix iteration,
// electron-density root-find, and the opacity/emissivity tables they
// feed.
package gas

import (
	"math"

	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/internal/constants"
)

// solveLTE fills in ion partition functions, Saha ionization fractions,
// and Boltzmann level populations for a single atom at temperature T (K)
// and electron density ne (cm^-3). Grounded on nlte_atom::solve_lte.
func solveLTE(a *atomic.Atom, pc constants.Physical, T, ne float64) {
	for i := range a.Ions {
		a.Ions[i].Part = 0
	}
	for i := range a.Levels {
		l := &a.Levels[i]
		l.N = float64(l.G) * math.Exp(-l.E/pc.KEV/T)
		a.Ions[l.Ion].Part += l.N
	}

	// lt is the thermal de Broglie wavelength squared; pow(lt,1.5) below
	// is therefore the wavelength cubed, the Saha equation's prefactor.
	lt := pc.H * pc.H / (2 * pc.Pi * pc.Me * pc.K * T)
	fac := 2 / ne / math.Pow(lt, 1.5)

	a.Ions[0].Frac = 1.0
	norm := 1.0
	for i := 1; i < len(a.Ions); i++ {
		saha := math.Exp(-a.Ions[i-1].Chi / pc.KEV / T)
		saha = saha * (a.Ions[i].Part / a.Ions[i-1].Part) * fac
		a.Ions[i].Frac = saha * a.Ions[i-1].Frac
		if ne < 1e-50 {
			a.Ions[i].Frac = 0
		}
		norm += a.Ions[i].Frac
	}
	for i := range a.Ions {
		a.Ions[i].Frac /= norm
	}

	for i := range a.Levels {
		l := &a.Levels[i]
		ion := &a.Ions[l.Ion]
		l.N = ion.Frac * float64(l.G) * math.Exp(-l.E/pc.KEV/T) / ion.Part
		l.NLTE = l.N
		l.B = 1
	}
}

// ionizationState returns the number-weighted mean ion stage of atom a,
// used by charge-conservation root-finding.
func ionizationState(a *atomic.Atom) float64 {
	var num, den float64
	for i := range a.Levels {
		num += a.Levels[i].N * float64(a.Levels[i].Ion)
		den += a.Levels[i].N
	}
	if den == 0 {
		return 0
	}
	return num / den
}
