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

package gas

import (
	"fmt"
	"math"

	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/locate"
)

// Mode selects how a Gas solves its level populations.
type Mode int

const (
	// LTE solves every atom's populations from Saha-Boltzmann equilibrium
	// alone; no rate matrix, no radiation field coupling.
	LTE Mode = iota
	// NLTE iterates the full statistical-equilibrium rate matrix for
	// every atom, using the Sobolev escape probability to suppress
	// optically thick line rates.
	NLTE
)

// defaultNeMin and defaultNeMax bound the electron-density charge-
// conservation root-find when Gas.NeMin/NeMax are left zero.
const (
	defaultNeMin = 1e-3
	defaultNeMax = 1e20
)

// Gas is one zone's worth of composition: every element present, each
// solved to a shared temperature and electron density. It is the
// package's single entry point - transport and opacity code interact
// with a zone's composition only through a Gas.
type Gas struct {
	Atoms []*atomic.Atom
	Mode  Mode

	Temp float64 // electron/radiation temperature, K
	Ne   float64 // electron density, solved by SolveState, cm^-3
	Time float64 // homologous-expansion time, s, for Sobolev optical depths

	NuGrid *locate.Array // frequency grid indexing JNu
	JNu    []float64     // mean intensity per frequency bin, erg/s/cm^2/Hz/ster

	// NeMin, NeMax bracket the electron-density root-find. Zero means
	// use the package defaults.
	NeMin, NeMax float64

	pc constants.Physical
}

// New builds a Gas over the given atoms using physical constants pc.
func New(atoms []*atomic.Atom, pc constants.Physical) *Gas {
	return &Gas{Atoms: atoms, pc: pc}
}

// solveAtoms resolves every atom's populations at the given trial
// electron density, at the Gas's current Temp/Time/radiation field.
func (g *Gas) solveAtoms(ne float64) error {
	for _, a := range g.Atoms {
		switch g.Mode {
		case NLTE:
			if err := solveNLTE(a, g.pc, g.NuGrid, g.JNu, g.Temp, ne, g.Time); err != nil {
				return err
			}
		default:
			solveLTE(a, g.pc, g.Temp, ne)
		}
	}
	return nil
}

// electronDensityResidual is the charge-conservation function whose
// root is the self-consistent electron density: sum over atoms of
// (number density * mean ionization state) minus the trial n_e.
func (g *Gas) electronDensityResidual(ne float64) float64 {
	if err := g.solveAtoms(ne); err != nil {
		// A non-convergent trial point is treated as a large residual so
		// brent keeps searching rather than aborting on a single bad try.
		return math.Inf(1)
	}
	var sum float64
	for _, a := range g.Atoms {
		sum += a.NDens * ionizationState(a)
	}
	return sum - ne
}

// SolveState finds the self-consistent electron density by charge
// conservation, then leaves every atom's populations solved at that
// density. Grounded on transport::solve_state's electron-density Brent
// bracket, described in the original source's solve_equilibrium.cpp.
func (g *Gas) SolveState() error {
	lo, hi := g.NeMin, g.NeMax
	if lo <= 0 {
		lo = defaultNeMin
	}
	if hi <= 0 {
		hi = defaultNeMax
	}
	ne, err := brent(g.electronDensityResidual, lo, hi)
	if err != nil {
		return fmt.Errorf("gas: electron density solve: %w", err)
	}
	g.Ne = ne
	return g.solveAtoms(ne)
}

// MeanIonization returns the number-density-weighted mean ionization
// state across every atom in the gas.
func (g *Gas) MeanIonization() float64 {
	var num, den float64
	for _, a := range g.Atoms {
		num += a.NDens * ionizationState(a)
		den += a.NDens
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Validate checks the basic physical constraints every solved Gas must
// satisfy: non-negative level populations and ion fractions summing to
// one within tolerance. zone is carried only for error context.
func (g *Gas) Validate(zone int) error {
	const tol = 1e-6
	for _, a := range g.Atoms {
		var frac float64
		for i := range a.Ions {
			if a.Ions[i].Frac < 0 {
				return &UnphysicalStateError{Zone: zone, Detail: fmt.Sprintf("Z=%d ion %d frac=%g", a.Z, i, a.Ions[i].Frac)}
			}
			frac += a.Ions[i].Frac
		}
		if math.Abs(frac-1) > tol {
			return &UnphysicalStateError{Zone: zone, Detail: fmt.Sprintf("Z=%d ion fractions sum to %g", a.Z, frac)}
		}
		for i := range a.Levels {
			if a.Levels[i].N < -tol {
				return &UnphysicalStateError{Zone: zone, Detail: fmt.Sprintf("Z=%d level %d population %g", a.Z, i, a.Levels[i].N)}
			}
		}
	}
	return nil
}
