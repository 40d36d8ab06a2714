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

// Package atomic models one chemical element's ion stages, levels,
// lines, and fuzz lines. Levels and lines reference each other by
// index into the owning Atom's slices - an arena + index pattern, never
// pointers, so there are no reference cycles and an Atom is trivially
// copyable for per-zone solves.
package atomic

import "gonum.org/v1/gonum/interp"

// NoIonization is the sentinel Level.IC value for a level with no
// continuum above it to ionize to (should not occur for a well-formed
// atom, but guards against an uninitialized table).
const NoIonization = -1

// XYTable is a small piecewise-linear lookup table (photoionization
// cross-section vs. energy, or recombination coefficient vs.
// temperature), matching the reference's xy_array.
type XYTable struct {
	X []float64
	Y []float64
}

// ValueAt linearly interpolates y(x). At or below the first tabulated x
// it returns 0 (photoionization cross-sections are zero below their
// threshold), above the last tabulated x it holds the last y value, and
// an empty table gives 0 everywhere.
func (t *XYTable) ValueAt(x float64) float64 {
	if len(t.X) == 0 {
		return 0
	}
	if x <= t.X[0] {
		return 0
	}
	if x >= t.X[len(t.X)-1] {
		return t.Y[len(t.Y)-1]
	}
	pl := interp.PiecewiseLinear{}
	if err := pl.Fit(t.X, t.Y); err != nil {
		return 0
	}
	return pl.Predict(x)
}

// Ion is one ionization stage of an Atom.
type Ion struct {
	Stage       int     // 0 = neutral, 1 = singly ionized, ...
	GroundLevel int     // index into Atom.Levels of this stage's ground state
	Chi         float64 // ionization energy above this stage, eV
	Part        float64 // partition function, set by SolveLTE
	Frac        float64 // fractional abundance among all stages, set by SolveLTE
}

// Level is one energy level of one ion stage.
type Level struct {
	Ion  int     // index into Atom.Ions
	IC   int     // index into Atom.Levels of the continuum level this ionizes to, or NoIonization
	G    int     // statistical weight
	E    float64 // excitation energy above the ion's ground state, eV
	EIon float64 // energy required to ionize from this level, eV

	N    float64 // population fraction, solved
	NLTE float64 // LTE population fraction
	B    float64 // departure coefficient, N / NLTE

	PIon float64 // photoionization rate, set by radiative-rate integration
	RRec float64 // recombination rate, set by radiative-rate integration

	Photo  XYTable // photoionization cross-section vs. energy (eV)
	Recomb XYTable // recombination coefficient vs. temperature (K)
}

// Line is one bound-bound radiative transition.
type Line struct {
	Lower, Upper int     // level indices
	Lam          float64 // rest wavelength, Angstrom
	FLU          float64 // oscillator strength
	AUL          float64 // Einstein A coefficient
	BUL, BLU     float64 // Einstein B coefficients
	Nu           float64 // rest-frame line-center frequency, Hz
	J            float64 // line-integrated mean intensity, set by radiative-rate integration

	Tau  float64 // Sobolev optical depth
	ETau float64 // exp(-Tau)
	Beta float64 // Sobolev escape probability
	Bin  int     // index into the shared frequency grid
}

// FuzzLine is a light line used for the fuzz-expansion opacity: no
// detailed level population is tracked, only a Boltzmann estimate from
// the ion's ground-state population.
type FuzzLine struct {
	Nu  float64 // rest-frame frequency, Hz
	El  float64 // lower-level excitation energy, eV
	GF  float64 // g * oscillator strength
	Ion int     // index into Atom.Ions
	Bin int     // index into the shared frequency grid
}

// Atom holds one chemical element's full set of ionization stages,
// levels, lines, and fuzz lines, plus the state solved for it each step.
type Atom struct {
	Z int // atomic number

	Ions      []Ion
	Levels    []Level
	Lines     []Line
	FuzzLines []FuzzLine

	NDens  float64 // number density of this atom, cm^-3
	EGamma float64 // radioactive energy deposited, erg/s/cm^3

	// UseBetas enables Sobolev escape-probability suppression of the
	// radiative bound-bound rates (set_rates' use_betas flag in the
	// reference); it also gates the NLTE solver's beta-convergence loop.
	UseBetas bool

	// NoGroundRecomb suppresses recombination onto the ground level -
	// carried from the reference even though the distilled spec never
	// names it (see SPEC_FULL.md data-model notes).
	NoGroundRecomb bool

	MinimumExtinction float64
}

// Clone returns a copy of a whose Ions/Levels/Lines/FuzzLines slices
// have independent backing arrays, so a solver writing populations into
// the clone's levels in place never touches a's. Atom templates are
// shared across zones (one per element, reused by every zone's gas
// state), so every zone needs its own clone rather than a shallow struct
// copy that would still alias the template's slices.
func (a *Atom) Clone() *Atom {
	c := *a
	c.Ions = append([]Ion(nil), a.Ions...)
	c.Levels = append([]Level(nil), a.Levels...)
	c.Lines = append([]Line(nil), a.Lines...)
	c.FuzzLines = append([]FuzzLine(nil), a.FuzzLines...)
	return &c
}

// IonFrac returns the fractional abundance of the ion stage with the
// given Stage number, or 0 if no such stage exists.
func (a *Atom) IonFrac(stage int) float64 {
	for i := range a.Ions {
		if a.Ions[i].Stage == stage {
			return a.Ions[i].Frac
		}
	}
	return 0
}

// Partition returns the partition function of the ion stage with the
// given Stage number, or -1 if no such stage exists (mirroring the
// reference's sentinel return).
func (a *Atom) Partition(stage int) float64 {
	for i := range a.Ions {
		if a.Ions[i].Stage == stage {
			return a.Ions[i].Part
		}
	}
	return -1
}

// TotalIonizationFraction returns sum_levels n_l * ion_l, a proxy for
// the mean ionization state used in electron-density charge
// conservation.
func (a *Atom) TotalIonizationFraction() float64 {
	var x float64
	for i := range a.Levels {
		x += a.Levels[i].N * float64(a.Levels[i].Ion)
	}
	return x
}
