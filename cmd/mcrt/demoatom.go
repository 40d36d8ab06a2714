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

package main

import "github.com/gomcrt/mcrt/atomic"

// demoAtoms builds a minimal two-element atom set (an iron-like species
// with a resonance line, and a bare hydrogen-like species) so the
// command can exercise the gas solver and opacity composer without a
// real atomic-data file. AtomicDataStore (HDF5 loading of a real atomic
// line/level database) is out of scope for this module; these stand in
// for it on the demo path only.
func demoAtoms() []*atomic.Atom {
	return []*atomic.Atom{demoIron(), demoHydrogen()}
}

func demoIron() *atomic.Atom {
	a := &atomic.Atom{Z: 26, UseBetas: true}
	a.Ions = []atomic.Ion{
		{Stage: 0, GroundLevel: 0, Chi: 7.90},
		{Stage: 1, GroundLevel: 2, Chi: 16.19},
	}
	a.Levels = []atomic.Level{
		{Ion: 0, IC: 2, G: 25, E: 0.0, EIon: 7.90},
		{Ion: 0, IC: atomic.NoIonization, G: 35, E: 1.5, EIon: 6.40},
		{Ion: 1, IC: atomic.NoIonization, G: 30, E: 0.0, EIon: 16.19},
	}
	a.Lines = []atomic.Line{
		{Lower: 0, Upper: 1, Lam: 5169.0, FLU: 0.01, AUL: 2e7},
	}
	return a
}

func demoHydrogen() *atomic.Atom {
	a := &atomic.Atom{Z: 1}
	a.Ions = []atomic.Ion{
		{Stage: 0, GroundLevel: 0, Chi: 13.6},
		{Stage: 1, GroundLevel: 1, Chi: 0},
	}
	a.Levels = []atomic.Level{
		{Ion: 0, IC: 1, G: 2, E: 0.0, EIon: 13.6},
		{Ion: 1, IC: atomic.NoIonization, G: 1, E: 0.0, EIon: 0},
	}
	return a
}
