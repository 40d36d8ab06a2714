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

// Package constants holds the immutable physical-constants record shared
// read-only across every worker and thread.
package constants

import "github.com/sirupsen/logrus"

// Physical holds CGS physical constants used throughout the transport,
// opacity, and gas-state solvers. It is built once at process start and
// passed by reference; nothing in this package mutates it.
type Physical struct {
	C        float64 // speed of light, cm/s
	H        float64 // Planck constant, erg s
	K        float64 // Boltzmann constant, erg/K
	KEV      float64 // Boltzmann constant, eV/K
	Me       float64 // electron mass, g
	Mp       float64 // proton mass, g
	Qe       float64 // electron charge, esu
	SigmaT   float64 // Thomson cross-section, cm^2
	EvToErgs float64 // eV -> erg conversion
	Pi       float64
	SigmaSB  float64 // Stefan-Boltzmann constant, erg/cm^2/s/K^4
}

// Default holds the standard CGS constants used unless a caller builds
// its own Physical (e.g. for unit tests exercising degenerate limits).
var Default = Physical{
	C:        2.99792458e10,
	H:        6.6260755e-27,
	K:        1.380658e-16,
	KEV:      8.617385e-5,
	Me:       9.1093897e-28,
	Mp:       1.6726231e-24,
	Qe:       4.803e-10,
	SigmaT:   6.6524e-25,
	EvToErgs: 1.60217733e-12,
	Pi:       3.14159265358979323846,
	SigmaSB:  5.67051e-5,
}

// WorkerContext carries the process's rank among MPI-style worker
// processes, the total rank count, and the all-reduce hook used to merge
// per-zone tallies across ranks. Transport receives one of these at Init
// and never constructs its own.
type WorkerContext struct {
	Rank     int
	NRanks   int
	BaseSeed uint64

	// Reduce sums src element-wise across all ranks and returns the
	// combined result on every rank (an MPI_Allreduce(SUM) equivalent).
	// A single-rank deployment supplies the identity function.
	Reduce func(src []float64) []float64

	// Log is the structured logger transport uses at step/zone
	// boundaries only - never on the per-packet hot path. Defaults to
	// logrus's standard logger if left nil by the caller.
	Log logrus.FieldLogger
}

// SingleRank returns a WorkerContext for a non-distributed run: rank 0 of
// 1, with Reduce as the identity (no cross-process reduction needed).
func SingleRank(baseSeed uint64) WorkerContext {
	return WorkerContext{
		Rank:     0,
		NRanks:   1,
		BaseSeed: baseSeed,
		Reduce: func(src []float64) []float64 {
			return src
		},
		Log: logrus.StandardLogger(),
	}
}
