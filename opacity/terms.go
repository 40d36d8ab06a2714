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

package opacity

import (
	"math"

	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/internal/constants"
)

// greyTerm reproduces the reference's grey shortcut exactly: opacity
// proportional to density alone, split between absorption and
// scattering by Epsilon, with the absorptive part emitting as a
// blackbody.
func greyTerm(greyOpacity float64) Term {
	return func(c *Context, s *Spectra) {
		gopac := c.Dens * greyOpacity
		for i := 0; i < c.NuGrid.Size(); i++ {
			abs := gopac * c.Epsilon
			scat := gopac * (1 - c.Epsilon)
			s.Abs[i] += abs
			s.Scat[i] += scat
			nu := c.NuGrid.Center(i)
			s.Emis[i] += Planck(nu, c.Temp, c.Pc) * abs
		}
	}
}

// electronScatteringTerm adds Thomson scattering, plus the reference's
// small fixed thermalizing fraction of it into the absorptive channel.
func electronScatteringTerm(c *Context, s *Spectra) {
	esOpac := c.Ne * c.Pc.SigmaT
	for i := range s.Scat {
		s.Scat[i] += esOpac
		s.Abs[i] += 1e-20 * c.Epsilon * esOpac
	}
}

// freeFreeTerm is thermal bremsstrahlung under a Kramers approximation
// with unit Gaunt factor, grounded on GasState::free_free_opacity.
func freeFreeTerm(c *Context, s *Spectra) {
	var fac float64
	for i, a := range c.Atoms {
		var zEffSq float64
		for j := range a.Ions {
			stage := float64(a.Ions[j].Stage)
			zEffSq += a.Ions[j].Frac * stage * stage
		}
		nIon := c.MassFrac[i] * c.Dens / (float64(c.ElemA[i]) * c.Pc.Mp)
		fac += nIon * zEffSq
	}
	fac *= 3.7e8 * math.Pow(c.Temp, -0.5) * c.Ne

	for i := 0; i < c.NuGrid.Size(); i++ {
		nu := c.NuGrid.Center(i)
		ezeta := math.Exp(-c.Pc.H * nu / c.Pc.K / c.Temp)
		opac := fac / nu / nu / nu * (1 - ezeta)
		s.Abs[i] += opac
		s.Emis[i] += opac * Planck(nu, c.Temp, c.Pc)
	}
}

// boundFreeTerm sums every atom's photoionization extinction, weighted
// by each ionizing level's solved population, and assigns it a
// blackbody source function. Grounded on nlte_atom::bound_free_opacity;
// the reference leaves bound-free emissivity a Kirchhoff-law blackbody
// rather than a true recombination source, which this keeps.
func boundFreeTerm(c *Context, s *Spectra) {
	for i := 0; i < c.NuGrid.Size(); i++ {
		nu := c.NuGrid.Center(i)
		E := c.Pc.H * nu / c.Pc.EvToErgs
		var opac float64
		for _, a := range c.Atoms {
			for j := range a.Levels {
				l := &a.Levels[j]
				if l.IC == atomic.NoIonization {
					continue
				}
				sigma := l.Photo.ValueAt(E)
				opac += a.NDens * sigma * l.N
			}
		}
		s.Abs[i] += opac
		s.Emis[i] += opac * Planck(nu, c.Temp, c.Pc)
	}
}

// dopplerBroadening is the fixed fractional Doppler width (v/c) used for
// the detailed bound-bound profile, matching the reference's beta_dop.
const dopplerBroadening = 1e-4

// boundBoundDetailedTerm adds every line's Voigt-broadened extinction
// profile over +-10 Doppler widths, with a stimulated-emission
// correction; lines with negative corrected opacity (population
// inversion) are skipped. Grounded on nlte_atom::bound_bound_opacity.
func boundBoundDetailedTerm(c *Context, s *Spectra) {
	for _, a := range c.Atoms {
		for i := range a.Lines {
			ln := &a.Lines[i]
			nl := a.Levels[ln.Lower].N
			nu := a.Levels[ln.Upper].N
			gl := float64(a.Levels[ln.Lower].G)
			gu := float64(a.Levels[ln.Upper].G)
			if nl == 0 {
				continue
			}

			dnu := dopplerBroadening * ln.Nu
			aVoigt := ln.AUL / 4 / c.Pc.Pi / dnu

			alpha0 := nl * a.NDens * sigmaClassical(c.Pc) * ln.FLU
			alpha0 *= 1 - nu*gl/(nl*gu)
			if alpha0 < 0 {
				continue
			}

			nu1, nu2 := ln.Nu-dnu*10, ln.Nu+dnu*10
			i1, i2 := c.NuGrid.Locate(nu1), c.NuGrid.Locate(nu2)
			for j := i1; j < i2 && j < c.NuGrid.Size(); j++ {
				if j < 0 {
					continue
				}
				binNu := c.NuGrid.Center(j)
				x := (ln.Nu - binNu) / dnu
				phi := VoigtHjerting(x, aVoigt) / dnu
				s.Abs[j] += alpha0 * phi
			}
		}
	}
}

// sigmaClassical is the classical oscillator cross-section, pi e^2 /
// (m_e c), shared by the Sobolev and detailed line-opacity formulas.
func sigmaClassical(pc constants.Physical) float64 {
	return pc.Pi * pc.Qe * pc.Qe / pc.Me / pc.C
}
