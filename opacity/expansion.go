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

import "math"

// lineExpansionTerm bins every line's (1 - e^-tau) Sobolev escape
// deficit by frequency and renormalizes into a per-bin extinction
// coefficient, splitting the result between absorption and scattering
// by Epsilon. Grounded on GasState::line_expansion_opacity.
func lineExpansionTerm(c *Context, s *Spectra) {
	raw := make([]float64, c.NuGrid.Size())
	for _, a := range c.Atoms {
		for i := range a.Lines {
			ln := &a.Lines[i]
			if ln.Bin < 0 || ln.Bin >= len(raw) {
				continue
			}
			raw[ln.Bin] += 1 - ln.ETau
		}
	}
	for i := range raw {
		nu := c.NuGrid.Center(i)
		opac := raw[i] * nu / c.NuGrid.Delta(i) / c.Pc.C / c.Time
		abs := c.Epsilon * opac
		scat := (1 - c.Epsilon) * opac
		s.Abs[i] += abs
		s.Scat[i] += scat
		s.Emis[i] += Planck(nu, c.Temp, c.Pc) * abs
	}
}

// fuzzExpTauMin and fuzzExpTauMax bound the safe range for computing
// 1-exp(-tau) directly; outside it the small- and large-tau limits are
// used instead, matching the reference's exp_min/exp_max guards.
const (
	fuzzExpTauMin = 1e-6
	fuzzExpTauMax = 100
)

// fuzzExpansionTerm adds the light (undetailed) fuzz-line list's
// Sobolev expansion opacity, estimating each fuzz line's lower-level
// population from its ion's ground-state Boltzmann factor rather than a
// solved level population. Grounded on
// GasState::fuzz_expansion_opacity.
func fuzzExpansionTerm(c *Context, s *Spectra) {
	absRaw := make([]float64, c.NuGrid.Size())
	scatRaw := make([]float64, c.NuGrid.Size())
	sigmaTot := c.Pc.Pi * c.Pc.Qe * c.Pc.Qe / c.Pc.Me / c.Pc.C

	for i, a := range c.Atoms {
		nDens := c.MassFrac[i] * c.Dens / (float64(c.ElemA[i]) * c.Pc.Mp)
		for j := range a.FuzzLines {
			fl := &a.FuzzLines[j]
			if fl.Bin < 0 || fl.Bin >= len(absRaw) {
				continue
			}
			nion := nDens * a.IonFrac(fl.Ion)
			part := a.Partition(fl.Ion)
			if part <= 0 {
				continue
			}
			nl := nion * math.Exp(-fl.El/c.Pc.KEV/c.Temp) / part
			lam := c.Pc.C / fl.Nu
			stimCor := 1 - math.Exp(-c.Pc.H*fl.Nu/c.Pc.K/c.Temp)
			tau := sigmaTot * lam * nl * fl.GF * stimCor * c.Time

			var etau float64
			switch {
			case tau < fuzzExpTauMin:
				etau = 1 - tau
			case tau > fuzzExpTauMax:
				etau = 0
			default:
				etau = math.Exp(-tau)
			}

			scatRaw[fl.Bin] += (1 - c.Epsilon) * (1 - etau)
			absRaw[fl.Bin] += c.Epsilon * (1 - etau)
		}
	}

	for i := range absRaw {
		nu := c.NuGrid.Center(i)
		norm := nu / c.NuGrid.Delta(i) / c.Pc.C / c.Time
		abs := absRaw[i] * norm
		scat := scatRaw[i] * norm
		s.Abs[i] += abs
		s.Scat[i] += scat
		s.Emis[i] += Planck(nu, c.Temp, c.Pc) * abs
	}
}
