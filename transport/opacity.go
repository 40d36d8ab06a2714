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

package transport

import (
	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/gas"
	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/locate"
	"github.com/gomcrt/mcrt/opacity"
)

// setOpacity solves every zone's gas state and composes its opacity and
// emissivity spectra, writing the results into the zone's Grid fields.
// Grounded on transport::set_opacity, which does the same zone-by-zone
// solve+compose before every propagation step. A zone whose gas solve
// fails to converge or lands on an unphysical state is logged and left
// at its last-converged opacity rather than aborting the whole step -
// per-zone solver failures are contained to the zone (see SPEC_FULL.md
// error-handling section).
func (t *Transport) setOpacity() error {
	for i := 0; i < t.Grid.NZones(); i++ {
		z := t.Grid.Zone(i)

		g := t.zoneGas(i)
		g.Mode = t.GasMode
		g.Temp = z.TGas
		g.Time = t.Now
		g.NuGrid = t.NuGrid
		g.JNu = z.JNu
		if err := g.SolveState(); err != nil {
			t.Wc.Log.WithError(err).WithField("zone", i).Warn("gas state did not converge; keeping last-solved populations")
			continue
		}
		if err := g.Validate(i); err != nil {
			t.Wc.Log.WithError(err).WithField("zone", i).Warn("unphysical gas state; keeping last-solved populations")
			continue
		}

		ctx := &opacity.Context{
			Atoms:    g.Atoms,
			MassFrac: t.massFractions(i),
			ElemA:    t.Grid.ElemA(),
			Dens:     z.Rho,
			Temp:     z.TGas,
			Ne:       g.Ne,
			Time:     t.Now,
			NuGrid:   t.NuGrid,
			Pc:       t.Pc,
			Epsilon:  t.Epsilon,
		}
		spec := t.Opac.Compose(ctx)
		z.AbsOpac = spec.Abs
		z.ScatOpac = spec.Scat
		z.Emissivity = spec.Emis
		z.PlanckMeanOpacity = planckMean(spec.Abs, z.TGas, t.NuGrid, t.Pc)
		t.zoneEmisCDF[i] = buildEmisCDF(spec.Emis, t.NuGrid)
	}
	return nil
}

// buildEmisCDF turns a zone's composed emissivity spectrum into a
// cumulative distribution usable for re-emission frequency sampling
// (thermal re-emission on absorption, and initial thermal emission).
func buildEmisCDF(emis []float64, nuGrid *locate.Array) *locate.CDF {
	cdf := locate.NewCDF(nuGrid.Size())
	for j := 0; j < nuGrid.Size(); j++ {
		cdf.SetValue(j, emis[j]*nuGrid.Delta(j))
	}
	cdf.Normalize()
	return cdf
}

// planckMean integrates a frequency-dependent absorption opacity
// against a Planck function at T to give the single grey coefficient
// the diffusion package's zone-local diffusion coefficient needs.
func planckMean(absOpac []float64, T float64, nuGrid *locate.Array, pc constants.Physical) float64 {
	var num, den float64
	for i := 0; i < nuGrid.Size(); i++ {
		nu := nuGrid.Center(i)
		dnu := nuGrid.Delta(i)
		b := opacity.Planck(nu, T, pc)
		num += absOpac[i] * b * dnu
		den += b * dnu
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// absScatOpacityAt interpolates zone i's absorption and scattering
// extinction coefficients (cm^-1) at comoving-frame frequency nuCmv.
// AbsOpac/ScatOpac already carry every density/n_e factor the composed
// terms need (see opacity.electronScatteringTerm et al.), so this is a
// plain interpolation, not a further density scaling.
func (t *Transport) absScatOpacityAt(i int, nuCmv float64) (abs, scat float64) {
	z := t.Grid.Zone(i)
	abs = t.NuGrid.ValueAt(nuCmv, z.AbsOpac)
	scat = t.NuGrid.ValueAt(nuCmv, z.ScatOpac)
	return abs, scat
}

// fourPiKappaB integrates a zone's absorption opacity against a Planck
// function at trial temperature T, the left-hand side of the
// radiative-equilibrium balance equation solved by solveEqTemperature.
func fourPiKappaB(absOpac []float64, T float64, nuGrid *locate.Array, pc constants.Physical) float64 {
	var sum float64
	for i := 0; i < nuGrid.Size(); i++ {
		nu := nuGrid.Center(i)
		dnu := nuGrid.Delta(i)
		sum += absOpac[i] * opacity.Planck(nu, T, pc) * dnu
	}
	return 4 * pc.Pi * sum
}

// zoneGas lazily builds and caches the Gas for zone i from the grid's
// composition, so repeated calls across steps reuse already-solved level
// populations/ion fractions as the initial guess; each zone's atoms are
// deep-cloned from AtomTemplates so solving one zone's gas state never
// overwrites another's (atomic.Atom's Levels/Ions/Lines/FuzzLines are
// slices, shared backing arrays otherwise). NDens is refreshed from the
// zone's current Rho/XGas on every call, not just on first build, since
// decayComposition evolves XGas every step and the cached Gas must track
// it even while its solved populations stay warm-started.
func (t *Transport) zoneGas(i int) *gas.Gas {
	z := t.Grid.Zone(i)
	if t.zoneGases[i] == nil {
		atoms := make([]*atomic.Atom, len(t.AtomTemplates))
		for k, tpl := range t.AtomTemplates {
			atoms[k] = tpl.Clone()
		}
		t.zoneGases[i] = gas.New(atoms, t.Pc)
	}
	for k, tpl := range t.AtomTemplates {
		t.zoneGases[i].Atoms[k].NDens = z.Rho * z.XGas[tpl.Z] / (t.Pc.Mp * float64(t.Grid.ElemA()[k]))
	}
	return t.zoneGases[i]
}

// massFractions returns zone i's mass fraction per atom, in the shared
// AtomTemplates order.
func (t *Transport) massFractions(i int) []float64 {
	z := t.Grid.Zone(i)
	out := make([]float64, len(t.AtomTemplates))
	for k, tpl := range t.AtomTemplates {
		out[k] = z.XGas[tpl.Z]
	}
	return out
}
