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
	"math"

	"github.com/gomcrt/mcrt/diffusion"
	"github.com/gomcrt/mcrt/grid"
	"github.com/gomcrt/mcrt/rng"
)

// event distinguishes which of a flight step's three candidate
// distances was selected, so flightStep's dispatch reads directly off
// it instead of re-comparing floats after the move.
type event int

const (
	eventTime event = iota
	eventCell
	eventColl
	eventSubstep // step-size cap hit; no physical event, keep flying
)

// propagateAll advances every live packet to t_now+dt or to a terminal
// fate, using the shared goroutine-striped packet pool. Grounded on
// transport::step's per-packet propagate(p, t_now+dt) call, generalized
// from a single call into the full per-packet loop since propagate's
// body was declared but not defined in the retrieval pack.
func (t *Transport) propagateAll(dt float64) error {
	if t.UseIMD {
		t.diffProbs = diffusion.ComputeProbabilities(t.Grid, dt, t.Pc)
	}
	tStop := t.Now + dt
	t.calculations(func(p *Packet, stream *rng.Stream) Fate {
		return t.propagateOne(p, stream, tStop)
	})
	return nil
}

// propagateOne runs one packet forward until it is absorbed, escapes,
// or exhausts the step's time budget. It moves the packet by random
// flight until the packet is in a diffusive zone, then hands it to
// diffuseStep for the rest of the step; a diffused packet does not
// return to random flight before the next step.
func (t *Transport) propagateOne(p *Packet, stream *rng.Stream, tStop float64) Fate {
	for {
		if p.Zone < 0 || p.Zone >= t.Grid.NZones() {
			return Absorbed
		}
		if p.T >= tStop {
			return Stopped
		}
		if t.isDiffusive(p.Zone) {
			return t.diffuseStep(p, stream, tStop-p.T)
		}
		fate := t.flightStep(p, stream, tStop)
		if fate != Alive {
			return fate
		}
	}
}

// isDiffusive reports whether zone i's cell optical depth exceeds the
// configured DDMC threshold. DDMCThreshold <= 0 disables the
// accelerator entirely, so every packet random-flights.
func (t *Transport) isDiffusive(i int) bool {
	if t.DDMCThreshold <= 0 {
		return false
	}
	z := t.Grid.Zone(i)
	tauCell := z.PlanckMeanOpacity * t.Grid.ZoneSize(i)
	return tauCell > t.DDMCThreshold
}

// flightStep advances p by one random-flight segment: it samples an
// optical-depth-limited collision distance against the zone's comoving-
// frame opacity, takes the minimum against the distance to the zone
// boundary, the end-of-step time, and the configured step-size cap, and
// dispatches on whichever was smallest. Grounded on the Propagation
// algorithm declared in transport.h (propagate/transport_distance were
// not defined in the retrieval pack; this follows the standard Monte
// Carlo radiative-transfer random-flight algorithm).
func (t *Transport) flightStep(p *Packet, stream *rng.Stream, tStop float64) Fate {
	v, _ := t.Grid.Velocity(p.Zone, p.X, p.D)
	dshift := dshiftLabToComoving(p.D, v, t.Pc)
	nuCmv := p.Nu * dshift
	if nuCmv <= 0 {
		nuCmv = p.Nu
	}

	absOpac, scatOpac := t.absScatOpacityAt(p.Zone, nuCmv)
	total := absOpac + scatOpac

	dColl := math.Inf(1)
	if total > 0 {
		tau := stream.UniformOpen()
		dColl = -math.Log(tau) / total
	}

	dCell := t.Grid.DistanceToBoundary(p.Zone, p.X, p.D)
	dTime := t.Pc.C * (tStop - p.T)

	d := dTime
	evt := eventTime
	if dCell < d {
		d, evt = dCell, eventCell
	}
	if dColl < d {
		d, evt = dColl, eventColl
	}
	if t.StepSize > 0 {
		if dMax := t.StepSize * t.Grid.ZoneSize(p.Zone); dMax < d {
			d, evt = dMax, eventSubstep
		}
	}
	if d < 0 {
		d = 0
	}

	for k := 0; k < 3; k++ {
		p.X[k] += d * p.D[k]
	}
	p.T += d / t.Pc.C

	bin := t.NuGrid.Locate(nuCmv)
	t.addJNu(p.Zone, bin, p.E*d)
	if t.RadiativeEquilibrium && absOpac > 0 {
		frac := -math.Expm1(-absOpac * d)
		t.addEAbs(p.Zone, p.E*frac)
	}

	switch evt {
	case eventTime:
		return Stopped
	case eventCell:
		return t.crossZoneBoundary(p)
	case eventColl:
		return t.doScatter(p, stream, absOpac, scatOpac)
	default:
		return Alive
	}
}

// crossZoneBoundary nudges p just past the boundary it just reached and
// re-resolves its containing zone. A position that resolves out of
// domain terminates the packet: Escaped if it was moving outward
// (radially away from the grid center), Absorbed if inward (through the
// inner/core boundary).
func (t *Transport) crossZoneBoundary(p *Packet) Fate {
	r := math.Sqrt(dot(p.X, p.X))
	outward := true
	if r > 0 {
		outward = dot(p.X, p.D)/r >= 0
	}

	dx := t.Grid.ZoneSize(p.Zone)
	const nudge = 1e-9
	for k := 0; k < 3; k++ {
		p.X[k] += nudge * dx * p.D[k]
	}

	zone := t.Grid.GetZone(p.X)
	if zone == grid.OutOfDomain {
		if outward {
			t.recordEscape(p)
			return Escaped
		}
		return Absorbed
	}
	p.Zone = zone
	return Alive
}

// doScatter resolves a sampled collision event in the comoving frame:
// with probability kappa_scat/kappa_tot the packet scatters (isotropic
// for photons, Klein-Nishina for gamma-rays) and survives; otherwise it
// is absorbed, either destroyed (radiative-equilibrium mode, where the
// energy was already tallied in flightStep) or thermally re-emitted at
// a frequency drawn from the zone's emissivity CDF. Grounded on
// transport::do_scatter's declared contract.
func (t *Transport) doScatter(p *Packet, stream *rng.Stream, absOpac, scatOpac float64) Fate {
	total := absOpac + scatOpac
	if total <= 0 {
		return Alive
	}

	transformLabToComoving(p, t.Grid, t.Pc)

	if stream.Uniform() < scatOpac/total {
		if p.Kind == GammaRay {
			comptonScatter(p, t.Pc, stream)
		} else {
			isotropicScatter(p, stream)
		}
		transformComovingToLab(p, t.Grid, t.Pc)
		return Alive
	}

	if t.RadiativeEquilibrium {
		return Absorbed
	}

	cdf := t.zoneEmisCDF[p.Zone]
	if cdf == nil || cdf.Size() == 0 {
		return Absorbed
	}
	bin := cdf.Sample(stream.Uniform())
	p.Nu = t.NuGrid.Sample(bin, stream.Uniform())
	isotropicScatter(p, stream)
	transformComovingToLab(p, t.Grid, t.Pc)
	return Alive
}

// recordEscape bins an escaping packet's lab-frame energy into its
// kind's output spectrum by escape time, frequency, and the cosine of
// its direction relative to the outward radial normal at its escape
// position.
func (t *Transport) recordEscape(p *Packet) {
	r := math.Sqrt(dot(p.X, p.X))
	mu := 1.0
	if r > 0 {
		mu = dot(p.X, p.D) / r
	}
	phi := math.Atan2(p.D[1], p.D[0])
	if phi < 0 {
		phi += 2 * t.Pc.Pi
	}
	if p.Kind == GammaRay {
		t.GammaSpectrum.Add(p.T, p.Nu, mu, phi, p.E)
	} else {
		t.OpticalSpectrum.Add(p.T, p.Nu, mu, phi, p.E)
	}
}

// diffuseStep hands p off to the DDMC or IMD kernel for the packet's
// remaining time budget this step, applies the returned zone tallies,
// and translates the diffusion package's Fate into this package's.
// Grounded on the MC/DDMC hand-off rule in §4.2: a packet that enters a
// diffusive zone is propagated here instead of by flightStep until it is
// absorbed, escapes the grid, or exhausts the step. The kernels move it
// from zone to zone without checking whether the new zone is still
// diffusive, so a packet that leaks into a non-diffusive zone is not
// handed back to flightStep within this step.
func (t *Transport) diffuseStep(p *Packet, stream *rng.Stream, dt float64) Fate {
	st := &diffusion.State{Zone: p.Zone, X: p.X, D: p.D, E: p.E, T: p.T}

	var fate diffusion.Fate
	var tallies []diffusion.Tally
	if t.UseIMD {
		var eAbs float64
		fate, eAbs, tallies = diffusion.StepIMD(st, t.Grid, t.diffProbs, dt, t.Pc, stream)
		if eAbs > 0 {
			t.addEAbs(st.Zone, eAbs)
		}
	} else {
		fate, tallies = diffusion.StepDDMC(st, t.Grid, dt, t.Pc, stream)
	}

	p.X, p.D, p.E, p.T = st.X, st.D, st.E, st.T
	for _, tl := range tallies {
		t.addJNu(tl.Zone, 0, tl.JNu)
	}

	switch fate {
	case diffusion.Stopped:
		p.Zone = st.Zone
		return Stopped
	case diffusion.Escaped:
		p.Zone = st.Zone
		if r := math.Sqrt(dot(p.X, p.X)); r > 0 {
			p.D = [3]float64{p.X[0] / r, p.X[1] / r, p.X[2] / r}
		}
		t.recordEscape(p)
		return Escaped
	default:
		return Absorbed
	}
}
