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

// Package diffusion accelerates packet propagation through optically
// thick zones with two interchangeable schemes: Discrete Diffusion
// Monte Carlo (Densmore et al. 2007) and Implicit Monte Carlo Diffusion
// (Gentile 2001). Both are grounded on discrete_diffusion.cpp and
// implemented for the same 1D spherical geometry as the reference.
package diffusion

import (
	"math"

	"github.com/gomcrt/mcrt/grid"
	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/rng"
)

// Fate is the outcome of a diffusion step.
type Fate int

const (
	Stopped Fate = iota // ran out of time budget; still Alive
	Absorbed
	Escaped
)

// Probabilities holds one zone's per-timestep IMD transition
// probabilities, normalized to sum to 1. Abs and Adv are carried from
// the reference even though they are always computed as zero there
// (grey absorption and advective loss are hooks the reference never
// wires up) - see DESIGN.md.
type Probabilities struct {
	Up, Dn float64 // diffuse to the outer / inner neighbor zone
	Abs    float64 // absorbed in place (always 0; see above)
	Adv    float64 // adiabatic loss in place (always 0; see above)
	Stay   float64 // stay in zone, tallied as radiation energy
}

// ComputeProbabilities fills in one Probabilities per zone for timestep
// dt, using each zone's Planck mean opacity. Grounded on
// transport::compute_diffusion_probabilities. The reference computes
// the same local diffusion coefficient for a zone and both its
// neighbors (rather than the neighbor's own opacity), which this keeps.
func ComputeProbabilities(g grid.Grid, dt float64, pc constants.Physical) []Probabilities {
	nz := g.NZones()
	out := make([]Probabilities, nz)
	for i := 0; i < nz; i++ {
		dx := g.ZoneSize(i)
		sigmaP := g.Zone(i).PlanckMeanOpacity
		dj0 := pc.C / (3.0 * sigmaP)

		dhUp := 2 * dx * (dj0 * dj0) / (dj0*dx + dj0*dx)
		dhDn := dhUp

		pUp := (dt / dx) * (dhUp / dx)
		pDn := (dt / dx) * (dhDn / dx)
		if i == 0 {
			pDn = 0
		}

		norm := 1 + pUp + pDn
		pUp /= norm
		pDn /= norm

		out[i] = Probabilities{Up: pUp, Dn: pDn, Stay: 1 / norm}
	}
	return out
}

// State is the minimal packet state a diffusion step reads and writes:
// zone index, position, direction, energy, and elapsed time.
type State struct {
	Zone int
	X    [3]float64
	D    [3]float64
	E    float64
	T    float64
}

// radialStep moves st.X by +-dx along its own radial direction, the
// reference's p.x[k] +/- p.x[k]/r*dx update for a 1D spherical grid.
func radialStep(st *State, dx float64, outward bool) {
	r := math.Sqrt(st.X[0]*st.X[0] + st.X[1]*st.X[1] + st.X[2]*st.X[2])
	if r == 0 {
		return
	}
	sign := -1.0
	if outward {
		sign = 1.0
	}
	for k := 0; k < 3; k++ {
		st.X[k] += sign * st.X[k] / r * dx
	}
}

// Tally is one zone's accumulated mean-intensity contribution from a
// diffusion step; callers apply it to Zone.JNu[0] with whatever
// concurrency-safe accumulation their worker pool uses.
type Tally struct {
	Zone int
	JNu  float64
}

// StepIMD advances st by one Implicit Monte Carlo Diffusion step of
// length dt, returning the outcome and the zone energy/intensity
// tallies to apply. Grounded on transport::discrete_diffuse_IMD.
func StepIMD(st *State, g grid.Grid, probs []Probabilities, dt float64, pc constants.Physical, stream *rng.Stream) (Fate, float64, []Tally) {
	var eAbs float64
	var tallies []Tally

	for {
		p := probs[st.Zone]
		dx := g.ZoneSize(st.Zone)

		eAbs += st.E * p.Abs
		tallies = append(tallies, Tally{Zone: st.Zone, JNu: st.E * p.Stay * dt * pc.C})

		pDiff := p.Up + p.Dn
		r1 := stream.Uniform()
		if r1 < pDiff {
			r2 := stream.Uniform()
			if r2 < p.Up/pDiff {
				st.Zone++
				radialStep(st, dx, true)
			} else {
				st.Zone--
				radialStep(st, dx, false)
			}
		} else {
			pStayTotal := p.Abs + p.Stay
			r2 := stream.Uniform()
			if pStayTotal > 0 && r2 < p.Abs/pStayTotal {
				return Absorbed, eAbs, tallies
			}
			v, _ := g.Velocity(st.Zone, st.X, st.D)
			for k := 0; k < 3; k++ {
				st.X[k] += v[k] * dt
			}
			st.Zone = g.GetZone(st.X)
			st.T += dt
			if st.Zone < 0 {
				return Absorbed, eAbs, tallies
			}
			if st.Zone > g.NZones()-1 {
				return Escaped, eAbs, tallies
			}
			return Stopped, eAbs, tallies
		}

		st.T += dt
		if st.Zone < 0 {
			return Absorbed, eAbs, tallies
		}
		if st.Zone > g.NZones()-1 {
			return Escaped, eAbs, tallies
		}
	}
}

// StepDDMC advances st by one Discrete Diffusion Monte Carlo step
// spanning dt, possibly leaking through several zones, returning the
// outcome and the per-zone mean-intensity tallies to apply. Grounded on
// transport::discrete_diffuse_DDMC.
func StepDDMC(st *State, g grid.Grid, dt float64, pc constants.Physical, stream *rng.Stream) (Fate, []Tally) {
	var tallies []Tally
	dtRemaining := dt

	for dtRemaining > 0 {
		nz := g.NZones()
		ii := st.Zone
		ip, im := ii+1, ii-1
		if ip == nz {
			ip = ii
		}
		if im < 0 {
			im = 0
		}

		dx := g.ZoneSize(ii)
		dxp1 := g.ZoneSize(ip)
		dxm1 := g.ZoneSize(im)

		sigmaI := g.Zone(ii).PlanckMeanOpacity
		sigmaIp1 := g.Zone(ip).PlanckMeanOpacity
		sigmaIm1 := g.Zone(im).PlanckMeanOpacity

		sigmaLeakLeft := (2.0 / 3.0 / dx) * (1.0 / (sigmaI*dx + sigmaIm1*dxm1))
		sigmaLeakRight := (2.0 / 3.0 / dx) * (1.0 / (sigmaI*dx + sigmaIp1*dxp1))

		xi := stream.UniformOpen()
		dStay := pc.C * dtRemaining
		dLeak := -math.Log(xi) / (sigmaLeakLeft + sigmaLeakRight)

		if dStay < dLeak {
			tallies = append(tallies, Tally{Zone: st.Zone, JNu: st.E * dt * pc.C})
			v, _ := g.Velocity(st.Zone, st.X, st.D)
			for k := 0; k < 3; k++ {
				st.X[k] += v[k] * dt
			}
			st.Zone = g.GetZone(st.X)
			st.T += dtRemaining
			dtRemaining = -1
		} else {
			sigmaLeakTot := sigmaLeakLeft + sigmaLeakRight
			pLeakLeft := sigmaLeakLeft / sigmaLeakTot
			if stream.Uniform() <= pLeakLeft {
				st.Zone--
				radialStep(st, dx, false)
			} else {
				st.Zone++
				radialStep(st, dx, true)
			}
			st.T += dLeak / pc.C
			dtRemaining -= dLeak / pc.C
		}

		if st.Zone < 0 {
			return Absorbed, tallies
		}
		if st.Zone > g.NZones()-1 {
			return Escaped, tallies
		}
	}
	return Stopped, tallies
}
