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

// Package transport orchestrates packet emission, random-flight
// propagation, scattering, and diffusion acceleration over a Grid each
// timestep, tying together gas, opacity, radioactive, diffusion,
// spectrum, locate, and rng. Grounded on transport.h/transport_init.cpp
// and exec/emission.cpp; propagate/scatter/frame-transform bodies were
// not present in the retrieval pack (only declared in transport.h) and
// are hand-written from standard Monte Carlo radiative transfer
// algorithms - see DESIGN.md.
package transport

// Kind distinguishes a packet's radiation type, since gamma-ray packets
// from radioactive decay and optical/UV photon packets are binned into
// separate output spectra and interact through different opacities.
type Kind int

const (
	Photon Kind = iota
	GammaRay
)

// Fate is the terminal or continuing outcome of one packet propagation
// step.
type Fate int

const (
	Alive Fate = iota
	Escaped
	Absorbed
	Stopped // ran out of the step's time budget; still Alive next step
)

// Packet is one radiation quantum (really a bundle of many physical
// photons sharing energy e). Grounded on particle.h's particle struct,
// renamed to match this package's naming.
type Packet struct {
	X [3]float64 // lab-frame position, cm
	D [3]float64 // lab-frame unit direction

	Nu float64 // lab-frame frequency, Hz
	E  float64 // lab-frame energy, erg (luminosity times step over packet count at emission)
	T  float64 // current lab-frame time, s

	Zone int
	Kind Kind
}
