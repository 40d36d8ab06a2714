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

	"github.com/gomcrt/mcrt/grid"
	"github.com/gomcrt/mcrt/locate"
	"github.com/gomcrt/mcrt/radioactive"
)

// representativeGammaEnergyMeV is the photon energy assigned to every
// radioactive-decay packet: the dominant 847 keV Co56 line, the single
// gamma-ray energy the reference's emit_radioactive call always uses
// rather than sampling a real line list (nlte_gas_opacities.cpp's gamma
// transport never carries more than this one representative line).
const representativeGammaEnergyMeV = 0.847

// emitParticles runs every emission source for this step: the inner
// boundary source, radioactive decay, and - on the first step only -
// the initial thermal fill. Grounded on transport::step's declared
// emit_particles(dt) call.
func (t *Transport) emitParticles(dt float64) {
	t.emitCore(dt)
	t.emitRadioactive(dt)
	if t.firstStep {
		t.emitInitialThermal()
	}
	t.firstStep = false
}

// emitCore samples NEmitCore packets from the inner boundary: position
// uniform on the sphere at CoreRadius, comoving-frame direction cosine-
// weighted about the local outward normal, comoving-frame frequency
// from the core blackbody CDF, then boosted to the lab frame. Grounded
// on exec/emission.cpp's emit_inner_source.
func (t *Transport) emitCore(dt float64) {
	if t.NEmitCore <= 0 || t.CoreLuminosity <= 0 {
		return
	}
	ePacket := t.CoreLuminosity * dt / float64(t.NEmitCore)
	stream := t.streams[0]

	for k := 0; k < t.NEmitCore; k++ {
		if t.atCapacity() {
			t.reportCapacity("core")
			return
		}

		mu := stream.Cosine()
		phi := stream.Azimuth()
		smu := math.Sqrt(1 - mu*mu)
		normal := [3]float64{smu * math.Cos(phi), smu * math.Sin(phi), mu}
		pos := [3]float64{normal[0] * t.CoreRadius, normal[1] * t.CoreRadius, normal[2] * t.CoreRadius}

		muLocal := math.Sqrt(stream.Uniform())
		phiLocal := stream.Azimuth()
		d := normal
		rotateAboutAxis(d[:], muLocal, phiLocal)

		bin := t.coreEmis.Sample(stream.Uniform())
		nu := t.NuGrid.Sample(bin, stream.Uniform())

		p := Packet{X: pos, D: d, Nu: nu, E: ePacket, T: t.Now, Kind: Photon}
		p.Zone = t.Grid.GetZone(p.X)
		if p.Zone == grid.OutOfDomain {
			continue
		}
		transformComovingToLab(&p, t.Grid, t.Pc)
		t.Packets = append(t.Packets, p)
	}
}

// emitInitialThermal places NInitialize packets across every zone on
// the first step only, weighted by each zone's radiation energy e_rad*V
// and sampling frequency from the zone's own emissivity CDF. Grounded
// on exec/emission.cpp's emit_initial_particles.
func (t *Transport) emitInitialThermal() {
	if t.NInitialize <= 0 {
		return
	}
	nz := t.Grid.NZones()
	weights := make([]float64, nz)
	var total float64
	for i := 0; i < nz; i++ {
		z := t.Grid.Zone(i)
		w := z.ERad * t.Grid.ZoneVolume(i)
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return
	}

	zoneCDF := locate.NewCDF(nz)
	for i, w := range weights {
		zoneCDF.SetValue(i, w)
	}
	zoneCDF.Normalize()

	ePacket := total / float64(t.NInitialize)
	stream := t.streams[0]

	for k := 0; k < t.NInitialize; k++ {
		if t.atCapacity() {
			t.reportCapacity("initial thermal")
			return
		}
		zone := zoneCDF.Sample(stream.Uniform())
		emisCDF := t.zoneEmisCDF[zone]
		if emisCDF == nil || emisCDF.Size() == 0 {
			continue
		}

		u := [3]float64{stream.Uniform(), stream.Uniform(), stream.Uniform()}
		pos := t.Grid.SampleInZone(zone, u)
		bin := emisCDF.Sample(stream.Uniform())
		nu := t.NuGrid.Sample(bin, stream.Uniform())

		p := Packet{X: pos, Nu: nu, E: ePacket, T: t.Now, Zone: zone, Kind: Photon}
		isotropicScatter(&p, stream)
		transformComovingToLab(&p, t.Grid, t.Pc)
		t.Packets = append(t.Packets, p)
	}
}

// emitRadioactive tallies each zone's radioactive decay luminosity into
// LRadioEmit, then converts the grid's total decay luminosity into
// NEmitRadioactive gamma-ray packets of equal energy, allocated per zone
// proportional to that zone's share of the total (a floored count plus
// a Bernoulli draw on the fractional remainder). Grounded on
// exec/emission.cpp's emit_radioactive and radioactive::decay.
func (t *Transport) emitRadioactive(dt float64) {
	if t.NEmitRadioactive <= 0 {
		return
	}
	elemZ, elemA := t.Grid.ElemZ(), t.Grid.ElemA()
	nz := t.Grid.NZones()
	lDecay := make([]float64, nz)
	var lTot float64
	for i := 0; i < nz; i++ {
		z := t.Grid.Zone(i)
		x := make([]float64, len(elemZ))
		for k, zz := range elemZ {
			x[k] = z.XGas[zz]
		}
		rate, _ := radioactive.Decay(elemZ, elemA, x, z.Rho, t.Now, t.ForceRProc)
		lDecay[i] = rate * t.Grid.ZoneVolume(i)
		z.LRadioEmit += lDecay[i]
		lTot += lDecay[i]
	}
	if lTot <= 0 {
		return
	}

	ePacket := lTot * dt / float64(t.NEmitRadioactive)
	if ePacket <= 0 {
		return
	}

	stream := t.streams[0]
	nuLine := representativeGammaEnergyMeV * 1e6 * t.Pc.EvToErgs / t.Pc.H

	for i := 0; i < nz; i++ {
		if lDecay[i] <= 0 {
			continue
		}
		expected := lDecay[i] * dt / ePacket
		n := int(expected)
		if stream.Bernoulli(expected - float64(n)) {
			n++
		}
		for k := 0; k < n; k++ {
			if t.atCapacity() {
				t.reportCapacity("radioactive")
				return
			}
			u := [3]float64{stream.Uniform(), stream.Uniform(), stream.Uniform()}
			pos := t.Grid.SampleInZone(i, u)
			p := Packet{X: pos, Nu: nuLine, E: ePacket, T: t.Now + stream.Uniform()*dt, Zone: i, Kind: GammaRay}
			isotropicScatter(&p, stream)
			transformComovingToLab(&p, t.Grid, t.Pc)
			t.Packets = append(t.Packets, p)
		}
	}
}

// atCapacity reports whether the live packet count has reached
// MaxTotalParticles. MaxTotalParticles <= 0 means uncapped.
func (t *Transport) atCapacity() bool {
	return t.MaxTotalParticles > 0 && len(t.Packets) >= t.MaxTotalParticles
}

// reportCapacity logs a truncated emission source without failing the
// step, per §7's capacity error policy.
func (t *Transport) reportCapacity(source string) {
	t.Wc.Log.WithField("source", source).WithField("particles", len(t.Packets)).
		Warn("particle buffer full; truncating emission")
}
