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

import "github.com/gomcrt/mcrt/gas"

// solveEqTemperature brents every zone's gas temperature to the value
// that balances emitted and absorbed radiation over the step just
// completed: 4*pi*integral(kappa_abs(nu)*B_nu(T)) dnu = e_abs/(V*dt).
// Grounded on transport::solve_eq_temperature's declared contract
// (§4.4's radiative-equilibrium temperature solve); zones that absorbed
// no energy this step are left at their current T_gas rather than
// driven toward TempMin, and a non-convergent zone keeps its
// last-solved T_gas and is logged, matching §7's per-zone failure
// containment.
func (t *Transport) solveEqTemperature(dt float64) {
	for i := 0; i < t.Grid.NZones(); i++ {
		z := t.Grid.Zone(i)
		if z.EAbs <= 0 {
			continue
		}
		target := z.EAbs / (t.Grid.ZoneVolume(i) * dt)

		residual := func(T float64) float64 {
			return fourPiKappaB(z.AbsOpac, T, t.NuGrid, t.Pc) - target
		}

		tNew, err := gas.Brent(residual, t.TempMin, t.TempMax)
		if err != nil {
			t.Wc.Log.WithError(err).WithField("zone", i).Warn("radiative-equilibrium temperature did not converge; keeping previous T_gas")
			continue
		}
		z.TGas = tNew
	}
}
