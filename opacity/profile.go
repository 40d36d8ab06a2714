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

	"github.com/gomcrt/mcrt/internal/constants"
)

// VoigtHjerting evaluates the Voigt-Hjerting function H(a, x) using the
// Tepper-Garcia (2006) approximation, accurate to about 1% over the
// damping parameters line opacities in expanding ejecta actually produce.
// No library in the retrieval pack implements a Voigt profile, so this
// is hand-written (see DESIGN.md).
func VoigtHjerting(x, a float64) float64 {
	x2 := x * x
	h0 := math.Exp(-x2)
	if x2 < 1e-6 {
		return h0
	}
	q := 1.5 / x2
	corr := h0*h0*(4*x2*x2+7*x2+4+q) - q - 1
	return h0 - (a/math.Sqrt(math.Pi))/x2*corr
}

// Planck returns the Planck function B_nu(T), erg/s/cm^2/Hz/ster.
func Planck(nu, temp float64, pc constants.Physical) float64 {
	zeta := pc.H * nu / pc.K / temp
	if zeta > 700 {
		return 0
	}
	return 2 * nu * nu * nu * pc.H / pc.C / pc.C / (math.Exp(zeta) - 1)
}
