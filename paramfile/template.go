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

package paramfile

import (
	"io"

	"github.com/BurntSushi/toml"
)

// template holds part of setDefaults' key set as a plain struct so
// WriteTemplate can hand it to toml.NewEncoder directly, field names
// lower-cased to match the keys Reader reads back with viper. The
// transport_nu_grid_* and spectrum_* keys are not in it.
type template struct {
	ParticlesStepSize    float64 `toml:"particles_step_size"`
	ParticlesMaxTotal    int     `toml:"particles_max_total"`
	ParticlesNInitialize int     `toml:"particles_n_initialize"`

	TransportRadiativeEquilibrium bool `toml:"transport_radiative_equilibrium"`
	TransportSteadyIterate        bool `toml:"transport_steady_iterate"`

	OpacityGreyOpacity        float64 `toml:"opacity_grey_opacity"`
	OpacityEpsilon            float64 `toml:"opacity_epsilon"`
	OpacityElectronScattering bool    `toml:"opacity_electron_scattering"`
	OpacityFreeFree           bool    `toml:"opacity_free_free"`
	OpacityBoundFree          bool    `toml:"opacity_bound_free"`
	OpacityBoundBound         bool    `toml:"opacity_bound_bound"`
	OpacityLineExpansion      bool    `toml:"opacity_line_expansion"`
	OpacityFuzzExpansion      bool    `toml:"opacity_fuzz_expansion"`
	OpacityUseNLTE            bool    `toml:"opacity_use_nlte"`

	CoreRadius      float64 `toml:"core_radius"`
	CoreTemperature float64 `toml:"core_temperature"`
	CoreLuminosity  float64 `toml:"core_luminosity"`
	CoreNEmit       int     `toml:"core_n_emit"`

	NEmitRadioactive         int  `toml:"n_emit_radioactive"`
	RadioactiveForceRProcess bool `toml:"radioactive_force_rprocess"`

	DDMCThreshold float64 `toml:"ddmc_threshold"`
	DDMCUseIMD    bool    `toml:"ddmc_use_imd"`

	LimitsTempMin float64 `toml:"limits_temp_min"`
	LimitsTempMax float64 `toml:"limits_temp_max"`
}

// WriteTemplate encodes a commented-free starting-point configuration
// file to w, populated with the defaults for the keys in template - a
// user can copy this, edit the values that matter for their run, and
// pass it to Load. The frequency-grid (transport_nu_grid_*) and
// spectrum-binning (spectrum_*) keys are not written; Load applies
// setDefaults' values for them.
func WriteTemplate(w io.Writer) error {
	t := template{
		ParticlesStepSize:         0.1,
		ParticlesMaxTotal:         2_000_000,
		OpacityEpsilon:            1.0,
		OpacityElectronScattering: true,
		LimitsTempMin:             100.0,
		LimitsTempMax:             1e6,
	}
	return toml.NewEncoder(w).Encode(t)
}
