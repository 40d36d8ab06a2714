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

// Package paramfile is the one concrete ParameterReader: a TOML-backed
// configuration reader built on viper, in the shape of inmaputil.Cfg's
// *viper.Viper-embedding wrapper. Parameter-file loading is out of
// THE CORE's scope, but the core still needs a caller to build a
// transport.Config from somewhere - this is that adapter.
package paramfile

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/gomcrt/mcrt/atomic"
	"github.com/gomcrt/mcrt/gas"
	"github.com/gomcrt/mcrt/opacity"
	"github.com/gomcrt/mcrt/transport"
)

// Reader wraps a viper.Viper loaded from a TOML configuration file,
// giving every recognized key a typed accessor and a sensible default.
type Reader struct {
	*viper.Viper
}

// Load reads path as a TOML configuration file into a new Reader, with
// defaults for every key in the configuration-option table pre-set so a
// caller may omit anything it doesn't need to override.
func Load(path string) (*Reader, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("paramfile: reading %s: %w", path, err)
	}
	return &Reader{Viper: v}, nil
}

// Defaults returns a Reader with every configuration-option default set
// and no file read, for callers that want a runnable Config without a
// TOML file on disk.
func Defaults() *Reader {
	v := viper.New()
	setDefaults(v)
	return &Reader{Viper: v}
}

// setDefaults mirrors the configuration-option table: every key the
// transport module reads gets a conservative default so a minimal
// config file (or none at all, for the demo command) still produces a
// runnable Config.
func setDefaults(v *viper.Viper) {
	v.SetDefault("particles_step_size", 0.1)
	v.SetDefault("particles_max_total", 2_000_000)
	v.SetDefault("particles_n_initialize", 0)

	v.SetDefault("transport_radiative_equilibrium", false)
	v.SetDefault("transport_steady_iterate", false)
	v.SetDefault("transport_nu_grid_min", 1e13)
	v.SetDefault("transport_nu_grid_max", 1e16)
	v.SetDefault("transport_nu_grid_n", 200)
	v.SetDefault("transport_nu_grid_log", true)

	v.SetDefault("opacity_grey_opacity", 0.0)
	v.SetDefault("opacity_epsilon", 1.0)
	v.SetDefault("opacity_electron_scattering", true)
	v.SetDefault("opacity_free_free", false)
	v.SetDefault("opacity_bound_free", false)
	v.SetDefault("opacity_bound_bound", false)
	v.SetDefault("opacity_line_expansion", false)
	v.SetDefault("opacity_fuzz_expansion", false)
	v.SetDefault("opacity_use_nlte", false)

	v.SetDefault("core_radius", 0.0)
	v.SetDefault("core_temperature", 0.0)
	v.SetDefault("core_luminosity", 0.0)
	v.SetDefault("core_n_emit", 0)

	v.SetDefault("n_emit_radioactive", 0)
	v.SetDefault("radioactive_force_rprocess", false)

	v.SetDefault("ddmc_threshold", 0.0)
	v.SetDefault("ddmc_use_imd", false)

	v.SetDefault("spectrum_time_min", 0.0)
	v.SetDefault("spectrum_time_max", 1.0)
	v.SetDefault("spectrum_time_n", 1)
	v.SetDefault("spectrum_nu_min", 1e13)
	v.SetDefault("spectrum_nu_max", 1e16)
	v.SetDefault("spectrum_nu_n", 100)
	v.SetDefault("spectrum_n_mu", 1)
	v.SetDefault("spectrum_n_phi", 1)

	v.SetDefault("limits_temp_min", 100.0)
	v.SetDefault("limits_temp_max", 1e6)
}

// TransportConfig builds a transport.Config from every recognized key.
// atoms has no file-backed counterpart here - AtomicDataStore (HDF5
// atomic-data loading) is out of scope for this module, so the caller
// (cmd/mcrt, or a test) supplies its own atom templates directly.
func (r *Reader) TransportConfig(atoms []*atomic.Atom) transport.Config {
	mode := gas.LTE
	if r.GetBool("opacity_use_nlte") {
		mode = gas.NLTE
	}

	cfg := transport.Config{
		StepSize:             r.GetFloat64("particles_step_size"),
		MaxTotalParticles:    r.GetInt("particles_max_total"),
		NInitialize:          r.GetInt("particles_n_initialize"),
		RadiativeEquilibrium: r.GetBool("transport_radiative_equilibrium"),
		SteadyState:          r.GetBool("transport_steady_iterate"),
		TempMin:              r.GetFloat64("limits_temp_min"),
		TempMax:              r.GetFloat64("limits_temp_max"),

		NuGridMin: r.GetFloat64("transport_nu_grid_min"),
		NuGridMax: r.GetFloat64("transport_nu_grid_max"),
		NuGridN:   r.GetInt("transport_nu_grid_n"),
		NuGridLog: r.GetBool("transport_nu_grid_log"),

		SpectrumTimeMin: r.GetFloat64("spectrum_time_min"),
		SpectrumTimeMax: r.GetFloat64("spectrum_time_max"),
		SpectrumTimeN:   r.GetInt("spectrum_time_n"),
		SpectrumNuMin:   r.GetFloat64("spectrum_nu_min"),
		SpectrumNuMax:   r.GetFloat64("spectrum_nu_max"),
		SpectrumNuN:     r.GetInt("spectrum_nu_n"),
		SpectrumNMu:     r.GetInt("spectrum_n_mu"),
		SpectrumNPhi:    r.GetInt("spectrum_n_phi"),

		CoreRadius:       r.GetFloat64("core_radius"),
		CoreTemperature:  r.GetFloat64("core_temperature"),
		CoreLuminosity:   r.GetFloat64("core_luminosity"),
		NEmitCore:        r.GetInt("core_n_emit"),
		NEmitRadioactive: r.GetInt("n_emit_radioactive"),
		ForceRProc:       r.GetBool("radioactive_force_rprocess"),

		DDMCThreshold: r.GetFloat64("ddmc_threshold"),
		UseIMD:        r.GetBool("ddmc_use_imd"),

		Epsilon: r.GetFloat64("opacity_epsilon"),
		OpacityParams: opacity.Params{
			GreyOpacity:        r.GetFloat64("opacity_grey_opacity"),
			ElectronScattering: r.GetBool("opacity_electron_scattering"),
			FreeFree:           r.GetBool("opacity_free_free"),
			BoundFree:          r.GetBool("opacity_bound_free"),
			BoundBoundDetailed: r.GetBool("opacity_bound_bound"),
			LineExpansion:      r.GetBool("opacity_line_expansion"),
			FuzzExpansion:      r.GetBool("opacity_fuzz_expansion"),
		},
		GasMode: mode,

		Verbose: r.GetBool("verbose"),
	}
	cfg.AtomTemplates = atoms
	return cfg
}
