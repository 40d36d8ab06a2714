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

package main

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gomcrt/mcrt/grid"
	"github.com/gomcrt/mcrt/internal/constants"
	"github.com/gomcrt/mcrt/locate"
	"github.com/gomcrt/mcrt/paramfile"
	"github.com/gomcrt/mcrt/transport"
)

func runCmd() *cobra.Command {
	var configFile string
	var nZones int
	var nSteps int
	var dt float64
	var tStart float64
	var vInner, vOuter float64
	var seed uint64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a homologous-expansion ejecta model and report the total escaped energy",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.StandardLogger()

			params := paramfile.Defaults()
			if configFile != "" {
				r, err := paramfile.Load(configFile)
				if err != nil {
					return err
				}
				params = r
			}

			elemZ := []int{26, 1}
			elemA := []int{56, 1}
			g := grid.NewSphere1D(vInner, vOuter, nZones, tStart, elemZ, elemA)
			seedGrid(g)

			cfg := params.TransportConfig(demoAtoms())
			wc := constants.SingleRank(seed)
			wc.Log = log

			timeGrid := locate.NewLinear(tStart, tStart+float64(nSteps)*dt, 1)
			nuSpec := locate.NewLog(cfg.NuGridMin, cfg.NuGridMax, math.Pow(cfg.NuGridMax/cfg.NuGridMin, 1/float64(cfg.NuGridN))-1)
			muGrid := locate.NewLinear(-1, 1, cfg.SpectrumNMu)
			phiGrid := locate.NewLinear(0, 2*constants.Default.Pi, cfg.SpectrumNPhi)

			tr, err := transport.New(g, cfg, wc, timeGrid, nuSpec, muGrid, phiGrid)
			if err != nil {
				return fmt.Errorf("building transport: %w", err)
			}

			start := time.Now()
			for step := 0; step < nSteps; step++ {
				if err := tr.Step(dt); err != nil {
					return fmt.Errorf("step %d: %w", step, err)
				}
				log.WithFields(logrus.Fields{
					"step":    step,
					"t":       tr.Now,
					"packets": tr.NParticles(),
				}).Info("step complete")
			}

			var escaped float64
			for _, e := range tr.OpticalSpectrum.Raw() {
				escaped += e
			}
			for _, e := range tr.GammaSpectrum.Raw() {
				escaped += e
			}
			log.WithFields(logrus.Fields{
				"elapsed":        time.Since(start),
				"escaped_energy": escaped,
			}).Info("run complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "TOML configuration file (optional; defaults are used for anything it omits)")
	cmd.Flags().IntVar(&nZones, "zones", 20, "number of radial zones")
	cmd.Flags().IntVar(&nSteps, "steps", 10, "number of transport steps")
	cmd.Flags().Float64Var(&dt, "dt", 1.0, "step size, s")
	cmd.Flags().Float64Var(&tStart, "t0", 86400.0, "initial simulation time, s")
	cmd.Flags().Float64Var(&vInner, "v-inner", 1e8, "inner zone boundary velocity, cm/s")
	cmd.Flags().Float64Var(&vOuter, "v-outer", 2e9, "outer zone boundary velocity, cm/s")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "base RNG seed")
	return cmd
}

// seedGrid fills a freshly built Sphere1D with a simple homologous
// ejecta composition: an outward-declining density profile, uniform
// initial temperature, and pure iron-56 in the inner half of the zones
// switching to pure hydrogen in the outer half - enough structure to
// exercise opacity composition without reading an ejecta file, which
// this module does not load. Iron-56 is stable, so this composition
// produces no radioactive heating.
func seedGrid(g *grid.Sphere1D) {
	n := g.NZones()
	for i := 0; i < n; i++ {
		z := g.Zone(i)
		frac := float64(i) / float64(n)
		z.Rho = 1e-13 * (1 - 0.9*frac)
		z.TGas = 5000.0
		z.TRad = 5000.0
		z.ERad = constants.Default.SigmaSB * 4 / constants.Default.C * 5000.0 * 5000.0 * 5000.0 * 5000.0
		if frac < 0.5 {
			z.XGas[26] = 1.0
			z.XGas[1] = 0.0
		} else {
			z.XGas[26] = 0.0
			z.XGas[1] = 1.0
		}
	}
}
