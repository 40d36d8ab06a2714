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

// Command mcrt is a command-line interface for the Monte Carlo
// radiative-transfer engine. It exists to give the transport/gas/opacity
// stack a real caller; parameter-file driven ejecta setup and atomic-
// data loading are both out of this module's scope, so run builds a
// small homologous demo grid and a stand-in atom set rather than reading
// either from disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcrt",
		Short: "Monte Carlo radiative-transfer engine",
	}
	root.AddCommand(runCmd())
	root.AddCommand(configTemplateCmd())
	return root
}
