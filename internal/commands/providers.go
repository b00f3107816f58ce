// Kuroibara: A multi-source manga search and aggregation engine.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"github.com/spf13/cobra"
)

var providersHealth bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if providersHealth {
			appFormatter.PrintHealth(appRegistry.HealthSnapshot())
			return nil
		}
		appFormatter.PrintProviderList(appRegistry.All())
		return nil
	},
}

func init() {
	providersCmd.Flags().BoolVar(&providersHealth, "health", false, "Show per-provider success and error diagnostics instead")

	rootCmd.AddCommand(providersCmd)
}
