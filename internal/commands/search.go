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
	"Kuroibara/pkg/aggregate"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	searchProviders []string
	searchPage      int
	searchTimeout   time.Duration
	searchFilters   []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for manga across all providers",
	Long:  `Search every enabled provider concurrently and print the merged, ranked results. Providers that fail or time out are reported alongside the results from the ones that answered.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilters(searchFilters)
		if err != nil {
			return err
		}

		prefs := preferences()
		res := appEngine.Search(cmd.Context(), args[0], aggregate.Options{
			Providers:   searchProviders,
			NSFWAllowed: nsfwAllowed,
			Prefs:       &prefs,
			Page:        searchPage,
			Timeout:     searchTimeout,
			Filters:     filters,
		})

		appFormatter.PrintSearchResult(res)
		return nil
	},
}

// parseFilters turns repeated key=value flags into a filter map
func parseFilters(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(raw))
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", f)
		}
		switch key {
		case "title", "author", "genre", "status":
		default:
			return nil, fmt.Errorf("unknown filter key %q (want title, author, genre or status)", key)
		}
		filters[key] = value
	}
	return filters, nil
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchProviders, "provider", "p", nil, "Restrict the search to specific provider IDs")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page to request from each provider")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "Per-provider time budget (0 uses each provider's own)")
	searchCmd.Flags().StringArrayVarP(&searchFilters, "filter", "f", nil, "Filter merged results, e.g. -f author=Oda -f status=ongoing")

	rootCmd.AddCommand(searchCmd)
}
