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
	"Kuroibara/pkg/core"
	"fmt"

	"github.com/spf13/cobra"
)

var chaptersLang string

var chaptersCmd = &cobra.Command{
	Use:   "chapters [provider:manga-id]",
	Short: "List the chapters of a manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerID, mangaID, err := core.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid manga ID: %w", err)
		}

		chapters, err := appEngine.FetchChapters(cmd.Context(), providerID, mangaID)
		if err != nil {
			return err
		}

		if chaptersLang != "" {
			filtered := chapters[:0]
			for _, ch := range chapters {
				if ch.Language != nil && *ch.Language == chaptersLang {
					filtered = append(filtered, ch)
				}
			}
			chapters = filtered
		}

		appFormatter.PrintChapters(chapters)
		return nil
	},
}

func init() {
	chaptersCmd.Flags().StringVarP(&chaptersLang, "language", "l", "", "Only show chapters in this language code, e.g. en")

	rootCmd.AddCommand(chaptersCmd)
}
