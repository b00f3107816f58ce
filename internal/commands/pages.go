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

var pagesManga string

var pagesCmd = &cobra.Command{
	Use:   "pages [provider:chapter-id]",
	Short: "List the page image URLs of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerID, chapterID, err := core.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid chapter ID: %w", err)
		}

		pages, err := appEngine.FetchPages(cmd.Context(), providerID, pagesManga, chapterID)
		if err != nil {
			return err
		}

		appFormatter.PrintPages(pages)
		return nil
	},
}

func init() {
	pagesCmd.Flags().StringVarP(&pagesManga, "manga", "m", "", "Manga ID the chapter belongs to (needed by scraper providers with manga-scoped chapter URLs)")

	rootCmd.AddCommand(pagesCmd)
}
