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

package display

import (
	"Kuroibara/pkg/aggregate"
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/provider"
	"Kuroibara/pkg/registry"
	"Kuroibara/pkg/util"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Formatter renders engine output for the terminal
type Formatter struct {
	Writer io.Writer

	HeaderStyle  *color.Color
	SuccessStyle *color.Color
	ErrorStyle   *color.Color
	WarnStyle    *color.Color
	IDStyle      *color.Color
	DetailStyle  *color.Color
}

// NewFormatter creates a formatter with the default styles
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}
	return &Formatter{
		Writer:       w,
		HeaderStyle:  color.New(color.FgCyan, color.Bold),
		SuccessStyle: color.New(color.FgGreen),
		ErrorStyle:   color.New(color.FgRed),
		WarnStyle:    color.New(color.FgYellow),
		IDStyle:      color.New(color.FgBlue),
		DetailStyle:  color.New(color.FgWhite),
	}
}

// PrintHeader prints a section header
func (f *Formatter) PrintHeader(text string) {
	_, _ = fmt.Fprintln(f.Writer, f.HeaderStyle.Sprint(text))
}

// PrintError prints an error line
func (f *Formatter) PrintError(text string) {
	_, _ = fmt.Fprintln(f.Writer, f.ErrorStyle.Sprintf("[ERROR] %s", text))
}

// PrintWarning prints a warning line
func (f *Formatter) PrintWarning(text string) {
	_, _ = fmt.Fprintln(f.Writer, f.WarnStyle.Sprint(text))
}

// printTable prints data in a table format
func (f *Formatter) printTable(headers []string, data [][]string) {
	table := tablewriter.NewTable(f.Writer)
	table.Configure(func(tableConfig *tablewriter.Config) {
		tableConfig.Header.Alignment.Global = tw.AlignLeft
		tableConfig.Row.Alignment.Global = tw.AlignLeft
		tableConfig.Header.Padding.Global = tw.Padding{
			Left:  " ",
			Right: " ",
		}
		tableConfig.Row.Padding.Global = tw.Padding{
			Left:  " ",
			Right: " ",
		}
	})

	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		return
	}
	_ = table.Render()
}

// PrintSearchResult renders an aggregated search result, including the
// per-source failure breakdown. Failed sources are always visible;
// partial results must never look complete.
func (f *Formatter) PrintSearchResult(res *aggregate.Result) {
	f.PrintHeader(fmt.Sprintf("Results: %d manga from %d/%d providers",
		len(res.Manga), len(res.SourcesSucceeded), len(res.SourcesQueried)))

	if len(res.Manga) > 0 {
		duplicateOf := duplicateIndex(res)

		rows := make([][]string, 0, len(res.Manga))
		for _, manga := range res.Manga {
			note := ""
			if group, ok := duplicateOf[manga.Key()]; ok {
				note = fmt.Sprintf("dup #%d", group+1)
			}
			rows = append(rows, []string{
				f.IDStyle.Sprint(manga.Key()),
				truncate(manga.Title, 50),
				string(manga.Status),
				strings.Join(manga.Authors, ", "),
				fmt.Sprintf("%.2f", manga.Confidence),
				note,
			})
		}
		f.printTable([]string{"ID", "Title", "Status", "Authors", "Confidence", "Note"}, rows)
	}

	for _, id := range sortedKeys(res.SourcesFailed) {
		failure := res.SourcesFailed[id]
		f.PrintError(fmt.Sprintf("%s failed (%s) after %v: %s",
			id, failure.Kind, res.Elapsed[id].Round(time.Millisecond), failure.Message))
	}
}

// PrintManga renders manga detail
func (f *Formatter) PrintManga(manga *core.Manga) {
	f.PrintHeader(fmt.Sprintf("%s (ID: %s)", manga.Title, manga.Key()))

	if len(manga.Authors) > 0 {
		_, _ = fmt.Fprintf(f.Writer, "  Authors: %s\n", strings.Join(manga.Authors, ", "))
	}
	_, _ = fmt.Fprintf(f.Writer, "  Status: %s\n", manga.Status)
	if len(manga.Genres) > 0 {
		_, _ = fmt.Fprintf(f.Writer, "  Genres: %s\n", strings.Join(manga.Genres, ", "))
	}
	if manga.Cover != "" {
		_, _ = fmt.Fprintf(f.Writer, "  Cover: %s\n", manga.Cover)
	}
	_, _ = fmt.Fprintf(f.Writer, "  Confidence: %.2f\n", manga.Confidence)
	if manga.Description != "" {
		_, _ = fmt.Fprintf(f.Writer, "\n%s\n", truncate(manga.Description, 500))
	}
}

// PrintChapters renders a chapter list
func (f *Formatter) PrintChapters(chapters []core.Chapter) {
	f.PrintHeader(fmt.Sprintf("%d chapters", len(chapters)))

	rows := make([][]string, 0, len(chapters))
	for _, ch := range chapters {
		number := "?"
		if ch.Number >= 0 {
			number = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", ch.Number), "0"), ".")
		}
		date := ""
		if ch.PublishedAt != nil {
			date = util.FormatDate(*ch.PublishedAt)
		}
		lang := ""
		if ch.Language != nil {
			lang = util.GetLanguageName(*ch.Language)
		}
		rows = append(rows, []string{ch.ID, number, truncate(ch.Title, 45), lang, date})
	}
	f.printTable([]string{"ID", "No.", "Title", "Language", "Published"}, rows)
}

// PrintPages renders a page URL list
func (f *Formatter) PrintPages(pages []core.Page) {
	f.PrintHeader(fmt.Sprintf("%d pages", len(pages)))
	for _, p := range pages {
		_, _ = fmt.Fprintf(f.Writer, "  %3d  %s\n", p.Index, p.URL)
	}
}

// PrintProviderList renders the registered providers
func (f *Formatter) PrintProviderList(adapters []provider.Adapter) {
	f.PrintHeader("Registered providers")

	rows := make([][]string, 0, len(adapters))
	for _, a := range adapters {
		d := a.Descriptor()
		flags := []string{}
		if d.NSFW {
			flags = append(flags, "nsfw")
		}
		if d.RequiresAntiBot {
			flags = append(flags, "anti-bot")
		}
		enabled := f.SuccessStyle.Sprint("yes")
		if !d.Enabled {
			enabled = f.ErrorStyle.Sprint("no")
		}
		rows = append(rows, []string{
			f.IDStyle.Sprint(d.ID), d.Name, string(d.Kind),
			fmt.Sprintf("%d", d.Priority), enabled, strings.Join(flags, ","),
		})
	}
	f.printTable([]string{"ID", "Name", "Kind", "Priority", "Enabled", "Flags"}, rows)
}

// PrintHealth renders per-provider diagnostics
func (f *Formatter) PrintHealth(health map[string]registry.Health) {
	f.PrintHeader("Provider health")

	if len(health) == 0 {
		f.PrintWarning("No provider activity recorded yet.")
		return
	}

	rows := make([][]string, 0, len(health))
	for _, id := range sortedKeys(health) {
		h := health[id]
		lastSuccess := "never"
		if !h.LastSuccess.IsZero() {
			lastSuccess = h.LastSuccess.Format(time.RFC3339)
		}
		lastError := ""
		if h.LastErrorKind != "" {
			lastError = string(h.LastErrorKind)
		}
		rows = append(rows, []string{
			id, lastSuccess, lastError, h.LastLatency.Round(time.Millisecond).String(),
		})
	}
	f.printTable([]string{"Provider", "Last success", "Last error", "Latency"}, rows)
}

// duplicateIndex maps a manga key to its duplicate group ordinal
func duplicateIndex(res *aggregate.Result) map[string]int {
	out := make(map[string]int)
	for i, group := range res.DuplicateGroups {
		for _, key := range group {
			out[key] = i
		}
	}
	return out
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-1]) + "…"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
