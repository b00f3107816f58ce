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

package aggregate

import (
	"Kuroibara/pkg/core"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// duplicateGroups clusters records that look like the same title
// across sources. Titles are compared case-folded and
// punctuation-stripped, exact or within a Levenshtein budget scaled to
// title length; when both author sets are known they must overlap.
// The thresholds are tuning defaults, not contracts.
func duplicateGroups(merged []core.Manga) [][]string {
	n := len(merged)
	if n < 2 {
		return nil
	}

	normalized := make([]string, n)
	for i := range merged {
		normalized[i] = normalizeTitle(merged[i].Title)
	}

	// Union-find over pairwise matches
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if titlesMatch(normalized[i], normalized[j]) && authorsCompatible(merged[i].Authors, merged[j].Authors) {
				union(i, j)
			}
		}
	}

	// Collect clusters in input (ranked) order so grouping is
	// deterministic
	clusters := make(map[int][]string)
	var roots []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, seen := clusters[root]; !seen {
			roots = append(roots, root)
		}
		clusters[root] = append(clusters[root], merged[i].Key())
	}

	var groups [][]string
	for _, root := range roots {
		if group := clusters[root]; len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}

// normalizeTitle case-folds, strips punctuation and collapses
// whitespace
func normalizeTitle(title string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
		// Punctuation and symbols are dropped entirely
	}
	return strings.TrimSpace(b.String())
}

// titlesMatch accepts exact normalized equality or a small
// length-scaled Levenshtein distance
func titlesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	budget := 1 + min(len(a), len(b))/10
	return fuzzy.LevenshteinDistance(a, b) <= budget
}

// authorsCompatible requires overlap only when both sides know their
// authors; an unknown author set never blocks grouping
func authorsCompatible(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	seen := make(map[string]bool, len(a))
	for _, author := range a {
		seen[strings.ToLower(strings.TrimSpace(author))] = true
	}
	for _, author := range b {
		if seen[strings.ToLower(strings.TrimSpace(author))] {
			return true
		}
	}
	return false
}
