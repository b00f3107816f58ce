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
	"Kuroibara/pkg/registry"
	"sort"
)

// rank orders merged results by (provider priority ascending,
// confidence descending, title, then key). Predictable and
// explainable; completion order of the provider tasks cannot leak
// into the output.
func (e *Engine) rank(merged []core.Manga, prefs *registry.Preferences) {
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := &merged[i], &merged[j]

		pa := e.registry.EffectivePriority(a.SourceID, prefs)
		pb := e.registry.EffectivePriority(b.SourceID, prefs)
		if pa != pb {
			return pa < pb
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Key() < b.Key()
	})
}

func sortStrings(s []string) {
	sort.Strings(s)
}
