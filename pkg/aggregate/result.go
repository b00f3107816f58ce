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
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/registry"
	"time"
)

// Options controls one aggregated search call
type Options struct {
	// Providers restricts the dispatch to an explicit id subset; empty
	// means every enabled candidate
	Providers []string
	// NSFWAllowed admits descriptors flagged as adult content
	NSFWAllowed bool
	// Prefs is the per-user enable/priority overlay
	Prefs *registry.Preferences
	// Page is the 1-based result page requested from each provider
	Page int
	// Timeout overrides the per-provider budget
	Timeout time.Duration
	// Filters are post-filters on the merged results
	// (title/author/genre/status)
	Filters map[string]string
}

// SourceFailure records why one provider contributed nothing
type SourceFailure struct {
	Kind    errors.Kind
	Message string
}

// Result is the aggregated outcome of a fan-out search. Failures are
// always recorded, never swallowed: an all-failed call is still a
// valid, fully-formed Result with an empty manga list.
type Result struct {
	Manga []core.Manga

	SourcesQueried   []string
	SourcesSucceeded []string
	SourcesFailed    map[string]SourceFailure

	// Elapsed is the wall time each provider task took, including
	// failed and timed-out ones
	Elapsed map[string]time.Duration

	// DuplicateGroups clusters records judged to be the same title
	// across sources, identified by their "provider:id" keys. All
	// original records stay in Manga; grouping informs, never hides.
	DuplicateGroups [][]string
}
