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

package core

import (
	"strings"
	"time"
)

// Status is the publication status of a manga on its source site
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusHiatus    Status = "hiatus"
	StatusUnknown   Status = "unknown"
)

// ParseStatus maps the wildly inconsistent status strings sources use
// onto the canonical Status values
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ongoing", "on-going", "on going", "publishing", "releasing", "updating":
		return StatusOngoing
	case "completed", "complete", "finished", "ended", "end":
		return StatusCompleted
	case "hiatus", "on hiatus", "on hold", "paused":
		return StatusHiatus
	default:
		return StatusUnknown
	}
}

// Manga is the canonical record every adapter normalizes its source into
type Manga struct {
	SourceID    string   // provider id the record came from
	ExternalID  string   // provider-native id or slug
	Title       string
	Cover       string
	Description string
	Status      Status
	Genres      []string
	Authors     []string
	NSFW        bool

	// Confidence reflects how deep into the selector fallback chains the
	// adapter had to reach to produce this record. 1.0 means every field
	// resolved on its primary selector (or came from a first-party API).
	Confidence float64
}

// Chapter represents chapter metadata in normalized form
type Chapter struct {
	SourceID    string
	MangaID     string // provider-native manga id
	ID          string // provider-native chapter id
	Number      float64
	Title       string
	Language    *string    // nil when the source does not expose a language
	PublishedAt *time.Time // nil when no date is available
}

// Page represents a single page image of a chapter
type Page struct {
	Index  int // 1-based
	URL    string
	Width  int // 0 when the source gives no size hint
	Height int
}
