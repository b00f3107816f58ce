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

package util

import (
	"regexp"
	"strconv"
)

var (
	// chapterPattern matches an explicit chapter marker, including
	// fractional numbers ("Chapter 10.5", "Ch. 3", "cap 12")
	chapterPattern = regexp.MustCompile(`(?i)(?:chapter|chap\.?|ch\.?|cap\.?|episode|ep\.?)[\s\-_]*(\d+(?:\.\d+)?)`)
	// numberPattern is the fallback: the first number anywhere in the text
	numberPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// ParseChapterNumber extracts a chapter number from a title or URL
// fragment. Returns -1 when no number is present; callers sort unknown
// numbers first so they remain visible.
func ParseChapterNumber(text string) float64 {
	if m := chapterPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n
		}
	}
	if m := numberPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n
		}
	}
	return -1
}
