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
	"strings"
	"time"
)

// dateLayouts covers the formats scraper sites and APIs actually emit
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 January 2006",
	"02 Jan 2006",
	"02/01/2006",
	"01/02/2006",
}

var relativePattern = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)

// ParseDate parses an absolute or relative date string, returning nil
// when nothing usable can be extracted. Madara-theme sites love
// relative dates ("3 days ago") on chapter lists.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	lower := strings.ToLower(raw)
	now := time.Now()

	switch lower {
	case "today", "just now":
		return &now
	case "yesterday":
		t := now.AddDate(0, 0, -1)
		return &t
	}

	if m := relativePattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		var t time.Time
		switch m[2] {
		case "second":
			t = now.Add(-time.Duration(n) * time.Second)
		case "minute":
			t = now.Add(-time.Duration(n) * time.Minute)
		case "hour":
			t = now.Add(-time.Duration(n) * time.Hour)
		case "day":
			t = now.AddDate(0, 0, -n)
		case "week":
			t = now.AddDate(0, 0, -7*n)
		case "month":
			t = now.AddDate(0, -n, 0)
		case "year":
			t = now.AddDate(-n, 0, 0)
		}
		return &t
	}

	return nil
}

// FormatDate renders a date for display
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
