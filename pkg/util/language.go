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
	"strings"
)

// Language detection patterns for extracting language from chapter
// titles and URLs on sites that mark translations inline
var languagePatterns = map[string]*regexp.Regexp{
	"en": regexp.MustCompile(`(?i)\b(english|eng)\b`),
	"es": regexp.MustCompile(`(?i)\b(spanish|español|esp)\b`),
	"fr": regexp.MustCompile(`(?i)\b(french|français|fra)\b`),
	"de": regexp.MustCompile(`(?i)\b(german|deutsch|ger)\b`),
	"pt": regexp.MustCompile(`(?i)\b(portuguese|português|pt-br)\b`),
	"it": regexp.MustCompile(`(?i)\b(italian|italiano|ita)\b`),
	"ru": regexp.MustCompile(`(?i)\b(russian|русский|rus)\b`),
	"ja": regexp.MustCompile(`(?i)\b(japanese|raw|jpn)\b`),
	"ko": regexp.MustCompile(`(?i)\b(korean|한국어|kor)\b`),
	"zh": regexp.MustCompile(`(?i)\b(chinese|中文|mandarin)\b`),
	"id": regexp.MustCompile(`(?i)\b(indonesian|bahasa)\b`),
	"vi": regexp.MustCompile(`(?i)\b(vietnamese|tiếng việt)\b`),
	"tr": regexp.MustCompile(`(?i)\b(turkish|türkçe)\b`),
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"it": "Italian",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"id": "Indonesian",
	"vi": "Vietnamese",
	"tr": "Turkish",
	"th": "Thai",
	"pl": "Polish",
	"ar": "Arabic",
}

// DetectLanguage attempts to detect a language marker in free text.
// Returns nil when nothing matches; absence of a marker is normal.
func DetectLanguage(text string) *string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for code, pattern := range languagePatterns {
		if pattern.MatchString(text) {
			c := code
			return &c
		}
	}
	return nil
}

// GetLanguageName returns the display name for an ISO 639-1 code, or
// the code itself when unknown
func GetLanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
