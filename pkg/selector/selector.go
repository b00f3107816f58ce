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

// Package selector implements fallback-chain resolution over parsed
// HTML documents. Resolution is a pure function over (document, chain):
// selectors are tried in order and the first that yields a match wins,
// tagged with the chain index used so callers can derive a confidence
// score. Exhausting a chain is not an error here; absence of an
// optional field must not prevent a record from being produced.
package selector

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Match is a single element resolved through a chain
type Match struct {
	Sel *goquery.Selection
	// ChainIndex is the position of the selector that matched;
	// 0 is the most specific candidate
	ChainIndex int
}

// MatchList is a multi-element resolution result
type MatchList struct {
	Sels       *goquery.Selection
	ChainIndex int
}

// Parse builds a queryable document from a raw response body
func Parse(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// One tries each selector in the chain against root and returns the
// first single-element match, or nil when the chain is exhausted.
func One(root *goquery.Selection, chain []string) *Match {
	for i, sel := range chain {
		found := root.Find(sel).First()
		if found.Length() > 0 {
			return &Match{Sel: found, ChainIndex: i}
		}
	}
	return nil
}

// All tries each selector in the chain against root and returns every
// element matched by the first selector that yields at least one, or
// nil when the chain is exhausted.
func All(root *goquery.Selection, chain []string) *MatchList {
	for i, sel := range chain {
		found := root.Find(sel)
		if found.Length() > 0 {
			return &MatchList{Sels: found, ChainIndex: i}
		}
	}
	return nil
}

// Text returns the trimmed text content of a match
func (m *Match) Text() string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m.Sel.Text())
}

// Attr returns the first non-empty attribute among names. Lazy-loading
// sites stash the real image URL in data-src or data-lazy-src.
func (m *Match) Attr(names ...string) string {
	if m == nil {
		return ""
	}
	for _, name := range names {
		if v, ok := m.Sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
