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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	provider, id, err := ParseID("mangadex:a1b2-c3d4")
	require.NoError(t, err)
	assert.Equal(t, "mangadex", provider)
	assert.Equal(t, "a1b2-c3d4", id)

	// External ids may themselves contain colons; only the first
	// separator splits
	provider, id, err = ParseID("weird:urn:uuid:42")
	require.NoError(t, err)
	assert.Equal(t, "weird", provider)
	assert.Equal(t, "urn:uuid:42", id)
}

func TestParseIDInvalid(t *testing.T) {
	for _, raw := range []string{"", "noseparator", ":id-only", "provider:"} {
		_, _, err := ParseID(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestMangaKey(t *testing.T) {
	m := Manga{SourceID: "toonily", ExternalID: "solo-leveling"}
	assert.Equal(t, "toonily:solo-leveling", m.Key())
	assert.Equal(t, m.Key(), FormatID("toonily", "solo-leveling"))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"OnGoing", StatusOngoing},
		{"  Publishing ", StatusOngoing},
		{"Completed", StatusCompleted},
		{"END", StatusCompleted},
		{"On Hiatus", StatusHiatus},
		{"Season 2 coming", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStatus(tt.raw), "raw %q", tt.raw)
	}
}
