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
	"fmt"
	"strings"
)

// FormatID creates a combined identifier in the format "provider:id"
func FormatID(providerID, externalID string) string {
	return fmt.Sprintf("%s:%s", providerID, externalID)
}

// ParseID splits a combined "provider:id" identifier into its components
func ParseID(combined string) (providerID string, externalID string, err error) {
	parts := strings.SplitN(combined, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid ID format, must be 'provider:id'")
	}
	return parts[0], parts[1], nil
}

// Key returns the combined identifier for a manga record
func (m *Manga) Key() string {
	return FormatID(m.SourceID, m.ExternalID)
}
