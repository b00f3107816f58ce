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

package network

import (
	"bytes"
	"strings"
)

// challengeMarkers are body fragments that identify an anti-bot
// interstitial served with a 200. Matched case-insensitively against
// the head of the document only; real pages can legitimately mention
// "captcha" in content.
var challengeMarkers = []string{
	"just a moment...",
	"checking your browser",
	"cf-challenge",
	"cf_chl_opt",
	"ddos-guard",
	"verify you are human",
	"g-recaptcha",
	"h-captcha",
}

const challengeScanWindow = 4096

// IsChallenge reports whether a response body looks like a bot
// challenge page rather than site content
func IsChallenge(body []byte) bool {
	window := body
	if len(window) > challengeScanWindow {
		window = window[:challengeScanWindow]
	}
	head := strings.ToLower(string(bytes.ToValidUTF8(window, nil)))

	for _, marker := range challengeMarkers {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}
