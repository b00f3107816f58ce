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

package selector

const (
	// fallbackPenalty is subtracted per chain level a field had to fall
	// back through before matching
	fallbackPenalty = 0.2
	// weightFloor keeps deep-fallback matches from zeroing out a field
	weightFloor = 0.2
)

// Weight converts a chain index into a per-field confidence weight.
// Index 0 carries full weight; each fallback level costs a fixed
// penalty down to a floor. The exact curve is a tuning default, not a
// contract.
func Weight(chainIndex int) float64 {
	w := 1.0 - fallbackPenalty*float64(chainIndex)
	if w < weightFloor {
		return weightFloor
	}
	return w
}

// Score accumulates per-field confidence weights for one record
type Score struct {
	sum    float64
	fields int
}

// Hit records a field resolved at the given chain index
func (s *Score) Hit(chainIndex int) {
	s.sum += Weight(chainIndex)
	s.fields++
}

// Miss records an optional field whose chain was exhausted
func (s *Score) Miss() {
	s.fields++
}

// Mean returns the record confidence: the mean weight across attempted
// fields, or 1.0 when nothing was attempted (pure API records)
func (s *Score) Mean() float64 {
	if s.fields == 0 {
		return 1.0
	}
	return s.sum / float64(s.fields)
}
