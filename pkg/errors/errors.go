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

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	As     = stderrors.As
	Is     = stderrors.Is
	Unwrap = stderrors.Unwrap
	New    = stderrors.New
)

// Kind classifies a provider failure. Every error an adapter returns
// carries exactly one kind; the aggregation layer records it per source
// and never lets it abort sibling dispatches.
type Kind string

const (
	KindNetwork Kind = "network" // connection/DNS failure or unexpected status
	KindTimeout Kind = "timeout" // per-provider request budget exceeded
	KindParse   Kind = "parse"   // selector chain exhausted on a required field, or schema mismatch
	KindBlocked Kind = "blocked" // anti-bot challenge detected, or the solver itself failed
)

// ProviderError is the structured failure every adapter call normalizes
// raw transport and parse errors into before returning
type ProviderError struct {
	Provider string
	Op       string
	Kind     Kind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Op, e.Kind)
	}
	return fmt.Sprintf("[%s] %s: %s: %v", e.Provider, e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Network wraps err as a NETWORK failure
func Network(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Kind: KindNetwork, Err: err}
}

// Timeout wraps err as a TIMEOUT failure
func Timeout(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Kind: KindTimeout, Err: err}
}

// Parse wraps err as a PARSE failure
func Parse(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Kind: KindParse, Err: err}
}

// Blocked wraps err as a BLOCKED failure
func Blocked(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Kind: KindBlocked, Err: err}
}

// FromStatus classifies a non-2xx HTTP status. 403 and 429 are treated
// as anti-bot signals; everything else is a plain network failure.
func FromStatus(provider, op string, status int) *ProviderError {
	err := fmt.Errorf("unexpected status %d", status)
	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests:
		return Blocked(provider, op, err)
	default:
		return Network(provider, op, err)
	}
}

// KindOf extracts the failure kind from an error chain, defaulting to
// NETWORK for errors that were never classified
func KindOf(err error) Kind {
	var pe *ProviderError
	if As(err, &pe) {
		return pe.Kind
	}
	return KindNetwork
}

func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }
func IsParse(err error) bool   { return KindOf(err) == KindParse }
func IsBlocked(err error) bool { return KindOf(err) == KindBlocked }
