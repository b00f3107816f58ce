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

package registry

import (
	"Kuroibara/pkg/errors"
	"sync"
	"time"
)

// Health is the per-provider diagnostics snapshot exposed to the
// provider status surface
type Health struct {
	LastSuccess   time.Time
	LastFailure   time.Time
	LastErrorKind errors.Kind
	LastLatency   time.Duration
}

type healthTracker struct {
	mu      sync.RWMutex
	entries map[string]*Health
}

func newHealthTracker() *healthTracker {
	return &healthTracker{entries: make(map[string]*Health)}
}

func (t *healthTracker) entry(id string) *Health {
	if h, ok := t.entries[id]; ok {
		return h
	}
	h := &Health{}
	t.entries[id] = h
	return h
}

// RecordSuccess notes a completed call for a provider
func (r *Registry) RecordSuccess(id string, latency time.Duration) {
	r.health.mu.Lock()
	defer r.health.mu.Unlock()

	h := r.health.entry(id)
	h.LastSuccess = time.Now()
	h.LastLatency = latency
}

// RecordFailure notes a failed call and its error kind
func (r *Registry) RecordFailure(id string, kind errors.Kind, latency time.Duration) {
	r.health.mu.Lock()
	defer r.health.mu.Unlock()

	h := r.health.entry(id)
	h.LastFailure = time.Now()
	h.LastErrorKind = kind
	h.LastLatency = latency
}

// HealthSnapshot returns a copy of the per-provider diagnostics
func (r *Registry) HealthSnapshot() map[string]Health {
	r.health.mu.RLock()
	defer r.health.mu.RUnlock()

	out := make(map[string]Health, len(r.health.entries))
	for id, h := range r.health.entries {
		out[id] = *h
	}
	return out
}
