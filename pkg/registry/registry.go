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
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"Kuroibara/pkg/provider"
	"Kuroibara/pkg/provider/api"
	"Kuroibara/pkg/provider/enhanced"
	"Kuroibara/pkg/provider/generic"
	"fmt"
	"sort"
)

// Deps are the shared services adapters are built on
type Deps struct {
	Client *network.Client
	Router *antibot.Router
	Logger logger.Logger
}

// Registry holds the immutable descriptor set and one adapter per
// descriptor, constructed once at load time. Enable state and priority
// are overlaid per request via Preferences, never mutated in place.
type Registry struct {
	descriptors map[string]*descriptor.Descriptor
	adapters    map[string]provider.Adapter
	ids         []string // sorted by (priority, name) for determinism

	health *healthTracker
}

// Preferences is a per-request/per-user override snapshot merged
// functionally over the static descriptor set
type Preferences struct {
	// Enabled overrides the descriptor enabled flag per provider id
	Enabled map[string]bool
	// Priority overrides the descriptor priority per provider id
	Priority map[string]int
}

func (p *Preferences) enabled(d *descriptor.Descriptor) bool {
	if p != nil {
		if v, ok := p.Enabled[d.ID]; ok {
			return v
		}
	}
	return d.Enabled
}

func (p *Preferences) priority(d *descriptor.Descriptor) int {
	if p != nil {
		if v, ok := p.Priority[d.ID]; ok {
			return v
		}
	}
	return d.Priority
}

// Load validates every descriptor and builds its adapter. A malformed
// descriptor fails the whole load: config errors are a deploy-time
// defect, not a runtime-resilience concern.
func Load(descs []descriptor.Descriptor, deps Deps) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[string]*descriptor.Descriptor, len(descs)),
		adapters:    make(map[string]provider.Adapter, len(descs)),
		health:      newHealthTracker(),
	}

	for i := range descs {
		d := &descs[i]
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid provider descriptor: %w", err)
		}
		if _, exists := r.descriptors[d.ID]; exists {
			return nil, fmt.Errorf("duplicate provider descriptor id %q", d.ID)
		}

		adapter, err := buildAdapter(d, deps)
		if err != nil {
			return nil, err
		}

		r.descriptors[d.ID] = d
		r.adapters[d.ID] = adapter
		r.ids = append(r.ids, d.ID)
	}

	sort.Slice(r.ids, func(i, j int) bool {
		a, b := r.descriptors[r.ids[i]], r.descriptors[r.ids[j]]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Name < b.Name
	})

	deps.Logger.Info("Loaded %d provider descriptors", len(r.ids))
	return r, nil
}

// buildAdapter selects the adapter variant for a descriptor. The
// variant set is sealed; descriptor validation already rejected
// unknown kinds, so the default arm guards against drift between the
// two switches.
func buildAdapter(d *descriptor.Descriptor, deps Deps) (provider.Adapter, error) {
	switch d.Kind {
	case descriptor.KindGeneric:
		return generic.New(d, deps.Router, deps.Logger), nil
	case descriptor.KindEnhanced:
		return enhanced.New(d, deps.Router, deps.Logger), nil
	case descriptor.KindAPI:
		return api.New(d, deps.Client, deps.Logger), nil
	default:
		return nil, fmt.Errorf("no adapter for descriptor kind %q", d.Kind)
	}
}

// Get returns the adapter for a provider id
func (r *Registry) Get(id string) (provider.Adapter, error) {
	adapter, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("provider %q not found", id)
	}
	return adapter, nil
}

// Descriptor returns the descriptor for a provider id
func (r *Registry) Descriptor(id string) (*descriptor.Descriptor, error) {
	d, ok := r.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("provider %q not found", id)
	}
	return d, nil
}

// All returns every adapter in (priority, name) order regardless of
// enable state
func (r *Registry) All() []provider.Adapter {
	out := make([]provider.Adapter, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.adapters[id])
	}
	return out
}

// Enabled returns the candidate adapter set for a request: enabled
// providers (after the preference overlay), with NSFW sources excluded
// when the caller's context disallows adult content. Ordering is
// ascending effective priority, ties broken by name.
func (r *Registry) Enabled(nsfwAllowed bool, prefs *Preferences) []provider.Adapter {
	var out []provider.Adapter
	for _, id := range r.ids {
		d := r.descriptors[id]
		if !prefs.enabled(d) {
			continue
		}
		if d.NSFW && !nsfwAllowed {
			continue
		}
		out = append(out, r.adapters[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Descriptor(), out[j].Descriptor()
		pa, pb := prefs.priority(a), prefs.priority(b)
		if pa != pb {
			return pa < pb
		}
		return a.Name < b.Name
	})

	return out
}

// EffectivePriority resolves the priority for a provider under a
// preference overlay
func (r *Registry) EffectivePriority(id string, prefs *Preferences) int {
	if d, ok := r.descriptors[id]; ok {
		return prefs.priority(d)
	}
	return 0
}
