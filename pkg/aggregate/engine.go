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

// Package aggregate implements the fan-out dispatch across enabled
// providers: one task per adapter, each with an independent timeout,
// joined with partial results. A single slow or dead provider must
// never stall or fail the aggregate search.
package aggregate

import (
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"Kuroibara/pkg/provider"
	"Kuroibara/pkg/registry"
	"context"
	"strings"
	"time"
)

// dispatchGrace extends the task context slightly past the request
// budget so the network layer classifies its own timeout before the
// task context fires
const dispatchGrace = 500 * time.Millisecond

// Engine fans requests out across the registry's enabled adapters
type Engine struct {
	registry *registry.Registry
	logger   logger.Logger
}

// New creates an aggregation engine over a loaded registry
func New(reg *registry.Registry, log logger.Logger) *Engine {
	return &Engine{registry: reg, logger: log}
}

// outcome is what one provider task reports back
type outcome struct {
	id      string
	manga   []core.Manga
	err     error
	elapsed time.Duration
}

// Search dispatches the query to every candidate adapter concurrently
// and joins partial results. It never returns an error: per-provider
// failures are recorded in the result, and a fully failed dispatch is
// a valid empty result.
func (e *Engine) Search(ctx context.Context, query string, opts Options) *Result {
	candidates := e.candidates(opts)

	result := &Result{
		SourcesFailed: make(map[string]SourceFailure),
		Elapsed:       make(map[string]time.Duration),
	}
	for _, a := range candidates {
		result.SourcesQueried = append(result.SourcesQueried, a.Descriptor().ID)
	}

	if len(candidates) == 0 {
		e.logger.Warn("search %q: no enabled providers match the request", query)
		return result
	}

	e.logger.Info("search %q: dispatching to %d providers", query, len(candidates))

	outcomes := make(chan outcome, len(candidates))
	for _, adapter := range candidates {
		go e.dispatch(ctx, adapter, query, opts, outcomes)
	}

	var merged []core.Manga
	pending := len(candidates)
	for pending > 0 {
		select {
		case <-ctx.Done():
			// Caller cancelled the whole search; still-running tasks
			// see the same context and wind down on their own. Their
			// partial work is dropped.
			e.logger.Warn("search %q cancelled with %d providers still running", query, pending)
			pending = 0
		case out := <-outcomes:
			pending--
			result.Elapsed[out.id] = out.elapsed

			if out.err != nil {
				kind := errors.KindOf(out.err)
				result.SourcesFailed[out.id] = SourceFailure{Kind: kind, Message: out.err.Error()}
				e.registry.RecordFailure(out.id, kind, out.elapsed)
				e.logger.Warn("[%s] search failed (%s): %v", out.id, kind, out.err)
				continue
			}

			result.SourcesSucceeded = append(result.SourcesSucceeded, out.id)
			e.registry.RecordSuccess(out.id, out.elapsed)
			merged = append(merged, out.manga...)
		}
	}

	if len(opts.Filters) > 0 {
		merged = filterResults(merged, opts.Filters)
	}

	e.rank(merged, opts.Prefs)
	result.Manga = merged
	result.DuplicateGroups = duplicateGroups(merged)

	// Deterministic bookkeeping regardless of completion order
	sortStrings(result.SourcesQueried)
	sortStrings(result.SourcesSucceeded)

	e.logger.Info("search %q: %d results from %d/%d providers",
		query, len(result.Manga), len(result.SourcesSucceeded), len(result.SourcesQueried))

	return result
}

// dispatch runs one provider task under its own budget
func (e *Engine) dispatch(ctx context.Context, adapter provider.Adapter, query string, opts Options, out chan<- outcome) {
	desc := adapter.Descriptor()
	budget := e.budget(desc.Timeout.Std(), desc.RequiresAntiBot, opts.Timeout)

	tctx, cancel := context.WithTimeout(ctx, budget+dispatchGrace)
	defer cancel()

	start := time.Now()
	manga, err := adapter.Search(tctx, query, opts.Page)
	elapsed := time.Since(start)

	if err != nil {
		// A task that outlived its budget is this provider's timeout,
		// whatever shape the context error surfaced in
		if tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			err = errors.Timeout(desc.ID, "search", tctx.Err())
		}
	}

	select {
	case out <- outcome{id: desc.ID, manga: manga, err: err, elapsed: elapsed}:
	case <-ctx.Done():
	}
}

// budget resolves the per-provider timeout: explicit option, then
// descriptor, then the default for the transport (solver round-trips
// get the larger budget)
func (e *Engine) budget(descTimeout time.Duration, antiBot bool, override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if descTimeout > 0 {
		return descTimeout
	}
	if antiBot {
		return antibot.SolverTimeout
	}
	return network.DefaultTimeout
}

// candidates resolves the adapter set for a request
func (e *Engine) candidates(opts Options) []provider.Adapter {
	enabled := e.registry.Enabled(opts.NSFWAllowed, opts.Prefs)
	if len(opts.Providers) == 0 {
		return enabled
	}

	allowed := make(map[string]bool, len(opts.Providers))
	for _, id := range opts.Providers {
		allowed[id] = true
	}

	var out []provider.Adapter
	for _, a := range enabled {
		if allowed[a.Descriptor().ID] {
			out = append(out, a)
		}
	}
	return out
}

// FetchManga retrieves detail for one manga from one provider. Unlike
// Search there is no aggregation to degrade into, so the ProviderError
// surfaces directly.
func (e *Engine) FetchManga(ctx context.Context, providerID, externalID string) (*core.Manga, error) {
	adapter, err := e.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	manga, err := adapter.FetchManga(ctx, externalID)
	e.record(providerID, err, time.Since(start))
	return manga, err
}

// FetchChapters retrieves the chapter list for one manga
func (e *Engine) FetchChapters(ctx context.Context, providerID, externalID string) ([]core.Chapter, error) {
	adapter, err := e.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	chapters, err := adapter.FetchChapters(ctx, externalID)
	e.record(providerID, err, time.Since(start))
	return chapters, err
}

// FetchPages retrieves the page list for one chapter
func (e *Engine) FetchPages(ctx context.Context, providerID, mangaID, chapterID string) ([]core.Page, error) {
	adapter, err := e.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pages, err := adapter.FetchPages(ctx, mangaID, chapterID)
	e.record(providerID, err, time.Since(start))
	return pages, err
}

func (e *Engine) record(providerID string, err error, elapsed time.Duration) {
	if err != nil {
		e.registry.RecordFailure(providerID, errors.KindOf(err), elapsed)
	} else {
		e.registry.RecordSuccess(providerID, elapsed)
	}
}

// filterResults applies field post-filters to the merged list
func filterResults(results []core.Manga, filters map[string]string) []core.Manga {
	filtered := make([]core.Manga, 0, len(results))

	for _, manga := range results {
		if matchesFilters(&manga, filters) {
			filtered = append(filtered, manga)
		}
	}
	return filtered
}

func matchesFilters(manga *core.Manga, filters map[string]string) bool {
	for field, value := range filters {
		lower := strings.ToLower(value)
		switch strings.ToLower(field) {
		case "title":
			if !strings.Contains(strings.ToLower(manga.Title), lower) {
				return false
			}
		case "author":
			if !containsFold(manga.Authors, lower) {
				return false
			}
		case "genre", "tag":
			if !containsFold(manga.Genres, lower) {
				return false
			}
		case "status":
			if !strings.EqualFold(string(manga.Status), value) {
				return false
			}
		}
	}
	return true
}

func containsFold(items []string, lowerNeedle string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), lowerNeedle) {
			return true
		}
	}
	return false
}
