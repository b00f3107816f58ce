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

// Package antibot provides the request indirection for providers that
// actively block automated scraping. Adapters declare the requirement
// via their descriptor flag and never see the solving mechanics.
package antibot

import (
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/network"
	"context"
)

// Router dispatches a request either directly or through the
// challenge-solving indirection
type Router struct {
	client *network.Client
	solver *Solver // nil when no solver is configured
}

// NewRouter creates a router. solver may be nil; requests that require
// anti-bot handling then fail as BLOCKED instead of hitting the site
// and burning the provider's reputation on guaranteed challenges.
func NewRouter(client *network.Client, solver *Solver) *Router {
	return &Router{client: client, solver: solver}
}

// Fetch retrieves a page body, honoring the descriptor's anti-bot
// requirement
func (r *Router) Fetch(ctx context.Context, req network.Request, requiresAntiBot bool) ([]byte, error) {
	if !requiresAntiBot {
		return r.client.Fetch(ctx, req)
	}
	if r.solver == nil {
		return nil, errors.Blocked(req.Provider, req.Op,
			errors.New("provider requires anti-bot handling but no solver is configured"))
	}
	return r.solver.Fetch(ctx, req)
}
