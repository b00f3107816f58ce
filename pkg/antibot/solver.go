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

package antibot

import (
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// SolverTimeout budgets a solver round-trip. Challenge solving runs
	// a headless browser behind the endpoint and is much slower than a
	// direct request.
	SolverTimeout = 25 * time.Second

	// DefaultMaxSessions caps concurrent solver sessions. The solver is
	// a shared, capacity-limited resource; admission control keeps a
	// wide provider fan-out from overloading it.
	DefaultMaxSessions = 2
)

// Solver fetches pages through a FlareSolverr-compatible challenge
// solving service
type Solver struct {
	endpoint   string
	httpClient *http.Client
	sessions   chan struct{}
	timeout    time.Duration
	logger     logger.Logger
}

// NewSolver creates a solver client for the given service endpoint
// (e.g. "http://localhost:8191")
func NewSolver(endpoint string, maxSessions int, log logger.Logger) *Solver {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Solver{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		sessions:   make(chan struct{}, maxSessions),
		timeout:    SolverTimeout,
		logger:     log,
	}
}

type solverRequest struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url"`
	MaxTimeout int    `json:"maxTimeout"`
}

type solverResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Solution struct {
		URL      string `json:"url"`
		Status   int    `json:"status"`
		Response string `json:"response"`
	} `json:"solution"`
}

// Fetch routes one request through the solver. Any solver-side failure
// or timeout is a BLOCKED error: the caller asked for challenge solving
// and did not get a solved page.
func (s *Solver) Fetch(ctx context.Context, req network.Request) ([]byte, error) {
	// Admission control on the shared session pool
	select {
	case s.sessions <- struct{}{}:
		defer func() { <-s.sessions }()
	case <-ctx.Done():
		return nil, errors.Blocked(req.Provider, req.Op,
			fmt.Errorf("waiting for solver session: %w", ctx.Err()))
	}

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(solverRequest{
		Cmd:        "request.get",
		URL:        req.URL,
		MaxTimeout: int(s.timeout / time.Millisecond),
	})
	if err != nil {
		return nil, errors.Blocked(req.Provider, req.Op, err)
	}

	s.logger.Debug("[%s] routing %s through solver", req.Provider, req.URL)

	httpReq, err := http.NewRequestWithContext(tctx, http.MethodPost, s.endpoint+"/v1", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Blocked(req.Provider, req.Op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Blocked(req.Provider, req.Op, fmt.Errorf("solver request failed: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var solved solverResponse
	if err := json.NewDecoder(resp.Body).Decode(&solved); err != nil {
		return nil, errors.Blocked(req.Provider, req.Op, fmt.Errorf("decoding solver response: %w", err))
	}

	if solved.Status != "ok" {
		return nil, errors.Blocked(req.Provider, req.Op,
			fmt.Errorf("solver returned status %q: %s", solved.Status, solved.Message))
	}
	if solved.Solution.Status >= 400 {
		return nil, errors.FromStatus(req.Provider, req.Op, solved.Solution.Status)
	}

	return []byte(solved.Solution.Response), nil
}
