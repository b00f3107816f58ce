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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solverService(t *testing.T, handler func(req solverRequest) solverResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req solverRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "request.get", req.Cmd)

		_ = json.NewEncoder(w).Encode(handler(req))
	}))
}

func TestSolverFetchSolved(t *testing.T) {
	srv := solverService(t, func(req solverRequest) solverResponse {
		var resp solverResponse
		resp.Status = "ok"
		resp.Solution.Status = 200
		resp.Solution.URL = req.URL
		resp.Solution.Response = "<html>solved content</html>"
		return resp
	})
	defer srv.Close()

	solver := NewSolver(srv.URL, 2, logger.Nop())
	body, err := solver.Fetch(context.Background(), network.Request{
		Provider: "toonily", Op: "search", URL: "https://toonily.com/search/x/",
	})
	require.NoError(t, err)
	assert.Equal(t, "<html>solved content</html>", string(body))
}

func TestSolverFetchServiceError(t *testing.T) {
	srv := solverService(t, func(req solverRequest) solverResponse {
		return solverResponse{Status: "error", Message: "challenge not solved"}
	})
	defer srv.Close()

	solver := NewSolver(srv.URL, 2, logger.Nop())
	_, err := solver.Fetch(context.Background(), network.Request{Provider: "toonily", Op: "search"})
	require.Error(t, err)
	assert.True(t, errors.IsBlocked(err))
	assert.Contains(t, err.Error(), "challenge not solved")
}

// The solver answering with a solved-but-denied page still classifies
// by the origin status
func TestSolverFetchSolutionStatus(t *testing.T) {
	srv := solverService(t, func(req solverRequest) solverResponse {
		var resp solverResponse
		resp.Status = "ok"
		resp.Solution.Status = 403
		return resp
	})
	defer srv.Close()

	solver := NewSolver(srv.URL, 2, logger.Nop())
	_, err := solver.Fetch(context.Background(), network.Request{Provider: "toonily", Op: "search"})
	require.Error(t, err)
	assert.True(t, errors.IsBlocked(err))
}

func TestSolverFetchServiceDown(t *testing.T) {
	solver := NewSolver("http://127.0.0.1:1", 2, logger.Nop())
	_, err := solver.Fetch(context.Background(), network.Request{Provider: "toonily", Op: "search"})
	require.Error(t, err)
	assert.True(t, errors.IsBlocked(err))
}

func TestRouterPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("direct"))
	}))
	defer srv.Close()

	router := NewRouter(network.NewClient(logger.Nop()), nil)
	body, err := router.Fetch(context.Background(), network.Request{
		Provider: "manhuaplus", Op: "search", URL: srv.URL, RateLimit: 1000,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "direct", string(body))
}

// Anti-bot providers without a configured solver fail fast as BLOCKED
// instead of hitting the site and failing slow
func TestRouterNoSolverIsBlocked(t *testing.T) {
	router := NewRouter(network.NewClient(logger.Nop()), nil)
	_, err := router.Fetch(context.Background(), network.Request{
		Provider: "toonily", Op: "search", URL: "https://toonily.com/",
	}, true)
	require.Error(t, err)
	assert.True(t, errors.IsBlocked(err))
}
