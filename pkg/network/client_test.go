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
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(url string) Request {
	return Request{
		Provider:  "test",
		Op:        "search",
		URL:       url,
		RateLimit: 1000, // don't throttle tests
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	req := testRequest(srv.URL)
	req.Headers = map[string]string{"User-Agent": "test-agent"}

	body, err := client.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))
}

func TestFetchRetriesServerErrorOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	body, err := client.Fetch(context.Background(), testRequest(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	_, err := client.Fetch(context.Background(), testRequest(srv.URL))
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchClassifiesBlockedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient(logger.Nop())
		_, err := client.Fetch(context.Background(), testRequest(srv.URL))
		srv.Close()

		require.Error(t, err)
		assert.True(t, errors.IsBlocked(err), "status %d", status)
	}
}

// A 200 whose body is a challenge interstitial is a block, not content
func TestFetchDetectsChallengeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Just a moment...</title></head></html>"))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	_, err := client.Fetch(context.Background(), testRequest(srv.URL))
	require.Error(t, err)
	assert.True(t, errors.IsBlocked(err))
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	req := testRequest(srv.URL)
	req.Timeout = 50 * time.Millisecond

	_, err := client.Fetch(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

// Parent cancellation is not a provider failure; it propagates raw so
// the dispatcher can tell the two apart
func TestFetchParentCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	client := NewClient(logger.Nop())
	_, err := client.Fetch(ctx, testRequest(srv.URL))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok","total":3}`))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	var out struct {
		Result string `json:"result"`
		Total  int    `json:"total"`
	}
	require.NoError(t, client.FetchJSON(context.Background(), testRequest(srv.URL), &out))
	assert.Equal(t, "ok", out.Result)
	assert.Equal(t, 3, out.Total)
}

func TestFetchJSONMalformedIsParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": tru`))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop())
	var out map[string]any
	err := client.FetchJSON(context.Background(), testRequest(srv.URL), &out)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}

func TestIsChallenge(t *testing.T) {
	assert.True(t, IsChallenge([]byte(`<title>Just a Moment...</title>`)))
	assert.True(t, IsChallenge([]byte(`<div class="g-recaptcha"></div>`)))
	assert.True(t, IsChallenge([]byte(`Checking your browser before accessing`)))
	assert.False(t, IsChallenge([]byte(`<html><body>Chapter 1</body></html>`)))
	assert.False(t, IsChallenge(nil))
}
