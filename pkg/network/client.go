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
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a direct request when the descriptor does
	// not carry its own budget
	DefaultTimeout = 8 * time.Second
	// defaultRate is the per-provider request budget (requests/second)
	// applied when a descriptor does not set one
	defaultRate = 2.0

	maxRetries     = 1
	retryBaseDelay = 500 * time.Millisecond
)

// Request describes one outbound provider request
type Request struct {
	Provider string // provider id, used for rate limiting and error tagging
	Op       string // operation name for error context ("search", "manga", ...)
	URL      string
	Headers  map[string]string

	// RateLimit overrides the default per-provider budget (req/s)
	RateLimit float64
	// Timeout overrides DefaultTimeout
	Timeout time.Duration
}

// Client issues provider HTTP requests with per-provider token-bucket
// rate limiting and a bounded retry on transient failures. Rate limits
// are per provider, not global: providers are independent services with
// independent budgets.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a client. Request deadlines come from the per-call
// context, so the underlying http.Client carries no timeout of its own.
func NewClient(log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		logger:     log,
		limiters:   make(map[string]*rate.Limiter),
	}
}

// limiter returns or creates the token bucket for a provider
func (c *Client) limiter(provider string, perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		perSecond = defaultRate
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[provider]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(perSecond), 1)
	c.limiters[provider] = l
	return l
}

// Fetch performs a GET and returns the response body. Every failure
// path is classified into a ProviderError kind; callers never see raw
// transport errors.
func (c *Client) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if err := c.limiter(req.Provider, req.RateLimit).Wait(ctx); err != nil {
		return nil, classifyCtx(ctx, req, err)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBaseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Debug("[%s] retrying %s in %v", req.Provider, req.URL, backoff)
			select {
			case <-tctx.Done():
				return nil, classifyCtx(ctx, req, tctx.Err())
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.do(tctx, req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

// do performs a single attempt. The second return value reports whether
// the failure is worth one more try (transport errors and 5xx only).
func (c *Client) do(ctx context.Context, req Request) ([]byte, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, false, errors.Network(req.Provider, req.Op, err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	c.logger.Debug("[%s] GET %s", req.Provider, req.URL)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, classifyCtx(ctx, req, ctx.Err())
		}
		return nil, true, errors.Network(req.Provider, req.Op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, true, errors.FromStatus(req.Provider, req.Op, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, errors.FromStatus(req.Provider, req.Op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, classifyCtx(ctx, req, ctx.Err())
		}
		return nil, true, errors.Network(req.Provider, req.Op, err)
	}

	// A 200 with a challenge interstitial is still a block
	if IsChallenge(body) {
		return nil, false, errors.Blocked(req.Provider, req.Op,
			errors.New("bot challenge detected in response body"))
	}

	return body, false, nil
}

// FetchJSON fetches and decodes a JSON response. Decode failures are
// parse errors: the API answered, but not in the shape we expect.
func (c *Client) FetchJSON(ctx context.Context, req Request, out interface{}) error {
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Parse(req.Provider, req.Op, err)
	}
	return nil
}

// classifyCtx maps context termination onto the error taxonomy: a
// deadline hit is this provider's TIMEOUT; a parent cancellation is
// passed through so the dispatcher can drop the task.
func classifyCtx(parent context.Context, req Request, err error) error {
	if parent.Err() == context.Canceled {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(req.Provider, req.Op, err)
	}
	return errors.Network(req.Provider, req.Op, err)
}
