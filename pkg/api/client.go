// Package api is the rate-aware transport for the platform HTTP API. It attaches bearer tokens,
// waits out rate limits, refreshes rejected tokens once and paginates cursor-based endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/postsync/pkg/domain"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRateWait = 15 * time.Minute
	defaultRateWait    = time.Minute
	minRateWait        = time.Second
	maxErrorBody       = 4096
)

// TokenSource provides valid access tokens, implemented by auth.Guardian
type TokenSource interface {
	EnsureValid(ctx context.Context) (domain.Credentials, error)
	ForceRefresh(ctx context.Context, rejected string) (domain.Credentials, error)
}

// Client issues authenticated GET requests
type Client struct {
	baseURL     string
	tokens      TokenSource
	httpClient  *http.Client
	userAgent   string
	maxRateWait time.Duration
	onRateLimit func(path string, wait time.Duration)

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Params for NewClient
type Params struct {
	BaseURL     string
	Tokens      TokenSource
	Timeout     time.Duration // per call
	MaxRateWait time.Duration // ceiling for a single rate-limit wait
	UserAgent   string
	OnRateLimit func(path string, wait time.Duration)
	HTTPClient  *http.Client // optional, Timeout is applied to it
}

// NewClient makes a client with defaults for unset params
func NewClient(p Params) *Client {
	if p.Timeout == 0 {
		p.Timeout = defaultTimeout
	}
	if p.MaxRateWait == 0 {
		p.MaxRateWait = defaultMaxRateWait
	}
	httpClient := p.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	httpClient.Timeout = p.Timeout

	return &Client{
		baseURL:     strings.TrimRight(p.BaseURL, "/"),
		tokens:      p.Tokens,
		httpClient:  httpClient,
		userAgent:   p.UserAgent,
		maxRateWait: p.MaxRateWait,
		onRateLimit: p.OnRateLimit,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// Get calls path with query params and decodes the JSON response into out.
// 429 responses are retried after the reset time without limit, a 401 triggers one forced
// token refresh, a second 401 is ErrAuthExpired. Other failures return *domain.TransportError.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	refreshed := false
	for {
		creds, err := c.tokens.EnsureValid(ctx)
		if err != nil {
			return err
		}

		resp, err := c.do(ctx, path, params, creds.AccessToken)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			drainClose(resp.Body)
			wait := c.rateLimitWait(resp.Header)
			lgr.Printf("[WARN] rate limited on %s, waiting %v", path, wait)
			if c.onRateLimit != nil {
				c.onRateLimit(path, wait)
			}
			if err := c.sleep(ctx, wait); err != nil {
				return fmt.Errorf("wait for rate limit reset: %w", err)
			}
			continue

		case resp.StatusCode == http.StatusUnauthorized:
			drainClose(resp.Body)
			if refreshed {
				return fmt.Errorf("%w: token rejected after refresh on %s", domain.ErrAuthExpired, path)
			}
			refreshed = true
			if _, err := c.tokens.ForceRefresh(ctx, creds.AccessToken); err != nil {
				return err
			}
			continue

		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			drainClose(resp.Body)
			return &domain.TransportError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		drainClose(resp.Body)
		if err != nil {
			return &domain.TransportError{Path: path, Status: resp.StatusCode, Body: "malformed response",
				Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}
}

func (c *Client) do(ctx context.Context, path string, params url.Values, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// caller cancellation is not a transport failure of this account
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &domain.TransportError{Path: path, Err: err}
	}
	return resp, nil
}

// rateLimitWait computes how long to wait from x-rate-limit-reset (epoch seconds) or Retry-After,
// clamped to [minRateWait, maxRateWait]
func (c *Client) rateLimitWait(h http.Header) time.Duration {
	wait := defaultRateWait
	if reset := h.Get("x-rate-limit-reset"); reset != "" {
		if ts, err := strconv.ParseInt(reset, 10, 64); err == nil {
			wait = time.Unix(ts, 0).Sub(c.now()) + time.Second
		}
	} else if ra := h.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait < minRateWait {
		wait = minRateWait
	}
	if wait > c.maxRateWait {
		wait = c.maxRateWait
	}
	return wait
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}

// IsTransportError reports whether err is a per-call failure that the caller may isolate
func IsTransportError(err error) (*domain.TransportError, bool) {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
