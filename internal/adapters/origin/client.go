// Package origin fetches the app's static assets from where they are
// published: an HTTP origin or a local directory.
package origin

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
)

// maxAssetBytes caps a single asset body.
const maxAssetBytes = 32 << 20

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("origin base URL is required")
	}
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Fetch GETs the asset at path below the base URL. Like a browser fetch,
// any HTTP status is a response; only transport failures and exhausted
// retries are errors.
func (c *Client) Fetch(ctx context.Context, path string) (domain.AssetResponse, error) {
	key := domain.AssetKey(path)
	start := time.Now()
	resp, err := c.get(ctx, c.base+key)
	observability.ObserveExternal("http", kind(key), resp.Status, time.Since(start))
	if err != nil {
		return domain.AssetResponse{}, err
	}
	resp.Path = key
	return resp, nil
}

func kind(key string) string {
	if strings.HasPrefix(key, "/data/") {
		return "data"
	}
	return "asset"
}

var errTransient = errors.New("origin: transient failure")

// get performs a GET with client-side rate limiting and retries.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, url string) (domain.AssetResponse, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return domain.AssetResponse{}, err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return domain.AssetResponse{}, err
		}
		req.Header.Set("User-Agent", "munchen-mate/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			// network error or context canceled
			if ctx.Err() != nil {
				return domain.AssetResponse{}, ctx.Err()
			}
			lastErr = err
			// context-aware sleep before retry
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return domain.AssetResponse{}, ctx.Err()
			}
			return domain.AssetResponse{}, lastErr
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: remote %d", errTransient, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return domain.AssetResponse{}, ctx.Err()
			}
			return domain.AssetResponse{}, lastErr
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
		resp.Body.Close()
		if err != nil {
			return domain.AssetResponse{}, fmt.Errorf("read %s: %w", url, err)
		}
		if len(body) > maxAssetBytes {
			return domain.AssetResponse{}, fmt.Errorf("read %s: body exceeds %d bytes", url, maxAssetBytes)
		}
		return domain.AssetResponse{
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}, nil
	}

	return domain.AssetResponse{}, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay (200ms, 400ms, 800ms...)
// with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
