package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"tecex/internal/config"
)

// ErrBadPayload marks a response body that could not be decoded into
// records at all. It is the only failure the ingestion core surfaces as an
// error; everything else degrades to partial or empty results.
var ErrBadPayload = errors.New("undecodable response payload")

// Client posts report queries to the single TecDoc-style JSON endpoint.
// Each report type is one JSON payload (see queries.go) against the same
// URL, authenticated by a static API key header.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *rateLimiter
	log        *zap.SugaredLogger
}

func NewClient(cfg config.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond},
		limiter:    newRateLimiter(cfg.RateLimitRPS),
		log:        log,
	}
}

// Call executes one report query and returns the decoded response object.
// Transport and HTTP failures come back as plain errors; a 2xx body that
// is not a JSON object comes back as ErrBadPayload.
func (c *Client) Call(ctx context.Context, payload map[string]any) (map[string]any, error) {
	if err := c.cfg.Require("TECDOC_API_KEY", c.cfg.TecdocAPIKey); err != nil {
		return nil, err
	}

	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.waitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TecdocBaseURL, bytes.NewReader(blob))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
		req.Header.Set("X-Api-Key", c.cfg.TecdocAPIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				c.log.Warnw("retrying tecdoc request", "status", resp.StatusCode, "attempt", attempt, "backoff", backoff.String())
				time.Sleep(backoff)
				lastErr = fmt.Errorf("tecdoc status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("tecdoc api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 300))
		}

		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return out, nil
	}

	if lastErr == nil {
		lastErr = errors.New("tecdoc request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// rateLimiter spaces requests at a fixed interval; the upstream service
// throttles aggressively on bursts.
type rateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

func newRateLimiter(requestsPerSecond int) *rateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &rateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

func (r *rateLimiter) waitTurn() {
	r.mu.Lock()
	now := time.Now()
	scheduled := now
	if r.nextAllowedAt.After(now) {
		scheduled = r.nextAllowedAt
	}
	r.nextAllowedAt = scheduled.Add(r.interval)
	r.mu.Unlock()

	if sleep := time.Until(scheduled); sleep > 0 {
		time.Sleep(sleep)
	}
}
