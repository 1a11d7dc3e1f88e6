package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/empack-dev/empack/internal/core"
)

// HTTPClient is the HTTP capability (spec.md §4.1): rate-limited,
// retrying, cached JSON GETs. Implementations return *core.NetworkError
// on any failure so the command boundary can classify it.
type HTTPClient interface {
	GetJSON(ctx context.Context, rawURL string, headers map[string]string, query map[string]string) (json.RawMessage, error)

	// GetRaw is GetJSON without the JSON-validate-and-cache-as-JSON step,
	// for the one source (NeoForge's Maven metadata) that answers XML
	// instead. It still goes through the same retry/concurrency-cap path.
	GetRaw(ctx context.Context, rawURL string, headers map[string]string, query map[string]string) ([]byte, error)
}

const (
	maxConcurrentRequests = 8
	maxRetries            = 3
	maxResponseBytes      = 10 * 1024 * 1024
)

type cacheKey string

func makeCacheKey(method, rawURL string, query map[string]string) cacheKey {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(rawURL)
	for _, k := range keys {
		fmt.Fprintf(&b, "&%s=%s", k, query[k])
	}
	return cacheKey(b.String())
}

// LiveHTTPClient wraps net/http with the session-wide concurrency cap,
// exponential-backoff retry on 5xx/429, and a cache valid for the
// session's lifetime. The cache is backed by xsync.MapOf for lock-free
// concurrent reads during the resolver's and version catalog's fan-out.
type LiveHTTPClient struct {
	client    *http.Client
	clock     clockwork.Clock
	sem       chan struct{}
	userAgent string
	cache     *xsync.MapOf[cacheKey, json.RawMessage]
}

func NewLiveHTTPClient(userAgent string, timeout time.Duration) *LiveHTTPClient {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	return &LiveHTTPClient{
		client:    &http.Client{Transport: transport, Timeout: timeout},
		clock:     clockwork.NewRealClock(),
		sem:       make(chan struct{}, maxConcurrentRequests),
		userAgent: userAgent,
		cache:     xsync.NewMapOf[cacheKey, json.RawMessage](),
	}
}

func (c *LiveHTTPClient) GetJSON(ctx context.Context, rawURL string, headers map[string]string, query map[string]string) (json.RawMessage, error) {
	key := makeCacheKey(http.MethodGet, rawURL, query)
	if cached, ok := c.cache.Load(key); ok {
		return cached, nil
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, core.NewNetworkError(core.NetworkKindTimeout, rawURL, 0, ctx.Err())
	}

	body, status, err := c.doWithRetry(ctx, rawURL, headers, query)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, core.NewNetworkError(core.NetworkKindStatus, rawURL, status, fmt.Errorf("unexpected status"))
	}

	var probe json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, core.NewNetworkError(core.NetworkKindParse, rawURL, status, err)
	}

	c.cache.Store(key, probe)
	return probe, nil
}

// GetRaw behaves like GetJSON but skips JSON decoding and the response
// cache, returning the body bytes as-is. It still shares the
// concurrency cap and retry policy.
func (c *LiveHTTPClient) GetRaw(ctx context.Context, rawURL string, headers map[string]string, query map[string]string) ([]byte, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, core.NewNetworkError(core.NetworkKindTimeout, rawURL, 0, ctx.Err())
	}

	body, status, err := c.doWithRetry(ctx, rawURL, headers, query)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, core.NewNetworkError(core.NetworkKindStatus, rawURL, status, fmt.Errorf("unexpected status"))
	}
	return body, nil
}

func (c *LiveHTTPClient) doWithRetry(ctx context.Context, rawURL string, headers map[string]string, query map[string]string) ([]byte, int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, core.NewNetworkError(core.NetworkKindConnection, rawURL, 0, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, 0, core.NewNetworkError(core.NetworkKindConnection, rawURL, 0, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, 0, core.NewNetworkError(core.NetworkKindTimeout, rawURL, 0, ctx.Err())
			}
			zap.L().Warn("http request failed, retrying", zap.String("url", rawURL), zap.Error(err))
			c.sleepBackoff(ctx, backoff)
			backoff *= 2
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			core.LogDeferredError(resp.Body.Close)
			lastErr = fmt.Errorf("retryable status %d", resp.StatusCode)
			c.sleepBackoff(ctx, backoff)
			backoff *= 2
			continue
		}

		limited := io.LimitReader(resp.Body, maxResponseBytes+1)
		data, err := io.ReadAll(limited)
		core.LogDeferredError(resp.Body.Close)
		if err != nil {
			return nil, resp.StatusCode, core.NewNetworkError(core.NetworkKindConnection, rawURL, resp.StatusCode, err)
		}
		if len(data) > maxResponseBytes {
			return nil, resp.StatusCode, core.NewNetworkError(core.NetworkKindParse, rawURL, resp.StatusCode, fmt.Errorf("response exceeds %d bytes", maxResponseBytes))
		}
		return data, resp.StatusCode, nil
	}

	return nil, 0, core.NewNetworkError(core.NetworkKindConnection, rawURL, 0, lastErr)
}

func (c *LiveHTTPClient) sleepBackoff(ctx context.Context, d time.Duration) {
	timer := c.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.Chan():
	case <-ctx.Done():
	}
}

var _ HTTPClient = &LiveHTTPClient{}
