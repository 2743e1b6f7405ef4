// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Relay fetches a URL through one routing strategy. Relays exist because the
// upstream listing pages are unreliable from some networks; requests are
// attempted through an ordered relay list and the first success wins.
type Relay interface {
	Name() string
	Get(ctx context.Context, target string) ([]byte, error)
}

// GetVia tries each relay in order and returns the first non-empty body.
// When every relay fails it returns a transport error carrying the last
// failure; callers treat that as "this sub-request produced zero records".
func GetVia(ctx context.Context, relays []Relay, target string) ([]byte, error) {
	var lastErr error
	for _, r := range relays {
		body, err := r.Get(ctx, target)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", r.Name(), err)
			continue
		}
		if len(body) == 0 {
			lastErr = fmt.Errorf("%s: empty body", r.Name())
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("all relays failed for %s: %w", target, lastErr)
}

// DirectRelay fetches the target URL with a plain GET.
type DirectRelay struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the relay identifier.
func (r *DirectRelay) Name() string { return "direct" }

// Get performs a plain GET against the target.
func (r *DirectRelay) Get(ctx context.Context, target string) ([]byte, error) {
	return doGet(ctx, r.Client, target, r.UserAgent)
}

// EnvelopeRelay routes the request through a proxy that wraps the upstream
// body in a JSON envelope. The payload sits under the "contents" field and
// must be unwrapped before use.
type EnvelopeRelay struct {
	Client    *http.Client
	Base      string // e.g. "https://api.allorigins.win/get?url="
	UserAgent string
}

// Name returns the relay identifier.
func (r *EnvelopeRelay) Name() string { return "envelope" }

// envelope is the proxy response shape.
type envelope struct {
	Contents string `json:"contents"`
}

// Get fetches the target through the envelope proxy and unwraps the payload.
func (r *EnvelopeRelay) Get(ctx context.Context, target string) ([]byte, error) {
	body, err := doGet(ctx, r.Client, r.Base+url.QueryEscape(target), r.UserAgent)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unwrapping envelope: %w", err)
	}
	if strings.TrimSpace(env.Contents) == "" {
		return nil, fmt.Errorf("envelope contents empty")
	}
	return []byte(env.Contents), nil
}

// PrefixRelay routes the request through a proxy that returns the raw
// upstream body under a URL prefix.
type PrefixRelay struct {
	Client    *http.Client
	Base      string // e.g. "https://corsproxy.io/?url="
	UserAgent string
}

// Name returns the relay identifier.
func (r *PrefixRelay) Name() string { return "prefix" }

// Get fetches the target through the prefix proxy.
func (r *PrefixRelay) Get(ctx context.Context, target string) ([]byte, error) {
	return doGet(ctx, r.Client, r.Base+url.QueryEscape(target), r.UserAgent)
}

func doGet(ctx context.Context, client *http.Client, target, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
