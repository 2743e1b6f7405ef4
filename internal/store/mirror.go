// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MirrorRecord is the unit replicated to a mirror sink after each commit.
type MirrorRecord struct {
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Sink accepts best-effort replicas of committed snapshots. Write errors
// are surfaced to the caller for logging only; they never fail a commit.
type Sink interface {
	Name() string
	Write(ctx context.Context, rec MirrorRecord) error
}

// WebhookSink POSTs each record as JSON to a configured endpoint.
type WebhookSink struct {
	URL    string
	Client *http.Client
}

// Name returns the sink identifier.
func (s *WebhookSink) Name() string { return "webhook" }

// Write posts the record. Any non-2xx status is a mirror failure.
func (s *WebhookSink) Write(ctx context.Context, rec MirrorRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling mirror record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
