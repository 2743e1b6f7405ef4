// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// failRelay always fails with the given error.
type failRelay struct {
	name string
	err  error
}

func (r *failRelay) Name() string { return r.name }

func (r *failRelay) Get(context.Context, string) ([]byte, error) {
	return nil, r.err
}

// okRelay returns a fixed body and records whether it was called.
type okRelay struct {
	name   string
	body   []byte
	called bool
}

func (r *okRelay) Name() string { return r.name }

func (r *okRelay) Get(context.Context, string) ([]byte, error) {
	r.called = true
	return r.body, nil
}

func TestGetViaFirstSuccessWins(t *testing.T) {
	second := &okRelay{name: "second", body: []byte("from-second")}
	third := &okRelay{name: "third", body: []byte("from-third")}
	relays := []Relay{
		&failRelay{name: "first", err: fmt.Errorf("refused")},
		second,
		third,
	}

	body, err := GetVia(context.Background(), relays, "http://example.com")
	if err != nil {
		t.Fatalf("GetVia() error = %v", err)
	}
	if string(body) != "from-second" {
		t.Errorf("body = %q, want from-second", body)
	}
	if third.called {
		t.Error("third relay should not be tried after a success")
	}
}

func TestGetViaEmptyBodySkipped(t *testing.T) {
	empty := &okRelay{name: "empty", body: nil}
	full := &okRelay{name: "full", body: []byte("payload")}

	body, err := GetVia(context.Background(), []Relay{empty, full}, "http://example.com")
	if err != nil {
		t.Fatalf("GetVia() error = %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("body = %q, want payload", body)
	}
}

func TestGetViaAllFail(t *testing.T) {
	relays := []Relay{
		&failRelay{name: "a", err: fmt.Errorf("timeout")},
		&failRelay{name: "b", err: fmt.Errorf("refused")},
	}

	_, err := GetVia(context.Background(), relays, "http://example.com")
	if err == nil {
		t.Fatal("GetVia() should fail when all relays fail")
	}
	if !strings.Contains(err.Error(), "all relays failed") {
		t.Errorf("error = %v, want transport failure", err)
	}
}

func TestEnvelopeRelayUnwraps(t *testing.T) {
	upstream := "<feed>payload</feed>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "" {
			t.Error("envelope relay should pass the target as a query parameter")
		}
		json.NewEncoder(w).Encode(map[string]string{"contents": upstream})
	}))
	defer ts.Close()

	r := &EnvelopeRelay{Client: ts.Client(), Base: ts.URL + "/get?url="}
	body, err := r.Get(context.Background(), "http://arxiv.org/list/cs.CV/new")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != upstream {
		t.Errorf("body = %q, want unwrapped upstream payload", body)
	}
}

func TestEnvelopeRelayEmptyContents(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"contents": "  "})
	}))
	defer ts.Close()

	r := &EnvelopeRelay{Client: ts.Client(), Base: ts.URL + "/get?url="}
	if _, err := r.Get(context.Background(), "http://example.com"); err == nil {
		t.Error("Get() should fail on an empty envelope")
	}
}

func TestDirectRelayStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	r := &DirectRelay{Client: ts.Client()}
	if _, err := r.Get(context.Background(), ts.URL); err == nil {
		t.Error("Get() should fail on a non-200 status")
	}
}
