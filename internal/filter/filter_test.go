// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paperwatch/internal/anthropic"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// mockBackend returns canned verdicts per call and records batches.
type mockBackend struct {
	verdicts [][]Verdict
	errs     []error
	batches  [][]BatchEntry
}

func (m *mockBackend) Score(_ context.Context, batch []BatchEntry) ([]Verdict, error) {
	call := len(m.batches)
	m.batches = append(m.batches, batch)
	var err error
	if call < len(m.errs) {
		err = m.errs[call]
	}
	var v []Verdict
	if call < len(m.verdicts) {
		v = m.verdicts[call]
	}
	return v, err
}

func testFilterCfg() types.FilterConfig {
	return types.FilterConfig{
		AIConfig:  types.AIConfig{Model: "test-model", APIKey: "test-key"},
		BatchSize: 50,
		MinScore:  7,
	}
}

func paper(id string) types.Paper {
	return types.Paper{ID: id, Title: "Paper " + id, Abstract: "Abstract " + id}
}

func TestRunMergesVerdictsByID(t *testing.T) {
	backend := &mockBackend{verdicts: [][]Verdict{{
		{ID: "a", Score: 9, HasCode: true, Topics: []string{"detection"}, Reason: "relevant"},
	}}}

	scored, err := Run(context.Background(), backend, []types.Paper{paper("a"), paper("b")}, testFilterCfg(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1", len(scored))
	}
	if scored[0].ID != "a" || scored[0].Title != "Paper a" {
		t.Errorf("scored paper should carry the original record, got %+v", scored[0])
	}
	if scored[0].Score != 9 || !scored[0].HasCode {
		t.Errorf("verdict fields not merged: %+v", scored[0])
	}
}

func TestRunDropsUnknownIDs(t *testing.T) {
	backend := &mockBackend{verdicts: [][]Verdict{{
		{ID: "a", Score: 8},
		{ID: "ghost", Score: 10},
	}}}

	scored, err := Run(context.Background(), backend, []types.Paper{paper("a")}, testFilterCfg(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(scored) != 1 || scored[0].ID != "a" {
		t.Errorf("scored = %v, unknown identifiers must never become records", scored)
	}
}

func TestRunAcceptsScoresAsReturned(t *testing.T) {
	// The threshold is the scorer's contract; a below-threshold verdict is
	// passed through, not re-checked.
	backend := &mockBackend{verdicts: [][]Verdict{{
		{ID: "a", Score: 8},
		{ID: "b", Score: 5},
	}}}

	scored, err := Run(context.Background(), backend, []types.Paper{paper("a"), paper("b")}, testFilterCfg(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("len(scored) = %d, want 2 (no local threshold check)", len(scored))
	}
}

func TestRunScopesReconciliationToBatch(t *testing.T) {
	// The first batch cites the second batch's identifier; that verdict must
	// be dropped, and the legitimate verdict for the same paper in its own
	// batch merged exactly once.
	backend := &mockBackend{verdicts: [][]Verdict{
		{{ID: "b", Score: 10}},
		{{ID: "b", Score: 6}},
	}}

	cfg := testFilterCfg()
	cfg.BatchSize = 1

	scored, err := Run(context.Background(), backend, []types.Paper{paper("a"), paper("b")}, cfg, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1 (cross-batch verdict dropped)", len(scored))
	}
	if scored[0].ID != "b" || scored[0].Score != 6 {
		t.Errorf("scored[0] = %+v, want the verdict from the paper's own batch", scored[0])
	}
}

func TestRunBatchFailureIsContained(t *testing.T) {
	// First batch fails, second succeeds; second batch results survive.
	backend := &mockBackend{
		errs: []error{fmt.Errorf("bad JSON"), nil},
		verdicts: [][]Verdict{
			nil,
			{{ID: "c", Score: 7}},
		},
	}

	cfg := testFilterCfg()
	cfg.BatchSize = 2
	papers := []types.Paper{paper("a"), paper("b"), paper("c")}

	scored, err := Run(context.Background(), backend, papers, cfg, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(scored) != 1 || scored[0].ID != "c" {
		t.Errorf("scored = %v, want only the surviving batch's result", scored)
	}
	if len(backend.batches) != 2 {
		t.Errorf("batches = %d, want 2 (pipeline continues after a failed batch)", len(backend.batches))
	}
}

func TestRunBatchPartitioning(t *testing.T) {
	backend := &mockBackend{}
	cfg := testFilterCfg()
	cfg.BatchSize = 2

	var papers []types.Paper
	for i := 0; i < 5; i++ {
		papers = append(papers, paper(fmt.Sprintf("p%d", i)))
	}

	if _, err := Run(context.Background(), backend, papers, cfg, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(backend.batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(backend.batches))
	}
	if len(backend.batches[0]) != 2 || len(backend.batches[2]) != 1 {
		t.Errorf("batch sizes = %d,%d,%d, want 2,2,1",
			len(backend.batches[0]), len(backend.batches[1]), len(backend.batches[2]))
	}
}

func TestRunMissingAPIKeyFailsFast(t *testing.T) {
	backend := &mockBackend{}
	cfg := testFilterCfg()
	cfg.APIKey = ""

	_, err := Run(context.Background(), backend, []types.Paper{paper("a")}, cfg, nil)
	if err == nil {
		t.Fatal("Run() should fail without an API key")
	}
	if len(backend.batches) != 0 {
		t.Error("no batch work may start without credentials")
	}
}

func TestClaudeBackendParsesFencedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") == "" {
			t.Error("request missing API key header")
		}
		text := "```json\n[{\"id\":\"2401.00001\",\"score\":8,\"topics\":[\"vision\"],\"reason\":\"ok\"}]\n```"
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
	defer ts.Close()

	old := anthropic.APIURL
	anthropic.APIURL = ts.URL
	defer func() { anthropic.APIURL = old }()

	backend := &ClaudeBackend{APIKey: "k", Model: "m", Client: ts.Client()}
	verdicts, err := backend.Score(context.Background(), []BatchEntry{{ID: "2401.00001", Title: "T"}})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(verdicts) != 1 || verdicts[0].ID != "2401.00001" || verdicts[0].Score != 8 {
		t.Errorf("verdicts = %+v", verdicts)
	}
}
