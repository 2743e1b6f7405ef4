// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"

	"github.com/pdiddy/paperwatch/internal/anthropic"
)

// scoringPromptTmpl is the rubric sent to the Claude API with each batch.
// The threshold is stated here; enforcement is the scorer's side of the
// contract.
var scoringPromptTmpl = template.Must(template.New("scoring").Parse(`You are a research paper triage system. Rate each of the following papers for relevance to these interests:

{{.Interests}}

For each paper assign a relevance score from 0 to 10. Return ONLY papers scoring {{.MinScore}} or higher. For each returned paper provide:
- id: the paper identifier, copied exactly from the input
- score: the integer relevance score
- has_code: true if the title, abstract, or comment indicates a code release
- accepted: true if the comment indicates acceptance at a conference or journal
- topics: one to three short lowercase topical tags
- reason: one sentence justifying the score

Respond with a JSON array of objects with exactly those fields. Do not include any text outside the JSON array.

Papers:
{{.Papers}}
`))

// ClaudeBackend scores batches through the Claude Messages API.
type ClaudeBackend struct {
	APIKey     string
	Model      string
	Interests  string
	MinScore   int
	MaxRetries int
	Client     *http.Client
}

// Score sends one batch to the Claude API and parses the verdict array. The
// model sometimes wraps the array in a Markdown fence; it is stripped before
// parsing.
func (c *ClaudeBackend) Score(ctx context.Context, batch []BatchEntry) ([]Verdict, error) {
	papersJSON, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}

	minScore := c.MinScore
	if minScore <= 0 {
		minScore = 7
	}

	var buf bytes.Buffer
	err = scoringPromptTmpl.Execute(&buf, struct {
		Interests string
		MinScore  int
		Papers    string
	}{Interests: c.Interests, MinScore: minScore, Papers: string(papersJSON)})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := anthropic.Complete(ctx, c.Client, c.APIKey, c.Model, buf.String(), c.MaxRetries)
	if err != nil {
		return nil, err
	}

	var verdicts []Verdict
	if err := json.Unmarshal([]byte(anthropic.StripFence(text)), &verdicts); err != nil {
		return nil, fmt.Errorf("parsing verdicts: %w", err)
	}
	return verdicts, nil
}
