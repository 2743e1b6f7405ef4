// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"

	"github.com/pdiddy/paperwatch/internal/anthropic"
)

// analysisPromptTmpl is the per-paper prompt sent to the Claude API.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are a research paper analyst. Read the paper below and write three concise summaries, each at most three sentences:

- innovation: what is genuinely new here
- methodology: how the work achieves its results
- deployment: what practical value the work has and who could use it

Respond with a single JSON object with exactly the keys "innovation", "methodology", and "deployment". Do not include any text outside the JSON object.

Title: {{.Title}}

Abstract: {{.Abstract}}
`))

// ClaudeBackend analyzes papers through the Claude Messages API.
type ClaudeBackend struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// Analyze requests the three analysis fields for one paper.
func (c *ClaudeBackend) Analyze(ctx context.Context, title, abstract string) (Result, error) {
	var buf bytes.Buffer
	err := analysisPromptTmpl.Execute(&buf, struct {
		Title    string
		Abstract string
	}{Title: title, Abstract: abstract})
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := anthropic.Complete(ctx, c.Client, c.APIKey, c.Model, buf.String(), c.MaxRetries)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if err := json.Unmarshal([]byte(anthropic.StripFence(text)), &res); err != nil {
		return Result{}, fmt.Errorf("parsing analysis: %w", err)
	}
	return res, nil
}
