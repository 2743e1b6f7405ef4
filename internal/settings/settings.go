// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings persists the small set of operator-mutable settings that
// survive across runs (API key, model choice, mirror URL). They are loaded
// once at startup and written back whenever changed; static configuration
// stays in the viper config file.
package settings

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Settings holds the persisted mutable settings. Empty fields mean "no
// override".
type Settings struct {
	APIKey    string `yaml:"api_key,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MirrorURL string `yaml:"mirror_url,omitempty"`
}

// Load reads the settings file at path. A missing file yields zero-value
// settings, not an error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings back to path. The file is created 0600 since it
// may hold an API key.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings %s: %w", path, err)
	}
	return nil
}

// Set updates the named field. Recognized keys: api-key, model, mirror-url.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "api-key":
		s.APIKey = value
	case "model":
		s.Model = value
	case "mirror-url":
		s.MirrorURL = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Get returns the named field.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "api-key":
		return s.APIKey, nil
	case "model":
		return s.Model, nil
	case "mirror-url":
		return s.MirrorURL, nil
	default:
		return "", fmt.Errorf("unknown setting %q", key)
	}
}

// Apply overlays the non-empty settings onto the pipeline configuration.
func (s Settings) Apply(cfg *types.PipelineConfig) {
	if s.APIKey != "" {
		cfg.Filter.APIKey = s.APIKey
		cfg.Analyze.APIKey = s.APIKey
	}
	if s.Model != "" {
		cfg.Filter.Model = s.Model
		cfg.Analyze.Model = s.Model
	}
	if s.MirrorURL != "" {
		cfg.Store.MirrorURL = s.MirrorURL
	}
}
