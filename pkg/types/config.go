package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. A stuck upstream call is cut off
	// here and treated like any other per-request failure (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Categories are the arXiv categories watched (e.g. ["cs.CV", "cs.AI"]).
	// The first two drive the listing-page scrape; all of them form the
	// fallback query expression.
	Categories []string `json:"categories" yaml:"categories"`

	// IDBatchSize is the number of identifiers per query-API metadata
	// request in the primary path (default 40).
	IDBatchSize int `json:"id_batch_size" yaml:"id_batch_size"`

	// PageSize is the fallback pagination page size (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxOffset is the fallback pagination ceiling (default 1000).
	MaxOffset int `json:"max_offset" yaml:"max_offset"`

	// PageDelay is the fixed delay between fallback page requests (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FilterConfig holds settings for the relevance filter stage.
type FilterConfig struct {
	AIConfig `yaml:",inline"`

	// BatchSize is the number of papers per scoring request (default 50).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MinScore is the relevance threshold stated in the scoring rubric
	// (default 7). Enforcement is the scorer's contract; the filter passes
	// through whatever the scorer returns.
	MinScore int `json:"min_score" yaml:"min_score"`

	// Interests describes the topics the scorer should rate against.
	Interests string `json:"interests" yaml:"interests"`
}

// AnalyzeConfig holds settings for the deep-analysis stage.
type AnalyzeConfig struct {
	AIConfig `yaml:",inline"`

	// Concurrency caps the number of in-flight analysis calls (default 12).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// StoreConfig holds settings for the stage store.
type StoreConfig struct {
	// DBPath is the SQLite database file backing the blob store
	// (default "paperwatch.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ReportRetention is the number of report dates kept in the manifest
	// (default 7).
	ReportRetention int `json:"report_retention" yaml:"report_retention"`

	// MirrorURL is an optional webhook endpoint mirroring every stage
	// commit. Mirror failures are logged, never fatal.
	MirrorURL string `json:"mirror_url,omitempty" yaml:"mirror_url,omitempty"`

	// S3Bucket enables the S3 mirror sink when non-empty.
	S3Bucket string `json:"s3_bucket,omitempty" yaml:"s3_bucket,omitempty"`

	// S3Region selects the AWS region for the S3 sink.
	S3Region string `json:"s3_region,omitempty" yaml:"s3_region,omitempty"`

	// S3Prefix is prepended to S3 object keys.
	S3Prefix string `json:"s3_prefix,omitempty" yaml:"s3_prefix,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Filter  FilterConfig  `json:"filter" yaml:"filter"`
	Analyze AnalyzeConfig `json:"analyze" yaml:"analyze"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
