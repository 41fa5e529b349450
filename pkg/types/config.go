package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Lookup
	// services and publisher file servers both see this value; a
	// browser-style string avoids rejections from servers that block
	// unrecognized clients.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolveConfig holds settings for the resolver chain.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is the contact address sent to Unpaywall. The API rejects
	// anonymous queries, so the Unpaywall resolver is skipped when this
	// is empty.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// FetchConfig holds settings for the download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`
}

// HarvestConfig holds settings for a full harvest run.
type HarvestConfig struct {
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`

	// OutputDir is the directory that receives downloaded PDFs
	// (default "pdfs"). Created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ReportPath is the CSV report destination (default "results.csv").
	ReportPath string `json:"report" yaml:"report"`

	// ArchiveDB is an optional SQLite database path. When set, each run
	// appends its reports there as an audit trail.
	ArchiveDB string `json:"archive_db,omitempty" yaml:"archive_db,omitempty"`

	// DownloadDelay is a courtesy pause between consecutive downloads
	// (default 0).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}
