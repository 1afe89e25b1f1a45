package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These match the scanner's historical
// defaults: a shallow crawl with a small worker pool is enough to cover
// most sites while staying polite.
const (
	// DefaultCrawlDepth is the number of link-hop levels expanded from the
	// seed page. Depth 3 covers the navigable surface of most sites without
	// the crawl wandering too far from the seed.
	DefaultCrawlDepth = 3

	// DefaultConcurrency is the number of pages fetched in parallel within
	// one depth level. Five workers keep the crawl fast without hammering
	// the target server.
	DefaultConcurrency = 5

	// DefaultTimeout is the per-request timeout. 30 seconds is generous for
	// a clearnet fetch; slower responses are treated as failures.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request so scanner traffic is
	// identifiable in web server logs.
	DefaultUserAgent = "NoMixedContent/v1.0 Scan web page for mixed content issues"

	// DefaultMaxBodySize limits the response body size read per page.
	// 2MB fits real-world HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 2 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "nomixedcontent"
)

// Config holds all options for a scan run. It is populated from CLI flags
// and the optional config file, then passed through the application by
// value rather than read from global state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is small and nesting would add indirection without
// buying anything.
type Config struct {
	// Targets is the list of seed URLs to scan. At least one is required.
	Targets []string

	// CrawlDepth is the maximum number of depth levels to expand.
	CrawlDepth int

	// Concurrency is the number of concurrent fetches within a depth level.
	Concurrency int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// RequestsPerSecond caps the overall fetch rate across all workers.
	// Zero means no rate limiting, matching the historical behavior.
	RequestsPerSecond float64

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the loader
	// searches for .nomixedcontent in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, writes the report to this path instead of
	// stdout. Parent directories are created as needed.
	ReportFile string

	// SaveToDB indicates whether completed reports are saved to the scan
	// history database.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig returns a Config populated with defaults. Several defaults are
// non-zero, so relying on zero values would silently produce a broken
// configuration (zero concurrency, zero timeout).
func NewConfig() *Config {
	return &Config{
		CrawlDepth:  DefaultCrawlDepth,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for the scanner.
// On Linux: ~/.local/share/nomixedcontent
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// Called once after flag parsing, before the crawl starts, so failures
// surface immediately with a clear message.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.CrawlDepth <= 0 {
		return ErrInvalidDepth
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
