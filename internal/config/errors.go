package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than errors created
// inside Validate(). Callers can use errors.Is() for programmatic handling
// while the messages stay human-readable. None of these need dynamic
// values, so errors.New() suffices.
var (
	// ErrNoTarget is returned when no seed URL was provided.
	ErrNoTarget = errors.New("no target specified: provide at least one seed URL")

	// ErrInvalidDepth is returned when the crawl depth is not positive.
	// A depth of zero would fetch nothing, not even the seed page.
	ErrInvalidDepth = errors.New("invalid crawl depth: must be positive")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidRate is returned when the request rate is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
