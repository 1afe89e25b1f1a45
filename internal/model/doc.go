// Package model defines the data structures shared across the scanner:
// fetched pages, per-page mixed content findings, and the scan report.
//
// Design decision: We keep the model free of crawling and rendering logic
// so that the crawler, report writers, and database packages can all
// depend on it without depending on each other.
package model
