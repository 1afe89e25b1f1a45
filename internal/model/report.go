package model

import "time"

// Finding associates a page URL with the insecure resource references
// discovered on it. Resources keep the order the inspector produced:
// scan-table order first, document order within each tag.
type Finding struct {
	// PageURL is the HTTPS page on which the insecure references were found.
	PageURL string `json:"page_url"`

	// Resources are the flagged attribute values or inline text snippets.
	Resources []string `json:"resources"`
}

// CrawlError records a per-URL failure that was contained during the crawl.
// These are diagnostics, not fatal errors; a failed URL simply contributes
// nothing to the frontier or the findings.
type CrawlError struct {
	// URL is the URL whose fetch or extraction failed.
	URL string `json:"url"`

	// Message is the cause, as reported by the failing operation.
	Message string `json:"message"`
}

// ScanReport is the durable output of one crawl: everything the scan
// reported, plus enough metadata to compare runs over time.
//
// Design decision: findings are an ordered slice keyed by page URL rather
// than a map because each page is reported at most once and writers need
// a stable iteration order.
type ScanReport struct {
	// Target is the seed URL the crawl started from.
	Target string `json:"target"`

	// ScannedAt is when the crawl started.
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the crawl took.
	Duration time.Duration `json:"duration"`

	// PagesCrawled is the number of URLs fetched across all depth levels.
	PagesCrawled int `json:"pages_crawled"`

	// MaxDepth is the depth budget the crawl ran with.
	MaxDepth int `json:"max_depth"`

	// Findings holds the per-page mixed content findings, one entry per
	// reported page.
	Findings []Finding `json:"findings"`

	// Errors holds contained per-URL failures.
	Errors []CrawlError `json:"errors,omitempty"`
}

// NewScanReport creates a ScanReport for the given seed URL with the
// scan start time set to now.
func NewScanReport(target string) *ScanReport {
	return &ScanReport{
		Target:    target,
		ScannedAt: time.Now(),
		Findings:  make([]Finding, 0),
	}
}

// AddFinding appends a finding for a page.
func (r *ScanReport) AddFinding(pageURL string, resources []string) {
	r.Findings = append(r.Findings, Finding{PageURL: pageURL, Resources: resources})
}

// AddError records a contained per-URL failure.
func (r *ScanReport) AddError(url string, err error) {
	r.Errors = append(r.Errors, CrawlError{URL: url, Message: err.Error()})
}

// HasFindings reports whether any page yielded mixed content.
func (r *ScanReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// TotalResources returns the number of flagged resource references
// across all pages.
func (r *ScanReport) TotalResources() int {
	total := 0
	for _, f := range r.Findings {
		total += len(f.Resources)
	}
	return total
}
