// Package crawler implements the mixed content crawl: a depth-bounded,
// deduplicated, concurrent breadth-first expansion from a seed page,
// with a per-page inspection pass for insecure sub-resources.
//
// # Components
//
//   - Fetcher: performs single-page HTTP GETs
//   - Document: queryable view over a parsed HTML page
//   - Inspect: flags http: resource references on an HTTPS page
//   - ExtractLinks: collects same-origin crawlable outgoing links
//   - Engine: orchestrates the level-synchronous crawl
//
// # Concurrency model
//
// Depth levels run strictly in sequence; within a level, fetches run in
// a bounded worker pool (errgroup with a limit). Workers return results
// and never mutate shared state; the frontier and visited sets are
// merged serially between batches, which makes the deduplication
// correctness easy to see and keeps the sets lock-free.
//
// # Failure containment
//
// Every failure is contained at URL granularity. A dead link, an
// off-origin redirect, a non-HTML response, or a broken page contributes
// nothing to the frontier or the findings but never aborts the crawl.
package crawler
