package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/onethinglab/nomixedcontent/internal/model"
)

// Reporter consumes per-page mixed content findings as the crawl
// discovers them. Invocation order across pages within one depth level
// follows concurrent completion order; each page is reported at most once.
type Reporter func(pageURL string, resources []string)

// Engine runs the depth-bounded, deduplicated, concurrent crawl.
//
// The crawl is level-synchronous: every URL of the current depth level is
// fetched (with bounded concurrency) and fully processed before the next
// level's frontier is computed, because that frontier depends on the
// complete result set of the current level. Workers never touch the
// frontier or visited sets; they return results that are merged serially
// after the batch completes, so the shared sets need no locking.
type Engine struct {
	// fetcher retrieves individual pages.
	fetcher *Fetcher

	// maxDepth limits how many depth levels are expanded.
	// 1 means only the seed level is fetched.
	maxDepth int

	// concurrency bounds parallel fetches within one depth level.
	concurrency int

	// limiter optionally caps the overall request rate across workers.
	// Nil means no rate limiting.
	limiter *rate.Limiter

	// logger receives per-URL diagnostics.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxDepth sets the number of depth levels to expand.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithConcurrency sets the number of concurrent fetches per depth level.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRateLimit caps the overall fetch rate in requests per second.
// Zero or negative disables rate limiting.
func WithRateLimit(rps float64) EngineOption {
	return func(e *Engine) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithEngineLogger sets a custom logger for crawl diagnostics.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Default crawl bounds.
const (
	// DefaultMaxDepth keeps the crawl within three link hops of the seed.
	DefaultMaxDepth = 3

	// DefaultConcurrency is the default worker count per depth level.
	DefaultConcurrency = 5
)

// NewEngine creates an Engine using the given fetcher.
func NewEngine(fetcher *Fetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher:     fetcher,
		maxDepth:    DefaultMaxDepth,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// pageResult is what one worker returns for one frontier URL. All
// per-URL failures are contained here; a worker never fails the batch.
type pageResult struct {
	url      string
	findings []string
	links    []string
	skipped  string // non-empty when the page was excluded without error
	err      error
}

// Scan crawls from seedURL, inspecting every qualifying page for mixed
// content. Findings are delivered to report as they are merged and also
// collected into the returned ScanReport.
//
// A qualifying page responded 200, did not redirect off the seed's
// network location, and served HTML. Per-URL failures are logged and
// recorded but never abort the crawl. On context cancellation the report
// collected so far is returned together with the context error.
func (e *Engine) Scan(ctx context.Context, seedURL string, report Reporter) (*model.ScanReport, error) {
	if _, err := url.Parse(seedURL); err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	scan := model.NewScanReport(seedURL)
	scan.MaxDepth = e.maxDepth
	start := time.Now()

	frontier := map[string]struct{}{seedURL: {}}
	// visited holds every URL ever added to a frontier, the seed included.
	// It only grows, which guarantees termination on finite sites.
	visited := map[string]struct{}{seedURL: {}}

	for depth := 0; depth < e.maxDepth && len(frontier) > 0; depth++ {
		select {
		case <-ctx.Done():
			scan.Duration = time.Since(start)
			return scan, ctx.Err()
		default:
		}

		e.logger.Debug("crawling depth level",
			"depth", depth,
			"frontier", len(frontier),
		)

		results := e.crawlLevel(ctx, frontier)

		// Serial merge. The frontier and visited sets are only mutated
		// here, after the whole batch has completed.
		next := make(map[string]struct{})
		for _, res := range results {
			scan.PagesCrawled++

			if res.err != nil {
				e.logger.Warn("page failed",
					"url", res.url,
					"error", res.err,
				)
				// Findings gathered before the failure are kept; the URL
				// simply contributes no links.
				scan.AddError(res.url, res.err)
			}
			if res.skipped != "" {
				e.logger.Debug("page excluded",
					"url", res.url,
					"reason", res.skipped,
				)
				continue
			}

			if len(res.findings) > 0 {
				scan.AddFinding(res.url, res.findings)
				if report != nil {
					report(res.url, res.findings)
				}
			}

			for _, link := range res.links {
				if _, ok := visited[link]; ok {
					continue
				}
				visited[link] = struct{}{}
				next[link] = struct{}{}
			}
		}

		frontier = next
	}

	scan.Duration = time.Since(start)
	return scan, nil
}

// crawlLevel fetches and processes every URL of one depth level with
// bounded concurrency and returns the per-URL results.
func (e *Engine) crawlLevel(ctx context.Context, frontier map[string]struct{}) []*pageResult {
	results := make([]*pageResult, 0, len(frontier))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for pageURL := range frontier {
		g.Go(func() error {
			res := e.visit(gctx, pageURL)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()

			return nil
		})
	}

	// Workers never return errors; per-URL failures live in the results.
	_ = g.Wait() //nolint:errcheck

	return results
}

// visit fetches one URL and, when the page qualifies, runs the
// mixed content inspection and link extraction passes on it.
func (e *Engine) visit(ctx context.Context, pageURL string) *pageResult {
	res := &pageResult{url: pageURL}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			res.err = err
			return res
		}
	}

	page, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		res.err = err
		return res
	}

	// A redirect to another network location means the content is not
	// this site's; it is excluded without being treated as a failure.
	if !sameNetloc(page.URL, page.FinalURL) {
		res.skipped = "redirected off origin to " + page.FinalURL
		return res
	}
	if !page.IsHTML() {
		res.skipped = "content type " + page.ContentType
		return res
	}

	doc, err := ParseDocument(bytes.NewReader(page.Body))
	if err != nil {
		res.err = fmt.Errorf("parse %s: %w", pageURL, err)
		return res
	}

	res.findings = Inspect(doc)

	links, err := ExtractLinks(doc, pageURL)
	if err != nil {
		// Contained like any other per-URL failure: the page keeps its
		// findings but contributes no links.
		res.err = fmt.Errorf("extract links from %s: %w", pageURL, err)
		return res
	}
	res.links = links

	return res
}

// sameNetloc reports whether two URLs share a network location
// (host and port). Scheme is deliberately not compared; the crawl's
// origin check only cares where the content came from.
func sameNetloc(urlX, urlY string) bool {
	x, err := url.Parse(urlX)
	if err != nil {
		return false
	}
	y, err := url.Parse(urlY)
	if err != nil {
		return false
	}
	return strings.EqualFold(x.Host, y.Host)
}
