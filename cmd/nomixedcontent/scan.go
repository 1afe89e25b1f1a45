package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/onethinglab/nomixedcontent/internal/config"
	"github.com/onethinglab/nomixedcontent/internal/crawler"
	"github.com/onethinglab/nomixedcontent/internal/database"
	"github.com/onethinglab/nomixedcontent/internal/log"
	"github.com/onethinglab/nomixedcontent/internal/model"
	"github.com/onethinglab/nomixedcontent/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url]",
		Short: "Crawl a website and report mixed content",
		Long: `Scan crawls a website starting from the given URL and reports every
page that references a sub-resource over plain HTTP.

The crawl follows links on the seed's host up to the configured depth,
fetching pages concurrently. Findings are printed as they are
discovered. Pages that fail to load are skipped without aborting the
scan.

Examples:
  # Scan a single site
  nomixedcontent scan https://example.com/

  # Scan several sites in one run
  nomixedcontent scan https://example.com/ https://other.example.org/

  # Deeper crawl with more workers
  nomixedcontent scan -d 5 -w 10 https://example.com/

  # Write a Markdown report to a file
  nomixedcontent scan --markdown -o report.md https://example.com/

Configuration file (.nomixedcontent) example:
  defaults:
    depth: 3
  sites:
    example.com:
      depth: 5
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultCrawlDepth,
		"Maximum crawl recursion depth")
	cmd.Flags().IntP("concurrency", "w", config.DefaultConcurrency,
		"Number of pages fetched in parallel")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Float64P("rate", "r", 0,
		"Maximum requests per second (0 disables rate limiting)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nomixedcontent in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not save the scan result to the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.CrawlDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.RequestsPerSecond, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// An explicitly specified path must exist; an implicit search that
	// finds nothing silently uses an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the seed URLs
	cfg.Targets = make([]string, 0, len(args))
	for _, arg := range args {
		target, err := normalizeTarget(arg)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, target)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// normalizeTarget validates a seed URL and defaults a missing scheme
// to https, since the whole point is auditing pages served securely.
func normalizeTarget(target string) (string, error) {
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target URL %q: %w", target, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid target URL %q: missing host", target)
	}

	return u.String(), nil
}

// runScan executes the scan for every configured target.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", cfg.Targets,
		"depth", cfg.CrawlDepth,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		scanReport, err := scanTarget(ctx, cfg, target, logger)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// Partial results from a cancelled scan are still reported.
				logger.Warn("scan interrupted", "target", target)
			} else {
				logger.Error("scan failed", "target", target, "error", err)
				fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", target, err)
				continue
			}
		}

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "target", target, "error", err)
		}
	}

	return nil
}

// scanTarget crawls a single target and returns its report.
// On context cancellation the partial report is returned together with
// the context error.
func scanTarget(ctx context.Context, cfg *config.Config, target string, logger *slog.Logger) (*model.ScanReport, error) {
	siteConfig := getSiteConfig(cfg, target)

	depth := cfg.CrawlDepth
	if siteConfig.Depth > 0 {
		depth = siteConfig.Depth
	}
	concurrency := cfg.Concurrency
	if siteConfig.Concurrency > 0 {
		concurrency = siteConfig.Concurrency
	}

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	}
	if len(siteConfig.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithHeaders(siteConfig.Headers))
	}

	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := crawler.NewFetcher(client, fetcherOpts...)

	engine := crawler.NewEngine(fetcher,
		crawler.WithMaxDepth(depth),
		crawler.WithConcurrency(concurrency),
		crawler.WithRateLimit(cfg.RequestsPerSecond),
		crawler.WithEngineLogger(logger),
	)

	// Findings stream to the terminal as they are discovered, unless a
	// structured report is going to stdout anyway.
	var reporter crawler.Reporter
	if liveOutput(cfg) {
		reporter = func(pageURL string, resources []string) {
			fmt.Printf(">> Mixed content for %s:\n", pageURL)
			for _, resource := range resources {
				fmt.Println(resource)
			}
		}
	}

	fmt.Printf(">> Start scanning %s\n", target)
	start := time.Now()

	scanReport, err := engine.Scan(ctx, target, reporter)
	if err != nil && scanReport == nil {
		return nil, err
	}

	fmt.Println(">> Done")
	logger.Info("scan finished",
		"target", target,
		"pages", scanReport.PagesCrawled,
		"findings", len(scanReport.Findings),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return scanReport, err
}

// liveOutput reports whether findings should be streamed to the
// terminal during the crawl. Structured reports on stdout would be
// corrupted by interleaved finding lines.
func liveOutput(cfg *config.Config) bool {
	if cfg.ReportFile != "" {
		return true
	}
	return !cfg.JSONReport && !cfg.MarkdownReport
}

// getSiteConfig returns the merged site configuration for a target URL.
func getSiteConfig(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	u, err := url.Parse(target)
	if err != nil {
		return cfg.SiteConfigs.Defaults
	}

	return cfg.SiteConfigs.GetSiteConfig(u.Host)
}

// outputReport outputs the scan report in the requested format.
// The default console format is only written when it goes to a file;
// on the terminal the findings were already streamed during the crawl.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.ReportFile != "":
		writer = report.NewConsoleWriter(output, report.WithShowErrors(true))
	default:
		// Findings already streamed; nothing more to write.
		return nil
	}

	_, err := writer.Write(scanReport)
	return err
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.HistoryDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	// An interrupted scan still gets a history entry; the crawl's
	// cancelled context would fail the insert.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	id, err := db.SaveReport(ctx, scanReport)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "target", scanReport.Target, "id", id)
	return nil
}
