package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rgrier/pageharvest/internal/api"
	"github.com/rgrier/pageharvest/internal/database"
	"github.com/rgrier/pageharvest/internal/scraper"
)

// newScrapeCmd creates and configures the 'scrape' subcommand. It wires
// the URL source, robots policy, retrying fetcher, extractor, and the
// CSV writer into a sequential engine run.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the configured URLs and write a CSV report",
		Long: `Resolves the target URL list (from --urls, --url-file, or --sitemap),
then fetches each page sequentially, honoring robots.txt, and appends
one row per page to the output CSV.`,

		RunE: runScrapeCommand,
	}

	flags := cmd.Flags()
	flags.String("urls", "", "comma-separated list of URLs to scrape")
	flags.String("url-file", "", "file with one URL per line")
	flags.String("sitemap", "", "sitemap.xml URL to resolve the target list from")
	flags.String("output", "", "output CSV path")
	flags.String("archive-dir", "", "directory to archive raw HTML bodies into (optional)")
	flags.String("database-dsn", "", "Postgres DSN to mirror records into (optional)")
	flags.String("status-addr", "", "listen address for the status/metrics server (optional)")
	flags.Int("max-attempts", 0, "maximum fetch attempts per URL")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.Duration("delay", 0, "minimum delay between requests to the same origin")
	flags.Bool("no-robots", false, "ignore robots.txt (not recommended)")

	bindings := map[string]string{
		"scraper.urls":         "urls",
		"scraper.url_file":     "url-file",
		"scraper.sitemap_url":  "sitemap",
		"scraper.output":       "output",
		"scraper.archive_dir":  "archive-dir",
		"database.dsn":         "database-dsn",
		"server.status_addr":   "status-addr",
		"scraper.max_attempts": "max-attempts",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v := viper.GetViper()
	if timeout, err := cmd.Flags().GetDuration("timeout"); err == nil && timeout > 0 {
		v.Set("scraper.request_timeout", timeout)
	}
	if noRobots, err := cmd.Flags().GetBool("no-robots"); err == nil && noRobots {
		v.Set("scraper.respect_robots", false)
	}
	if cmd.Flags().Changed("delay") {
		if delay, err := cmd.Flags().GetDuration("delay"); err == nil {
			v.Set("scraper.request_delay", delay)
		}
	}

	cfg, err := scraper.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("load scraper config: %w", err)
	}

	fetcher, err := scraper.NewCollyFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	retry := scraper.NewExponentialRetryPolicy(cfg.MaxAttempts)
	robots := scraper.NewRobotsEnforcer(cfg.RespectRobots, cfg.AgentName, logger)

	source, err := buildSource(cfg, fetcher, retry)
	if err != nil {
		return err
	}

	writer, err := scraper.NewCSVWriter(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("init output: %w", err)
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			logger.Warn("failed to close output", zap.Error(cerr))
		}
	}()

	var archive scraper.Archiver
	if cfg.ArchiveDir != "" {
		fa, err := scraper.NewFileArchive(cfg.ArchiveDir)
		if err != nil {
			return fmt.Errorf("init archive: %w", err)
		}
		archive = fa
	}

	var store scraper.RecordStore
	if cfg.DatabaseDSN != "" {
		rs, err := database.NewRecordStore(ctx, database.Config{
			DSN:   cfg.DatabaseDSN,
			Table: cfg.DatabaseTable,
		})
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		defer rs.Close()
		store = rs
	}

	progress := scraper.NewProgress()
	if cfg.StatusAddr != "" {
		statusSrv := api.NewServer(progress, logger)
		go func() {
			if serr := statusSrv.ListenAndServe(ctx, cfg.StatusAddr); serr != nil {
				logger.Warn("status server stopped", zap.Error(serr))
			}
		}()
	}

	engine := scraper.NewEngine(
		cfg,
		source,
		robots,
		fetcher,
		retry,
		scraper.NewPacer(cfg.RequestDelay),
		scraper.NewGoqueryExtractor(),
		writer,
		store,
		archive,
		progress,
		logger,
	)

	summary, err := engine.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run scrape: %w", err)
	}

	logger.Info("scrape command finished",
		zap.String("run_id", summary.RunID),
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.String("output", cfg.OutputPath),
	)
	return nil
}

func buildSource(cfg scraper.Config, fetcher scraper.Fetcher, retry scraper.RetryPolicy) (scraper.Source, error) {
	switch {
	case cfg.SitemapURL != "":
		return scraper.NewSitemapSource(cfg.SitemapURL, fetcher, retry, cfg.IdentityPool, logger), nil
	case cfg.URLFile != "":
		return scraper.NewFileSource(cfg.URLFile), nil
	case len(cfg.SeedURLs()) > 0:
		return scraper.NewStaticSource(cfg.SeedURLs()), nil
	default:
		return nil, fmt.Errorf("no URL source configured")
	}
}
