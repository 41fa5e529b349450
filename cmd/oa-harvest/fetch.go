package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oa-harvest/internal/fetch"
	"github.com/pdiddy/oa-harvest/internal/harvest"
	"github.com/pdiddy/oa-harvest/internal/httputil"
	"github.com/pdiddy/oa-harvest/internal/refs"
	"github.com/pdiddy/oa-harvest/internal/resolve"
	"github.com/pdiddy/oa-harvest/internal/secrets"
	"github.com/pdiddy/oa-harvest/pkg/types"
)

const (
	defaultOutputDir  = "pdfs"
	defaultReportPath = "results.csv"
	defaultLogFile    = "oa-harvest.log"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <reference-file>",
	Short: "Resolve and download PDFs for every reference in a spreadsheet",
	Long: `Fetch reads references from an .xlsx, .csv, or saved .yaml reference list,
resolves each DOI through Unpaywall then PubMed (falling back to the
spreadsheet's "Link to PDF" column), downloads and validates the PDFs, and
writes one CSV report row per reference.

Unpaywall requires a contact email (--email, the email config key, or a
.secrets/unpaywall-email file); without one that service is skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("email", "", "contact email sent to Unpaywall")
	fetchCmd.Flags().String("output-dir", "", "directory for downloaded PDFs (default \"pdfs\")")
	fetchCmd.Flags().String("report", "", "CSV report path (default \"results.csv\")")
	fetchCmd.Flags().String("log-file", "", "diagnostic log path (default \"oa-harvest.log\", truncated per run)")
	fetchCmd.Flags().String("archive-db", "", "optional SQLite database that archives run results")
	fetchCmd.Flags().Duration("lookup-timeout", 0, "lookup request timeout (default 10s)")
	fetchCmd.Flags().Duration("download-timeout", 0, "download request timeout (default 30s)")
	fetchCmd.Flags().Duration("delay", 0, "courtesy pause between consecutive downloads (default 0)")
	fetchCmd.Flags().String("user-agent", "", "User-Agent header (default: browser-style)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig(cmd)

	logFile := stringSetting(cmd, "log-file", "log_file", defaultLogFile)
	logger, closeLog, err := openLogger(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	references, err := refs.Load(args[0], logger)
	if err != nil {
		// Input errors degrade to an empty reference set; the run still
		// produces a (zero-row) report and a summary.
		logger.Error("reading references", "path", args[0], "error", err)
		fmt.Fprintf(os.Stderr, "warning: could not read references: %v\n", err)
	}
	fmt.Printf("Valid references found: %d\n\n", len(references))

	lookupClient := httputil.NewClient(cfg.Resolve.Timeout, httputil.DefaultLookupTimeout)
	downloadClient := httputil.NewClient(cfg.Fetch.Timeout, httputil.DefaultDownloadTimeout)

	h := &harvest.Harvester{
		Resolver: resolve.NewChain(lookupClient, cfg.Resolve, logger),
		Fetcher: &fetch.Fetcher{
			Client:    downloadClient,
			UserAgent: cfg.Fetch.UserAgent,
			Logger:    logger,
		},
		Config: cfg,
		Logger: logger,
	}

	h.Run(cmd.Context(), references, os.Stdout)
	return nil
}

// fetchConfig assembles the run configuration from flags, the viper config,
// and loaded secrets, in that precedence order.
func fetchConfig(cmd *cobra.Command) types.HarvestConfig {
	userAgent := stringSetting(cmd, "user-agent", "user_agent", "")
	email := secretDefault(secrets.EmailKey, stringSetting(cmd, "email", "email", ""))

	return types.HarvestConfig{
		Resolve: types.ResolveConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationSetting(cmd, "lookup-timeout", "lookup_timeout"),
				UserAgent: userAgent,
			},
			Email: email,
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationSetting(cmd, "download-timeout", "download_timeout"),
				UserAgent: userAgent,
			},
		},
		OutputDir:     stringSetting(cmd, "output-dir", "output_dir", defaultOutputDir),
		ReportPath:    stringSetting(cmd, "report", "report", defaultReportPath),
		ArchiveDB:     stringSetting(cmd, "archive-db", "archive_db", ""),
		DownloadDelay: durationSetting(cmd, "delay", "download_delay"),
	}
}

// openLogger opens the diagnostic log (truncated, like the report it is a
// fresh artifact of each run) and returns a debug-level structured logger.
func openLogger(path string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

// stringSetting resolves a string option: flag beats config beats fallback.
func stringSetting(cmd *cobra.Command, flag, viperKey, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return fallback
}

// durationSetting resolves a duration option: flag beats config; zero means
// "use the stage default".
func durationSetting(cmd *cobra.Command, flag, viperKey string) time.Duration {
	if v, _ := cmd.Flags().GetDuration(flag); v != 0 {
		return v
	}
	return viper.GetDuration(viperKey)
}
