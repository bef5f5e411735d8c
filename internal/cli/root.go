// Package cli is the matchstats command line: it answers the same metrics
// queries as the HTTP API against a snapshot file or the postgres store and
// prints them as tables or JSON.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/match-metrics/internal/config"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/spf13/cobra"
)

var (
	snapshotPath string
	dbURL        string
	timezone     string
	jsonOutput   bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "matchstats",
	Short: "Fixture metrics from the match snapshot",
	Long: "Compose filters over the fixture snapshot and print results, goal and " +
		"head-to-head metrics. Reads SNAPSHOT_* and DB_* settings from the " +
		"environment unless overridden by flags.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "path to a JSON export; switches the source to file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "postgres URL; switches the source to postgres")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "IANA zone for calendar filters (default MATCH_TIMEZONE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(importCmd)
}

// loadConfig reads the environment and applies the persistent flags on top.
// The result cache is always off for one-shot commands.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return applyFlags(cfg)
}

func applyFlags(cfg config.Config) (config.Config, error) {
	switch {
	case snapshotPath != "" && dbURL != "":
		return config.Config{}, fmt.Errorf("--snapshot and --db-url are mutually exclusive")
	case snapshotPath != "":
		cfg.SnapshotSource = config.SnapshotSourceFile
		cfg.SnapshotFile = snapshotPath
	case dbURL != "":
		cfg.SnapshotSource = config.SnapshotSourcePostgres
		cfg.DBURL = dbURL
	}

	if tz := strings.TrimSpace(timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return config.Config{}, fmt.Errorf("parse --timezone: %w", err)
		}
		cfg.MatchLocation = loc
	}

	cfg.CacheEnabled = false
	cfg.SnapshotCacheTTL = 0
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *logging.Logger {
	if !verbose {
		return logging.NewNop()
	}
	return logging.NewJSONTo(w, cfg.LogLevel)
}
