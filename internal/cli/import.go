package cli

import (
	"fmt"
	"os"

	"github.com/riskibarqy/match-metrics/internal/app"
	"github.com/riskibarqy/match-metrics/internal/config"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/infrastructure/repository/file"
	"github.com/riskibarqy/match-metrics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-metrics/internal/platform/resilience"
	"github.com/spf13/cobra"
)

var (
	importFile   string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a JSON match export into the postgres store",
	Long: "Decode a match export, drop malformed branches and upsert every " +
		"season/league branch into match_trees in one transaction.",
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to the JSON export (required)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "decode and count branches without writing")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	tree, err := file.DecodeExport(raw, logger)
	if err != nil {
		return fmt.Errorf("decode export: %w", err)
	}

	branches := countBranches(tree)
	if importDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%d branches decoded from %s\n", branches, importFile)
		return nil
	}

	db, err := app.OpenDB(cmd.Context(), cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewSnapshotRepository(db, resilience.NewBreaker(cfg.StoreCircuitBreaker(), logger), cfg.SnapshotDecodeWorkers, logger)
	written, err := repo.UpsertTree(cmd.Context(), tree)
	if err != nil {
		return fmt.Errorf("import export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d branches written to %s store\n", written, config.SnapshotSourcePostgres)
	return nil
}

func countBranches(tree match.Tree) int {
	n := 0
	for _, leagues := range tree {
		n += len(leagues)
	}
	return n
}
