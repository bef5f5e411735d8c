package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/match-metrics/internal/app"
	"github.com/riskibarqy/match-metrics/internal/config"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/spf13/cobra"
)

var (
	logger = logging.NewJSON(logging.LevelInfo).With("component", "migration")

	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:           "migration",
	Short:         "Apply or roll back the match_tree schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "migration directory (default MIGRATIONS_DIR or ./db/migrations)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
			if err := ignoreNoChange(m.Up()); err != nil {
				return err
			}
			logger.Info("schema up to date")
			return nil
		}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the given number of migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			if err := ignoreNoChange(m.Steps(-steps)); err != nil {
				return err
			}
			logger.Info("rolled back", "steps", steps)
			return nil
		}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
			version, dirty, err := m.Version()
			switch {
			case errors.Is(err, migrate.ErrNilVersion):
				fmt.Println("version: none")
				return nil
			case err != nil:
				return fmt.Errorf("read version: %w", err)
			}
			fmt.Printf("version: %d dirty: %t\n", version, dirty)
			return nil
		}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Mark the schema as the given version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
			version, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || version < -1 {
				return fmt.Errorf("invalid version %q", args[0])
			}
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			logger.Info("forced version", "version", version)
			return nil
		}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:     "goto <version>",
		Aliases: []string{"migrate"},
		Short:   "Migrate up or down to the given version",
		Args:    cobra.ExactArgs(1),
		RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
			target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 0)
			if err != nil {
				return fmt.Errorf("invalid target version %q: %w", args[0], err)
			}
			if err := ignoreNoChange(m.Migrate(uint(target))); err != nil {
				return err
			}
			logger.Info("migrated", "version", target)
			return nil
		}),
	})
}

func main() {
	_ = godotenv.Load()
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// withMigrator opens the migrator against DB_URL for a single subcommand.
func withMigrator(fn func(*migrate.Migrate, []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if strings.TrimSpace(cfg.DBURL) == "" {
			return errors.New("DB_URL is required")
		}

		dir, err := resolveMigrationsDir(migrationsDir)
		if err != nil {
			return err
		}
		source := "file://" + filepath.ToSlash(dir)

		m, err := migrate.New(source, app.PostgresDSN(cfg.DBURL, cfg.DBDisablePreparedBinary))
		if err != nil {
			return fmt.Errorf("open migrator: %w", err)
		}
		defer func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				logger.Warn("close migration source", "error", srcErr)
			}
			if dbErr != nil {
				logger.Warn("close migration database", "error", dbErr)
			}
		}()

		logger.Debug("migrator ready", "source", source)
		return fn(m, args)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func resolveMigrationsDir(flag string) (string, error) {
	for _, candidate := range []string{
		flag,
		os.Getenv("MIGRATIONS_DIR"),
		"./db/migrations",
		"/app/db/migrations",
	} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("no migration directory found; set --dir or MIGRATIONS_DIR")
}
