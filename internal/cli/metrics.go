package cli

import (
	"context"
	"io"
	"os"

	"github.com/riskibarqy/match-metrics/internal/app"
	"github.com/spf13/cobra"
)

var (
	resultsCmd = &cobra.Command{
		Use:   "results",
		Short: "Win, draw and standings metrics for a league, team or pair",
		Args:  cobra.NoArgs,
		RunE:  runResults,
	}
	goalsCmd = &cobra.Command{
		Use:   "goals",
		Short: "Clean sheet, BTTS and over/under metrics",
		Args:  cobra.NoArgs,
		RunE:  runGoals,
	}
	h2hCmd = &cobra.Command{
		Use:   "h2h",
		Short: "Head-to-head metrics between two teams",
	}
	h2hResultsCmd = &cobra.Command{
		Use:   "results",
		Short: "Head-to-head results between --team1_id and --team2_id",
		Args:  cobra.NoArgs,
		RunE:  runH2HResults,
	}
	h2hGoalsCmd = &cobra.Command{
		Use:   "goals",
		Short: "Head-to-head goals between --team1_id and --team2_id",
		Args:  cobra.NoArgs,
		RunE:  runH2HGoals,
	}

	resultsQuery    queryFlags
	goalsQuery      queryFlags
	h2hResultsQuery queryFlags
	h2hGoalsQuery   queryFlags
)

func init() {
	resultsQuery = bindQueryFlags(resultsCmd.Flags())
	goalsQuery = bindQueryFlags(goalsCmd.Flags())
	h2hResultsQuery = bindQueryFlags(h2hResultsCmd.Flags())
	h2hGoalsQuery = bindQueryFlags(h2hGoalsCmd.Flags())

	h2hCmd.AddCommand(h2hResultsCmd)
	h2hCmd.AddCommand(h2hGoalsCmd)
}

// withContainer builds the services for a single command and tears them
// down afterwards.
func withContainer(ctx context.Context, fn func(*app.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	defer func() { _ = logger.Sync() }()

	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return fn(c)
}

func runResults(cmd *cobra.Command, _ []string) error {
	params, err := resultsQuery.params()
	if err != nil {
		return err
	}
	return withContainer(cmd.Context(), func(c *app.Container) error {
		report, err := c.Metrics.GetResults(cmd.Context(), params)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), report, func(w io.Writer) { renderResults(w, report) })
	})
}

func runGoals(cmd *cobra.Command, _ []string) error {
	params, err := goalsQuery.params()
	if err != nil {
		return err
	}
	return withContainer(cmd.Context(), func(c *app.Container) error {
		report, err := c.Metrics.GetGoals(cmd.Context(), params)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), report, func(w io.Writer) { renderGoals(w, report) })
	})
}

func runH2HResults(cmd *cobra.Command, _ []string) error {
	return runH2H(cmd, h2hResultsQuery, false)
}

func runH2HGoals(cmd *cobra.Command, _ []string) error {
	return runH2H(cmd, h2hGoalsQuery, true)
}

func runH2H(cmd *cobra.Command, flags queryFlags, goals bool) error {
	params, err := flags.params()
	if err != nil {
		return err
	}
	return withContainer(cmd.Context(), func(c *app.Container) error {
		get := c.H2H.GetH2HResults
		if goals {
			get = c.H2H.GetH2HGoals
		}
		report, err := get(cmd.Context(), params)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), report, func(w io.Writer) {
			renderMetadata(w, report.Metadata)
			renderH2H(w, report.HeadToHead)
		})
	})
}

func output(w io.Writer, report any, table func(io.Writer)) error {
	if jsonOutput {
		return writeJSON(w, report)
	}
	table(w)
	return nil
}
