package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/riskibarqy/match-metrics/internal/metrics"
	"github.com/riskibarqy/match-metrics/internal/usecase"
)

var reportJSON = sonic.ConfigStd

func writeJSON(w io.Writer, report any) error {
	raw, err := reportJSON.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func num(v int) string {
	return fmt.Sprintf("%d", v)
}

func renderMetadata(w io.Writer, meta usecase.Metadata) {
	if meta.League != nil {
		fmt.Fprintf(w, "League:  %s\n", meta.League.Label())
	}
	if meta.Period.Start != "" {
		fmt.Fprintf(w, "Period:  %s .. %s\n", meta.Period.StartFormatted, meta.Period.EndFormatted)
	}
	if len(meta.Filters.Applied) > 0 {
		parts := make([]string, 0, len(meta.Filters.Applied))
		for _, name := range meta.Filters.Applied {
			parts = append(parts, name+"="+meta.Filters.Values[name])
		}
		fmt.Fprintf(w, "Filters: %s\n", strings.Join(parts, " "))
	}
	fmt.Fprintf(w, "Matches: %d\n\n", meta.TotalMatches)
}

func renderResults(w io.Writer, report usecase.ResultsReport) {
	renderMetadata(w, report.Metadata)

	t := newTable(w)
	t.Header("OUTCOME", "COUNT", "MATCHES", "PCT")
	for _, row := range []struct {
		label string
		rate  metrics.Rate
	}{
		{"home wins", report.HomeWins},
		{"away wins", report.AwayWins},
		{"draws", report.Draws},
	} {
		t.Append(row.label, num(row.rate.Count), num(row.rate.TotalMatches), pct(row.rate.Percentage))
	}
	t.Render()

	if report.TeamRecord != nil {
		fmt.Fprintf(w, "\nTeam %d\n", report.TeamRecord.TeamID)
		t := newTable(w)
		t.Header("VENUE", "P", "W", "D", "L", "GF", "GA", "GD", "PTS", "WIN%", "PPG")
		for _, row := range []struct {
			label string
			line  metrics.PointsLine
		}{
			{"total", report.TeamRecord.Total},
			{"home", report.TeamRecord.Home},
			{"away", report.TeamRecord.Away},
		} {
			l := row.line
			t.Append(row.label, num(l.Matches), num(l.Wins), num(l.Draws), num(l.Losses),
				num(l.GoalsFor), num(l.GoalsAgainst), num(l.GoalDifference), num(l.Points),
				pct(l.WinPercentage), fmt.Sprintf("%.2f", l.PointsPerGame))
		}
		t.Render()
	}

	if report.Standings != nil && len(report.Standings.Rows) > 0 {
		fmt.Fprintln(w, "\nStandings")
		t := newTable(w)
		t.Header("POS", "TEAM", "P", "W", "D", "L", "GF", "GA", "GD", "PTS")
		for _, row := range report.Standings.Rows {
			t.Append(num(row.Position), teamLabel(row.TeamName, row.TeamID), num(row.Matches), num(row.Wins),
				num(row.Draws), num(row.Losses), num(row.GoalsFor), num(row.GoalsAgainst),
				num(row.GoalDifference), num(row.Points))
		}
		t.Render()
	}

	if report.HeadToHead != nil {
		fmt.Fprintln(w)
		renderH2H(w, *report.HeadToHead)
	}
}

func renderGoals(w io.Writer, report usecase.GoalsReport) {
	renderMetadata(w, report.Metadata)

	t := newTable(w)
	t.Header("METRIC", "COUNT", "MATCHES", "PCT")
	t.Append("clean sheets", num(report.CleanSheets.Count), num(report.CleanSheets.TotalMatches), pct(report.CleanSheets.Percentage))
	t.Append("btts yes", num(report.BTTS.Yes.Count), num(report.BTTS.Yes.TotalMatches), pct(report.BTTS.Yes.Percentage))
	t.Append("btts no", num(report.BTTS.No.Count), num(report.BTTS.No.TotalMatches), pct(report.BTTS.No.Percentage))
	t.Append("total goals", num(report.TotalGoals.Count), num(report.TotalGoals.TotalMatches), fmt.Sprintf("%.2f avg", report.TotalGoals.Average))
	t.Render()

	if len(report.Thresholds) > 0 {
		fmt.Fprintln(w, "\nOver/Under")
		t := newTable(w)
		t.Header("LINE", "OVER", "OVER%", "UNDER", "UNDER%")
		for _, th := range report.Thresholds {
			t.Append(fmt.Sprintf("%.1f", th.Threshold), num(th.Over.Count), pct(th.Over.Percentage),
				num(th.Under.Count), pct(th.Under.Percentage))
		}
		t.Render()
	}

	if report.TotalGoals.Team != nil {
		fmt.Fprintln(w, "\nTeam goals")
		t := newTable(w)
		t.Header("VENUE", "P", "SCORED", "CONCEDED", "AVG FOR", "AVG AGAINST")
		for _, row := range []struct {
			label string
			line  metrics.GoalLine
		}{
			{"total", report.TotalGoals.Team.Total},
			{"home", report.TotalGoals.Team.Home},
			{"away", report.TotalGoals.Team.Away},
		} {
			l := row.line
			t.Append(row.label, num(l.Matches), num(l.Scored), num(l.Conceded),
				fmt.Sprintf("%.2f", l.AverageScored), fmt.Sprintf("%.2f", l.AverageConceded))
		}
		t.Render()
	}

	if report.HeadToHead != nil {
		fmt.Fprintln(w)
		renderH2H(w, *report.HeadToHead)
	}
}

func renderH2H(w io.Writer, summary metrics.H2HSummary) {
	team1 := teamLabel(summary.Team1.TeamName, summary.Team1.TeamID)
	team2 := teamLabel(summary.Team2.TeamName, summary.Team2.TeamID)
	fmt.Fprintf(w, "%s vs %s: %d matches\n", team1, team2, summary.TotalMatches)

	t := newTable(w)
	t.Header("", team1, team2)
	if r1, r2 := summary.Team1.Results, summary.Team2.Results; r1 != nil && r2 != nil {
		t.Append("wins", num(r1.Wins), num(r2.Wins))
		t.Append("draws", num(r1.Draws), num(r2.Draws))
		t.Append("losses", num(r1.Losses), num(r2.Losses))
		t.Append("win %", pct(r1.WinPercentage), pct(r2.WinPercentage))
		t.Append("home wins", num(r1.HomeWins), num(r2.HomeWins))
		t.Append("away wins", num(r1.AwayWins), num(r2.AwayWins))
		t.Append("points", num(r1.Points), num(r2.Points))
		t.Append("goals for", num(r1.GoalsFor), num(r2.GoalsFor))
		t.Append("goals against", num(r1.GoalsAgainst), num(r2.GoalsAgainst))
	}
	if g1, g2 := summary.Team1.Goals, summary.Team2.Goals; g1 != nil && g2 != nil {
		t.Append("scored", num(g1.GoalsScored), num(g2.GoalsScored))
		t.Append("conceded", num(g1.GoalsConceded), num(g2.GoalsConceded))
		t.Append("avg scored", fmt.Sprintf("%.2f", g1.AverageScored), fmt.Sprintf("%.2f", g2.AverageScored))
		t.Append("clean sheets", num(g1.CleanSheets), num(g2.CleanSheets))
		t.Append("failed to score", num(g1.FailedToScore), num(g2.FailedToScore))
	}
	t.Render()

	fmt.Fprintln(w)
	o := newTable(w)
	o.Header("POOLED", "MATCHES", "PCT")
	o.Append("btts", num(summary.Overall.BTTS.Matches), pct(summary.Overall.BTTS.Percentage))
	o.Append("draws", num(summary.Overall.Draws.Matches), pct(summary.Overall.Draws.Percentage))
	for _, th := range summary.Overall.Thresholds {
		line := fmt.Sprintf("%.1f", th.Threshold)
		o.Append("over "+line, num(th.Over.Matches), pct(th.Over.Percentage))
		o.Append("under "+line, num(th.Under.Matches), pct(th.Under.Percentage))
	}
	o.Render()
}

func teamLabel(name string, id int64) string {
	if name == "" {
		return fmt.Sprintf("#%d", id)
	}
	return name
}
