package metrics

import "github.com/riskibarqy/match-metrics/internal/domain/match"

type H2HResults struct {
	Matches        int     `json:"matches"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	WinPercentage  float64 `json:"win_percentage"`
	HomeWins       int     `json:"home_wins"`
	AwayWins       int     `json:"away_wins"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	AverageFor     float64 `json:"average_for"`
	AverageAgainst float64 `json:"average_against"`
}

type H2HGoals struct {
	Matches                 int     `json:"matches"`
	GoalsScored             int     `json:"goals_scored"`
	GoalsConceded           int     `json:"goals_conceded"`
	CleanSheets             int     `json:"clean_sheets"`
	FailedToScore           int     `json:"failed_to_score"`
	AverageScored           float64 `json:"average_scored"`
	AverageConceded         float64 `json:"average_conceded"`
	CleanSheetPercentage    float64 `json:"clean_sheet_percentage"`
	FailedToScorePercentage float64 `json:"failed_to_score_percentage"`
}

type H2HTeamStats struct {
	TeamID   int64       `json:"team_id"`
	TeamName string      `json:"team_name"`
	Results  *H2HResults `json:"results,omitempty"`
	Goals    *H2HGoals   `json:"goals,omitempty"`
}

type H2HThreshold struct {
	Key       string  `json:"key"`
	Threshold float64 `json:"threshold"`
	Over      Share   `json:"over"`
	Under     Share   `json:"under"`
}

type H2HOverall struct {
	BTTS       Share          `json:"btts"`
	Draws      Share          `json:"draws"`
	Thresholds []H2HThreshold `json:"thresholds"`
}

type H2HSummary struct {
	TotalMatches int          `json:"total_matches"`
	Team1        H2HTeamStats `json:"team1_stats"`
	Team2        H2HTeamStats `json:"team2_stats"`
	Overall      H2HOverall   `json:"overall"`
}

// HeadToHead computes symmetric per-team summaries and pooled stats over the
// confrontations between team1 and team2. Matches not opposing exactly these
// two teams are ignored.
func HeadToHead(records []match.Record, team1ID, team2ID int64, thresholds []float64) H2HSummary {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}

	pair := make([]match.Record, 0, len(records))
	for _, rec := range FinishedOnly(records) {
		if rec.IsBetween(team1ID, team2ID) {
			pair = append(pair, rec)
		}
	}
	total := len(pair)

	summary := H2HSummary{
		TotalMatches: total,
		Team1:        teamSide(pair, team1ID),
		Team2:        teamSide(pair, team2ID),
		Overall: H2HOverall{
			BTTS:       NewShare(count(pair, bothScored), total),
			Draws:      NewShare(count(pair, func(rec match.Record) bool { return rec.FullTime.Home == rec.FullTime.Away }), total),
			Thresholds: make([]H2HThreshold, 0, len(thresholds)),
		},
	}
	for _, threshold := range thresholds {
		ou := overUnder(pair, threshold)
		summary.Overall.Thresholds = append(summary.Overall.Thresholds, H2HThreshold{
			Key:       ThresholdKey(threshold),
			Threshold: threshold,
			Over:      NewShare(ou.Over.Count, total),
			Under:     NewShare(ou.Under.Count, total),
		})
	}

	return summary
}

// ResultsOnly drops the per-team goal blocks.
func (s H2HSummary) ResultsOnly() H2HSummary {
	s.Team1.Goals = nil
	s.Team2.Goals = nil
	return s
}

// GoalsOnly drops the per-team result blocks.
func (s H2HSummary) GoalsOnly() H2HSummary {
	s.Team1.Results = nil
	s.Team2.Results = nil
	return s
}

func teamSide(pair []match.Record, teamID int64) H2HTeamStats {
	results := H2HResults{}
	goals := H2HGoals{}
	name := ""

	for _, rec := range pair {
		scored, conceded, ok := rec.GoalsFor(teamID)
		if !ok {
			continue
		}
		home := rec.IsHome(teamID)
		if name == "" {
			if home {
				name = rec.Home.Name
			} else {
				name = rec.Away.Name
			}
		}

		results.Matches++
		results.GoalsFor += scored
		results.GoalsAgainst += conceded
		switch {
		case scored > conceded:
			results.Wins++
			if home {
				results.HomeWins++
			} else {
				results.AwayWins++
			}
		case scored == conceded:
			results.Draws++
		default:
			results.Losses++
		}

		goals.Matches++
		goals.GoalsScored += scored
		goals.GoalsConceded += conceded
		if conceded == 0 {
			goals.CleanSheets++
		}
		if scored == 0 {
			goals.FailedToScore++
		}
	}

	results.Points = results.Wins*3 + results.Draws
	results.WinPercentage = Percentage(results.Wins, results.Matches)
	results.AverageFor = Average(results.GoalsFor, results.Matches)
	results.AverageAgainst = Average(results.GoalsAgainst, results.Matches)

	goals.AverageScored = Average(goals.GoalsScored, goals.Matches)
	goals.AverageConceded = Average(goals.GoalsConceded, goals.Matches)
	goals.CleanSheetPercentage = Percentage(goals.CleanSheets, goals.Matches)
	goals.FailedToScorePercentage = Percentage(goals.FailedToScore, goals.Matches)

	return H2HTeamStats{TeamID: teamID, TeamName: name, Results: &results, Goals: &goals}
}
