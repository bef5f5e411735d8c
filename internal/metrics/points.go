package metrics

import (
	"sort"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
)

// PointsLine is a league-table row over some subset of a team's matches.
type PointsLine struct {
	Matches        int     `json:"matches"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
	Points         int     `json:"points"`
	WinPercentage  float64 `json:"win_percentage"`
	PointsPerGame  float64 `json:"points_per_game"`
}

func (l *PointsLine) add(scored, conceded int) {
	l.Matches++
	l.GoalsFor += scored
	l.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		l.Wins++
	case scored == conceded:
		l.Draws++
	default:
		l.Losses++
	}
}

func (l PointsLine) finalize() PointsLine {
	l.GoalDifference = l.GoalsFor - l.GoalsAgainst
	l.Points = l.Wins*3 + l.Draws
	l.WinPercentage = Percentage(l.Wins, l.Matches)
	if l.Matches > 0 {
		l.PointsPerGame = Round2(float64(l.Points) / float64(l.Matches))
	}
	return l
}

// TeamSplit is a team's record overall and per venue.
type TeamSplit struct {
	TeamID int64      `json:"team_id"`
	Total  PointsLine `json:"total"`
	Home   PointsLine `json:"home"`
	Away   PointsLine `json:"away"`
}

func TeamRecord(records []match.Record, teamID int64) TeamSplit {
	split := TeamSplit{TeamID: teamID}
	for _, rec := range FinishedOnly(records) {
		scored, conceded, ok := rec.GoalsFor(teamID)
		if !ok {
			continue
		}
		split.Total.add(scored, conceded)
		if rec.IsHome(teamID) {
			split.Home.add(scored, conceded)
		} else {
			split.Away.add(scored, conceded)
		}
	}

	split.Total = split.Total.finalize()
	split.Home = split.Home.finalize()
	split.Away = split.Away.finalize()
	return split
}

type StandingRow struct {
	Position int    `json:"position"`
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	PointsLine
}

// Standings ranks every team in the set by points, goal difference, goals
// scored, then team id.
func Standings(records []match.Record) []StandingRow {
	lines := make(map[int64]*StandingRow)
	row := func(team match.Team) *StandingRow {
		item, ok := lines[team.ID]
		if !ok {
			item = &StandingRow{TeamID: team.ID, TeamName: team.Name}
			lines[team.ID] = item
		}
		return item
	}

	for _, rec := range FinishedOnly(records) {
		row(rec.Home).add(rec.FullTime.Home, rec.FullTime.Away)
		row(rec.Away).add(rec.FullTime.Away, rec.FullTime.Home)
	}

	out := make([]StandingRow, 0, len(lines))
	for _, item := range lines {
		item.PointsLine = item.PointsLine.finalize()
		out = append(out, *item)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range out {
		out[i].Position = i + 1
	}

	return out
}
