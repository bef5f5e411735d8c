package metrics

import "github.com/riskibarqy/match-metrics/internal/domain/match"

// venue splits a team's finished matches by the side it played on.
type venue struct {
	total []match.Record
	home  []match.Record
	away  []match.Record
}

func splitByVenue(records []match.Record, teamID int64) venue {
	v := venue{}
	for _, rec := range records {
		if !rec.HasTeam(teamID) {
			continue
		}
		v.total = append(v.total, rec)
		if rec.IsHome(teamID) {
			v.home = append(v.home, rec)
		} else {
			v.away = append(v.away, rec)
		}
	}
	return v
}

type CleanSheetLine struct {
	Matches    int     `json:"matches"`
	Kept       int     `json:"kept"`
	Conceded   int     `json:"conceded"`
	Percentage float64 `json:"percentage"`
}

type CleanSheetDetails struct {
	Total CleanSheetLine `json:"total"`
	Home  CleanSheetLine `json:"home"`
	Away  CleanSheetLine `json:"away"`
}

type CleanSheetStats struct {
	Rate
	Details *CleanSheetDetails `json:"details,omitempty"`
}

// CleanSheets counts matches where at least one side kept a clean sheet.
// With a team, Details reports that team's own clean sheets per venue.
func CleanSheets(records []match.Record, teamID *int64) CleanSheetStats {
	done := FinishedOnly(records)
	stats := CleanSheetStats{
		Rate: NewRate(count(done, func(rec match.Record) bool {
			return rec.FullTime.Home == 0 || rec.FullTime.Away == 0
		}), len(done)),
	}
	if teamID == nil {
		return stats
	}

	v := splitByVenue(done, *teamID)
	line := func(records []match.Record) CleanSheetLine {
		out := CleanSheetLine{Matches: len(records)}
		for _, rec := range records {
			_, conceded, _ := rec.GoalsFor(*teamID)
			if conceded == 0 {
				out.Kept++
			} else {
				out.Conceded++
			}
		}
		out.Percentage = Percentage(out.Kept, out.Matches)
		return out
	}
	stats.Details = &CleanSheetDetails{
		Total: line(v.total),
		Home:  line(v.home),
		Away:  line(v.away),
	}
	return stats
}

type VenueRates struct {
	Total Rate `json:"total"`
	Home  Rate `json:"home"`
	Away  Rate `json:"away"`
}

type BTTSStats struct {
	Yes  Rate        `json:"yes"`
	No   Rate        `json:"no"`
	Team *VenueRates `json:"team_details,omitempty"`
}

func bothScored(rec match.Record) bool {
	return rec.FullTime.Home > 0 && rec.FullTime.Away > 0
}

// BTTS counts matches where both sides scored at least once.
func BTTS(records []match.Record, teamID *int64) BTTSStats {
	done := FinishedOnly(records)
	yes := count(done, bothScored)
	stats := BTTSStats{
		Yes: NewRate(yes, len(done)),
		No:  NewRate(len(done)-yes, len(done)),
	}
	if teamID == nil {
		return stats
	}

	v := splitByVenue(done, *teamID)
	stats.Team = &VenueRates{
		Total: NewRate(count(v.total, bothScored), len(v.total)),
		Home:  NewRate(count(v.home, bothScored), len(v.home)),
		Away:  NewRate(count(v.away, bothScored), len(v.away)),
	}
	return stats
}

type OverUnder struct {
	Over  Rate `json:"over"`
	Under Rate `json:"under"`
}

func overUnder(records []match.Record, threshold float64) OverUnder {
	over := count(records, func(rec match.Record) bool { return float64(rec.TotalGoals()) > threshold })
	return OverUnder{
		Over:  NewRate(over, len(records)),
		Under: NewRate(len(records)-over, len(records)),
	}
}

type VenueOverUnder struct {
	Total OverUnder `json:"total"`
	Home  OverUnder `json:"home"`
	Away  OverUnder `json:"away"`
}

type ThresholdStats struct {
	Key       string  `json:"key"`
	Threshold float64 `json:"threshold"`
	OverUnder
	Team *VenueOverUnder `json:"team_details,omitempty"`
}

// GoalsThreshold splits matches into over (total goals > t) and under.
func GoalsThreshold(records []match.Record, threshold float64, teamID *int64) ThresholdStats {
	done := FinishedOnly(records)
	stats := ThresholdStats{
		Key:       ThresholdKey(threshold),
		Threshold: threshold,
		OverUnder: overUnder(done, threshold),
	}
	if teamID == nil {
		return stats
	}

	v := splitByVenue(done, *teamID)
	stats.Team = &VenueOverUnder{
		Total: overUnder(v.total, threshold),
		Home:  overUnder(v.home, threshold),
		Away:  overUnder(v.away, threshold),
	}
	return stats
}

func ThresholdLadder(records []match.Record, thresholds []float64, teamID *int64) []ThresholdStats {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	out := make([]ThresholdStats, 0, len(thresholds))
	for _, threshold := range thresholds {
		out = append(out, GoalsThreshold(records, threshold, teamID))
	}
	return out
}

type GoalLine struct {
	Matches         int     `json:"matches"`
	Scored          int     `json:"scored"`
	Conceded        int     `json:"conceded"`
	AverageScored   float64 `json:"average_scored"`
	AverageConceded float64 `json:"average_conceded"`
}

type VenueGoals struct {
	Total GoalLine `json:"total"`
	Home  GoalLine `json:"home"`
	Away  GoalLine `json:"away"`
}

type TotalGoalStats struct {
	Count        int         `json:"count"`
	TotalMatches int         `json:"total_matches"`
	Average      float64     `json:"average"`
	Team         *VenueGoals `json:"team_details,omitempty"`
}

// TotalGoals sums full-time goals. With a team, scored and conceded are
// always from that team's point of view.
func TotalGoals(records []match.Record, teamID *int64) TotalGoalStats {
	done := FinishedOnly(records)
	sum := 0
	for _, rec := range done {
		sum += rec.TotalGoals()
	}
	stats := TotalGoalStats{Count: sum, TotalMatches: len(done), Average: Average(sum, len(done))}
	if teamID == nil {
		return stats
	}

	v := splitByVenue(done, *teamID)
	line := func(records []match.Record) GoalLine {
		out := GoalLine{Matches: len(records)}
		for _, rec := range records {
			scored, conceded, _ := rec.GoalsFor(*teamID)
			out.Scored += scored
			out.Conceded += conceded
		}
		out.AverageScored = Average(out.Scored, out.Matches)
		out.AverageConceded = Average(out.Conceded, out.Matches)
		return out
	}
	stats.Team = &VenueGoals{
		Total: line(v.total),
		Home:  line(v.home),
		Away:  line(v.away),
	}
	return stats
}
