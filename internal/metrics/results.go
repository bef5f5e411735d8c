package metrics

import "github.com/riskibarqy/match-metrics/internal/domain/match"

type Results struct {
	HomeWins Rate `json:"home_wins"`
	AwayWins Rate `json:"away_wins"`
	Draws    Rate `json:"draws"`
}

func HomeWins(records []match.Record) Rate {
	done := FinishedOnly(records)
	return NewRate(count(done, func(rec match.Record) bool { return rec.FullTime.Home > rec.FullTime.Away }), len(done))
}

func AwayWins(records []match.Record) Rate {
	done := FinishedOnly(records)
	return NewRate(count(done, func(rec match.Record) bool { return rec.FullTime.Away > rec.FullTime.Home }), len(done))
}

func Draws(records []match.Record) Rate {
	done := FinishedOnly(records)
	return NewRate(count(done, func(rec match.Record) bool { return rec.FullTime.Home == rec.FullTime.Away }), len(done))
}

func ResultBreakdown(records []match.Record) Results {
	return Results{
		HomeWins: HomeWins(records),
		AwayWins: AwayWins(records),
		Draws:    Draws(records),
	}
}
