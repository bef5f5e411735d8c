package usecase

import (
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/league"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/query"
)

const periodDateLayout = "2006-01-02"

type Metadata struct {
	TotalMatches int                `json:"total_matches"`
	Filters      FilterMetadata     `json:"filters"`
	Period       Period             `json:"period"`
	League       *league.Descriptor `json:"league,omitempty"`
}

type FilterMetadata struct {
	Applied []string          `json:"applied"`
	Values  map[string]string `json:"values"`
}

// Period spans the earliest and latest kickoff of the selection. All fields
// are empty for an empty selection.
type Period struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	StartFormatted string `json:"start_formatted"`
	EndFormatted   string `json:"end_formatted"`
}

func buildMetadata(params query.Params, sel selection) Metadata {
	meta := Metadata{
		TotalMatches: len(sel.records),
		Filters: FilterMetadata{
			Applied: params.Applied(),
			Values:  params.Values(),
		},
		Period: periodOf(sel.records),
	}

	if params.LeagueID != nil {
		descriptor, ok := sel.tree.League(*params.LeagueID)
		if !ok {
			descriptor = league.Bare(*params.LeagueID)
		}
		meta.League = &descriptor
	}

	return meta
}

func periodOf(records []match.Record) Period {
	var start, end time.Time
	for _, rec := range records {
		if rec.KickoffAt.IsZero() {
			continue
		}
		if start.IsZero() || rec.KickoffAt.Before(start) {
			start = rec.KickoffAt
		}
		if end.IsZero() || rec.KickoffAt.After(end) {
			end = rec.KickoffAt
		}
	}
	if start.IsZero() {
		return Period{}
	}

	start, end = start.UTC(), end.UTC()
	return Period{
		Start:          start.Format(time.RFC3339),
		End:            end.Format(time.RFC3339),
		StartFormatted: start.Format(periodDateLayout),
		EndFormatted:   end.Format(periodDateLayout),
	}
}
