package filter

import (
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/query"
)

type TeamFilter struct {
	TeamID   int64
	Location query.TeamLocation
}

func (f TeamFilter) Name() string { return "team" }

func (f TeamFilter) Apply(records []match.Record) []match.Record {
	return keep(records, func(rec match.Record) bool {
		switch f.Location {
		case query.LocationHome:
			return rec.Home.ID == f.TeamID
		case query.LocationAway:
			return rec.Away.ID == f.TeamID
		default:
			return rec.HasTeam(f.TeamID)
		}
	})
}

// H2HFilter keeps confrontations between exactly two teams.
type H2HFilter struct {
	Team1ID  int64
	Team2ID  int64
	Location query.H2HLocation
}

func NewH2HFilter(team1ID, team2ID int64, location query.H2HLocation) (H2HFilter, error) {
	if team1ID == team2ID {
		return H2HFilter{}, &query.ValidationError{Param: query.ParamTeam2ID, Message: "team1_id and team2_id must differ"}
	}
	if location == "" {
		location = query.H2HAny
	}
	return H2HFilter{Team1ID: team1ID, Team2ID: team2ID, Location: location}, nil
}

func (f H2HFilter) Name() string { return "h2h" }

func (f H2HFilter) Apply(records []match.Record) []match.Record {
	return keep(records, func(rec match.Record) bool {
		switch f.Location {
		case query.H2HTeam1Home:
			return rec.Home.ID == f.Team1ID && rec.Away.ID == f.Team2ID
		case query.H2HTeam1Away:
			return rec.Home.ID == f.Team2ID && rec.Away.ID == f.Team1ID
		default:
			return rec.IsBetween(f.Team1ID, f.Team2ID)
		}
	})
}
