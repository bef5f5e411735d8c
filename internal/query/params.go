package query

import (
	"strconv"
)

// Parameter names as they appear on the wire.
const (
	ParamTeamID       = "team_id"
	ParamLocation     = "location"
	ParamTeam1ID      = "team1_id"
	ParamTeam2ID      = "team2_id"
	ParamH2HLocation  = "h2h_location"
	ParamLeagueID     = "league_id"
	ParamSeason       = "season"
	ParamYear         = "year"
	ParamMonth        = "month"
	ParamGameTime     = "game_time"
	ParamWeekday      = "weekday"
	ParamLastMatches  = "last_matches"
	ParamFirstMatches = "first_matches"
)

// Names lists every parameter in canonical order.
var Names = []string{
	ParamTeamID,
	ParamLocation,
	ParamTeam1ID,
	ParamTeam2ID,
	ParamH2HLocation,
	ParamLeagueID,
	ParamSeason,
	ParamYear,
	ParamMonth,
	ParamGameTime,
	ParamWeekday,
	ParamLastMatches,
	ParamFirstMatches,
}

// Params is the typed query parameter set. Nil fields are absent.
type Params struct {
	TeamID       *int64
	Location     *TeamLocation
	Team1ID      *int64
	Team2ID      *int64
	H2HLocation  *H2HLocation
	LeagueID     *int64
	Season       *int
	Year         *int
	Month        *int
	GameTime     *GameTimeSlot
	Weekday      *Weekday
	LastMatches  *int
	FirstMatches *int
}

func Ptr[T any](v T) *T {
	return &v
}

func (p Params) HasH2H() bool {
	return p.Team1ID != nil && p.Team2ID != nil
}

// HasScope reports whether the query names a league, a team or a team pair.
func (p Params) HasScope() bool {
	return p.LeagueID != nil || p.TeamID != nil || p.HasH2H()
}

func (p Params) TeamLocation() TeamLocation {
	if p.Location == nil {
		return LocationAll
	}
	return *p.Location
}

func (p Params) HeadToHeadLocation() H2HLocation {
	if p.H2HLocation == nil {
		return H2HAny
	}
	return *p.H2HLocation
}

// Values returns the string form of every present parameter.
func (p Params) Values() map[string]string {
	out := make(map[string]string, len(Names))
	setInt64 := func(name string, v *int64) {
		if v != nil {
			out[name] = strconv.FormatInt(*v, 10)
		}
	}
	setInt := func(name string, v *int) {
		if v != nil {
			out[name] = strconv.Itoa(*v)
		}
	}

	setInt64(ParamTeamID, p.TeamID)
	if p.Location != nil {
		out[ParamLocation] = string(*p.Location)
	}
	setInt64(ParamTeam1ID, p.Team1ID)
	setInt64(ParamTeam2ID, p.Team2ID)
	if p.H2HLocation != nil {
		out[ParamH2HLocation] = string(*p.H2HLocation)
	}
	setInt64(ParamLeagueID, p.LeagueID)
	setInt(ParamSeason, p.Season)
	setInt(ParamYear, p.Year)
	setInt(ParamMonth, p.Month)
	if p.GameTime != nil {
		out[ParamGameTime] = string(*p.GameTime)
	}
	if p.Weekday != nil {
		out[ParamWeekday] = p.Weekday.String()
	}
	setInt(ParamLastMatches, p.LastMatches)
	setInt(ParamFirstMatches, p.FirstMatches)

	return out
}

// Applied returns the names of present parameters in canonical order.
func (p Params) Applied() []string {
	values := p.Values()
	out := make([]string, 0, len(values))
	for _, name := range Names {
		if _, ok := values[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
