package cli

import (
	"strings"

	"github.com/riskibarqy/match-metrics/internal/query"
	"github.com/spf13/pflag"
)

// queryFlags carries the metrics parameters as raw strings so the same
// query.Builder rules apply as on the HTTP API.
type queryFlags map[string]*string

var queryUsage = map[string]string{
	query.ParamTeamID:       "team id scope",
	query.ParamLocation:     "HOME, AWAY or ALL (requires --team_id)",
	query.ParamTeam1ID:      "first team of a head-to-head pair",
	query.ParamTeam2ID:      "second team of a head-to-head pair",
	query.ParamH2HLocation:  "ANY, TEAM1_HOME or TEAM1_AWAY",
	query.ParamLeagueID:     "league id scope",
	query.ParamSeason:       "season start year",
	query.ParamYear:         "calendar year of kickoff",
	query.ParamMonth:        "calendar month of kickoff (1-12)",
	query.ParamGameTime:     "kickoff slot: 12-14, 14-17, 17-20 or 20-23",
	query.ParamWeekday:      "kickoff weekday, e.g. SATURDAY",
	query.ParamLastMatches:  "keep the N most recent matches",
	query.ParamFirstMatches: "keep the N earliest matches",
}

func bindQueryFlags(fs *pflag.FlagSet) queryFlags {
	flags := make(queryFlags, len(query.Names))
	for _, name := range query.Names {
		flags[name] = fs.String(name, "", queryUsage[name])
	}
	return flags
}

func (f queryFlags) lookup(name string) string {
	if v, ok := f[name]; ok && v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (f queryFlags) params() (query.Params, error) {
	return query.FromValues(f.lookup)
}
