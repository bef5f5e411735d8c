package filter

import (
	"time"

	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
)

// Factory turns query parameters into filter pipelines. Calendar filters
// evaluate kickoff times in the factory's location.
type Factory struct {
	location *time.Location
	logger   *logging.Logger
}

func NewFactory(location *time.Location, logger *logging.Logger) *Factory {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Factory{location: location, logger: logger}
}

func (f *Factory) Location() *time.Location {
	return f.location
}

// Create builds the full pipeline in the fixed order: team or head-to-head,
// league, season, year/month, last/first N, game time, weekday. A
// construction failure is logged and yields NoFilter.
func (f *Factory) Create(params query.Params) Filter {
	return f.build(params, true)
}

// CreateSetReducing builds the pipeline without the sequence stage.
func (f *Factory) CreateSetReducing(params query.Params) Filter {
	return f.build(params, false)
}

// CreateSequence returns the last/first N filter alone, or NoFilter.
func (f *Factory) CreateSequence(params query.Params) Filter {
	seq, err := f.sequence(params)
	if err != nil {
		f.logger.Warn("build sequence filter failed, falling back to no filter", "error", err)
		return NoFilter{}
	}
	if seq == nil {
		return NoFilter{}
	}
	return seq
}

func (f *Factory) build(params query.Params, withSequence bool) Filter {
	filters := make([]Filter, 0, 7)

	switch {
	case params.HasH2H():
		h2h, err := NewH2HFilter(*params.Team1ID, *params.Team2ID, params.HeadToHeadLocation())
		if err != nil {
			f.logger.Warn("build filter pipeline failed, falling back to no filter", "error", err)
			return NoFilter{}
		}
		filters = append(filters, h2h)
	case params.TeamID != nil:
		filters = append(filters, TeamFilter{TeamID: *params.TeamID, Location: params.TeamLocation()})
	}

	if params.LeagueID != nil {
		filters = append(filters, LeagueFilter{LeagueID: *params.LeagueID})
	}
	if params.Season != nil {
		filters = append(filters, SeasonFilter{Season: *params.Season})
	}
	if params.Year != nil {
		if params.Month != nil {
			monthFilter, err := NewMonthFilter(*params.Year, *params.Month, f.location, f.logger)
			if err != nil {
				f.logger.Warn("build filter pipeline failed, falling back to no filter", "error", err)
				return NoFilter{}
			}
			filters = append(filters, monthFilter)
		} else {
			filters = append(filters, NewYearFilter(*params.Year, f.location, f.logger))
		}
	}

	if withSequence {
		seq, err := f.sequence(params)
		if err != nil {
			f.logger.Warn("build filter pipeline failed, falling back to no filter", "error", err)
			return NoFilter{}
		}
		if seq != nil {
			filters = append(filters, seq)
		}
	}

	if params.GameTime != nil {
		filters = append(filters, GameTimeFilter{Slot: *params.GameTime, Location: f.location})
	}
	if params.Weekday != nil {
		filters = append(filters, WeekdayFilter{Weekday: *params.Weekday, Location: f.location})
	}

	if len(filters) == 0 {
		return NoFilter{}
	}
	return NewComposite(filters...)
}

func (f *Factory) sequence(params query.Params) (Filter, error) {
	switch {
	case params.LastMatches != nil:
		return NewLastMatchesFilter(*params.LastMatches)
	case params.FirstMatches != nil:
		return NewFirstMatchesFilter(*params.FirstMatches)
	default:
		return nil, nil
	}
}

// Validate lists contract violations in params. It does not reject anything
// by itself; callers decide.
func (f *Factory) Validate(params query.Params) query.ValidationErrors {
	var out query.ValidationErrors

	if params.TeamID != nil && (params.Team1ID != nil || params.Team2ID != nil) {
		out = append(out, &query.ValidationError{
			Param:   query.ParamTeamID,
			Message: "team_id cannot be combined with team1_id/team2_id",
		})
	}
	if (params.Team1ID == nil) != (params.Team2ID == nil) {
		out = append(out, &query.ValidationError{
			Param:   query.ParamTeam1ID,
			Message: "team1_id and team2_id must be provided together",
		})
	}
	if params.HasH2H() && *params.Team1ID == *params.Team2ID {
		out = append(out, &query.ValidationError{
			Param:   query.ParamTeam2ID,
			Message: "team1_id and team2_id must differ",
		})
	}
	if params.Month != nil && params.Year == nil {
		out = append(out, &query.ValidationError{
			Param:   query.ParamMonth,
			Message: "month requires year",
		})
	}
	if params.LastMatches != nil && params.FirstMatches != nil {
		out = append(out, &query.ValidationError{
			Param:   query.ParamLastMatches,
			Message: "last_matches and first_matches are mutually exclusive",
		})
	}

	return out
}
