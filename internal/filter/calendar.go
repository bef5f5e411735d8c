package filter

import (
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
)

type LeagueFilter struct {
	LeagueID int64
}

func (f LeagueFilter) Name() string { return "league" }

func (f LeagueFilter) Apply(records []match.Record) []match.Record {
	return keep(records, func(rec match.Record) bool { return rec.LeagueID == f.LeagueID })
}

type SeasonFilter struct {
	Season int
}

func (f SeasonFilter) Name() string { return "season" }

func (f SeasonFilter) Apply(records []match.Record) []match.Record {
	return keep(records, func(rec match.Record) bool { return rec.Season == f.Season })
}

// YearFilter keeps matches kicking off in a calendar year. Month narrows it
// to one month when set.
type YearFilter struct {
	Year     int
	Month    int
	Location *time.Location
	logger   *logging.Logger
}

func NewYearFilter(year int, loc *time.Location, logger *logging.Logger) YearFilter {
	return YearFilter{Year: year, Location: loc, logger: logger}
}

func NewMonthFilter(year, month int, loc *time.Location, logger *logging.Logger) (YearFilter, error) {
	if month < 1 || month > 12 {
		return YearFilter{}, &query.ValidationError{Param: query.ParamMonth, Message: "must be between 1 and 12"}
	}
	return YearFilter{Year: year, Month: month, Location: loc, logger: logger}, nil
}

func (f YearFilter) Name() string {
	if f.Month > 0 {
		return "month"
	}
	return "year"
}

func (f YearFilter) Apply(records []match.Record) []match.Record {
	logger := f.logger
	if logger == nil {
		logger = logging.Default()
	}

	out := make([]match.Record, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		if rec.KickoffAt.IsZero() {
			logger.Warn("drop match without kickoff date", "fixture_id", rec.FixtureID, "filter", f.Name())
			continue
		}
		if _, ok := seen[rec.FixtureID]; ok {
			continue
		}

		kickoff := localTime(rec.KickoffAt, f.Location)
		if kickoff.Year() != f.Year {
			continue
		}
		if f.Month > 0 && int(kickoff.Month()) != f.Month {
			continue
		}
		seen[rec.FixtureID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

type WeekdayFilter struct {
	Weekday  query.Weekday
	Location *time.Location
}

func (f WeekdayFilter) Name() string { return "weekday" }

func (f WeekdayFilter) Apply(records []match.Record) []match.Record {
	return keep(records, func(rec match.Record) bool {
		if rec.KickoffAt.IsZero() {
			return false
		}
		return query.WeekdayOf(localTime(rec.KickoffAt, f.Location).Weekday()) == f.Weekday
	})
}

// GameTimeFilter keeps matches whose kickoff clock time falls in
// [start, end) of the slot.
type GameTimeFilter struct {
	Slot     query.GameTimeSlot
	Location *time.Location
}

func (f GameTimeFilter) Name() string { return "game_time" }

func (f GameTimeFilter) Apply(records []match.Record) []match.Record {
	start, end := f.Slot.Hours()
	if start == end {
		return []match.Record{}
	}
	return keep(records, func(rec match.Record) bool {
		if rec.KickoffAt.IsZero() {
			return false
		}
		hour := localTime(rec.KickoffAt, f.Location).Hour()
		return hour >= start && hour < end
	})
}

func localTime(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}
