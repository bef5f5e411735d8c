package query

import (
	"strconv"
	"strings"
)

// Builder coerces raw string parameters into Params. Empty strings mean
// "absent". Every coercion failure is collected and returned by Build.
type Builder struct {
	params Params
	errs   ValidationErrors
}

func NewBuilder() *Builder {
	return &Builder{}
}

// FromValues builds Params from a name -> raw value lookup such as url.Values.Get.
func FromValues(get func(name string) string) (Params, error) {
	b := NewBuilder()
	b.TeamID(get(ParamTeamID)).
		Location(get(ParamLocation)).
		Team1ID(get(ParamTeam1ID)).
		Team2ID(get(ParamTeam2ID)).
		H2HLocation(get(ParamH2HLocation)).
		LeagueID(get(ParamLeagueID)).
		Season(get(ParamSeason)).
		Year(get(ParamYear)).
		Month(get(ParamMonth)).
		GameTime(get(ParamGameTime)).
		Weekday(get(ParamWeekday)).
		LastMatches(get(ParamLastMatches)).
		FirstMatches(get(ParamFirstMatches))
	return b.Build()
}

func (b *Builder) TeamID(raw string) *Builder {
	b.params.TeamID = b.id(ParamTeamID, raw)
	return b
}

func (b *Builder) Location(raw string) *Builder {
	if strings.TrimSpace(raw) == "" {
		return b
	}
	value, err := ParseTeamLocation(raw)
	if err != nil {
		b.fail(err)
		return b
	}
	b.params.Location = &value
	return b
}

func (b *Builder) Team1ID(raw string) *Builder {
	b.params.Team1ID = b.id(ParamTeam1ID, raw)
	return b
}

func (b *Builder) Team2ID(raw string) *Builder {
	b.params.Team2ID = b.id(ParamTeam2ID, raw)
	return b
}

func (b *Builder) H2HLocation(raw string) *Builder {
	if strings.TrimSpace(raw) == "" {
		return b
	}
	value, err := ParseH2HLocation(raw)
	if err != nil {
		b.fail(err)
		return b
	}
	b.params.H2HLocation = &value
	return b
}

func (b *Builder) LeagueID(raw string) *Builder {
	b.params.LeagueID = b.id(ParamLeagueID, raw)
	return b
}

func (b *Builder) Season(raw string) *Builder {
	b.params.Season = b.positive(ParamSeason, raw)
	return b
}

func (b *Builder) Year(raw string) *Builder {
	b.params.Year = b.positive(ParamYear, raw)
	return b
}

func (b *Builder) Month(raw string) *Builder {
	value := b.positive(ParamMonth, raw)
	if value != nil && *value > 12 {
		b.errs = append(b.errs, invalid(ParamMonth, "must be between 1 and 12"))
		return b
	}
	b.params.Month = value
	return b
}

func (b *Builder) GameTime(raw string) *Builder {
	if strings.TrimSpace(raw) == "" {
		return b
	}
	value, err := ParseGameTimeSlot(raw)
	if err != nil {
		b.fail(err)
		return b
	}
	b.params.GameTime = &value
	return b
}

func (b *Builder) Weekday(raw string) *Builder {
	if strings.TrimSpace(raw) == "" {
		return b
	}
	value, err := ParseWeekday(raw)
	if err != nil {
		b.fail(err)
		return b
	}
	b.params.Weekday = &value
	return b
}

func (b *Builder) LastMatches(raw string) *Builder {
	b.params.LastMatches = b.positive(ParamLastMatches, raw)
	return b
}

func (b *Builder) FirstMatches(raw string) *Builder {
	b.params.FirstMatches = b.positive(ParamFirstMatches, raw)
	return b
}

// Build returns the coerced parameters, or ValidationErrors when any raw
// value could not be coerced.
func (b *Builder) Build() (Params, error) {
	if err := b.errs.Err(); err != nil {
		return Params{}, err
	}
	return b.params, nil
}

func (b *Builder) id(param, raw string) *int64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		b.errs = append(b.errs, invalid(param, "must be an integer"))
		return nil
	}
	if out <= 0 {
		b.errs = append(b.errs, invalid(param, "must be > 0"))
		return nil
	}
	return &out
}

func (b *Builder) positive(param, raw string) *int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	out, err := strconv.Atoi(value)
	if err != nil {
		b.errs = append(b.errs, invalid(param, "must be an integer"))
		return nil
	}
	if out <= 0 {
		b.errs = append(b.errs, invalid(param, "must be > 0"))
		return nil
	}
	return &out
}

func (b *Builder) fail(err error) {
	if verr, ok := err.(*ValidationError); ok {
		b.errs = append(b.errs, verr)
		return
	}
	b.errs = append(b.errs, invalid("", err.Error()))
}
