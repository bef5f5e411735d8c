package filter

import (
	"sort"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/query"
)

// LastMatchesFilter keeps the N most recent matches, oldest first.
type LastMatchesFilter struct {
	N int
}

func NewLastMatchesFilter(n int) (LastMatchesFilter, error) {
	if n <= 0 {
		return LastMatchesFilter{}, &query.ValidationError{Param: query.ParamLastMatches, Message: "must be > 0"}
	}
	return LastMatchesFilter{N: n}, nil
}

func (f LastMatchesFilter) Name() string { return "last_matches" }

func (f LastMatchesFilter) Apply(records []match.Record) []match.Record {
	sorted := SortChronological(records)
	if f.N >= len(sorted) {
		return sorted
	}
	return sorted[len(sorted)-f.N:]
}

// FirstMatchesFilter keeps the N earliest matches.
type FirstMatchesFilter struct {
	N int
}

func NewFirstMatchesFilter(n int) (FirstMatchesFilter, error) {
	if n <= 0 {
		return FirstMatchesFilter{}, &query.ValidationError{Param: query.ParamFirstMatches, Message: "must be > 0"}
	}
	return FirstMatchesFilter{N: n}, nil
}

func (f FirstMatchesFilter) Name() string { return "first_matches" }

func (f FirstMatchesFilter) Apply(records []match.Record) []match.Record {
	sorted := SortChronological(records)
	if f.N >= len(sorted) {
		return sorted
	}
	return sorted[:f.N]
}

// SortChronological returns a copy ordered by kickoff, then fixture id.
func SortChronological(records []match.Record) []match.Record {
	out := append([]match.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].FixtureID < out[j].FixtureID
	})
	return out
}
