package filter

import (
	"testing"
	"time"

	"github.com/riskibarqy/match-metrics/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate_DocumentedOrder(t *testing.T) {
	t.Parallel()

	factory := NewFactory(nil, nil)
	params := query.Params{
		Weekday:     query.Ptr(query.Friday),
		GameTime:    query.Ptr(query.Slot20To23),
		LastMatches: query.Ptr(5),
		Year:        query.Ptr(2024),
		Month:       query.Ptr(3),
		Season:      query.Ptr(2023),
		LeagueID:    query.Ptr(int64(39)),
		TeamID:      query.Ptr(teamA),
	}

	composite, ok := factory.Create(params).(*Composite)
	require.True(t, ok)
	assert.Equal(t, []string{"team", "league", "season", "month", "last_matches", "game_time", "weekday"}, composite.Names())

	setOnly, ok := factory.CreateSetReducing(params).(*Composite)
	require.True(t, ok)
	assert.Equal(t, []string{"team", "league", "season", "month", "game_time", "weekday"}, setOnly.Names())
	for _, item := range setOnly.Filters() {
		assert.False(t, IsSequence(item))
	}

	assert.Equal(t, "last_matches", factory.CreateSequence(params).Name())
}

func TestFactoryCreate_HeadToHeadTakesTeamSlot(t *testing.T) {
	t.Parallel()

	factory := NewFactory(time.UTC, nil)
	params := query.Params{
		Team1ID:     query.Ptr(teamA),
		Team2ID:     query.Ptr(teamB),
		H2HLocation: query.Ptr(query.H2HTeam1Home),
	}

	composite, ok := factory.Create(params).(*Composite)
	require.True(t, ok)
	require.Equal(t, []string{"h2h"}, composite.Names())

	h2h := composite.Filters()[0].(H2HFilter)
	assert.Equal(t, query.H2HTeam1Home, h2h.Location)
	assert.Equal(t, []int64{1, 3}, ids(composite.Apply(threeConfrontations())))
}

func TestFactoryCreate_DegradesToNoFilter(t *testing.T) {
	t.Parallel()

	factory := NewFactory(nil, nil)
	params := query.Params{
		Team1ID:  query.Ptr(teamA),
		Team2ID:  query.Ptr(teamA),
		LeagueID: query.Ptr(int64(39)),
	}

	assert.IsType(t, NoFilter{}, factory.Create(params))
	assert.IsType(t, NoFilter{}, factory.Create(query.Params{}))
	assert.IsType(t, NoFilter{}, factory.CreateSequence(query.Params{}))
}

func TestFactoryValidate(t *testing.T) {
	t.Parallel()

	factory := NewFactory(nil, nil)

	tests := []struct {
		name   string
		params query.Params
		want   []string
	}{
		{
			name:   "month without year",
			params: query.Params{LeagueID: query.Ptr(int64(39)), Month: query.Ptr(6)},
			want:   []string{"month requires year"},
		},
		{
			name: "team with pair",
			params: query.Params{
				TeamID:  query.Ptr(teamA),
				Team1ID: query.Ptr(teamA),
				Team2ID: query.Ptr(teamB),
			},
			want: []string{"team_id cannot be combined with team1_id/team2_id"},
		},
		{
			name:   "same pair",
			params: query.Params{Team1ID: query.Ptr(teamA), Team2ID: query.Ptr(teamA)},
			want:   []string{"team1_id and team2_id must differ"},
		},
		{
			name:   "half pair",
			params: query.Params{Team1ID: query.Ptr(teamA)},
			want:   []string{"team1_id and team2_id must be provided together"},
		},
		{
			name: "both sequences",
			params: query.Params{
				LeagueID:     query.Ptr(int64(39)),
				LastMatches:  query.Ptr(3),
				FirstMatches: query.Ptr(3),
			},
			want: []string{"last_matches and first_matches are mutually exclusive"},
		},
		{
			name:   "valid",
			params: query.Params{LeagueID: query.Ptr(int64(39)), Year: query.Ptr(2024), Month: query.Ptr(6)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			violations := factory.Validate(tc.params)
			got := make([]string, 0, len(violations))
			for _, item := range violations {
				got = append(got, item.Message)
			}
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				assert.NoError(t, violations.Err())
				return
			}
			assert.Equal(t, tc.want, got)
			assert.Error(t, violations.Err())
		})
	}
}
