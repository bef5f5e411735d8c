package usecase

import (
	"context"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/filter"
	"github.com/riskibarqy/match-metrics/internal/metrics"
	"github.com/riskibarqy/match-metrics/internal/platform/cache"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newH2HService(reader match.SnapshotReader, thresholds ...float64) *H2HService {
	logger := logging.NewNop()
	return NewH2HService(reader, filter.NewFactory(time.UTC, logger), cache.NewStore(time.Minute), cache.TTLPolicy{}, MetricsOptions{Thresholds: thresholds}, logger)
}

func TestH2HService_ExampleScenario(t *testing.T) {
	t.Parallel()

	records := append(confrontations(), fixture(4, at(time.June, 1, 20), teamA, teamC, 4, 0))
	svc := newH2HService(newReader(t, records), 2.5)
	params := query.Params{Team1ID: query.Ptr(teamA), Team2ID: query.Ptr(teamB)}

	results, err := svc.GetH2HResults(context.Background(), params)
	require.NoError(t, err)

	summary := results.HeadToHead
	assert.Equal(t, 3, summary.TotalMatches)
	require.NotNil(t, summary.Team1.Results)
	assert.Nil(t, summary.Team1.Goals)
	assert.Equal(t, 1, summary.Team1.Results.Wins)
	assert.Equal(t, 2, summary.Team1.Results.Draws)
	assert.Equal(t, "Team B", summary.Team2.TeamName)
	require.Len(t, summary.Overall.Thresholds, 1)
	assert.Equal(t, metrics.Share{Matches: 2, Percentage: 66.67}, summary.Overall.Thresholds[0].Over)
	assert.Equal(t, metrics.Share{Matches: 1, Percentage: 33.33}, summary.Overall.Thresholds[0].Under)
	assert.Equal(t, []string{query.ParamTeam1ID, query.ParamTeam2ID}, results.Metadata.Filters.Applied)

	goals, err := svc.GetH2HGoals(context.Background(), params)
	require.NoError(t, err)
	assert.Nil(t, goals.HeadToHead.Team1.Results)
	require.NotNil(t, goals.HeadToHead.Team2.Goals)
	assert.Equal(t, 4, goals.HeadToHead.Team2.Goals.GoalsScored)
	assert.Equal(t, summary.Overall, goals.HeadToHead.Overall)
}

func TestH2HService_OrientationsPartitionAny(t *testing.T) {
	t.Parallel()

	records := append(confrontations(),
		fixture(4, at(time.June, 1, 20), teamB, teamA, 2, 0),
		fixture(5, at(time.June, 8, 20), teamC, teamA, 1, 1),
	)
	svc := newH2HService(newReader(t, records))
	ctx := context.Background()

	count := func(location query.H2HLocation) int {
		report, err := svc.GetH2HResults(ctx, query.Params{
			Team1ID:     query.Ptr(teamA),
			Team2ID:     query.Ptr(teamB),
			H2HLocation: query.Ptr(location),
		})
		require.NoError(t, err)
		return report.HeadToHead.TotalMatches
	}

	assert.Equal(t, 4, count(query.H2HAny))
	assert.Equal(t, 2, count(query.H2HTeam1Home))
	assert.Equal(t, 2, count(query.H2HTeam1Away))
}

func TestH2HService_AppliesCalendarAndSequenceFilters(t *testing.T) {
	t.Parallel()

	svc := newH2HService(newReader(t, confrontations()))
	report, err := svc.GetH2HGoals(context.Background(), query.Params{
		Team1ID:     query.Ptr(teamA),
		Team2ID:     query.Ptr(teamB),
		Year:        query.Ptr(2024),
		LastMatches: query.Ptr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.HeadToHead.TotalMatches)
	assert.Equal(t, "2024-04-01", report.Metadata.Period.StartFormatted)
	assert.Equal(t, "2024-05-01", report.Metadata.Period.EndFormatted)
}

func TestH2HService_RequiresBothTeams(t *testing.T) {
	t.Parallel()

	reader := newReader(t, confrontations())
	svc := newH2HService(reader)

	_, err := svc.GetH2HResults(context.Background(), query.Params{Team1ID: query.Ptr(teamA)})
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrInvalidInput))

	_, err = svc.GetH2HGoals(context.Background(), query.Params{Team1ID: query.Ptr(teamA), Team2ID: query.Ptr(teamA)})
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "team1_id and team2_id must differ")

	assert.Equal(t, int32(0), reader.calls.Load())
}

func TestH2HService_NoConfrontations(t *testing.T) {
	t.Parallel()

	svc := newH2HService(newReader(t, confrontations()))
	report, err := svc.GetH2HResults(context.Background(), query.Params{
		Team1ID: query.Ptr(teamA),
		Team2ID: query.Ptr(teamC),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.HeadToHead.TotalMatches)
	require.NotNil(t, report.HeadToHead.Team1.Results)
	assert.Equal(t, 0.0, report.HeadToHead.Team1.Results.WinPercentage)
	assert.Len(t, report.HeadToHead.Overall.Thresholds, len(metrics.DefaultThresholds))
	assert.Equal(t, Period{}, report.Metadata.Period)
}
