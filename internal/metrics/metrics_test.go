package metrics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	teamA int64 = 10
	teamB int64 = 20
	teamC int64 = 30
)

func played(id int64, kickoff time.Time, home, away int64, homeGoals, awayGoals int) match.Record {
	return match.Record{
		FixtureID: id,
		KickoffAt: kickoff,
		Status:    match.StatusFullTime,
		LeagueID:  39,
		Season:    2024,
		Home:      match.Team{ID: home, Name: teamName(home)},
		Away:      match.Team{ID: away, Name: teamName(away)},
		FullTime:  match.Score{Home: homeGoals, Away: awayGoals},
	}
}

func teamName(id int64) string {
	switch id {
	case teamA:
		return "Team A"
	case teamB:
		return "Team B"
	default:
		return "Team C"
	}
}

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 20, 0, 0, 0, time.UTC)
}

func exampleConfrontations() []match.Record {
	return []match.Record{
		played(1, date(2024, time.March, 1), teamA, teamB, 2, 1),
		played(2, date(2024, time.April, 1), teamB, teamA, 0, 0),
		played(3, date(2024, time.May, 1), teamA, teamB, 3, 3),
	}
}

func randomSeason(seed int64, n int) []match.Record {
	rng := rand.New(rand.NewSource(seed))
	teams := []int64{teamA, teamB, teamC}
	out := make([]match.Record, 0, n)
	for i := 0; i < n; i++ {
		h := rng.Intn(len(teams))
		a := (h + 1 + rng.Intn(len(teams)-1)) % len(teams)
		rec := played(int64(i+1), date(2024, time.January, 1).AddDate(0, 0, i), teams[h], teams[a], rng.Intn(5), rng.Intn(5))
		if rng.Intn(10) == 0 {
			rec.Status = match.StatusNotStarted
		}
		out = append(out, rec)
	}
	return out
}

func TestResultBreakdown_SumsToTotal(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 25; seed++ {
		records := randomSeason(seed, 1+int(seed)*3)
		got := ResultBreakdown(records)
		total := len(FinishedOnly(records))
		if total == 0 {
			continue
		}

		assert.Equal(t, total, got.HomeWins.TotalMatches)
		assert.Equal(t, total, got.HomeWins.Count+got.AwayWins.Count+got.Draws.Count)
		sum := got.HomeWins.Percentage + got.AwayWins.Percentage + got.Draws.Percentage
		assert.InDelta(t, 100, sum, 0.02, "seed %d", seed)
	}
}

func TestGoalsThreshold_OverUnderPartition(t *testing.T) {
	t.Parallel()

	records := randomSeason(42, 60)
	total := len(FinishedOnly(records))
	for _, threshold := range []float64{0.5, 1.5, 2.5, 3.5, 4.5, 7} {
		got := GoalsThreshold(records, threshold, nil)
		assert.Equal(t, total, got.Over.Count+got.Under.Count)
		assert.InDelta(t, 100, got.Over.Percentage+got.Under.Percentage, 0.02)
	}
}

func TestGoalsThreshold_ExampleScenario(t *testing.T) {
	t.Parallel()

	got := GoalsThreshold(exampleConfrontations(), 2.5, nil)
	assert.Equal(t, "goals_2_5", got.Key)
	// 3, 0 and 6 goals
	assert.Equal(t, Rate{Count: 2, TotalMatches: 3, Percentage: 66.67}, got.Over)
	assert.Equal(t, Rate{Count: 1, TotalMatches: 3, Percentage: 33.33}, got.Under)
}

func TestCalculators_IgnoreUnfinished(t *testing.T) {
	t.Parallel()

	records := exampleConfrontations()
	live := played(4, date(2024, time.June, 1), teamA, teamB, 5, 0)
	live.Status = match.StatusHalfTime
	records = append(records, live)

	assert.Equal(t, Rate{Count: 1, TotalMatches: 3, Percentage: 33.33}, HomeWins(records))
	assert.Equal(t, Rate{Count: 0, TotalMatches: 3, Percentage: 0}, AwayWins(records))
	assert.Equal(t, Rate{Count: 2, TotalMatches: 3, Percentage: 66.67}, Draws(records))
	assert.Equal(t, 9, TotalGoals(records, nil).Count)
}

func TestCalculators_EmptyInputReturnsZeroShape(t *testing.T) {
	t.Parallel()

	team := teamA
	assert.Equal(t, Results{}, ResultBreakdown(nil))

	cs := CleanSheets(nil, &team)
	require.NotNil(t, cs.Details)
	assert.Equal(t, CleanSheetDetails{}, *cs.Details)

	btts := BTTS(nil, &team)
	require.NotNil(t, btts.Team)
	assert.Equal(t, Rate{}, btts.Yes)

	ladder := ThresholdLadder(nil, nil, nil)
	require.Len(t, ladder, len(DefaultThresholds))
	assert.Equal(t, "goals_0_5", ladder[0].Key)
	assert.Equal(t, OverUnder{}, ladder[0].OverUnder)

	goals := TotalGoals(nil, &team)
	assert.Equal(t, 0.0, goals.Average)
	require.NotNil(t, goals.Team)

	h2h := HeadToHead(nil, teamA, teamB, nil)
	assert.Equal(t, 0, h2h.TotalMatches)
	require.NotNil(t, h2h.Team1.Results)
	require.NotNil(t, h2h.Team2.Goals)
	assert.Len(t, h2h.Overall.Thresholds, len(DefaultThresholds))

	assert.Empty(t, Standings(nil))
	assert.Equal(t, PointsLine{}, TeamRecord(nil, teamA).Total)
}

func TestTeamVariants_OrientationNormalized(t *testing.T) {
	t.Parallel()

	records := append(exampleConfrontations(),
		played(4, date(2024, time.June, 1), teamC, teamA, 2, 0),
	)
	team := teamA

	goals := TotalGoals(records, &team)
	require.NotNil(t, goals.Team)
	assert.Equal(t, GoalLine{Matches: 4, Scored: 5, Conceded: 6, AverageScored: 1.25, AverageConceded: 1.5}, goals.Team.Total)
	assert.Equal(t, GoalLine{Matches: 2, Scored: 5, Conceded: 4, AverageScored: 2.5, AverageConceded: 2}, goals.Team.Home)
	assert.Equal(t, GoalLine{Matches: 2, Scored: 0, Conceded: 2, AverageScored: 0, AverageConceded: 1}, goals.Team.Away)

	cs := CleanSheets(records, &team)
	require.NotNil(t, cs.Details)
	assert.Equal(t, CleanSheetLine{Matches: 4, Kept: 1, Conceded: 3, Percentage: 25}, cs.Details.Total)
	assert.Equal(t, CleanSheetLine{Matches: 2, Kept: 1, Conceded: 1, Percentage: 50}, cs.Details.Away)
	assert.Equal(t, 2, cs.Count)

	btts := BTTS(records, &team)
	require.NotNil(t, btts.Team)
	assert.Equal(t, Rate{Count: 2, TotalMatches: 2, Percentage: 100}, btts.Team.Home)
	assert.Equal(t, Rate{Count: 0, TotalMatches: 2, Percentage: 0}, btts.Team.Away)

	split := TeamRecord(records, teamA)
	assert.Equal(t, 4, split.Total.Matches)
	assert.Equal(t, 1, split.Total.Wins)
	assert.Equal(t, 2, split.Total.Draws)
	assert.Equal(t, 1, split.Total.Losses)
	assert.Equal(t, 5, split.Total.Points)
	assert.Equal(t, 1.25, split.Total.PointsPerGame)
	assert.Equal(t, 25.0, split.Total.WinPercentage)
	assert.Equal(t, 4, split.Home.Points)
	assert.Equal(t, 1, split.Away.Points)
}

func TestStandings_RanksByPointsThenGoalDifference(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		played(1, date(2024, time.March, 1), teamA, teamB, 1, 0),
		played(2, date(2024, time.March, 8), teamB, teamC, 4, 0),
		played(3, date(2024, time.March, 15), teamC, teamA, 1, 1),
	}

	table := Standings(records)
	require.Len(t, table, 3)
	assert.Equal(t, teamA, table[0].TeamID)
	assert.Equal(t, 4, table[0].Points)
	assert.Equal(t, teamB, table[1].TeamID)
	assert.Equal(t, 3, table[1].GoalDifference)
	assert.Equal(t, teamC, table[2].TeamID)
	assert.Equal(t, 3, table[2].Position)
	assert.Equal(t, "Team C", table[2].TeamName)
}

func TestHeadToHead_SymmetricSummary(t *testing.T) {
	t.Parallel()

	records := append(exampleConfrontations(),
		played(4, date(2024, time.June, 1), teamA, teamC, 4, 0),
	)

	got := HeadToHead(records, teamA, teamB, []float64{2.5})
	assert.Equal(t, 3, got.TotalMatches)

	a, b := got.Team1, got.Team2
	require.NotNil(t, a.Results)
	require.NotNil(t, b.Results)
	assert.Equal(t, "Team A", a.TeamName)
	assert.Equal(t, 1, a.Results.Wins)
	assert.Equal(t, 1, a.Results.HomeWins)
	assert.Equal(t, 2, a.Results.Draws)
	assert.Equal(t, 0, a.Results.Losses)
	assert.Equal(t, 5, a.Results.Points)
	assert.Equal(t, a.Results.Wins, b.Results.Losses)
	assert.Equal(t, a.Results.Draws, b.Results.Draws)
	assert.Equal(t, a.Results.GoalsFor, b.Results.GoalsAgainst)
	assert.Equal(t, 5, a.Results.GoalsFor)
	assert.Equal(t, 4, a.Results.GoalsAgainst)

	require.NotNil(t, a.Goals)
	assert.Equal(t, 1, a.Goals.CleanSheets)
	assert.Equal(t, 1, b.Goals.FailedToScore)
	assert.Equal(t, 33.33, a.Goals.CleanSheetPercentage)

	assert.Equal(t, Share{Matches: 2, Percentage: 66.67}, got.Overall.BTTS)
	require.Len(t, got.Overall.Thresholds, 1)
	assert.Equal(t, Share{Matches: 2, Percentage: 66.67}, got.Overall.Thresholds[0].Over)
	assert.Equal(t, Share{Matches: 1, Percentage: 33.33}, got.Overall.Thresholds[0].Under)

	resultsOnly := got.ResultsOnly()
	assert.Nil(t, resultsOnly.Team1.Goals)
	assert.NotNil(t, got.Team1.Goals)
	assert.Nil(t, got.GoalsOnly().Team2.Results)
}

func TestRound2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 0.0, Percentage(1, 0))
	assert.False(t, math.IsNaN(Average(0, 0)))
	assert.Equal(t, "goals_0_5", ThresholdKey(0.5))
	assert.Equal(t, "goals_3", ThresholdKey(3))
}
