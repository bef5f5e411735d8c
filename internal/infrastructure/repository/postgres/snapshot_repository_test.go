package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/league"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) match.Tree {
	t.Helper()

	records := []match.Record{
		{
			FixtureID: 1,
			KickoffAt: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC),
			Status:    match.StatusFullTime,
			LeagueID:  39,
			Season:    2023,
			Home:      match.Team{ID: 10, Name: "Team A"},
			Away:      match.Team{ID: 20, Name: "Team B"},
			FullTime:  match.Score{Home: 2, Away: 1},
		},
		{
			FixtureID: 2,
			KickoffAt: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
			Status:    match.StatusFullTime,
			LeagueID:  140,
			Season:    2023,
			Home:      match.Team{ID: 30, Name: "Team C"},
			Away:      match.Team{ID: 40, Name: "Team D"},
			FullTime:  match.Score{Home: 0, Away: 0},
		},
	}
	tree, err := match.BuildTree(records, league.Descriptor{ID: 39, Name: "Premier League"})
	require.NoError(t, err)
	return tree
}

func TestSnapshotRepository_DecodeBranchesSkipsMalformed(t *testing.T) {
	t.Parallel()

	models, err := branchModels(sampleTree(t), time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, models, 2)
	models = append(models, matchTreeTableModel{SeasonKey: "season_2023", LeagueKey: "league_61", Payload: `{"fixtures": [1, 2]}`})

	repo := NewSnapshotRepository(nil, nil, 2, logging.NewNop())
	tree, err := repo.decodeBranches(context.Background(), models)
	require.NoError(t, err)

	require.Contains(t, tree, "season_2023")
	assert.Len(t, tree["season_2023"], 2)
	assert.NotContains(t, tree["season_2023"], "league_61")

	descriptor, ok := tree.League(39)
	require.True(t, ok)
	assert.Equal(t, "Premier League", descriptor.Name)

	records := match.Flatten(tree, logging.NewNop())
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.FixtureID)
	}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestSnapshotRepository_DecodeEmpty(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository(nil, nil, 0, nil)
	tree, err := repo.decodeBranches(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestBranchModels_SortedAndUpsertable(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
	models, err := branchModels(sampleTree(t), now)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "league_140", models[0].LeagueKey)
	assert.Equal(t, "league_39", models[1].LeagueKey)
	assert.Equal(t, now, models[0].UpdatedAt)

	query, args, err := upsertBranches(models)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO match_tree (season_key, league_key, payload, updated_at, deleted_at) VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10) "+
			"ON CONFLICT (season_key, league_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at, deleted_at = EXCLUDED.deleted_at",
		query,
	)
	require.Len(t, args, 10)
	assert.Equal(t, "season_2023", args[0])
	assert.Equal(t, "league_39", args[6])
}
