package match

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFixture_ProviderDocument(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"metadata": {"fixture_id": 1035, "date": "2024-03-01T20:00:00+00:00", "status": "FT"},
		"fixture": {"id": 1035, "timestamp": 1709323200, "status": {"short": "FT"}},
		"league": {"id": 39, "season": 2023, "name": "Premier League"},
		"teams": {"home": {"id": 40, "name": "Liverpool"}, "away": {"id": 50, "name": "Manchester City"}},
		"score": {"halftime": {"home": 1, "away": 0}, "fulltime": {"home": 2, "away": 1},
			"extratime": {"home": null, "away": null}, "penalty": {"home": null, "away": null}},
		"goals": {"home": 2, "away": 1}
	}`)

	rec, err := DecodeFixture("season_2023", "league_39", "1035", raw)
	require.NoError(t, err)

	assert.Equal(t, int64(1035), rec.FixtureID)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC), rec.KickoffAt)
	assert.Equal(t, StatusFullTime, rec.Status)
	assert.Equal(t, int64(39), rec.LeagueID)
	assert.Equal(t, 2023, rec.Season)
	assert.Equal(t, Team{ID: 40, Name: "Liverpool"}, rec.Home)
	assert.Equal(t, Score{Home: 2, Away: 1}, rec.FullTime)
	require.NotNil(t, rec.HalfTime)
	assert.Equal(t, Score{Home: 1, Away: 0}, *rec.HalfTime)
	assert.Nil(t, rec.ExtraTime)
	assert.Nil(t, rec.Penalty)
}

func TestDecodeFixture_FallsBackToPathAndTimestamp(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"fixture": {"timestamp": 1709323200, "status": {"short": "ns"}},
		"teams": {"home": {"id": 1, "name": "A"}, "away": {"id": 2, "name": "B"}},
		"score": {"fulltime": {"home": null, "away": null}},
		"goals": {"home": null, "away": null}
	}`)

	rec, err := DecodeFixture("season_2024", "league_61", "fixture_77", raw)
	require.NoError(t, err)

	assert.Equal(t, int64(77), rec.FixtureID)
	assert.Equal(t, int64(61), rec.LeagueID)
	assert.Equal(t, 2024, rec.Season)
	assert.Equal(t, StatusNotStarted, rec.Status)
	assert.Equal(t, time.Unix(1709323200, 0).UTC(), rec.KickoffAt)
}

func TestDecodeFixture_GarbledDateFallsThrough(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"metadata": {"fixture_id": 7, "date": "not-a-date", "status": "FT"},
		"fixture": {"date": "soon", "timestamp": 1709323200},
		"teams": {"home": {"id": 1, "name": "A"}, "away": {"id": 2, "name": "B"}},
		"goals": {"home": 1, "away": 1}
	}`)

	rec, err := DecodeFixture("season_2024", "league_39", "7", raw)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1709323200, 0).UTC(), rec.KickoffAt)
	assert.Equal(t, StatusFullTime, rec.Status)

	raw = []byte(`{
		"metadata": {"fixture_id": 7, "date": "not-a-date", "status": "FT"},
		"fixture": {"date": "2024-03-01T20:00:00Z"},
		"teams": {"home": {"id": 1, "name": "A"}, "away": {"id": 2, "name": "B"}},
		"goals": {"home": 1, "away": 1}
	}`)

	rec, err = DecodeFixture("season_2024", "league_39", "7", raw)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC), rec.KickoffAt)
}

func TestDecodeFixture_RecordErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bad date":         `{"metadata":{"fixture_id":1,"date":"yesterday","status":"FT"},"teams":{"home":{"id":1},"away":{"id":2}},"goals":{"home":1,"away":0}}`,
		"same teams":       `{"metadata":{"fixture_id":1,"date":"2024-01-01T12:00:00Z","status":"FT"},"teams":{"home":{"id":1},"away":{"id":1}},"goals":{"home":1,"away":0}}`,
		"finished no goal": `{"metadata":{"fixture_id":1,"date":"2024-01-01T12:00:00Z","status":"FT"},"teams":{"home":{"id":1},"away":{"id":2}}}`,
		"not an object":    `[1,2,3]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeFixture("season_2024", "league_1", "1", []byte(raw))
			var recordErr *RecordError
			require.ErrorAs(t, err, &recordErr)
			assert.Equal(t, "season_2024/league_1/1", recordErr.Path)
		})
	}
}

func TestDecodeTree_SkipsMalformedBranches(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"season_2024": {
			"league_39": {
				"fixtures": {
					"1": {"metadata":{"fixture_id":1,"date":"2024-01-01T15:00:00Z","status":"FT"},"teams":{"home":{"id":1},"away":{"id":2}},"goals":{"home":1,"away":1}}
				},
				"metadata_league": {"id": 39, "name": "Premier League", "country": "England", "type": "League"}
			},
			"league_40": "broken",
			"league_41": {"fixtures": [1, 2]}
		},
		"season_2023": 12
	}`)

	tree, skipped, err := DecodeTree(raw)
	require.NoError(t, err)
	assert.Len(t, skipped, 3)
	require.Contains(t, tree, "season_2024")
	assert.Len(t, tree["season_2024"], 1)

	descriptor, ok := tree.League(39)
	require.True(t, ok)
	assert.Equal(t, league.Descriptor{ID: 39, Name: "Premier League", Country: "England", Type: "League"}, descriptor)

	_, _, err = DecodeTree([]byte(`"not a tree"`))
	assert.Error(t, err)
}

func TestFlatten_DeduplicatesAndSkipsMalformed(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	first := Record{FixtureID: 10, KickoffAt: kickoff, Status: StatusFullTime, LeagueID: 39, Season: 2023,
		Home: Team{ID: 1, Name: "A"}, Away: Team{ID: 2, Name: "B"}, FullTime: Score{Home: 2, Away: 0}}
	second := first
	second.FixtureID = 11
	second.KickoffAt = kickoff.Add(24 * time.Hour)

	tree, err := BuildTree([]Record{first, second})
	require.NoError(t, err)

	// same fixture stored again under a later season path
	duplicate := tree["season_2023"]["league_39"].Fixtures["10"]
	tree["season_2024"] = map[string]LeagueNode{
		"league_39": {Fixtures: map[string]json.RawMessage{
			"10":  duplicate,
			"bad": json.RawMessage(`{"metadata":{"date":"nope"}}`),
		}},
	}

	records := Flatten(tree, nil)
	require.Len(t, records, 2)
	assert.Equal(t, int64(10), records[0].FixtureID)
	assert.Equal(t, int64(11), records[1].FixtureID)
	assert.Equal(t, first, records[0])
}

func TestBuildTree_AttachesDescriptors(t *testing.T) {
	t.Parallel()

	rec := Record{FixtureID: 5, KickoffAt: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), Status: StatusNotStarted,
		LeagueID: 61, Season: 2024, Home: Team{ID: 1}, Away: Team{ID: 2}}

	tree, err := BuildTree([]Record{rec}, league.Descriptor{ID: 61, Name: "Ligue 1", Country: "France"})
	require.NoError(t, err)

	node := tree["season_2024"]["league_61"]
	require.NotNil(t, node.League)
	assert.Equal(t, "Ligue 1", node.League.Name)
	require.NotNil(t, node.Season)
	assert.Equal(t, 2024, node.Season.Year)

	records := Flatten(tree, nil)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ClassFinished, Classify("ft"))
	assert.Equal(t, ClassFinished, Classify(StatusPenalties))
	assert.Equal(t, ClassFinished, Classify(StatusAwarded))
	assert.Equal(t, ClassLive, Classify(StatusHalfTime))
	assert.Equal(t, ClassScheduled, Classify(StatusPostponed))
	assert.Equal(t, ClassScheduled, Classify("???"))

	assert.True(t, IsFinished(StatusAfterExtraTime))
	assert.False(t, IsFinished(StatusAbandoned))
	assert.True(t, IsTerminal(StatusAbandoned))
}

func TestRecord_GoalsFor(t *testing.T) {
	t.Parallel()

	rec := Record{Home: Team{ID: 1}, Away: Team{ID: 2}, FullTime: Score{Home: 3, Away: 1}}

	scored, conceded, ok := rec.GoalsFor(2)
	require.True(t, ok)
	assert.Equal(t, 1, scored)
	assert.Equal(t, 3, conceded)

	_, _, ok = rec.GoalsFor(9)
	assert.False(t, ok)
	assert.True(t, rec.IsBetween(2, 1))
	assert.False(t, rec.IsBetween(1, 3))
}
