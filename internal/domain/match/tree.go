package match

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-metrics/internal/domain/league"
)

const (
	SeasonKeyPrefix = "season_"
	LeagueKeyPrefix = "league_"
)

// Tree is the season -> league -> node snapshot of the match store.
type Tree map[string]map[string]LeagueNode

// LeagueNode holds the fixtures of one league in one season. Fixtures stay
// raw until Flatten so one malformed fixture cannot poison the branch.
type LeagueNode struct {
	Fixtures map[string]json.RawMessage `json:"fixtures"`
	League   *league.Descriptor         `json:"metadata_league,omitempty"`
	Season   *SeasonMetadata            `json:"metadata_season,omitempty"`
}

type SeasonMetadata struct {
	Year    int    `json:"year"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Current bool   `json:"current,omitempty"`
}

// RawFixture is the provider document stored under a fixture key.
type RawFixture struct {
	Metadata *RawFixtureMetadata `json:"metadata,omitempty"`
	Fixture  *RawFixtureInfo     `json:"fixture,omitempty"`
	League   *RawLeagueRef       `json:"league,omitempty"`
	Teams    RawTeams            `json:"teams"`
	Score    RawScores           `json:"score"`
	Goals    RawScore            `json:"goals"`
}

type RawFixtureMetadata struct {
	FixtureID *int64 `json:"fixture_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Status    string `json:"status,omitempty"`
}

type RawFixtureInfo struct {
	ID        *int64          `json:"id,omitempty"`
	Date      string          `json:"date,omitempty"`
	Timestamp *int64          `json:"timestamp,omitempty"`
	Status    RawFixtureState `json:"status"`
}

type RawFixtureState struct {
	Short string `json:"short,omitempty"`
	Long  string `json:"long,omitempty"`
}

type RawLeagueRef struct {
	ID     *int64 `json:"id,omitempty"`
	Season *int   `json:"season,omitempty"`
	Name   string `json:"name,omitempty"`
}

type RawTeams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

type RawScores struct {
	Fulltime  RawScore `json:"fulltime"`
	Halftime  RawScore `json:"halftime"`
	Extratime RawScore `json:"extratime"`
	Penalty   RawScore `json:"penalty"`
}

type RawScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (s RawScore) complete() bool {
	return s.Home != nil && s.Away != nil
}

func (s RawScore) toScore() *Score {
	if !s.complete() {
		return nil
	}
	return &Score{Home: *s.Home, Away: *s.Away}
}

// RecordError describes one fixture that could not be turned into a Record.
type RecordError struct {
	Path   string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("match record %s: %s", e.Path, e.Reason)
}

// DecodeTree decodes a full snapshot document. Only a non-object top level
// is an error; malformed season or league branches are reported through
// skipped and left out of the tree.
func DecodeTree(raw []byte) (tree Tree, skipped []error, err error) {
	var seasons map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &seasons); err != nil {
		return nil, nil, fmt.Errorf("decode match tree: %w", err)
	}

	tree = make(Tree, len(seasons))
	for seasonKey, seasonRaw := range seasons {
		var leagues map[string]json.RawMessage
		if err := sonic.Unmarshal(seasonRaw, &leagues); err != nil {
			skipped = append(skipped, fmt.Errorf("decode season %s: %w", seasonKey, err))
			continue
		}

		branch := make(map[string]LeagueNode, len(leagues))
		for leagueKey, leagueRaw := range leagues {
			node, err := DecodeLeagueNode(leagueRaw)
			if err != nil {
				skipped = append(skipped, fmt.Errorf("decode league %s/%s: %w", seasonKey, leagueKey, err))
				continue
			}
			branch[leagueKey] = node
		}
		tree[seasonKey] = branch
	}

	return tree, skipped, nil
}

// DecodeLeagueNode decodes one season/league branch. Malformed metadata is
// dropped; a malformed fixtures map fails the branch.
func DecodeLeagueNode(raw []byte) (LeagueNode, error) {
	var parts struct {
		Fixtures json.RawMessage `json:"fixtures"`
		League   json.RawMessage `json:"metadata_league"`
		Season   json.RawMessage `json:"metadata_season"`
	}
	if err := sonic.Unmarshal(raw, &parts); err != nil {
		return LeagueNode{}, err
	}

	node := LeagueNode{}
	if len(parts.Fixtures) > 0 && string(parts.Fixtures) != "null" {
		if err := sonic.Unmarshal(parts.Fixtures, &node.Fixtures); err != nil {
			return LeagueNode{}, fmt.Errorf("decode fixtures: %w", err)
		}
	}
	if len(parts.League) > 0 {
		var descriptor league.Descriptor
		if err := sonic.Unmarshal(parts.League, &descriptor); err == nil && descriptor.ID > 0 {
			node.League = &descriptor
		}
	}
	if len(parts.Season) > 0 {
		var season SeasonMetadata
		if err := sonic.Unmarshal(parts.Season, &season); err == nil {
			node.Season = &season
		}
	}

	return node, nil
}

// DecodeFixture turns one raw fixture into a Record. Missing fields fall back
// to the tree path where possible.
func DecodeFixture(seasonKey, leagueKey, fixtureKey string, raw []byte) (Record, error) {
	path := seasonKey + "/" + leagueKey + "/" + fixtureKey
	fail := func(format string, args ...any) (Record, error) {
		return Record{}, &RecordError{Path: path, Reason: fmt.Sprintf(format, args...)}
	}

	var doc RawFixture
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return fail("decode: %v", err)
	}

	rec := Record{}

	switch {
	case doc.Metadata != nil && doc.Metadata.FixtureID != nil:
		rec.FixtureID = *doc.Metadata.FixtureID
	case doc.Fixture != nil && doc.Fixture.ID != nil:
		rec.FixtureID = *doc.Fixture.ID
	default:
		id, ok := parseKeyID("fixture_", fixtureKey)
		if !ok {
			return fail("missing fixture id")
		}
		rec.FixtureID = id
	}

	kickoff, err := resolveKickoff(doc)
	if err != nil {
		return fail("%v", err)
	}
	rec.KickoffAt = kickoff

	if doc.Metadata != nil && strings.TrimSpace(doc.Metadata.Status) != "" {
		rec.Status = NormalizeStatus(doc.Metadata.Status)
	} else if doc.Fixture != nil {
		rec.Status = NormalizeStatus(doc.Fixture.Status.Short)
	}

	if doc.League != nil && doc.League.ID != nil {
		rec.LeagueID = *doc.League.ID
	} else if id, ok := parseKeyID(LeagueKeyPrefix, leagueKey); ok {
		rec.LeagueID = id
	} else {
		return fail("missing league id")
	}

	if doc.League != nil && doc.League.Season != nil {
		rec.Season = *doc.League.Season
	} else if year, ok := parseKeyID(SeasonKeyPrefix, seasonKey); ok {
		rec.Season = int(year)
	} else {
		return fail("missing season")
	}

	rec.Home = doc.Teams.Home
	rec.Away = doc.Teams.Away

	fullTime := doc.Score.Fulltime
	if !fullTime.complete() {
		fullTime = doc.Goals
	}
	if score := fullTime.toScore(); score != nil {
		rec.FullTime = *score
	} else if IsFinished(rec.Status) {
		return fail("finished fixture without full-time score")
	}
	rec.HalfTime = doc.Score.Halftime.toScore()
	rec.ExtraTime = doc.Score.Extratime.toScore()
	rec.Penalty = doc.Score.Penalty.toScore()

	if err := rec.Validate(); err != nil {
		return fail("%v", err)
	}

	return rec, nil
}

var kickoffLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// resolveKickoff tries metadata.date, fixture.date and fixture.timestamp in
// that order. An unparsable date is reported only when nothing else resolves.
func resolveKickoff(doc RawFixture) (time.Time, error) {
	candidates := make([]string, 0, 2)
	if doc.Metadata != nil {
		candidates = append(candidates, doc.Metadata.Date)
	}
	if doc.Fixture != nil {
		candidates = append(candidates, doc.Fixture.Date)
	}

	var unparsable string
	for _, candidate := range candidates {
		value := strings.TrimSpace(candidate)
		if value == "" {
			continue
		}
		for _, layout := range kickoffLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.UTC(), nil
			}
		}
		if unparsable == "" {
			unparsable = value
		}
	}

	if doc.Fixture != nil && doc.Fixture.Timestamp != nil && *doc.Fixture.Timestamp > 0 {
		return time.Unix(*doc.Fixture.Timestamp, 0).UTC(), nil
	}
	if unparsable != "" {
		return time.Time{}, fmt.Errorf("unparsable kickoff date %q", unparsable)
	}

	return time.Time{}, fmt.Errorf("missing kickoff date")
}

func parseKeyID(prefix, key string) (int64, bool) {
	value := strings.TrimPrefix(strings.TrimSpace(key), prefix)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// League returns the descriptor recorded for leagueID, preferring the most
// recent season that carries one.
func (t Tree) League(leagueID int64) (league.Descriptor, bool) {
	seasonKeys := sortedKeys(t)
	for i := len(seasonKeys) - 1; i >= 0; i-- {
		branch := t[seasonKeys[i]]
		for _, leagueKey := range sortedKeys(branch) {
			node := branch[leagueKey]
			if node.League != nil && node.League.ID == leagueID {
				return *node.League, true
			}
		}
	}

	return league.Descriptor{}, false
}

// BuildTree lays records out the way the ingestion jobs store them.
func BuildTree(records []Record, descriptors ...league.Descriptor) (Tree, error) {
	byID := make(map[int64]league.Descriptor, len(descriptors))
	for _, item := range descriptors {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		byID[item.ID] = item
	}

	tree := make(Tree)
	for _, rec := range records {
		seasonKey := SeasonKeyPrefix + strconv.Itoa(rec.Season)
		leagueKey := LeagueKeyPrefix + strconv.FormatInt(rec.LeagueID, 10)

		payload, err := sonic.Marshal(rawFromRecord(rec))
		if err != nil {
			return nil, fmt.Errorf("encode fixture %d: %w", rec.FixtureID, err)
		}

		branch, ok := tree[seasonKey]
		if !ok {
			branch = make(map[string]LeagueNode)
			tree[seasonKey] = branch
		}
		node, ok := branch[leagueKey]
		if !ok {
			node = LeagueNode{Fixtures: make(map[string]json.RawMessage)}
			if descriptor, found := byID[rec.LeagueID]; found {
				node.League = &descriptor
			}
			node.Season = &SeasonMetadata{Year: rec.Season}
		}
		node.Fixtures[strconv.FormatInt(rec.FixtureID, 10)] = payload
		branch[leagueKey] = node
	}

	return tree, nil
}

func rawFromRecord(rec Record) RawFixture {
	fixtureID := rec.FixtureID
	leagueID := rec.LeagueID
	season := rec.Season
	timestamp := rec.KickoffAt.Unix()
	home, away := rec.FullTime.Home, rec.FullTime.Away

	doc := RawFixture{
		Metadata: &RawFixtureMetadata{
			FixtureID: &fixtureID,
			Date:      rec.KickoffAt.UTC().Format(time.RFC3339),
			Status:    rec.Status,
		},
		Fixture: &RawFixtureInfo{
			ID:        &fixtureID,
			Timestamp: &timestamp,
			Status:    RawFixtureState{Short: rec.Status},
		},
		League: &RawLeagueRef{ID: &leagueID, Season: &season},
		Teams:  RawTeams{Home: rec.Home, Away: rec.Away},
	}
	if IsFinished(rec.Status) {
		doc.Score.Fulltime = RawScore{Home: &home, Away: &away}
		doc.Goals = RawScore{Home: &home, Away: &away}
	}
	doc.Score.Halftime = rawScore(rec.HalfTime)
	doc.Score.Extratime = rawScore(rec.ExtraTime)
	doc.Score.Penalty = rawScore(rec.Penalty)

	return doc
}

func rawScore(score *Score) RawScore {
	if score == nil {
		return RawScore{}
	}
	home, away := score.Home, score.Away
	return RawScore{Home: &home, Away: &away}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
