package match

import (
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
)

// Flatten walks the tree in sorted key order and returns one Record per
// fixture id. Fixtures that fail to decode are logged and skipped; the first
// occurrence of a duplicated fixture id wins.
func Flatten(tree Tree, logger *logging.Logger) []Record {
	if logger == nil {
		logger = logging.Default()
	}

	out := make([]Record, 0, countFixtures(tree))
	seen := make(map[int64]struct{}, cap(out))
	dropped := 0
	duplicates := 0

	for _, seasonKey := range sortedKeys(tree) {
		branch := tree[seasonKey]
		for _, leagueKey := range sortedKeys(branch) {
			node := branch[leagueKey]
			for _, fixtureKey := range sortedKeys(node.Fixtures) {
				rec, err := DecodeFixture(seasonKey, leagueKey, fixtureKey, node.Fixtures[fixtureKey])
				if err != nil {
					dropped++
					logger.Warn("skip malformed match record", "error", err)
					continue
				}
				if _, ok := seen[rec.FixtureID]; ok {
					duplicates++
					continue
				}
				seen[rec.FixtureID] = struct{}{}
				out = append(out, rec)
			}
		}
	}

	if dropped > 0 || duplicates > 0 {
		logger.Info("flattened match tree",
			"records", len(out),
			"dropped", dropped,
			"duplicates", duplicates,
		)
	}

	return out
}

func countFixtures(tree Tree) int {
	total := 0
	for _, branch := range tree {
		for _, node := range branch {
			total += len(node.Fixtures)
		}
	}
	return total
}
