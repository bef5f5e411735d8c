package postgres

import "time"

const matchTreeTable = "match_tree"

var (
	matchTreeKey     = []string{"season_key", "league_key"}
	matchTreeMutable = []string{"payload", "updated_at", "deleted_at"}
)

// matchTreeTableModel is one season/league branch. Payload holds the
// LeagueNode JSON.
type matchTreeTableModel struct {
	SeasonKey string     `db:"season_key"`
	LeagueKey string     `db:"league_key"`
	Payload   string     `db:"payload"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}
