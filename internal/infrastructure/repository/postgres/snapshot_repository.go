package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	qb "github.com/riskibarqy/match-metrics/internal/platform/querybuilder"
	"github.com/riskibarqy/match-metrics/internal/platform/resilience"
)

const (
	defaultDecodeWorkers = 8

	// upsertBatchSize keeps one statement well below the 65535 bind
	// parameter limit.
	upsertBatchSize = 500
)

// SnapshotRepository reads the match tree from one row per season/league
// branch.
type SnapshotRepository struct {
	db      *sqlx.DB
	breaker *resilience.Breaker
	workers int
	logger  *logging.Logger
	now     func() time.Time
}

func NewSnapshotRepository(db *sqlx.DB, breaker *resilience.Breaker, workers int, logger *logging.Logger) *SnapshotRepository {
	if workers <= 0 {
		workers = defaultDecodeWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotRepository{
		db:      db,
		breaker: breaker,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *SnapshotRepository) FetchSnapshot(ctx context.Context) (match.Tree, error) {
	var rows []matchTreeTableModel
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		rows, err = r.selectBranches(ctx)
		return err
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			return nil, crerr.Wrap(err, "match tree store")
		}
		return nil, err
	}

	return r.decodeBranches(ctx, rows)
}

func (r *SnapshotRepository) selectBranches(ctx context.Context) ([]matchTreeTableModel, error) {
	rows, err := r.selectLive(ctx, "payload")
	switch {
	case err == nil:
		return rows, nil
	case isResultFormatMismatch(err):
		r.logger.WarnContext(ctx, "binary payload rejected, retrying as text", "error", err)
		rows, err = r.selectLive(ctx, "payload::text AS payload")
		if err != nil {
			return nil, crerr.Wrap(err, "select match tree as text")
		}
		return rows, nil
	case isUndefinedTable(err):
		return nil, crerr.WithHint(crerr.Wrap(err, "select match tree"), "apply migrations with cmd/migration up")
	default:
		return nil, crerr.Wrap(err, "select match tree")
	}
}

// selectLive reads every branch that is not soft-deleted, ordered by key.
func (r *SnapshotRepository) selectLive(ctx context.Context, payloadExpr string) ([]matchTreeTableModel, error) {
	query, args, err := qb.Select("season_key", "league_key", payloadExpr, "updated_at").
		From(matchTreeTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy(matchTreeKey...).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []matchTreeTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

type decodedBranch struct {
	node match.LeagueNode
	err  error
}

// decodeBranches decodes every row on a bounded pool. A malformed branch is
// logged and left out; it never fails the snapshot.
func (r *SnapshotRepository) decodeBranches(ctx context.Context, rows []matchTreeTableModel) (match.Tree, error) {
	tree := make(match.Tree)
	if len(rows) == 0 {
		return tree, nil
	}

	workers := r.workers
	if workers > len(rows) {
		workers = len(rows)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, crerr.Wrap(err, "create decode worker pool")
	}
	defer pool.Release()

	decoded := make([]decodedBranch, len(rows))
	var wg sync.WaitGroup
	for i := range rows {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			node, err := match.DecodeLeagueNode([]byte(rows[i].Payload))
			decoded[i] = decodedBranch{node: node, err: err}
		}); err != nil {
			wg.Done()
			decoded[i] = decodedBranch{err: crerr.Wrap(err, "submit decode task")}
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skipped := 0
	for i, row := range rows {
		if decoded[i].err != nil {
			skipped++
			r.logger.WarnContext(ctx, "skip malformed match tree branch",
				"season_key", row.SeasonKey,
				"league_key", row.LeagueKey,
				"error", decoded[i].err,
			)
			continue
		}
		branch, ok := tree[row.SeasonKey]
		if !ok {
			branch = make(map[string]match.LeagueNode)
			tree[row.SeasonKey] = branch
		}
		branch[row.LeagueKey] = decoded[i].node
	}

	r.logger.DebugContext(ctx, "match tree loaded", "branches", len(rows)-skipped, "skipped", skipped)
	return tree, nil
}

// UpsertTree writes every branch of tree in one transaction and returns the
// number of branches written.
func (r *SnapshotRepository) UpsertTree(ctx context.Context, tree match.Tree) (int, error) {
	models, err := branchModels(tree, r.now().UTC())
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, crerr.Wrap(err, "begin match tree upsert")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(models); start += upsertBatchSize {
		batch := models[start:min(start+upsertBatchSize, len(models))]
		query, args, err := upsertBranches(batch)
		if err != nil {
			return 0, crerr.Wrap(err, "build upsert match tree query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, crerr.Wrapf(err, "upsert match tree from %s/%s", batch[0].SeasonKey, batch[0].LeagueKey)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, crerr.Wrap(err, "commit match tree upsert")
	}
	return len(models), nil
}

// upsertBranches revives soft-deleted rows since DeletedAt is always nil.
func upsertBranches(batch []matchTreeTableModel) (string, []any, error) {
	return qb.InsertRows(matchTreeTable, batch...).
		OnConflict(matchTreeKey, matchTreeMutable...).
		ToSQL()
}

func branchModels(tree match.Tree, now time.Time) ([]matchTreeTableModel, error) {
	seasonKeys := make([]string, 0, len(tree))
	for key := range tree {
		seasonKeys = append(seasonKeys, key)
	}
	sort.Strings(seasonKeys)

	out := make([]matchTreeTableModel, 0, len(tree))
	for _, seasonKey := range seasonKeys {
		branch := tree[seasonKey]
		leagueKeys := make([]string, 0, len(branch))
		for key := range branch {
			leagueKeys = append(leagueKeys, key)
		}
		sort.Strings(leagueKeys)

		for _, leagueKey := range leagueKeys {
			payload, err := sonic.Marshal(branch[leagueKey])
			if err != nil {
				return nil, crerr.Wrapf(err, "encode match tree %s/%s", seasonKey, leagueKey)
			}
			out = append(out, matchTreeTableModel{
				SeasonKey: seasonKey,
				LeagueKey: leagueKey,
				Payload:   string(payload),
				UpdatedAt: now,
			})
		}
	}

	return out, nil
}
