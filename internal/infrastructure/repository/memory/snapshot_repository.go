package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
)

// SnapshotRepository serves a tree held in process memory.
type SnapshotRepository struct {
	mu   sync.RWMutex
	tree match.Tree
}

func NewSnapshotRepository(tree match.Tree) *SnapshotRepository {
	if tree == nil {
		tree = make(match.Tree)
	}
	return &SnapshotRepository{tree: tree}
}

// NewSnapshotRepositoryFromRecords lays records out as a tree first.
func NewSnapshotRepositoryFromRecords(records []match.Record) (*SnapshotRepository, error) {
	tree, err := match.BuildTree(records)
	if err != nil {
		return nil, err
	}
	return NewSnapshotRepository(tree), nil
}

func (r *SnapshotRepository) FetchSnapshot(ctx context.Context) (match.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree, nil
}

// Replace swaps the whole tree. Readers holding the previous tree keep it.
func (r *SnapshotRepository) Replace(tree match.Tree) {
	if tree == nil {
		tree = make(match.Tree)
	}

	r.mu.Lock()
	r.tree = tree
	r.mu.Unlock()
}

// UpsertTree merges tree into the held tree branch by branch and returns the
// number of branches written.
func (r *SnapshotRepository) UpsertTree(ctx context.Context, tree match.Tree) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(match.Tree, len(r.tree)+len(tree))
	for seasonKey, branch := range r.tree {
		copied := make(map[string]match.LeagueNode, len(branch))
		for leagueKey, node := range branch {
			copied[leagueKey] = node
		}
		next[seasonKey] = copied
	}

	written := 0
	for seasonKey, branch := range tree {
		target, ok := next[seasonKey]
		if !ok {
			target = make(map[string]match.LeagueNode, len(branch))
			next[seasonKey] = target
		}
		for leagueKey, node := range branch {
			target[leagueKey] = node
			written++
		}
	}
	r.tree = next

	return written, nil
}
