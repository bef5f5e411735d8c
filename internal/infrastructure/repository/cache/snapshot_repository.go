package cache

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/platform/resilience"
)

const snapshotFlightKey = "snapshot"

// SnapshotRepository keeps the last fetched tree for ttl so bursts of queries
// share one store read. Trees are treated as immutable once fetched.
type SnapshotRepository struct {
	next   match.SnapshotReader
	ttl    time.Duration
	flight resilience.Group[match.Tree]
	now    func() time.Time

	mu       sync.RWMutex
	tree     match.Tree
	loadedAt time.Time
}

func NewSnapshotRepository(next match.SnapshotReader, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{next: next, ttl: ttl, now: time.Now}
}

func (r *SnapshotRepository) FetchSnapshot(ctx context.Context) (match.Tree, error) {
	if r.ttl <= 0 {
		return r.next.FetchSnapshot(ctx)
	}

	r.mu.RLock()
	tree, loadedAt := r.tree, r.loadedAt
	r.mu.RUnlock()
	if tree != nil && r.now().Sub(loadedAt) < r.ttl {
		return tree, nil
	}

	tree, _, err := r.flight.Do(ctx, snapshotFlightKey, func(ctx context.Context) (match.Tree, error) {
		fresh, err := r.next.FetchSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tree = fresh
		r.loadedAt = r.now()
		r.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Invalidate forces the next fetch to hit the underlying store.
func (r *SnapshotRepository) Invalidate() {
	r.mu.Lock()
	r.tree = nil
	r.loadedAt = time.Time{}
	r.mu.Unlock()
}
