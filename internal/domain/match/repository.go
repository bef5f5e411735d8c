package match

import "context"

// SnapshotReader exposes a read-only snapshot of the match tree.
type SnapshotReader interface {
	FetchSnapshot(ctx context.Context) (Tree, error)
}
