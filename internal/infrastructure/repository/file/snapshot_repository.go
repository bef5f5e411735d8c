package file

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
)

// exportRootKey wraps the tree in full database exports.
const exportRootKey = "matches"

// SnapshotRepository reads an exported JSON tree from disk on every fetch.
type SnapshotRepository struct {
	path   string
	logger *logging.Logger
}

func NewSnapshotRepository(path string, logger *logging.Logger) *SnapshotRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotRepository{path: strings.TrimSpace(path), logger: logger}
}

func (r *SnapshotRepository) FetchSnapshot(ctx context.Context) (match.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.path == "" {
		return nil, crerr.New("snapshot file path is empty")
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read snapshot file %s", r.path)
	}

	tree, err := DecodeExport(raw, r.logger)
	if err != nil {
		return nil, crerr.Wrapf(err, "decode snapshot file %s", r.path)
	}
	return tree, nil
}

// DecodeExport decodes a tree document, unwrapping the export root when
// present. Malformed branches are logged and dropped.
func DecodeExport(raw []byte, logger *logging.Logger) (match.Tree, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var root map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return nil, crerr.Wrap(err, "decode export root")
	}
	if inner, ok := root[exportRootKey]; ok && len(root) == 1 {
		raw = inner
	}

	tree, skipped, err := match.DecodeTree(raw)
	if err != nil {
		return nil, err
	}
	for _, item := range skipped {
		logger.Warn("skip malformed match tree branch", "error", item)
	}
	return tree, nil
}
