package usecase

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/platform/cache"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/platform/resilience"
	"github.com/riskibarqy/match-metrics/internal/query"
)

const (
	EndpointResults    = "results"
	EndpointGoals      = "goals"
	EndpointH2HResults = "h2h/results"
	EndpointH2HGoals   = "h2h/goals"

	// results and goals scoped to a team pair; their payload differs from the
	// h2h endpoints but they share the h2h TTL.
	EndpointResultsPair = "results/pair"
	EndpointGoalsPair   = "goals/pair"
)

// NewTTLPolicy keeps head-to-head answers, including results and goals asked
// for a team pair, for h2hTTL and everything else for defaultTTL.
func NewTTLPolicy(defaultTTL, h2hTTL time.Duration) cache.TTLPolicy {
	return cache.TTLPolicy{
		Default: defaultTTL,
		ByEndpoint: map[string]time.Duration{
			EndpointH2HResults:  h2hTTL,
			EndpointH2HGoals:    h2hTTL,
			EndpointResultsPair: h2hTTL,
			EndpointGoalsPair:   h2hTTL,
		},
	}
}

func pairAware(endpoint, pair string, params query.Params) string {
	if params.HasH2H() {
		return pair
	}
	return endpoint
}

// ResultCache stores encoded query results. Implementations must treat a
// missing key as (nil, false, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// cacheJSON sorts map keys so equal results encode to equal bytes.
var cacheJSON = sonic.ConfigStd

type resultCache struct {
	backend ResultCache
	policy  cache.TTLPolicy
	flight  resilience.Group[[]byte]
	logger  *logging.Logger
}

func newResultCache(backend ResultCache, policy cache.TTLPolicy, logger *logging.Logger) *resultCache {
	return &resultCache{backend: backend, policy: policy, logger: logger}
}

// cachedQuery returns the cached result for (endpoint, params) or computes,
// stores and returns it. Concurrent misses for one key share a single
// computation. Backend failures only cost a recomputation.
func cachedQuery[T any](ctx context.Context, rc *resultCache, endpoint string, params map[string]string, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if rc == nil || rc.backend == nil {
		return compute(ctx)
	}

	key := cache.Key(endpoint, params)
	raw, ok, err := rc.backend.Get(ctx, key)
	switch {
	case err != nil:
		rc.logger.WarnContext(ctx, "read cached metrics failed", "key", key, "error", err)
	case ok:
		var out T
		decodeErr := cacheJSON.Unmarshal(raw, &out)
		if decodeErr == nil {
			return out, nil
		}
		rc.logger.WarnContext(ctx, "decode cached metrics failed", "key", key, "error", decodeErr)
	}

	raw, _, err = rc.flight.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := cacheJSON.Marshal(value)
		if err != nil {
			return nil, crerr.Wrap(err, "encode metrics result")
		}
		if err := rc.backend.Set(ctx, key, encoded, rc.policy.TTL(endpoint)); err != nil {
			rc.logger.WarnContext(ctx, "store cached metrics failed", "key", key, "error", err)
		}
		return encoded, nil
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := cacheJSON.Unmarshal(raw, &out); err != nil {
		return zero, crerr.Wrap(err, "decode metrics result")
	}
	return out, nil
}

// CacheService exposes cache maintenance to the adapters.
type CacheService struct {
	backend ResultCache
	logger  *logging.Logger
}

func NewCacheService(backend ResultCache, logger *logging.Logger) *CacheService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheService{backend: backend, logger: logger}
}

// Invalidate drops every cached metrics result and returns how many entries
// were removed. A disabled cache reports zero.
func (s *CacheService) Invalidate(ctx context.Context) (int, error) {
	ctx, span := childSpan(ctx, "usecase.CacheService.Invalidate")
	defer span.End()

	if s.backend == nil {
		return 0, nil
	}

	removed, err := s.backend.DeletePrefix(ctx, cache.KeyPrefix)
	if err != nil {
		return 0, crerr.Mark(crerr.Wrap(err, "invalidate metrics cache"), ErrDependencyUnavailable)
	}
	s.logger.InfoContext(ctx, "metrics cache invalidated", "removed", removed)
	return removed, nil
}
