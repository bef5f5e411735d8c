package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
	"github.com/sourcegraph/conc/pool"
)

const defaultWarmupWorkers = 4

type WarmupOptions struct {
	LeagueIDs []int64
	Season    *int
	Workers   int
}

type WarmupOutcome struct {
	LeagueID   int64
	Err        error
	DurationMs int64
}

type WarmupResult struct {
	Outcomes     []WarmupOutcome
	SuccessCount int
	FailedCount  int
}

// WarmupService primes the result cache for the configured leagues.
type WarmupService struct {
	metrics *MetricsService
	opts    WarmupOptions
	logger  *logging.Logger
}

func NewWarmupService(metrics *MetricsService, opts WarmupOptions, logger *logging.Logger) *WarmupService {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWarmupWorkers
	}
	return &WarmupService{metrics: metrics, opts: opts, logger: logger}
}

// Run computes results and goals for every configured league. A failing
// league is logged and does not stop the others.
func (s *WarmupService) Run(ctx context.Context) WarmupResult {
	ctx, span := childSpan(ctx, "usecase.WarmupService.Run")
	defer span.End()

	if len(s.opts.LeagueIDs) == 0 {
		return WarmupResult{}
	}

	p := pool.NewWithResults[WarmupOutcome]().WithMaxGoroutines(s.opts.Workers)
	for _, leagueID := range s.opts.LeagueIDs {
		leagueID := leagueID
		p.Go(func() WarmupOutcome {
			start := time.Now()
			err := s.warmLeague(ctx, leagueID)
			return WarmupOutcome{
				LeagueID:   leagueID,
				Err:        err,
				DurationMs: time.Since(start).Milliseconds(),
			}
		})
	}
	outcomes := p.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].LeagueID < outcomes[j].LeagueID })

	result := WarmupResult{Outcomes: outcomes}
	for _, item := range outcomes {
		if item.Err != nil {
			result.FailedCount++
			s.logger.WarnContext(ctx, "cache warmup failed", "league_id", item.LeagueID, "error", item.Err)
			continue
		}
		result.SuccessCount++
	}
	s.logger.InfoContext(ctx, "cache warmup finished",
		"leagues", len(outcomes),
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	return result
}

// Start runs the warmup now and then on every tick until ctx is done.
func (s *WarmupService) Start(ctx context.Context, interval time.Duration) {
	s.Run(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}

func (s *WarmupService) warmLeague(ctx context.Context, leagueID int64) error {
	params := query.Params{LeagueID: query.Ptr(leagueID), Season: s.opts.Season}
	if _, err := s.metrics.GetResults(ctx, params); err != nil {
		return err
	}
	if _, err := s.metrics.GetGoals(ctx, params); err != nil {
		return err
	}
	return nil
}
