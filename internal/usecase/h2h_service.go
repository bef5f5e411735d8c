package usecase

import (
	"context"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/filter"
	"github.com/riskibarqy/match-metrics/internal/metrics"
	"github.com/riskibarqy/match-metrics/internal/platform/cache"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
)

type H2HReport struct {
	HeadToHead metrics.H2HSummary `json:"head_to_head"`
	Metadata   Metadata           `json:"metadata"`
}

// H2HService answers questions about the confrontations between two teams.
type H2HService struct {
	engine *engine
}

func NewH2HService(reader match.SnapshotReader, factory *filter.Factory, backend ResultCache, policy cache.TTLPolicy, opts MetricsOptions, logger *logging.Logger) *H2HService {
	return &H2HService{engine: newEngine(reader, factory, backend, policy, opts, logger)}
}

// GetH2HResults returns win/draw/loss blocks for both teams.
func (s *H2HService) GetH2HResults(ctx context.Context, params query.Params) (H2HReport, error) {
	return traced(ctx, "H2HService.GetH2HResults", params.Values(), func(ctx context.Context) (H2HReport, error) {
		if err := s.engine.validate(params, true); err != nil {
			return H2HReport{}, err
		}
		return cachedQuery(ctx, s.engine.cache, EndpointH2HResults, params.Values(), func(ctx context.Context) (H2HReport, error) {
			report, _, err := s.summarize(ctx, params)
			if err != nil {
				return H2HReport{}, err
			}
			report.HeadToHead = report.HeadToHead.ResultsOnly()
			return report, nil
		})
	})
}

// GetH2HGoals returns scoring blocks for both teams.
func (s *H2HService) GetH2HGoals(ctx context.Context, params query.Params) (H2HReport, error) {
	return traced(ctx, "H2HService.GetH2HGoals", params.Values(), func(ctx context.Context) (H2HReport, error) {
		if err := s.engine.validate(params, true); err != nil {
			return H2HReport{}, err
		}
		return cachedQuery(ctx, s.engine.cache, EndpointH2HGoals, params.Values(), func(ctx context.Context) (H2HReport, error) {
			report, _, err := s.summarize(ctx, params)
			if err != nil {
				return H2HReport{}, err
			}
			report.HeadToHead = report.HeadToHead.GoalsOnly()
			return report, nil
		})
	})
}

// summarize selects the pair's matches and computes the full summary. The
// selection is returned for callers that derive more metrics from it.
func (s *H2HService) summarize(ctx context.Context, params query.Params) (H2HReport, selection, error) {
	sel, err := s.engine.selectRecords(ctx, params)
	if err != nil {
		return H2HReport{}, selection{}, err
	}
	if err := ctx.Err(); err != nil {
		return H2HReport{}, selection{}, err
	}

	summary := metrics.HeadToHead(sel.records, *params.Team1ID, *params.Team2ID, s.engine.thresholds)
	return H2HReport{
		HeadToHead: summary,
		Metadata:   buildMetadata(params, sel),
	}, sel, nil
}
