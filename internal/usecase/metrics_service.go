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

type StandingsTable struct {
	Rows []metrics.StandingRow `json:"rows"`
}

type ResultsReport struct {
	metrics.Results
	TeamRecord *metrics.TeamSplit  `json:"team_record,omitempty"`
	Standings  *StandingsTable     `json:"standings,omitempty"`
	HeadToHead *metrics.H2HSummary `json:"head_to_head,omitempty"`
	Metadata   Metadata            `json:"metadata"`
}

type GoalsReport struct {
	CleanSheets metrics.CleanSheetStats  `json:"clean_sheets"`
	BTTS        metrics.BTTSStats        `json:"btts"`
	TotalGoals  metrics.TotalGoalStats   `json:"total_goals"`
	Thresholds  []metrics.ThresholdStats `json:"thresholds"`
	HeadToHead  *metrics.H2HSummary      `json:"head_to_head,omitempty"`
	Metadata    Metadata                 `json:"metadata"`
}

// MetricsService answers league and team scoped queries. Queries naming a
// team pair are delegated to the head-to-head path.
type MetricsService struct {
	engine *engine
	h2h    *H2HService
}

func NewMetricsService(reader match.SnapshotReader, factory *filter.Factory, backend ResultCache, policy cache.TTLPolicy, opts MetricsOptions, logger *logging.Logger) *MetricsService {
	e := newEngine(reader, factory, backend, policy, opts, logger)
	return &MetricsService{engine: e, h2h: &H2HService{engine: e}}
}

// H2H returns the head-to-head service sharing this service's store and cache.
func (s *MetricsService) H2H() *H2HService {
	return s.h2h
}

func (s *MetricsService) GetResults(ctx context.Context, params query.Params) (ResultsReport, error) {
	return traced(ctx, "MetricsService.GetResults", params.Values(), func(ctx context.Context) (ResultsReport, error) {
		if err := s.engine.validate(params, false); err != nil {
			return ResultsReport{}, err
		}
		return cachedQuery(ctx, s.engine.cache, pairAware(EndpointResults, EndpointResultsPair, params), params.Values(), func(ctx context.Context) (ResultsReport, error) {
			return s.computeResults(ctx, params)
		})
	})
}

func (s *MetricsService) GetGoals(ctx context.Context, params query.Params) (GoalsReport, error) {
	return traced(ctx, "MetricsService.GetGoals", params.Values(), func(ctx context.Context) (GoalsReport, error) {
		if err := s.engine.validate(params, false); err != nil {
			return GoalsReport{}, err
		}
		return cachedQuery(ctx, s.engine.cache, pairAware(EndpointGoals, EndpointGoalsPair, params), params.Values(), func(ctx context.Context) (GoalsReport, error) {
			return s.computeGoals(ctx, params)
		})
	})
}

func (s *MetricsService) computeResults(ctx context.Context, params query.Params) (ResultsReport, error) {
	if params.HasH2H() {
		h2h, sel, err := s.h2h.summarize(ctx, params)
		if err != nil {
			return ResultsReport{}, err
		}
		summary := h2h.HeadToHead.ResultsOnly()
		return ResultsReport{
			Results:    metrics.ResultBreakdown(sel.records),
			HeadToHead: &summary,
			Metadata:   h2h.Metadata,
		}, nil
	}

	sel, err := s.engine.selectRecords(ctx, params)
	if err != nil {
		return ResultsReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return ResultsReport{}, err
	}

	report := ResultsReport{
		Results:  metrics.ResultBreakdown(sel.records),
		Metadata: buildMetadata(params, sel),
	}
	switch {
	case params.TeamID != nil:
		split := metrics.TeamRecord(sel.records, *params.TeamID)
		report.TeamRecord = &split
	case params.LeagueID != nil:
		rows := metrics.Standings(sel.records)
		if rows == nil {
			rows = []metrics.StandingRow{}
		}
		report.Standings = &StandingsTable{Rows: rows}
	}

	return report, nil
}

func (s *MetricsService) computeGoals(ctx context.Context, params query.Params) (GoalsReport, error) {
	if params.HasH2H() {
		h2h, sel, err := s.h2h.summarize(ctx, params)
		if err != nil {
			return GoalsReport{}, err
		}
		report := s.goalsFor(sel.records, nil)
		summary := h2h.HeadToHead.GoalsOnly()
		report.HeadToHead = &summary
		report.Metadata = h2h.Metadata
		return report, nil
	}

	sel, err := s.engine.selectRecords(ctx, params)
	if err != nil {
		return GoalsReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return GoalsReport{}, err
	}

	report := s.goalsFor(sel.records, params.TeamID)
	report.Metadata = buildMetadata(params, sel)
	return report, nil
}

func (s *MetricsService) goalsFor(records []match.Record, teamID *int64) GoalsReport {
	return GoalsReport{
		CleanSheets: metrics.CleanSheets(records, teamID),
		BTTS:        metrics.BTTS(records, teamID),
		TotalGoals:  metrics.TotalGoals(records, teamID),
		Thresholds:  metrics.ThresholdLadder(records, s.engine.thresholds, teamID),
	}
}
