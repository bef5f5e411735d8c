package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/filter"
	"github.com/riskibarqy/match-metrics/internal/metrics"
	"github.com/riskibarqy/match-metrics/internal/platform/cache"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
	"go.opentelemetry.io/otel/attribute"
)

type MetricsOptions struct {
	// Thresholds drives the over/under ladder. Empty means metrics.DefaultThresholds.
	Thresholds []float64
}

// engine holds what the metrics and head-to-head services share.
type engine struct {
	reader     match.SnapshotReader
	factory    *filter.Factory
	cache      *resultCache
	thresholds []float64
	logger     *logging.Logger
}

func newEngine(reader match.SnapshotReader, factory *filter.Factory, backend ResultCache, policy cache.TTLPolicy, opts MetricsOptions, logger *logging.Logger) *engine {
	if logger == nil {
		logger = logging.Default()
	}
	if factory == nil {
		factory = filter.NewFactory(time.UTC, logger)
	}
	thresholds := opts.Thresholds
	if len(thresholds) == 0 {
		thresholds = metrics.DefaultThresholds
	}

	return &engine{
		reader:     reader,
		factory:    factory,
		cache:      newResultCache(backend, policy, logger),
		thresholds: thresholds,
		logger:     logger,
	}
}

type selection struct {
	records []match.Record
	tree    match.Tree
}

// validate rejects params before any store access.
func (e *engine) validate(params query.Params, requirePair bool) error {
	var violations query.ValidationErrors

	switch {
	case requirePair && !params.HasH2H():
		violations = append(violations, &query.ValidationError{
			Param:   query.ParamTeam1ID,
			Message: "team1_id and team2_id are required",
		})
	case !params.HasScope():
		violations = append(violations, &query.ValidationError{
			Param:   query.ParamLeagueID,
			Message: "one of league_id, team_id or team1_id/team2_id is required",
		})
	}
	violations = append(violations, e.factory.Validate(params)...)

	if err := violations.Err(); err != nil {
		return invalidInput(err)
	}
	return nil
}

// selectRecords runs the selection stages in their fixed order: fetch,
// flatten, set-reducing filters, finished gate, team restriction, then the
// last/first N window over the chronologically sorted remainder.
func (e *engine) selectRecords(ctx context.Context, params query.Params) (selection, error) {
	ctx, span := childSpan(ctx, "usecase.selectRecords")
	defer span.End()

	tree, err := e.reader.FetchSnapshot(ctx)
	if err != nil {
		return selection{}, storeUnavailable(err)
	}
	if err := ctx.Err(); err != nil {
		return selection{}, err
	}

	records := match.Flatten(tree, e.logger)
	records = e.factory.CreateSetReducing(params).Apply(records)
	if err := ctx.Err(); err != nil {
		return selection{}, err
	}

	finished := make([]match.Record, 0, len(records))
	for _, rec := range records {
		if !rec.IsFinished() {
			continue
		}
		if params.TeamID != nil && !rec.HasTeam(*params.TeamID) {
			continue
		}
		finished = append(finished, rec)
	}

	ordered := filter.SortChronological(finished)
	ordered = e.factory.CreateSequence(params).Apply(ordered)
	span.SetAttributes(
		attribute.Int("match.candidates", len(records)),
		attribute.Int("match.selected", len(ordered)),
	)

	return selection{records: ordered, tree: tree}, nil
}
