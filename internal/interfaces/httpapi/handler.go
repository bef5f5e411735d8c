package httpapi

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/query"
	"github.com/riskibarqy/match-metrics/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	metricsService *usecase.MetricsService
	h2hService     *usecase.H2HService
	cacheService   *usecase.CacheService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	metricsService *usecase.MetricsService,
	h2hService *usecase.H2HService,
	cacheService *usecase.CacheService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Handler{
		metricsService: metricsService,
		h2hService:     h2hService,
		cacheService:   cacheService,
		logger:         logger,
		validator:      v,
	}
}

// metricsQueryRequest is the raw query string. Tags only check the shape of
// each value; query.Builder owns coercion and the allowed enum sets.
type metricsQueryRequest struct {
	TeamID       string `query:"team_id" validate:"omitempty,numeric,max=19"`
	Location     string `query:"location" validate:"omitempty,max=16"`
	Team1ID      string `query:"team1_id" validate:"omitempty,numeric,max=19"`
	Team2ID      string `query:"team2_id" validate:"omitempty,numeric,max=19"`
	H2HLocation  string `query:"h2h_location" validate:"omitempty,max=16"`
	LeagueID     string `query:"league_id" validate:"omitempty,numeric,max=19"`
	Season       string `query:"season" validate:"omitempty,numeric,max=4"`
	Year         string `query:"year" validate:"omitempty,numeric,max=4"`
	Month        string `query:"month" validate:"omitempty,numeric,max=2"`
	GameTime     string `query:"game_time" validate:"omitempty,max=16"`
	Weekday      string `query:"weekday" validate:"omitempty,max=16"`
	LastMatches  string `query:"last_matches" validate:"omitempty,numeric,max=6"`
	FirstMatches string `query:"first_matches" validate:"omitempty,numeric,max=6"`
}

func newMetricsQueryRequest(r *http.Request) metricsQueryRequest {
	values := r.URL.Query()
	get := func(name string) string {
		return strings.TrimSpace(values.Get(name))
	}
	return metricsQueryRequest{
		TeamID:       get(query.ParamTeamID),
		Location:     get(query.ParamLocation),
		Team1ID:      get(query.ParamTeam1ID),
		Team2ID:      get(query.ParamTeam2ID),
		H2HLocation:  get(query.ParamH2HLocation),
		LeagueID:     get(query.ParamLeagueID),
		Season:       get(query.ParamSeason),
		Year:         get(query.ParamYear),
		Month:        get(query.ParamMonth),
		GameTime:     get(query.ParamGameTime),
		Weekday:      get(query.ParamWeekday),
		LastMatches:  get(query.ParamLastMatches),
		FirstMatches: get(query.ParamFirstMatches),
	}
}

func (req metricsQueryRequest) lookup(name string) string {
	switch name {
	case query.ParamTeamID:
		return req.TeamID
	case query.ParamLocation:
		return req.Location
	case query.ParamTeam1ID:
		return req.Team1ID
	case query.ParamTeam2ID:
		return req.Team2ID
	case query.ParamH2HLocation:
		return req.H2HLocation
	case query.ParamLeagueID:
		return req.LeagueID
	case query.ParamSeason:
		return req.Season
	case query.ParamYear:
		return req.Year
	case query.ParamMonth:
		return req.Month
	case query.ParamGameTime:
		return req.GameTime
	case query.ParamWeekday:
		return req.Weekday
	case query.ParamLastMatches:
		return req.LastMatches
	case query.ParamFirstMatches:
		return req.FirstMatches
	default:
		return ""
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, "GetResults", h.metricsService.GetResults)
}

func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, "GetGoals", h.metricsService.GetGoals)
}

func (h *Handler) GetH2HResults(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, "GetH2HResults", h.h2hService.GetH2HResults)
}

func (h *Handler) GetH2HGoals(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, "GetH2HGoals", h.h2hService.GetH2HGoals)
}

func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "InvalidateCache")
	defer span.End()

	deleted, err := h.cacheService.Invalidate(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "invalidate metrics cache failed", "error", err)
		failSpan(span, err, writeError(w, err))
		return
	}

	span.SetAttributes(attribute.Int("cache.deleted", deleted))
	writeSuccess(w, http.StatusOK, cacheInvalidationDTO{Deleted: deleted})
}

type cacheInvalidationDTO struct {
	Deleted int `json:"deleted"`
}

func serveQuery[T any](h *Handler, w http.ResponseWriter, r *http.Request, op string, run func(context.Context, query.Params) (T, error)) {
	req := newMetricsQueryRequest(r)
	ctx, span := startHandlerSpan(r.Context(), op, queryAttributes(req)...)
	defer span.End()

	params, err := h.parseParams(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "reject metrics query", "path", r.URL.Path, "error", err)
		failSpan(span, err, writeError(w, err))
		return
	}

	report, err := run(ctx, params)
	if err != nil {
		if usecase.IsInvalidInput(err) {
			h.logger.WarnContext(ctx, "reject metrics query", "path", r.URL.Path, "error", err)
		} else {
			h.logger.ErrorContext(ctx, "metrics query failed", "path", r.URL.Path, "error", err)
		}
		failSpan(span, err, writeError(w, err))
		return
	}

	writeSuccess(w, http.StatusOK, report)
}

func (h *Handler) parseParams(ctx context.Context, req metricsQueryRequest) (query.Params, error) {
	if err := h.validateRequest(ctx, req); err != nil {
		return query.Params{}, err
	}

	params, err := query.FromValues(req.lookup)
	if err != nil {
		return query.Params{}, crerr.Mark(err, usecase.ErrInvalidInput)
	}
	return params, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return crerr.Mark(crerr.Wrap(err, "validation failed"), usecase.ErrInvalidInput)
	}

	out := make(query.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &query.ValidationError{Param: fe.Field(), Message: validationMessage(fe)})
	}
	return crerr.Mark(out, usecase.ErrInvalidInput)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "numeric":
		return "must be a whole number"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
