// Package observability starts the process-wide tracing and profiling
// backends selected by config and stops them in reverse order.
package observability

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/config"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
)

type stopFunc func(context.Context) error

// Stack holds whatever Start brought up.
type Stack struct {
	logger *logging.Logger
	names  []string
	stops  []stopFunc
}

func (s *Stack) push(name string, stop stopFunc) {
	s.names = append(s.names, name)
	s.stops = append(s.stops, stop)
}

// Start enables Uptrace, Pyroscope and the pprof listener as configured. On
// failure the parts already started are stopped before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	for _, start := range []func(config.Config, *Stack) error{
		startTracing,
		startProfiler,
		startPprof,
	} {
		if err := start(cfg, s); err != nil {
			_ = s.Shutdown(context.Background())
			return nil, err
		}
	}
	return s, nil
}

// Shutdown stops every backend, newest first, and reports all failures.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs error
	for i := len(s.stops) - 1; i >= 0; i-- {
		if err := s.stops[i](ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrapf(err, "stop %s", s.names[i]))
			continue
		}
		s.logger.Debug("observability backend stopped", "backend", s.names[i])
	}
	s.stops, s.names = nil, nil
	return errs
}
