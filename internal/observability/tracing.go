package observability

import (
	"strings"

	"github.com/riskibarqy/match-metrics/internal/config"
	"github.com/uptrace/uptrace-go/uptrace"
)

// startTracing installs the global OpenTelemetry providers exporting to
// Uptrace. otelhttp and otelsqlx pick them up through the otel globals.
func startTracing(cfg config.Config, s *Stack) error {
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		s.logger.Info("tracing off", "uptrace_enabled", cfg.UptraceEnabled)
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
		uptrace.WithResourceAttributes(snapshotSourceAttr(cfg)),
	)
	s.push("uptrace", uptrace.Shutdown)

	s.logger.Info("tracing on",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"logs_exported", cfg.UptraceLogsEnabled,
	)
	return nil
}
