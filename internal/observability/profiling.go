package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/match-metrics/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

// Filter composition and metrics folding are allocation heavy, so the heap
// profiles matter more than lock contention here.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

func snapshotSourceAttr(cfg config.Config) attribute.KeyValue {
	return attribute.String("match.snapshot_source", cfg.SnapshotSource)
}

func startProfiler(cfg config.Config, s *Stack) error {
	if !cfg.PyroscopeEnabled {
		s.logger.Info("continuous profiling off")
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		ProfileTypes:      profileTypes,
		Tags: map[string]string{
			"env":             cfg.AppEnv,
			"service":         cfg.ServiceName,
			"snapshot_source": cfg.SnapshotSource,
		},
	})
	if err != nil {
		return err
	}
	s.push("pyroscope", func(context.Context) error { return profiler.Stop() })

	s.logger.Info("continuous profiling on", "server", cfg.PyroscopeServerAddress, "app", cfg.PyroscopeAppName)
	return nil
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	for name, h := range map[string]http.HandlerFunc{
		"cmdline": pprof.Cmdline,
		"profile": pprof.Profile,
		"symbol":  pprof.Symbol,
		"trace":   pprof.Trace,
	} {
		mux.HandleFunc("/debug/pprof/"+name, h)
	}
	return mux
}

// startPprof serves net/http/pprof on its own listener so it never shares
// the API's middleware or port.
func startPprof(cfg config.Config, s *Stack) error {
	if !cfg.PprofEnabled {
		return nil
	}

	srv := &http.Server{
		Addr:              cfg.PprofAddr,
		Handler:           pprofMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("pprof listener failed", "addr", cfg.PprofAddr, "error", err)
		}
	}()
	s.push("pprof", srv.Shutdown)

	s.logger.Info("pprof listening", "addr", cfg.PprofAddr)
	return nil
}
