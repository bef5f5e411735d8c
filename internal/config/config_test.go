package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "match-metrics-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "match-metrics-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default false", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=false by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")
		t.Setenv("CACHE_H2H_TTL", "")
		t.Setenv("CACHE_BACKEND", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheBackend != CacheBackendMemory {
			t.Fatalf("unexpected default cache backend: %s", cfg.CacheBackend)
		}
		if cfg.CacheTTL != time.Hour {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
		if cfg.CacheH2HTTL != 24*time.Hour {
			t.Fatalf("unexpected default h2h cache ttl: %s", cfg.CacheH2HTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "memcached")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown CACHE_BACKEND")
		}
	})

	t.Run("redis", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "cache:6380")
		t.Setenv("REDIS_DB", "2")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RedisAddr != "cache:6380" || cfg.RedisDB != 2 {
			t.Fatalf("unexpected redis config: %s/%d", cfg.RedisAddr, cfg.RedisDB)
		}
	})
}

func TestLoad_SnapshotSource(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults to postgres", func(t *testing.T) {
		t.Setenv("SNAPSHOT_SOURCE", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SnapshotSource != SnapshotSourcePostgres {
			t.Fatalf("unexpected snapshot source: %s", cfg.SnapshotSource)
		}
		if cfg.SnapshotDecodeWorkers != 8 {
			t.Fatalf("unexpected decode workers: %d", cfg.SnapshotDecodeWorkers)
		}
		if cfg.SnapshotCacheTTL != 30*time.Second {
			t.Fatalf("unexpected snapshot cache ttl: %s", cfg.SnapshotCacheTTL)
		}
	})

	t.Run("file requires path", func(t *testing.T) {
		t.Setenv("SNAPSHOT_SOURCE", "file")
		t.Setenv("SNAPSHOT_FILE", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when SNAPSHOT_SOURCE=file without SNAPSHOT_FILE")
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Setenv("SNAPSHOT_SOURCE", "firebase")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown SNAPSHOT_SOURCE")
		}
	})
}

func TestLoad_StoreCircuitBreaker(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORE_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("STORE_CIRCUIT_OPEN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	breaker := cfg.StoreCircuitBreaker()
	if !breaker.Enabled || breaker.Failures != 3 || breaker.Cooldown != 30*time.Second || breaker.Probes != 2 || breaker.Name != "snapshot-store" {
		t.Fatalf("unexpected breaker config: %+v", breaker)
	}

	t.Setenv("STORE_CIRCUIT_FAILURE_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for STORE_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_MetricsConfig(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("MATCH_TIMEZONE", "")
		t.Setenv("METRICS_GOAL_THRESHOLDS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MatchLocation != time.UTC {
			t.Fatalf("expected UTC location, got %s", cfg.MatchLocation)
		}
		if cfg.MetricsGoalThresholds != nil {
			t.Fatalf("expected nil thresholds, got %v", cfg.MetricsGoalThresholds)
		}
	})

	t.Run("custom", func(t *testing.T) {
		t.Setenv("MATCH_TIMEZONE", "Europe/Paris")
		t.Setenv("METRICS_GOAL_THRESHOLDS", "3.5, 1.5,2.5")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MatchLocation.String() != "Europe/Paris" {
			t.Fatalf("unexpected location: %s", cfg.MatchLocation)
		}
		want := []float64{1.5, 2.5, 3.5}
		if len(cfg.MetricsGoalThresholds) != len(want) {
			t.Fatalf("unexpected thresholds: %v", cfg.MetricsGoalThresholds)
		}
		for i := range want {
			if cfg.MetricsGoalThresholds[i] != want[i] {
				t.Fatalf("unexpected thresholds: %v", cfg.MetricsGoalThresholds)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("MATCH_TIMEZONE", "Mars/Olympus")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown MATCH_TIMEZONE")
		}
	})

	t.Run("negative threshold", func(t *testing.T) {
		t.Setenv("MATCH_TIMEZONE", "")
		t.Setenv("METRICS_GOAL_THRESHOLDS", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative threshold")
		}
	})
}

func TestLoad_WarmupConfig(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("WARMUP_ENABLED", "true")
	t.Setenv("WARMUP_LEAGUE_IDS", "39, 140,39")
	t.Setenv("WARMUP_SEASON", "2023")
	t.Setenv("WARMUP_INTERVAL", "10m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.WarmupLeagueIDs) != 2 || cfg.WarmupLeagueIDs[0] != 39 || cfg.WarmupLeagueIDs[1] != 140 {
		t.Fatalf("unexpected warmup league ids: %v", cfg.WarmupLeagueIDs)
	}
	if cfg.WarmupSeason == nil || *cfg.WarmupSeason != 2023 {
		t.Fatalf("unexpected warmup season: %v", cfg.WarmupSeason)
	}
	if cfg.WarmupInterval != 10*time.Minute || cfg.WarmupWorkers != 4 {
		t.Fatalf("unexpected warmup schedule: %s/%d", cfg.WarmupInterval, cfg.WarmupWorkers)
	}

	t.Setenv("WARMUP_LEAGUE_IDS", "abc")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid WARMUP_LEAGUE_IDS")
	}
}
