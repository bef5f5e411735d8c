package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbPingTimeout      = 5 * time.Second
	dbApplicationName  = "match-metrics"
	tracedStatementMax = 512

	preparedBinaryKey = "disable_prepared_binary_result"
)

// OpenDB opens a traced postgres handle and checks it is reachable.
func OpenDB(ctx context.Context, dbURL string, disablePreparedBinary bool) (*sqlx.DB, error) {
	dsn := PostgresDSN(dbURL, disablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(databaseName(dsn)),
		otelsql.WithQueryFormatter(traceStatement),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}

	// Snapshot reads are a handful of large SELECTs; imports hold one tx.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping postgres")
	}
	return db, nil
}

// PostgresDSN tags URL-style connection strings with an application name and,
// when asked, the prepared binary result opt-out. Keyword/value DSNs and keys
// the caller already set are left alone.
func PostgresDSN(raw string, disablePreparedBinary bool) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	q := parsed.Query()
	changed := false
	if q.Get("application_name") == "" && q.Get("fallback_application_name") == "" {
		q.Set("fallback_application_name", dbApplicationName)
		changed = true
	}
	if disablePreparedBinary && q.Get(preparedBinaryKey) == "" {
		q.Set(preparedBinaryKey, "yes")
		changed = true
	}
	if !changed {
		return raw
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// databaseName reads the database from either DSN style, for span attributes.
func databaseName(dsn string) string {
	if parsed, err := url.Parse(dsn); err == nil && parsed.Scheme != "" {
		return strings.Trim(parsed.Path, "/ ")
	}
	for _, field := range strings.Fields(dsn) {
		if key, value, ok := strings.Cut(field, "="); ok && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

// traceStatement collapses whitespace and caps statement length so the
// match_tree upserts with long column lists stay readable in traces.
func traceStatement(statement string) string {
	out := strings.Join(strings.Fields(statement), " ")
	if len(out) <= tracedStatementMax {
		return out
	}
	cut := tracedStatementMax
	for cut > 0 && !utf8RuneStart(out[cut]) {
		cut--
	}
	return out[:cut] + "..."
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
