package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DRIVER_SQLITE   = "sqlite"
	DRIVER_POSTGRES = "postgres"
)

const (
	connectMaxRetries    = 5
	connectRetryInterval = 2 * time.Second
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// OpenSQL connects to driver/dsn, retrying while the server comes up.
// SQLite connections get WAL pragmas and a single-writer pool.
func OpenSQL(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == DRIVER_SQLITE {
		dsn = sqliteDSN(dsn)
	}

	var conn *sqlx.DB
	var err error
	for attempt := 1; attempt <= connectMaxRetries; attempt++ {
		conn, err = sqlx.ConnectContext(ctx, driver, dsn)
		if err == nil {
			break
		}
		log.Error().Err(err).
			Str("driver", driver).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", connectRetryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryInterval):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s after %d attempts: %w", driver, connectMaxRetries, err)
	}

	if driver == DRIVER_SQLITE {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}
	log.Info().Str("driver", driver).Msg("connected to database")
	return conn, nil
}

// RunMigrations executes the embedded *.up.sql files in name order.
func RunMigrations(ctx context.Context, conn *sqlx.DB) error {
	files, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		stmt := strings.TrimSpace(string(sqlBytes))
		if stmt == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Debug().Str("migration", file).Msg("applied migration")
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}
