package initialize

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cuemby/stackboot/pkg/retry"
)

// schemaProbeTimeout bounds one introspection round trip
const schemaProbeTimeout = 5 * time.Second

// MigrateSchema brings the relational store to the current metastore schema.
// It first blocks until the database port is reachable, then checks the
// marker: if the schema sentinel table is already queryable, migration has
// happened and the tool is never invoked. Otherwise the external schema tool
// runs under the migration retry policy. Exhausting either budget is an
// error; the container exits non-zero and the scheduler restarts it
// (uniform fail-fast, no warn-and-proceed roles).
func (i *Initializer) MigrateSchema(ctx context.Context) error {
	if err := i.dbWait(ctx); err != nil {
		return fmt.Errorf("metastore database: %w", err)
	}

	if err := i.probe(ctx); err == nil {
		i.logger.Info().Msg("metastore schema present, skipping migration")
		return nil
	} else {
		i.logger.Info().Err(err).Msg("metastore schema missing, running migration")
	}

	argv := []string{
		filepath.Join(i.cfg.MetastoreHome, "bin", "schematool"),
		"-initSchema", "-confDir", i.cfg.MetastoreConfDir,
	}

	err := retry.DoNotify(ctx, i.cfg.MigratePolicy(),
		func() error {
			return i.runner(ctx, argv)
		},
		func(attempt int, err error) {
			i.logger.Warn().Int("attempt", attempt).Err(err).Msg("schema migration attempt failed")
		})
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	i.logger.Info().Msg("metastore schema migrated")
	return nil
}

// pgxSchemaProbe builds the default schema introspection probe: connect to
// the relational store and select from the schema version sentinel table the
// migration tool creates. Any failure, from connection refused to relation
// does not exist, reads as "not yet migrated".
func pgxSchemaProbe(dsn string) SchemaProbe {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, schemaProbeTimeout)
		defer cancel()

		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect to metastore database: %w", err)
		}
		defer conn.Close(ctx)

		var one int
		err = conn.QueryRow(ctx, `SELECT 1 FROM "VERSION" LIMIT 1`).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("schema version table exists but is empty")
		}
		if err != nil {
			return fmt.Errorf("schema version query: %w", err)
		}
		return nil
	}
}
