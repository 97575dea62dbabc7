/*
Package initialize implements the idempotent one-time setup actions roles run
before launching their daemon.

Containers restart freely under the scheduler, so every setup action must be
safe to repeat. Each guarded action follows the same template: check an
observable marker, skip if it holds, otherwise perform the action — and a
successful action must leave the marker true, or the next restart would
repeat it.

# Guarded Actions

	┌────────────────── IDEMPOTENT INITIALIZER ──────────────────┐
	│                                                            │
	│  FormatStorage                                             │
	│    marker: <data_dir>/current exists on disk               │
	│    action: storaged format (DESTRUCTIVE, at most once)     │
	│                                                            │
	│  MigrateSchema                                             │
	│    marker: SELECT against the "VERSION" sentinel table     │
	│            succeeds (pgx introspection probe)              │
	│    action: schematool -initSchema under bounded retry      │
	│                                                            │
	│  EnsureSharedDirs                                          │
	│    marker: none (mkdir + chmod are repeatable)             │
	│    action: create warehouse/eventlog dirs world-writable   │
	│                                                            │
	└────────────────────────────────────────────────────────────┘

FormatStorage carries the highest consequence: re-formatting a data volume
that already holds blocks discards persisted state, so its marker check is
non-negotiable and the sentinel's presence is verified again after a format.

# Concurrency Caveat

Markers are per-container observations, not transactions. Two metadata
service replicas starting simultaneously can both observe "not migrated" and
both run the schema tool; the relational store's own constraints absorb that
conflict. Single-replica-per-role deployments, the supported shape, never
hit this.

# Usage

	init := initialize.New(cfg)
	if err := init.FormatStorage(ctx); err != nil {
		// fail-fast: container exits, scheduler restarts
	}

Tests substitute the external tool and the database probe:

	init := initialize.New(cfg).
		WithRunner(fakeRunner).
		WithSchemaProbe(func(ctx context.Context) error { return nil })
*/
package initialize
