package initialize

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cuemby/stackboot/pkg/config"
	"github.com/cuemby/stackboot/pkg/log"
	"github.com/cuemby/stackboot/pkg/probe"
)

// FormatSentinel is the directory the storage format operation creates under
// the data path. Its presence means the volume already holds formatted state.
const FormatSentinel = "current"

// SharedDirMode is the permission set for cross-role shared directories.
// Multiple roles under different unix users write here, so they are
// world-writable.
const SharedDirMode = 0777

// CommandRunner executes an external one-shot tool with the orchestrator's
// stdio. Injectable for tests; the default execs the command.
type CommandRunner func(ctx context.Context, argv []string) error

// SchemaProbe reports nil when the relational store already holds a migrated
// schema. Injectable for tests; the default queries via pgx.
type SchemaProbe func(ctx context.Context) error

// Initializer performs the one-time setup actions for a role. Every action
// is guarded by an observable marker so container restarts repeat none of
// the destructive or redundant work.
type Initializer struct {
	cfg    *config.Config
	runner CommandRunner
	probe  SchemaProbe
	dbWait func(ctx context.Context) error
	logger zerolog.Logger
}

// New creates an Initializer with the exec-based runner, the pgx-based
// schema probe, and a TCP readiness wait on the database endpoint.
func New(cfg *config.Config) *Initializer {
	return &Initializer{
		cfg:    cfg,
		runner: execRunner,
		probe:  pgxSchemaProbe(cfg.DatabaseURL),
		dbWait: func(ctx context.Context) error {
			return probe.WaitForPort(ctx, cfg.Database(), cfg.ProbePolicy())
		},
		logger: log.WithComponent("initialize"),
	}
}

// WithRunner replaces the command runner (tests)
func (i *Initializer) WithRunner(runner CommandRunner) *Initializer {
	i.runner = runner
	return i
}

// WithSchemaProbe replaces the schema probe (tests)
func (i *Initializer) WithSchemaProbe(p SchemaProbe) *Initializer {
	i.probe = p
	return i
}

// WithDBWait replaces the database readiness wait (tests)
func (i *Initializer) WithDBWait(wait func(ctx context.Context) error) *Initializer {
	i.dbWait = wait
	return i
}

// FormatStorage runs the destructive one-time storage format unless the
// sentinel directory under the data path already exists. Formatting a volume
// that already holds data would discard persisted state, so the marker check
// always comes first and a successful format must leave the marker behind.
func (i *Initializer) FormatStorage(ctx context.Context) error {
	marker := filepath.Join(i.cfg.StorageDataDir, FormatSentinel)

	if _, err := os.Stat(marker); err == nil {
		i.logger.Info().Str("marker", marker).Msg("storage already formatted, skipping")
		return nil
	}

	i.logger.Info().Str("data_dir", i.cfg.StorageDataDir).Msg("formatting storage")

	argv := []string{
		filepath.Join(i.cfg.StorageHome, "bin", "storaged"),
		"format", i.cfg.StorageDataDir,
	}
	if err := i.runner(ctx, argv); err != nil {
		return fmt.Errorf("storage format failed: %w", err)
	}

	// A format that does not leave the sentinel behind would re-run on the
	// next restart and destroy the data it just wrote.
	if _, err := os.Stat(marker); err != nil {
		return fmt.Errorf("storage format completed but marker %s is missing: %w", marker, err)
	}

	i.logger.Info().Str("marker", marker).Msg("storage formatted")
	return nil
}

// EnsureSharedDirs creates the shared warehouse and log directories with
// permissive access. Creation and permission-setting are naturally
// repeatable, so there is no marker; individual failures are logged and
// tolerated because another role may already have created the directory
// with acceptable permissions.
func (i *Initializer) EnsureSharedDirs(ctx context.Context) error {
	for _, dir := range i.cfg.SharedDirs {
		if err := os.MkdirAll(dir, SharedDirMode); err != nil {
			i.logger.Warn().Str("dir", dir).Err(err).Msg("failed to create shared directory")
			continue
		}
		// MkdirAll is subject to umask; chmod sets the final mode
		if err := os.Chmod(dir, SharedDirMode); err != nil {
			i.logger.Warn().Str("dir", dir).Err(err).Msg("failed to set shared directory mode")
			continue
		}
		i.logger.Debug().Str("dir", dir).Msg("shared directory ready")
	}
	return nil
}

// execRunner runs the tool in the foreground with inherited stdio so its
// output lands in the container log alongside the orchestrator's.
func execRunner(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
