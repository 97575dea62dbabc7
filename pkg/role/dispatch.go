package role

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cuemby/stackboot/pkg/config"
	"github.com/cuemby/stackboot/pkg/initialize"
	"github.com/cuemby/stackboot/pkg/log"
	"github.com/cuemby/stackboot/pkg/probe"
	"github.com/cuemby/stackboot/pkg/retry"
	"github.com/cuemby/stackboot/pkg/supervisor"
)

// ExitInitFailure is the fixed exit code when initialization or a required
// dependency wait fails before any daemon is launched. Initialization
// failure is fail-fast for every role; the scheduler restarts the container.
const ExitInitFailure = 1

// ExitExecFailure is the shell convention for a fallback command that could
// not be executed, distinguishing it from initialization failures.
const ExitExecFailure = 127

// Initializer is the set of guarded setup actions recipes compose
type Initializer interface {
	FormatStorage(ctx context.Context) error
	MigrateSchema(ctx context.Context) error
	EnsureSharedDirs(ctx context.Context) error
}

// WaitFunc blocks until an endpoint is reachable or its policy is exhausted
type WaitFunc func(ctx context.Context, endpoint probe.Endpoint, policy retry.Policy) error

// LaunchFunc runs the daemon to completion and returns its exit code
type LaunchFunc func(ctx context.Context, argv []string) (int, error)

// FallbackFunc executes an arbitrary command for unknown roles
type FallbackFunc func(argv []string) error

// Dispatcher maps a role identifier to its startup routine and runs it.
// The collaborators are injectable so tests can observe ordering without
// touching the network or spawning daemons.
type Dispatcher struct {
	cfg      *config.Config
	init     Initializer
	wait     WaitFunc
	launch   LaunchFunc
	fallback FallbackFunc
	phase    Phase
	logger   zerolog.Logger
}

// NewDispatcher wires the production collaborators: the pgx/exec-backed
// initializer, the TCP prober, and a fresh supervisor.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	sup := supervisor.New()
	d := &Dispatcher{
		cfg:      cfg,
		init:     initialize.New(cfg),
		wait:     probe.WaitForPort,
		launch:   sup.Run,
		fallback: supervisor.ExecFallback,
		phase:    PhaseIdle,
		logger:   log.WithComponent("dispatcher"),
	}
	sup.OnTerminating(func() { d.setPhase(PhaseTerminating) })
	return d
}

// Dispatch selects and runs exactly one startup routine. Known roles run
// their recipe: initializers, then dependency waits, then the daemon launch,
// returning the daemon's exit code. Unknown identifiers are executed
// directly with the remaining arguments — the debugging escape hatch — with
// no initialization and no readiness checks.
func (d *Dispatcher) Dispatch(ctx context.Context, roleArg string, extraArgs []string) (int, error) {
	recipe, ok := Lookup(Role(roleArg))
	if !ok {
		d.logger.Info().Str("command", roleArg).Msg("unknown role, executing directly")
		argv := append([]string{roleArg}, extraArgs...)
		if err := d.fallback(argv); err != nil {
			return ExitExecFailure, err
		}
		return 0, nil
	}

	d.logger = log.WithRole(roleArg)
	d.logger.Info().Msg("starting role")

	d.setPhase(PhaseInitializing)
	for _, step := range recipe.Init {
		if err := d.runInit(ctx, step); err != nil {
			if code, stopped := d.stopped(ctx); stopped {
				return code, nil
			}
			d.setPhase(PhaseExited)
			return ExitInitFailure, fmt.Errorf("initialization step %s: %w", step, err)
		}
	}

	d.setPhase(PhaseWaiting)
	if recipe.Waits != nil {
		for _, endpoint := range recipe.Waits(d.cfg) {
			if err := d.wait(ctx, endpoint, d.cfg.ProbePolicy()); err != nil {
				if code, stopped := d.stopped(ctx); stopped {
					return code, nil
				}
				d.setPhase(PhaseExited)
				return ExitInitFailure, fmt.Errorf("required dependency: %w", err)
			}
		}
	}

	d.setPhase(PhaseRunning)
	code, err := d.launch(ctx, recipe.Command(d.cfg))
	d.setPhase(PhaseExited)
	return code, err
}

// stopped reports whether a step failed because the boot context was
// cancelled by a termination signal. No daemon exists yet, so the answer to
// a signal here is an immediate clean exit.
func (d *Dispatcher) stopped(ctx context.Context) (int, bool) {
	if ctx.Err() == nil {
		return 0, false
	}
	d.logger.Info().Msg("termination signal during startup, exiting")
	d.setPhase(PhaseExited)
	return 0, true
}

func (d *Dispatcher) runInit(ctx context.Context, step InitStep) error {
	switch step {
	case InitFormatStorage:
		return d.init.FormatStorage(ctx)
	case InitMigrateSchema:
		return d.init.MigrateSchema(ctx)
	case InitEnsureSharedDirs:
		return d.init.EnsureSharedDirs(ctx)
	default:
		return fmt.Errorf("unknown init step %q", step)
	}
}

func (d *Dispatcher) setPhase(p Phase) {
	d.logger.Info().
		Str("from", string(d.phase)).
		Str("to", string(p)).
		Msg("phase transition")
	d.phase = p
}

// CurrentPhase reports the dispatcher's position in the startup state
// machine
func (d *Dispatcher) CurrentPhase() Phase {
	return d.phase
}
