package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/stackboot/pkg/log"
)

// Supervisor launches the role's daemon as a child process and owns its
// handle for the container's lifetime. At most one child exists per
// supervisor; the orchestrator itself never daemonizes, so its exit always
// reflects the daemon's fate.
type Supervisor struct {
	mu            sync.Mutex
	cmd           *exec.Cmd
	startedAt     time.Time
	onTerminating func()
	logger        zerolog.Logger
}

// New creates an empty supervisor
func New() *Supervisor {
	return &Supervisor{
		logger: log.WithComponent("supervisor"),
	}
}

// OnTerminating registers a hook invoked once when the first termination
// signal is forwarded to the child, before the supervisor resumes waiting.
// The dispatcher uses it to surface the Running to Terminating transition.
func (s *Supervisor) OnTerminating(fn func()) {
	s.onTerminating = fn
}

// Start launches the daemon with inherited stdio and records its handle.
// It errors if a child is already running.
func (s *Supervisor) Start(ctx context.Context, argv []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("daemon already running with PID %d", s.cmd.Process.Pid)
	}
	if len(argv) == 0 {
		return fmt.Errorf("no daemon command to launch")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", argv[0], err)
	}

	s.cmd = cmd
	s.startedAt = time.Now()
	s.logger.Info().
		Str("command", argv[0]).
		Int("pid", cmd.Process.Pid).
		Msg("daemon started")
	return nil
}

// Signal relays a signal to the child
func (s *Supervisor) Signal(sig os.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil || s.cmd.Process == nil {
		return fmt.Errorf("no daemon running")
	}
	return s.cmd.Process.Signal(sig)
}

// PID returns the child's process ID, or 0 when no child is running
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Run launches the daemon and blocks until it exits, forwarding SIGTERM and
// SIGINT in the meantime. A forwarded termination is a graceful shutdown:
// the orchestrator waits for the child to be fully gone and exits 0 so the
// scheduler sees a clean stop. Without a signal the child's own exit code is
// mirrored, making daemon crashes visible as container exits.
func (s *Supervisor) Run(ctx context.Context, argv []string) (int, error) {
	// The forward channel is installed before the child exists so no
	// signal window is left where the orchestrator could die while its
	// daemon runs.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(sigCh)

	// The boot context is cancelled by the same signals; the child must
	// not be killed by that cancellation, only by the forwarded signal.
	if err := s.Start(context.WithoutCancel(ctx), argv); err != nil {
		return 0, err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	forwarded := false
	for {
		select {
		case sig := <-sigCh:
			s.logger.Info().
				Str("signal", sig.String()).
				Int("pid", s.PID()).
				Msg("forwarding termination signal to daemon")
			if err := s.Signal(sig); err != nil {
				s.logger.Warn().Err(err).Msg("failed to forward signal")
			}
			if !forwarded && s.onTerminating != nil {
				s.onTerminating()
			}
			forwarded = true
			// Keep waiting: the orchestrator never exits before its child

		case waitErr := <-done:
			code := s.exitCode(waitErr)
			s.logger.Info().
				Int("exit_code", code).
				Dur("uptime", time.Since(s.startedAt)).
				Bool("signalled", forwarded).
				Msg("daemon exited")
			if forwarded {
				return 0, nil
			}
			return code, nil
		}
	}
}

// exitCode maps the child's wait outcome to the orchestrator's exit code:
// the child's own code verbatim, or the 128+n shell convention when the
// child was killed by a signal we did not send.
func (s *Supervisor) exitCode(waitErr error) int {
	s.mu.Lock()
	state := s.cmd.ProcessState
	s.mu.Unlock()

	if state != nil {
		if code := state.ExitCode(); code >= 0 {
			return code
		}
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
	}
	if waitErr != nil {
		return 1
	}
	return 0
}

// ExecFallback replaces the orchestrator process with the given command.
// This is the unknown-role escape hatch: no initialization, no readiness
// waits, no supervision layer — signals reach the command directly and its
// exit code propagates verbatim because it is the container's process from
// here on.
func ExecFallback(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("no command to execute")
	}

	logger := log.WithComponent("supervisor")
	logger.Info().Str("command", argv[0]).Msg("executing fallback command")

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("command %s not found: %w", argv[0], err)
	}

	// Only returns on error
	return syscall.Exec(path, argv, os.Environ())
}
