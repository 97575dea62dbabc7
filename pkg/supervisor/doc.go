/*
Package supervisor launches the role's daemon as a supervised child process
and forwards termination signals for graceful shutdown.

The orchestrator is PID 1's foreground process as far as the scheduler is
concerned: it must stay alive exactly as long as its daemon does. The
supervisor owns the single child handle, blocks on its exit, and translates
the outcome into the orchestrator's own exit code.

# Architecture

	┌──────────────── PROCESS SUPERVISION ────────────────┐
	│                                                     │
	│  scheduler ──SIGTERM──▶ orchestrator                │
	│                             │                       │
	│                    signal.Notify channel            │
	│                             │                       │
	│                             ▼                       │
	│                      forward signal ──────▶ daemon  │
	│                             │                 │     │
	│                       keep waiting ◀──exit────┘     │
	│                             │                       │
	│                             ▼                       │
	│              exit 0 (graceful) / mirror code        │
	│                                                     │
	└─────────────────────────────────────────────────────┘

Guarantees:

  - The scheduler can stop any role by signalling the one tracked process
  - The orchestrator never exits while its daemon is still running
  - Daemon crashes surface as container exits, enabling restart policies

# Exit Codes

  - 0: graceful shutdown after a forwarded signal, or the child exited 0
  - N: the child's own non-zero exit code, mirrored verbatim
  - 128+n: the child was killed by signal n that we did not forward

# Usage

	sup := supervisor.New()
	code, err := sup.Run(ctx, []string{"/opt/storage/bin/storaged", "master"})
	if err != nil {
		return err
	}
	os.Exit(code)

ExecFallback is the unknown-role escape hatch: it replaces the orchestrator
process entirely (execve), so the ad-hoc command inherits the container with
no supervision layer in between.

Signal delivery is consumed as a message on the Notify channel by the same
select that waits for child exit, so the forwarding path cannot race the
blocking wait. The channel is installed before the child starts, leaving no
window where a signal could kill the orchestrator while its daemon runs,
and the child is shielded from the boot context's cancellation so only the
forwarded signal reaches it. OnTerminating exposes the moment the first
signal is forwarded, which the dispatcher maps to its Terminating phase.
*/
package supervisor
