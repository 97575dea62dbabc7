/*
Package role maps a container's role identifier to its startup routine and
drives it through the boot state machine.

Every container in the cluster runs the same image entrypoint with one
positional argument: the role. The dispatcher looks the role up in a fixed
table of recipes; a recipe is an ordered composition of guarded
initializers, readiness waits on upstream dependencies, and exactly one
daemon launch.

# Role Table

	┌──────────────────┬──────────────────────┬───────────────────────────────┐
	│ Role             │ Initializers         │ Waits on                      │
	├──────────────────┼──────────────────────┼───────────────────────────────┤
	│ storage-master   │ format storage       │ —                             │
	│ storage-worker   │ —                    │ storage-master                │
	│ resource-master  │ —                    │ —                             │
	│ resource-worker  │ —                    │ resource-master,              │
	│                  │                      │ storage-master                │
	│ metadata-service │ migrate schema       │ database                      │
	│ query-server     │ ensure shared dirs   │ storage-master,               │
	│                  │                      │ metadata-service              │
	│ compute-master   │ ensure shared dirs   │ —                             │
	│ compute-worker   │ ensure shared dirs   │ compute-master                │
	│ compute-history  │ ensure shared dirs   │ —                             │
	└──────────────────┴──────────────────────┴───────────────────────────────┘

Unknown identifiers fall through to direct execution of the remaining
arguments: the debugging escape hatch, with no initialization and no waits.

# State Machine

	Idle ──▶ Initializing ──▶ Waiting ──▶ Running ──▶ Exited
	              │                │           │          ▲
	              │                │       signal         │
	              │                │           ▼          │
	              │                │      Terminating ────┤
	              └── setup fail ──┴── dep timeout ───────┘

Initialization failures and dependency timeouts are fail-fast for every
role: the container exits with ExitInitFailure and the scheduler restarts
it. A termination signal during Initializing or Waiting cancels the boot
context and exits cleanly with code 0, since no daemon exists yet to
forward to. Running enters Terminating only via an external signal (the
supervisor's forward path reports it) and Exited when the daemon is gone;
a fallback command that cannot be executed exits with ExitExecFailure.

# Usage

	d := role.NewDispatcher(cfg)
	code, err := d.Dispatch(ctx, os.Args[1], os.Args[2:])
	if err != nil {
		log.Errorf("startup failed", err)
	}
	os.Exit(code)

# Design Patterns

The recipe table replaces per-role duplicated startup scripts: adding a role
is one table entry, and the typed InitStep enum keeps the dispatcher's
switch exhaustive. Dispatcher collaborators (initializer, waiter, launcher,
fallback) are injected so tests assert ordering without network or
processes.
*/
package role
