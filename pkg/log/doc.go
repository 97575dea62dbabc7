/*
Package log provides structured logging for stackboot using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. Inside a container the orchestrator's stdout is
the only operator-visible channel, so every phase transition, probe attempt,
and initializer decision is emitted here.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                           │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Boot ID stamped once at startup          │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Read from STACKBOOT_LOG_* env vars       │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("supervisor")              │          │
	│  │  - WithRole("storage-master")               │          │
	│  └────────────────────────────────────────────┘          │
	│                                                           │
	└───────────────────────────────────────────────────────────┘

# Usage

Initialize once at startup, from the environment:

	log.Init(log.FromEnv())
	log.WithBootID(uuid.NewString())

Component loggers carry a fixed field through all entries:

	logger := log.WithComponent("probe")
	logger.Info().Str("target", "storage-master:8020").Int("attempt", 3).
		Msg("dependency not reachable yet")

# Log Output Examples

JSON format (default, for the scheduler's log pipeline):

	{"level":"info","component":"probe","target":"db:5432","attempt":2,
	 "boot_id":"8c6e...","time":"2026-08-23T10:00:00Z","msg":"dependency reachable"}

Console format (STACKBOOT_LOG_FORMAT=console, for interactive debugging):

	2026-08-23T10:00:00Z INF dependency reachable component=probe target=db:5432

# Best Practices

Do:
  - Use Info level for production containers
  - Create component-specific loggers per package
  - Log errors with .Err() so the cause survives aggregation
  - Keep one log line per probe attempt (operator visibility contract)

Don't:
  - Log database credentials or DSNs with embedded passwords
  - Use Debug level in production
  - Block the signal-forwarding path on log writes

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - 12-Factor App Logs: https://12factor.net/logs
*/
package log
