/*
Package probe implements TCP readiness probing against upstream dependencies.

Roles in the stack depend on one another (a storage worker needs the storage
master's RPC port, the metadata service needs its relational store), but the
scheduler starts containers in no particular order. Each container therefore
probes its declared upstream endpoints itself, with a bounded retry budget,
before launching its daemon.

# Architecture

	┌───────────────── READINESS PROBE ─────────────────┐
	│                                                    │
	│  WaitForPort(ctx, endpoint, policy)                │
	│        │                                           │
	│        ▼                                           │
	│  ┌──────────────┐   dial ok   ┌────────────────┐  │
	│  │  TCPProber   │────────────▶│  return nil    │  │
	│  │  (5s dial    │             └────────────────┘  │
	│  │   timeout)   │   dial fail                     │
	│  └──────┬───────┘────────────▶ log attempt,       │
	│         ▲                      sleep policy.Delay │
	│         └──────────── retry ◀──────────┘          │
	│                                                    │
	│  after MaxAttempts: ErrExhausted (terminal)        │
	└────────────────────────────────────────────────────┘

The probe tests reachability only. Whether the daemon behind the port is
actually serving correct responses is the scheduler's health-checking
concern, not the entrypoint's.

# Usage

	ep := probe.Endpoint{Host: "storage-master", Port: 8020}
	policy := retry.Policy{MaxAttempts: 60, Delay: 2 * time.Second}
	if err := probe.WaitForPort(ctx, ep, policy); err != nil {
		// dependency never came up within the budget; fatal for this role
	}

# Integration Points

  - pkg/role: each recipe declares the endpoints its role waits on
  - pkg/retry: supplies the bounded loop and the per-attempt Notify hook
  - pkg/initialize: the schema migrator waits on the database port first
*/
package probe
