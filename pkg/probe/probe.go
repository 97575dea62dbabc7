package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cuemby/stackboot/pkg/log"
	"github.com/cuemby/stackboot/pkg/retry"
)

// Endpoint is a (host, port) pair a role must observe as reachable before
// starting its daemon. Hosts are service names resolved by the platform's
// DNS.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the dialable host:port form
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.Addr()
}

// TCPProber performs single-shot TCP reachability checks
type TCPProber struct {
	// Timeout is the per-dial connection timeout (default: 5 seconds)
	Timeout time.Duration
}

// NewTCPProber creates a prober with the default dial timeout
func NewTCPProber() *TCPProber {
	return &TCPProber{Timeout: 5 * time.Second}
}

// WithTimeout sets the per-dial timeout
func (p *TCPProber) WithTimeout(timeout time.Duration) *TCPProber {
	p.Timeout = timeout
	return p
}

// Check attempts one TCP connection to the endpoint. The connection is
// closed immediately on success; reachability is all we test, not protocol
// health.
func (p *TCPProber) Check(ctx context.Context, endpoint Endpoint) error {
	dialer := &net.Dialer{
		Timeout: p.Timeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", endpoint.Addr())
	if err != nil {
		return fmt.Errorf("connection to %s failed: %w", endpoint.Addr(), err)
	}
	conn.Close()
	return nil
}

// WaitForPort blocks until the endpoint accepts a TCP connection or the
// retry policy is exhausted. Dependency services may start in any relative
// order under the scheduler, so every consumer waits independently instead
// of assuming startup ordering. One log line is emitted per failed attempt.
func WaitForPort(ctx context.Context, endpoint Endpoint, policy retry.Policy) error {
	logger := log.WithComponent("probe")
	prober := NewTCPProber()

	logger.Info().
		Str("target", endpoint.Addr()).
		Int("max_attempts", policy.MaxAttempts).
		Msg("waiting for dependency")

	err := retry.DoNotify(ctx, policy,
		func() error {
			return prober.Check(ctx, endpoint)
		},
		func(attempt int, err error) {
			logger.Info().
				Str("target", endpoint.Addr()).
				Int("attempt", attempt).
				Err(err).
				Msg("dependency not reachable yet")
		})
	if err != nil {
		return fmt.Errorf("dependency %s: %w", endpoint.Addr(), err)
	}

	logger.Info().Str("target", endpoint.Addr()).Msg("dependency reachable")
	return nil
}
