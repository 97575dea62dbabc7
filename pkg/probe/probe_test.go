package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/cuemby/stackboot/pkg/log"
	"github.com/cuemby/stackboot/pkg/retry"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true, Output: io.Discard})
	os.Exit(m.Run())
}

// listen opens a real TCP listener on a loopback port for the test's duration
func listen(t *testing.T) (Endpoint, net.Listener) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	addr := ln.Addr().(*net.TCPAddr)
	return Endpoint{Host: "127.0.0.1", Port: addr.Port}, ln
}

// closedPort returns an endpoint whose port was just released, so dials fail
func closedPort(t *testing.T) Endpoint {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	_ = ln.Close()
	return Endpoint{Host: "127.0.0.1", Port: addr.Port}
}

func TestEndpoint_Addr(t *testing.T) {
	ep := Endpoint{Host: "storage-master", Port: 8020}
	if got := ep.Addr(); got != "storage-master:8020" {
		t.Errorf("expected storage-master:8020, got %s", got)
	}
}

func TestTCPProber_ReachableEndpoint(t *testing.T) {
	ep, _ := listen(t)

	prober := NewTCPProber()
	if err := prober.Check(context.Background(), ep); err != nil {
		t.Errorf("expected reachable, got error: %v", err)
	}
}

func TestTCPProber_UnreachableEndpoint(t *testing.T) {
	ep := closedPort(t)

	prober := NewTCPProber().WithTimeout(time.Second)
	if err := prober.Check(context.Background(), ep); err == nil {
		t.Error("expected connection failure, got success")
	}
}

func TestWaitForPort_SucceedsImmediately(t *testing.T) {
	ep, _ := listen(t)

	start := time.Now()
	policy := retry.Policy{MaxAttempts: 5, Delay: time.Second}
	if err := WaitForPort(context.Background(), ep, policy); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	// First attempt connects; no retry delay should have elapsed
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("expected immediate success, took %v", elapsed)
	}
}

func TestWaitForPort_TimesOutAfterBudget(t *testing.T) {
	ep := closedPort(t)

	start := time.Now()
	policy := retry.Policy{MaxAttempts: 5, Delay: 10 * time.Millisecond}
	err := WaitForPort(context.Background(), ep, policy)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout, got success")
	}
	if !errors.Is(err, retry.ErrExhausted) {
		t.Errorf("expected ErrExhausted, got: %v", err)
	}

	// 5 attempts with a 10ms delay: 4 sleeps plus near-instant refused dials
	if elapsed < 40*time.Millisecond {
		t.Errorf("returned too fast for 5 attempts: %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Errorf("exceeded the retry budget: %v", elapsed)
	}
}

func TestWaitForPort_BecomesReachableMidwait(t *testing.T) {
	ep := closedPort(t)

	// Open the port after the first few attempts have failed
	go func() {
		time.Sleep(50 * time.Millisecond)
		ln, err := net.Listen("tcp", ep.Addr())
		if err != nil {
			return
		}
		time.Sleep(time.Second)
		_ = ln.Close()
	}()

	policy := retry.Policy{MaxAttempts: 50, Delay: 10 * time.Millisecond}
	if err := WaitForPort(context.Background(), ep, policy); err != nil {
		t.Fatalf("expected success once port opened, got: %v", err)
	}
}
