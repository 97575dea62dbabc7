package supervisor

import (
	"context"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/stackboot/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true, Output: io.Discard})
	os.Exit(m.Run())
}

func TestRun_MirrorsChildExitCode(t *testing.T) {
	sup := New()
	code, err := sup.Run(context.Background(), []string{"sh", "-c", "exit 3"})

	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRun_CleanExitIsZero(t *testing.T) {
	sup := New()
	code, err := sup.Run(context.Background(), []string{"true"})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRun_MissingBinaryErrors(t *testing.T) {
	sup := New()
	_, err := sup.Run(context.Background(), []string{"/nonexistent/daemon"})
	require.Error(t, err)
}

func TestStart_RejectsSecondChild(t *testing.T) {
	sup := New()
	require.NoError(t, sup.Start(context.Background(), []string{"sleep", "5"}))
	defer func() {
		_ = sup.Signal(syscall.SIGKILL)
		_ = sup.cmd.Wait()
	}()

	err := sup.Start(context.Background(), []string{"sleep", "5"})
	require.Error(t, err, "at most one supervised process per container")
}

func TestRun_ForwardsTerminationSignal(t *testing.T) {
	sup := New()

	type result struct {
		code int
		err  error
	}
	done := make(chan result, 1)
	go func() {
		// sleep ignores nothing: SIGTERM kills it
		code, err := sup.Run(context.Background(), []string{"sleep", "30"})
		done <- result{code, err}
	}()

	// Wait for the child to exist before signalling
	require.Eventually(t, func() bool { return sup.PID() != 0 },
		2*time.Second, 10*time.Millisecond)

	start := time.Now()
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case r := <-done:
		require.NoError(t, r.err)
		// Forwarded termination is a graceful shutdown
		assert.Equal(t, 0, r.code)
		// The child exited via the signal, not by sleeping out
		assert.Less(t, time.Since(start), 10*time.Second)
	case <-time.After(10 * time.Second):
		t.Fatal("orchestrator did not exit after forwarding the signal")
	}

	// The child is gone before Run returns
	assert.Error(t, sup.Signal(syscall.Signal(0)))
}

func TestRun_TerminatingHookFiresOnForward(t *testing.T) {
	sup := New()

	hooked := make(chan struct{})
	sup.OnTerminating(func() { close(hooked) })

	done := make(chan int, 1)
	go func() {
		code, _ := sup.Run(context.Background(), []string{"sleep", "30"})
		done <- code
	}()

	require.Eventually(t, func() bool { return sup.PID() != 0 },
		2*time.Second, 10*time.Millisecond)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	// The hook marks the Running to Terminating transition, before exit
	select {
	case <-hooked:
	case <-time.After(5 * time.Second):
		t.Fatal("terminating hook did not fire on signal forward")
	}

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(10 * time.Second):
		t.Fatal("orchestrator did not exit after forwarding the signal")
	}
}

func TestRun_ChildOutlivesBootContextCancel(t *testing.T) {
	sup := New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		code, _ := sup.Run(ctx, []string{"sh", "-c", "sleep 0.2; exit 3"})
		done <- code
	}()

	require.Eventually(t, func() bool { return sup.PID() != 0 },
		2*time.Second, 10*time.Millisecond)

	// Cancelling the boot context must not kill the child; only a
	// forwarded signal may
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 3, code, "child should finish on its own terms")
	case <-time.After(5 * time.Second):
		t.Fatal("child did not complete")
	}
}

func TestRun_ChildKilledExternally(t *testing.T) {
	sup := New()

	done := make(chan int, 1)
	go func() {
		code, _ := sup.Run(context.Background(), []string{"sleep", "30"})
		done <- code
	}()

	require.Eventually(t, func() bool { return sup.PID() != 0 },
		2*time.Second, 10*time.Millisecond)

	// Kill the child directly, as if it crashed
	require.NoError(t, syscall.Kill(sup.PID(), syscall.SIGKILL))

	select {
	case code := <-done:
		// 128+9, the shell convention for a signal death we did not cause
		assert.Equal(t, 137, code)
	case <-time.After(5 * time.Second):
		t.Fatal("orchestrator did not observe the child's death")
	}
}

func TestExecFallback_UnknownCommand(t *testing.T) {
	err := ExecFallback([]string{"definitely-not-a-real-command-xyz"})
	require.Error(t, err)
}

func TestExecFallback_EmptyArgs(t *testing.T) {
	err := ExecFallback(nil)
	require.Error(t, err)
}
