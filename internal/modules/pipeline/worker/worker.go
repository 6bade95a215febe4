package worker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// commandContext builds the exec.Cmd for a worker run (overridable in tests).
var commandContext = exec.CommandContext

// Invoker launches external worker processes. Exactly one process is spawned
// per Run call; the caller blocks until the process exits. No retry is
// performed here, failures are terminal for the request.
type Invoker struct {
	timeout time.Duration
}

// NewInvoker creates an Invoker. A zero timeout disables the per-run bound.
func NewInvoker(timeout time.Duration) *Invoker {
	return &Invoker{timeout: timeout}
}

// Result carries the accumulated output streams of a finished worker.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Run launches the worker with the given arguments and optional working
// directory, drains stdout and stderr into separate buffers while the process
// runs, and waits for exit. Arguments are passed positionally to the process,
// never through a shell, so untrusted text cannot be interpolated into a
// command line.
func (i *Invoker) Run(ctx context.Context, name string, args []string, workDir string) (Result, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	cmd := commandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, &LaunchError{Name: name, Err: err}
	}

	err := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	// CommandContext kills the process when the deadline elapses; Wait then
	// reports the kill, so check the context first.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, &TimeoutError{Name: name, Timeout: i.timeout}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExecutionError{Name: name, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return res, &ExecutionError{Name: name, ExitCode: -1, Stderr: stderr.String(), Err: err}
}
