package worker

import (
	"fmt"
	"strings"
	"time"
)

// LaunchError means the worker process could not be started at all.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("worker %s failed to start: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExecutionError means the worker exited with a non-zero status. Stderr holds
// the captured diagnostic output.
type ExecutionError struct {
	Name     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("worker %s exited with code %d", e.Name, e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TimeoutError means the configured run bound elapsed and the process was
// forcibly terminated.
type TimeoutError struct {
	Name    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("worker %s timed out after %s", e.Name, e.Timeout)
}

// ParseError means the worker finished but its output violated the documented
// result contract.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("worker %s produced unparseable output: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
