// Package shell runs user-supplied command lines on the host with captured
// output. Commands are passed to `sh -c` verbatim; there is no allow-listing.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrExecutionTimeout is returned when a command exceeds its deadline
var ErrExecutionTimeout = errors.New("command execution timeout")

// ExecuteRequest describes a single shell invocation
type ExecuteRequest struct {
	Command    string            // command line, interpreted by sh -c
	WorkingDir string            // working directory, empty for process cwd
	Env        map[string]string // extra environment variables
	Timeout    time.Duration     // zero means the runner default
}

// ExecuteResult holds the captured outcome of a shell invocation
type ExecuteResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// HostRunner executes shell commands directly on the host
type HostRunner struct {
	defaultTimeout time.Duration
}

// NewHostRunner creates a host runner with the given default timeout
func NewHostRunner(defaultTimeout time.Duration) *HostRunner {
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &HostRunner{defaultTimeout: defaultTimeout}
}

// Execute runs a command line synchronously. A non-zero exit status is not
// an error; the exit code is reported in the result. Spawn failures and
// timeouts are errors.
func (h *HostRunner) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = h.defaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", req.Command)

	if req.WorkingDir != "" {
		cmd.Dir = req.WorkingDir
	}

	cmd.Env = buildEnvironment(req.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if execCtx.Err() == context.DeadlineExceeded {
		return ExecuteResult{
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			ExitCode: -1,
			Duration: duration,
		}, ErrExecutionTimeout
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}

	log.Debug().
		Str("command", req.Command).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("Shell command completed")

	return ExecuteResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
		Duration: duration,
	}, err
}

// buildEnvironment merges extra variables over the process environment
func buildEnvironment(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
