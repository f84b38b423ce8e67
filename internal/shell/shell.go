// Package shell runs commands through /usr/bin/env and reports their output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// EnvPath is the launcher every command is run through, so the command name
// is resolved against PATH.
const EnvPath = "/usr/bin/env"

// ErrDisabled is returned by a Runner built with shell commands turned off.
var ErrDisabled = errors.New("shell commands are disabled")

// Result is the outcome of one command. ExitStatus is nil when the process
// could not be started; Error then holds the start failure instead of stderr.
type Result struct {
	ExitStatus *int   `json:"exitStatus,omitempty" yaml:"exitStatus,omitempty"`
	Output     string `json:"output"               yaml:"output"`
	Error      string `json:"error"                yaml:"error"`
}

// Runner executes commands.
type Runner struct {
	enabled bool
	env     string
}

// NewRunner returns a Runner. A disabled Runner refuses every command.
func NewRunner(enabled bool) *Runner {
	return &Runner{enabled: enabled, env: EnvPath}
}

// Enabled reports whether the runner accepts commands.
func (r *Runner) Enabled() bool { return r.enabled }

// Run executes command with args and waits for it. A non-zero exit status is
// a normal Result, not an error; the error return is reserved for a disabled
// runner.
func (r *Runner) Run(ctx context.Context, command string, args ...string) (Result, error) {
	if !r.enabled {
		return Result{}, ErrDisabled
	}
	cmd := exec.CommandContext(ctx, r.env, append([]string{command}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{Error: err.Error()}, nil
	}
	err := cmd.Wait()

	status := 0
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		status = exitErr.ExitCode()
	default:
		return Result{Output: stdout.String(), Error: err.Error()}, nil
	}
	return Result{
		ExitStatus: &status,
		Output:     stdout.String(),
		Error:      stderr.String(),
	}, nil
}
