// Package adapter contains the checker adapters and the infrastructure they
// need to drive external type checkers as subprocesses.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CommandRunner abstracts subprocess invocation so adapters can be tested
// against canned checker output without spawning processes.
type CommandRunner interface {
	// Run executes a command and returns its captured stdout, stderr and
	// exit code. A non-nil error means the command could not be run at
	// all; a nonzero exit with readable output is not an error here.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)

	// LookPath resolves an executable name against PATH.
	LookPath(name string) (string, error)
}

// ExecRunner is the CommandRunner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner constructs an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, blocking until it exits. There is deliberately
// no timeout beyond the caller's context: a hanging checker hangs the run.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
		}

		return nil, nil, -1, err
	}

	return stdout.Bytes(), stderr.Bytes(), 0, nil
}

// LookPath resolves name against PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
