package compression

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	domain "compresspdf/internal/domain/compression"
)

// ExecRunner executes commands via os/exec.
type ExecRunner struct{}

// NewExecRunner returns a runner backed by the operating system.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes one command and captures stdout, stderr and exit code.
// A non-zero exit is reported in the result only; an error means the
// process could not be run and carries exit code -1.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (domain.ProcessResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := domain.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}

	return result, nil
}
