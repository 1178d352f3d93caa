package script

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// ErrInterpreterNotFound marks a candidate whose program is not on PATH,
// letting the candidate loop fall through to the next one.
var ErrInterpreterNotFound = errors.New("interpreter not found")

// systemExecutor runs real processes.
type systemExecutor struct{}

func (systemExecutor) Probe(ctx context.Context, program string, args ...string) bool {
	cmd := exec.CommandContext(ctx, program, args...)
	return cmd.Run() == nil
}

func (systemExecutor) Run(ctx context.Context, program string, args []string) ([]byte, []byte, *int, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return nil, nil, nil, ErrInterpreterNotFound
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				// Killed by a signal (timeout): no exit code.
				return stdout.Bytes(), stderr.Bytes(), nil, nil
			}
			return stdout.Bytes(), stderr.Bytes(), &code, nil
		}
		return stdout.Bytes(), stderr.Bytes(), nil, err
	}

	zero := 0
	return stdout.Bytes(), stderr.Bytes(), &zero, nil
}
