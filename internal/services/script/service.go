// Package script executes card scripts with a bounded timeout and captures
// their outcome for the execution history.
package script

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"scriptdeck/internal/models"
)

// Executor runs external commands. Injected so the service is testable
// without spawning processes.
type Executor interface {
	// Probe reports whether the program responds to --version.
	Probe(ctx context.Context, program string, args ...string) bool
	// Run executes the program and captures output. exitCode is nil when
	// the process was killed before exiting.
	Run(ctx context.Context, program string, args []string) (stdout, stderr []byte, exitCode *int, err error)
}

// Service defines the script runner interface.
type Service interface {
	Validate(ctx context.Context, cfg models.ScriptConfig) models.ScriptValidation
	Run(ctx context.Context, cfg models.ScriptConfig) (models.ScriptResult, error)
}

// Impl implements the script Service interface.
type Impl struct {
	executor Executor
	fs       afero.Fs
	logger   zerolog.Logger
}

// New creates a new script service backed by the real filesystem and
// process executor.
func New(logger zerolog.Logger) *Impl {
	return NewWithExecutor(logger, systemExecutor{}, afero.NewOsFs())
}

// NewWithExecutor creates a script service with custom collaborators (for
// testing).
func NewWithExecutor(logger zerolog.Logger, executor Executor, fs afero.Fs) *Impl {
	return &Impl{executor: executor, fs: fs, logger: logger}
}

// candidate is one interpreter invocation to try.
type candidate struct {
	program string
	preArgs []string
	display string
}

// candidates resolves the interpreter search order: an explicit path wins
// outright, otherwise the platform defaults are tried in order.
func candidates(pythonPath string) []candidate {
	if trimmed := strings.TrimSpace(pythonPath); trimmed != "" {
		return []candidate{{program: trimmed, display: trimmed}}
	}

	if runtime.GOOS == "windows" {
		return []candidate{
			{program: "python", display: "python"},
			{program: "py", preArgs: []string{"-3"}, display: "py -3"},
		}
	}
	return []candidate{
		{program: "python3", display: "python3"},
		{program: "python", display: "python"},
	}
}

// ClampTimeout forces the timeout into the supported window.
func ClampTimeout(timeoutMS int) time.Duration {
	if timeoutMS < models.MinScriptTimeoutMS {
		timeoutMS = models.MinScriptTimeoutMS
	}
	if timeoutMS > models.MaxScriptTimeoutMS {
		timeoutMS = models.MaxScriptTimeoutMS
	}
	return time.Duration(timeoutMS) * time.Millisecond
}

// Validate checks the script path and that an interpreter is available.
func (s *Impl) Validate(ctx context.Context, cfg models.ScriptConfig) models.ScriptValidation {
	if err := s.checkScriptPath(cfg.Path); err != nil {
		return models.ScriptValidation{Valid: false, Message: err.Error()}
	}

	for _, c := range candidates(cfg.PythonPath) {
		if s.executor.Probe(ctx, c.program, append(c.preArgs, "--version")...) {
			return models.ScriptValidation{
				Valid:          true,
				Message:        "script and interpreter are valid",
				ResolvedPython: c.display,
			}
		}
	}

	return models.ScriptValidation{Valid: false, Message: "python interpreter is not available"}
}

// Run executes the script with the first working interpreter candidate.
// A timeout kills the process and is reported in the result rather than as
// an error; only a total failure to start any interpreter errors out.
func (s *Impl) Run(ctx context.Context, cfg models.ScriptConfig) (models.ScriptResult, error) {
	if err := s.checkScriptPath(cfg.Path); err != nil {
		return models.ScriptResult{}, err
	}

	timeout := ClampTimeout(cfg.TimeoutMS)
	var lastErr error

	for _, c := range candidates(cfg.PythonPath) {
		result, err := s.runWith(ctx, c, cfg, timeout)
		if err != nil {
			if errors.Is(err, ErrInterpreterNotFound) {
				lastErr = fmt.Errorf("python interpreter not found: %s", c.display)
				continue
			}
			return models.ScriptResult{}, fmt.Errorf("executing script with %s: %w", c.display, err)
		}

		s.logger.Debug().
			Str("script", cfg.Path).
			Str("python", c.display).
			Bool("ok", result.OK).
			Bool("timed_out", result.TimedOut).
			Int64("duration_ms", result.DurationMS).
			Msg("script executed")
		return result, nil
	}

	if lastErr == nil {
		lastErr = errors.New("failed to find available python interpreter")
	}
	return models.ScriptResult{}, lastErr
}

func (s *Impl) runWith(ctx context.Context, c candidate, cfg models.ScriptConfig, timeout time.Duration) (models.ScriptResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, c.preArgs...), cfg.Path)
	args = append(args, cfg.Args...)

	start := time.Now()
	stdout, stderr, exitCode, err := s.executor.Run(runCtx, c.program, args)
	duration := time.Since(start).Milliseconds()

	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
	if err != nil && !timedOut {
		return models.ScriptResult{}, err
	}

	ok := !timedOut && exitCode != nil && *exitCode == 0
	return models.ScriptResult{
		OK:         ok,
		Stdout:     string(stdout),
		Stderr:     string(stderr),
		ExitCode:   exitCode,
		TimedOut:   timedOut,
		DurationMS: duration,
	}, nil
}

func (s *Impl) checkScriptPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("script path is required")
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("script file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("script path is not a file: %s", path)
	}
	if filepath.Ext(path) != ".py" {
		return errors.New("script must be a .py file")
	}
	return nil
}

// HistoryEntry converts a run outcome into a history entry stamped at the
// given instant.
func HistoryEntry(result models.ScriptResult, now time.Time) models.HistoryEntry {
	entry := models.HistoryEntry{
		Timestamp:  now.UnixMilli(),
		DurationMS: result.DurationMS,
		OK:         result.OK,
		TimedOut:   result.TimedOut,
		ExitCode:   result.ExitCode,
	}
	if !result.OK {
		entry.Error = result.Stderr
	}
	return entry
}
