// Package shell runs one shell command at a time under a hard timeout. A
// command that outlives its timeout is torn down with an escalating
// terminate/kill ladder; the caller is never blocked on an unkillable
// process and no subprocess handle survives the call that created it.
package shell

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"workbox/internal/logging"
	"workbox/internal/result"
)

const (
	// DefaultTimeout applies when an invocation has no timeout of its own.
	DefaultTimeout = 20 * time.Second

	// killGracePeriod is how long the engine waits after each termination
	// signal before escalating.
	killGracePeriod = 500 * time.Millisecond

	// maxCaptureBytes caps each captured stream so a chatty command cannot
	// exhaust memory.
	maxCaptureBytes = 1 << 20
)

// Invocation describes a single command execution. It is immutable once
// constructed and lives only for the duration of one Execute call.
type Invocation struct {
	Command    string
	WorkingDir string
	Timeout    time.Duration
}

// Output is the success payload of an execution.
type Output struct {
	Output     string
	WorkingDir string
	Duration   time.Duration
}

// Runner executes invocations. It is stateless between calls and safe to
// share across sessions targeting different workspaces.
type Runner struct {
	log       *logging.StructuredLogger
	maxOutput int
}

func NewRunner(log *logging.StructuredLogger) *Runner {
	if log == nil {
		log = logging.NewStructuredLogger(nil, "shell", false)
	}
	return &Runner{log: log, maxOutput: maxCaptureBytes}
}

// Execute runs inv.Command as a shell-interpreted subprocess in
// inv.WorkingDir. The working directory must be an absolute, existing
// directory; nothing is spawned otherwise.
func (r *Runner) Execute(inv Invocation) result.Result[Output] {
	if !filepath.IsAbs(inv.WorkingDir) {
		r.log.Error("invalid working path", map[string]any{"command": inv.Command, "working_path": inv.WorkingDir})
		return result.Err[Output](result.InvalidWorkingPath, "Invalid working path")
	}
	info, err := os.Stat(inv.WorkingDir)
	if err != nil || !info.IsDir() {
		r.log.Error("invalid working path", map[string]any{"command": inv.Command, "working_path": inv.WorkingDir})
		return result.Err[Output](result.InvalidWorkingPath, "Invalid working path")
	}
	if inv.Timeout <= 0 {
		inv.Timeout = DefaultTimeout
	}

	cmd := shellCommand(inv.Command)
	cmd.Dir = inv.WorkingDir
	cmd.Stdin = nil // prevent hangs on interactive input

	stdout := &limitedBuffer{limit: r.maxOutput}
	stderr := &limitedBuffer{limit: r.maxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	setProcessGroup(cmd)

	r.log.Info("command started", map[string]any{
		"command":      inv.Command,
		"working_path": inv.WorkingDir,
		"timeout":      inv.Timeout.String(),
	})

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.log.Error("command spawn failed", map[string]any{"command": inv.Command, "error": err.Error()})
		return result.Errf[Output](result.CommandExecutionError, "Error executing command: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(inv.Timeout)
	defer timer.Stop()

	select {
	case waitErr := <-done:
		duration := time.Since(start)
		output := stdout.String()
		if output == "" {
			// Some tools write informational text to stderr only.
			output = stderr.String()
		}
		if waitErr != nil {
			var exitErr *exec.ExitError
			if errors.As(waitErr, &exitErr) {
				code := exitErr.ExitCode()
				r.log.Error("command failed", map[string]any{
					"command":   inv.Command,
					"exit_code": code,
				})
				return result.Errf[Output](result.CommandFailed, "Command failed with exit code %d: %s", code, output)
			}
			r.log.Error("command wait failed", map[string]any{"command": inv.Command, "error": waitErr.Error()})
			return result.Errf[Output](result.CommandExecutionError, "Error executing command: %v", waitErr)
		}
		r.log.Info("command succeeded", map[string]any{
			"command":     inv.Command,
			"duration_ms": duration.Milliseconds(),
		})
		return result.Ok(Output{Output: output, WorkingDir: inv.WorkingDir, Duration: duration})

	case <-timer.C:
		r.reap(cmd, done)
		r.log.Error("command timed out", map[string]any{
			"command":      inv.Command,
			"working_path": inv.WorkingDir,
			"timeout":      inv.Timeout.String(),
		})
		return result.Errf[Output](result.CommandTimedOut, "Command timed out after %g seconds", inv.Timeout.Seconds())
	}
}

// reap walks the termination ladder: terminate, wait, kill, wait, give up.
// Signal errors are swallowed and logged; nothing here may mask the timeout
// outcome, and the engine never blocks past the two grace periods.
func (r *Runner) reap(cmd *exec.Cmd, done <-chan error) {
	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
	}
	if err := signalProcessGroup(cmd, false); err != nil {
		r.log.Warn("terminate signal failed", map[string]any{"pid": pid, "error": err.Error()})
	}
	if waitGrace(done) {
		return
	}
	r.log.Warn("process could not be terminated", map[string]any{"pid": pid})
	if err := signalProcessGroup(cmd, true); err != nil {
		r.log.Warn("kill signal failed", map[string]any{"pid": pid, "error": err.Error()})
	}
	if waitGrace(done) {
		return
	}
	// Abandoned: the process is leaked rather than blocking the caller.
	r.log.Warn("process could not be killed", map[string]any{"pid": pid})
}

func waitGrace(done <-chan error) bool {
	select {
	case <-done:
		return true
	case <-time.After(killGracePeriod):
		return false
	}
}

// shellCommand builds the platform's shell invocation for a command string.
func shellCommand(command string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", command)
	default:
		return exec.Command("sh", "-c", command)
	}
}

// limitedBuffer captures up to limit bytes and silently drops the rest.
type limitedBuffer struct {
	buf       []byte
	limit     int
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		l.buf = append(l.buf, p...)
		return len(p), nil
	}
	remaining := l.limit - len(l.buf)
	if remaining <= 0 {
		l.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		l.truncated = true
		l.buf = append(l.buf, p[:remaining]...)
		return len(p), nil
	}
	l.buf = append(l.buf, p...)
	return len(p), nil
}

func (l *limitedBuffer) String() string { return string(l.buf) }

var _ io.Writer = (*limitedBuffer)(nil)
