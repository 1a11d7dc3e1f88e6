package session

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/empack-dev/empack/internal/core"
)

// commandRunner and command mirror exec.Cmd behind an interface so tests
// can substitute a fake without spawning real processes.
type commandRunner interface {
	CommandContext(ctx context.Context, name string, arg ...string) command
}

type command interface {
	StdinPipe() (io.WriteCloser, error)
	StdoutPipe() (io.ReadCloser, error)
	StderrPipe() (io.ReadCloser, error)
	SetStdin(io.Reader)
	SetDir(string)
	Start() error
	Wait() error
}

type execCommand struct {
	*exec.Cmd
}

func (e *execCommand) SetStdin(r io.Reader) { e.Stdin = r }
func (e *execCommand) SetDir(dir string)    { e.Dir = dir }

var _ command = &execCommand{}

type execCommandRunner struct{}

// CommandContext sends SIGTERM when ctx is done and SIGKILL if the child
// is still running 5s later.
func (execCommandRunner) CommandContext(ctx context.Context, name string, arg ...string) command {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = 5 * time.Second
	return &execCommand{Cmd: cmd}
}

var _ commandRunner = execCommandRunner{}

// LiveProcessRunner runs real subprocesses with a per-invocation timeout
// driven by a clockwork.Clock, so tests can fake time without sleeping.
type LiveProcessRunner struct {
	clock   clockwork.Clock
	runner  commandRunner
	Timeout time.Duration
}

// NewLiveProcessRunner builds a process runner with the given default
// per-invocation timeout (spec.md §4.1: 10 min for builds, 60s for
// metadata queries — callers construct one LiveProcessRunner per timeout
// class, or override per-call via RunWithTimeout).
func NewLiveProcessRunner(timeout time.Duration) *LiveProcessRunner {
	return &LiveProcessRunner{
		clock:   clockwork.NewRealClock(),
		runner:  execCommandRunner{},
		Timeout: timeout,
	}
}

func (r *LiveProcessRunner) Run(ctx context.Context, program string, args []string, cwd string, stdin string) (*Result, error) {
	return r.RunWithTimeout(ctx, program, args, cwd, stdin, r.Timeout)
}

func (r *LiveProcessRunner) RunWithTimeout(ctx context.Context, program string, args []string, cwd string, stdin string, timeout time.Duration) (*Result, error) {
	runCtx, cancel := clockwork.WithTimeout(ctx, r.clock, timeout)
	defer cancel()

	cmd := r.runner.CommandContext(runCtx, program, args...)
	cmd.SetDir(cwd)
	if stdin != "" {
		cmd.SetStdin(strings.NewReader(stdin))
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, core.NewProcessError(program, args, -1, "", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, core.NewProcessError(program, args, -1, "", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, core.NewProcessError(program, args, -1, "", err)
	}

	var stdoutBuf, stderrBuf strings.Builder
	done := make(chan error, 2)
	go func() {
		_, copyErr := io.Copy(&stdoutBuf, stdout)
		done <- copyErr
	}()
	go func() {
		_, copyErr := io.Copy(&stderrBuf, stderr)
		done <- copyErr
	}()
	<-done
	<-done

	waitErr := cmd.Wait()

	result := &Result{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else if runCtx.Err() == context.DeadlineExceeded {
			return result, core.NewProcessError(program, args, -1, stderrTail(result.Stderr), context.DeadlineExceeded)
		} else {
			return result, core.NewProcessError(program, args, -1, stderrTail(result.Stderr), waitErr)
		}
	}

	if result.ExitCode != 0 {
		return result, core.NewProcessError(program, args, result.ExitCode, stderrTail(result.Stderr), nil)
	}

	return result, nil
}

func stderrTail(s string) string {
	const maxTail = 2000
	if len(s) <= maxTail {
		return s
	}
	return s[len(s)-maxTail:]
}

var _ ProcessRunner = &LiveProcessRunner{}
