// Package session implements empack's capability container: the single
// per-command object that owns every side-effecting resource (filesystem,
// subprocesses, HTTP, prompts, progress display). Every other package in
// the module accepts a Session (or one of its capability interfaces)
// instead of touching os/exec/net/http directly, so the whole domain is
// deterministically testable against MockSession.
package session

import "context"

// Session bundles the five capabilities a command needs. Components take
// the narrowest capability interface they require rather than the full
// Session where practical, but most command handlers just thread Session
// through.
type Session interface {
	FS() FileSystem
	Proc() ProcessRunner
	HTTP() HTTPClient
	Prompt() Prompter
	Progress() ProgressFactory

	// NonInteractive reports whether prompts must resolve to their
	// default without blocking (the -y/--yes flag, or stdin not a TTY).
	NonInteractive() bool

	// Close releases resources the session owns (the live filesystem's
	// workspace root handle). Safe to call once at command exit.
	Close() error
}

// Result is the outcome of a single process invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ProcessRunner is the process capability: run an external program with a
// working directory and optional stdin, capture its output, honor ctx
// cancellation.
type ProcessRunner interface {
	Run(ctx context.Context, program string, args []string, cwd string, stdin string) (*Result, error)
}
