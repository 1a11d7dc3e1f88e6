package core

import "fmt"

// ErrorKind classifies an EmpackError for exit-code selection at the
// command boundary. See cmd/empack/root.go for the kind->exit-code table.
type ErrorKind string

const (
	KindConfig     ErrorKind = "config"
	KindPack       ErrorKind = "pack"
	KindManifest   ErrorKind = "manifest"
	KindState      ErrorKind = "state"
	KindNetwork    ErrorKind = "network"
	KindProcess    ErrorKind = "process"
	KindResolve    ErrorKind = "resolve"
	KindFilesystem ErrorKind = "filesystem"
	KindUserAbort  ErrorKind = "user_abort"
)

// EmpackError is satisfied by every domain error empack returns across a
// command boundary. Implementations wrap an underlying cause so
// errors.Is/errors.As keep working through the errors.As lookup and Kind
// switch in root.go.
type EmpackError interface {
	error
	Kind() ErrorKind
	Unwrap() error
}

// ConfigError reports a problem loading or validating configuration.
type ConfigError struct {
	Setting string
	Err     error
}

func NewConfigError(setting string, err error) *ConfigError {
	return &ConfigError{Setting: setting, Err: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %q: %v", e.Setting, e.Err)
}

func (e *ConfigError) Kind() ErrorKind { return KindConfig }
func (e *ConfigError) Unwrap() error   { return e.Err }

var _ EmpackError = &ConfigError{}

// PackError reports a problem with pack.toml's contents or location.
type PackError struct {
	Path string
	Err  error
}

func NewPackError(path string, err error) *PackError {
	return &PackError{Path: path, Err: err}
}

func (e *PackError) Error() string {
	return fmt.Sprintf("pack error (%s): %v", e.Path, e.Err)
}

func (e *PackError) Kind() ErrorKind { return KindPack }
func (e *PackError) Unwrap() error   { return e.Err }

var _ EmpackError = &PackError{}

// ManifestError reports a problem with empack.yml's contents.
type ManifestError struct {
	Path string
	Err  error
}

func NewManifestError(path string, err error) *ManifestError {
	return &ManifestError{Path: path, Err: err}
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest error (%s): %v", e.Path, e.Err)
}

func (e *ManifestError) Kind() ErrorKind { return KindManifest }
func (e *ManifestError) Unwrap() error   { return e.Err }

var _ EmpackError = &ManifestError{}

// InvalidTransitionError reports an attempted state transition that the
// current state does not permit.
type InvalidTransitionError struct {
	From      string
	Attempted string
}

func NewInvalidTransitionError(from, attempted string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Attempted: attempted}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Attempted, e.From)
}

func (e *InvalidTransitionError) Kind() ErrorKind { return KindState }
func (e *InvalidTransitionError) Unwrap() error   { return nil }

var _ EmpackError = &InvalidTransitionError{}

// MissingPrerequisiteError reports a transition blocked on a precondition
// that the workspace does not currently satisfy.
type MissingPrerequisiteError struct {
	What string
}

func NewMissingPrerequisiteError(what string) *MissingPrerequisiteError {
	return &MissingPrerequisiteError{What: what}
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("missing prerequisite: %s", e.What)
}

func (e *MissingPrerequisiteError) Kind() ErrorKind { return KindState }
func (e *MissingPrerequisiteError) Unwrap() error   { return nil }

var _ EmpackError = &MissingPrerequisiteError{}

// NetworkErrorKind distinguishes the different ways an HTTP call can fail.
type NetworkErrorKind string

const (
	NetworkKindConnection NetworkErrorKind = "connection"
	NetworkKindTimeout    NetworkErrorKind = "timeout"
	NetworkKindStatus     NetworkErrorKind = "status"
	NetworkKindParse      NetworkErrorKind = "parse"
)

// NetworkError reports a failed outbound HTTP call.
type NetworkError struct {
	NetKind    NetworkErrorKind
	URL        string
	StatusCode int
	Err        error
}

func NewNetworkError(kind NetworkErrorKind, url string, status int, err error) *NetworkError {
	return &NetworkError{NetKind: kind, URL: url, StatusCode: status, Err: err}
}

func (e *NetworkError) Error() string {
	if e.NetKind == NetworkKindStatus {
		return fmt.Sprintf("request to %s returned status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request to %s failed (%s): %v", e.URL, e.NetKind, e.Err)
}

func (e *NetworkError) Kind() ErrorKind { return KindNetwork }
func (e *NetworkError) Unwrap() error   { return e.Err }

var _ EmpackError = &NetworkError{}

// ProcessError reports a failed or non-zero-exit subprocess invocation.
type ProcessError struct {
	Program    string
	Args       []string
	ExitCode   int
	StderrTail string
	Err        error
}

func NewProcessError(program string, args []string, exitCode int, stderrTail string, err error) *ProcessError {
	return &ProcessError{Program: program, Args: args, ExitCode: exitCode, StderrTail: stderrTail, Err: err}
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed to run: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("%s exited %d: %s", e.Program, e.ExitCode, e.StderrTail)
}

func (e *ProcessError) Kind() ErrorKind { return KindProcess }
func (e *ProcessError) Unwrap() error   { return e.Err }

var _ EmpackError = &ProcessError{}

// ResolveError reports a mod resolution failure: not found, ambiguous, or
// the resolver itself could not be reached.
type ResolveError struct {
	Query      string
	Reason     string
	Suggestion string
}

func NewResolveError(query, reason, suggestion string) *ResolveError {
	return &ResolveError{Query: query, Reason: reason, Suggestion: suggestion}
}

func (e *ResolveError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("could not resolve %q: %s (did you mean %q?)", e.Query, e.Reason, e.Suggestion)
	}
	return fmt.Sprintf("could not resolve %q: %s", e.Query, e.Reason)
}

func (e *ResolveError) Kind() ErrorKind { return KindResolve }
func (e *ResolveError) Unwrap() error   { return nil }

var _ EmpackError = &ResolveError{}

// FilesystemError reports a failed workspace filesystem operation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func NewFilesystemError(op, path string, err error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Kind() ErrorKind { return KindFilesystem }
func (e *FilesystemError) Unwrap() error   { return e.Err }

var _ EmpackError = &FilesystemError{}

// UserAbortError reports that an interactive prompt was declined.
type UserAbortError struct {
	What string
}

func NewUserAbortError(what string) *UserAbortError {
	return &UserAbortError{What: what}
}

func (e *UserAbortError) Error() string {
	return fmt.Sprintf("aborted: %s", e.What)
}

func (e *UserAbortError) Kind() ErrorKind { return KindUserAbort }
func (e *UserAbortError) Unwrap() error   { return nil }

var _ EmpackError = &UserAbortError{}
