package session

import (
	"os"
	"time"
)

// LiveSession wires every capability to real I/O. One LiveSession is
// constructed per command invocation at the workspace root.
type LiveSession struct {
	fs             *LiveFileSystem
	proc           *LiveProcessRunner
	http           *LiveHTTPClient
	prompt         *LivePrompter
	progress       *LiveProgress
	nonInteractive bool
}

// Options configures a LiveSession.
type Options struct {
	WorkspaceDir    string
	UserAgent       string
	NonInteractive  bool
	Quiet           bool
	ProcessTimeout  time.Duration
	HTTPTimeout     time.Duration
}

func NewLiveSession(opts Options) (*LiveSession, error) {
	fs, err := NewLiveFileSystem(opts.WorkspaceDir)
	if err != nil {
		return nil, err
	}

	nonInteractive := opts.NonInteractive || !isStdinTTY()

	return &LiveSession{
		fs:             fs,
		proc:           NewLiveProcessRunner(opts.ProcessTimeout),
		http:           NewLiveHTTPClient(opts.UserAgent, opts.HTTPTimeout),
		prompt:         NewLivePrompter(os.Stdin, os.Stderr, nonInteractive),
		progress:       NewLiveProgress(os.Stderr, opts.Quiet),
		nonInteractive: nonInteractive,
	}, nil
}

func isStdinTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (s *LiveSession) FS() FileSystem             { return s.fs }
func (s *LiveSession) Proc() ProcessRunner        { return s.proc }
func (s *LiveSession) HTTP() HTTPClient           { return s.http }
func (s *LiveSession) Prompt() Prompter           { return s.prompt }
func (s *LiveSession) Progress() ProgressFactory  { return s.progress }
func (s *LiveSession) NonInteractive() bool       { return s.nonInteractive }

func (s *LiveSession) Close() error {
	return s.fs.Close()
}

var _ Session = &LiveSession{}
