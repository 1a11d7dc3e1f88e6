package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/empack-dev/empack/internal/core"
)

// mockDirEntry is a minimal fs.DirEntry for MockFileSystem.List, which
// only needs to report a name and dir-ness (the virtual filesystem has
// no real inodes to back Info()/Type()).
type mockDirEntry struct {
	name  string
	isDir bool
}

func (e mockDirEntry) Name() string      { return e.name }
func (e mockDirEntry) IsDir() bool       { return e.isDir }
func (e mockDirEntry) Type() fs.FileMode { return 0 }
func (e mockDirEntry) Info() (fs.FileInfo, error) {
	return nil, fmt.Errorf("mockDirEntry: no Info")
}

// MockSession bundles scriptable fakes for every capability, following
// the call-recording-struct-plus-canned-response shape used throughout
// the codebase for its other external collaborators (git, subprocesses).
// Tests configure the fixtures up front and then assert against the
// recorded calls afterward.
type MockSession struct {
	Files  *MockFileSystem
	Procs  *MockProcessRunner
	Net    *MockHTTPClient
	Prompts *MockPrompter
	Prog   *MockProgressFactory

	NonInteractiveFlag bool
}

func NewMockSession() *MockSession {
	return &MockSession{
		Files:   NewMockFileSystem(),
		Procs:   NewMockProcessRunner(),
		Net:     NewMockHTTPClient(),
		Prompts: NewMockPrompter(),
		Prog:    &MockProgressFactory{},
	}
}

func (m *MockSession) FS() FileSystem            { return m.Files }
func (m *MockSession) Proc() ProcessRunner       { return m.Procs }
func (m *MockSession) HTTP() HTTPClient          { return m.Net }
func (m *MockSession) Prompt() Prompter          { return m.Prompts }
func (m *MockSession) Progress() ProgressFactory { return m.Prog }
func (m *MockSession) NonInteractive() bool      { return m.NonInteractiveFlag }
func (m *MockSession) Close() error              { return nil }

var _ Session = &MockSession{}

// --- filesystem ---

// MockFileSystem is an in-memory virtual filesystem keyed by cleaned
// relative path.
type MockFileSystem struct {
	files map[string][]byte
	perms map[string]fs.FileMode
}

func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: map[string][]byte{}, perms: map[string]fs.FileMode{}}
}

func (m *MockFileSystem) Seed(relPath string, data []byte) {
	p, _ := cleanRel(relPath)
	m.files[p] = data
}

func (m *MockFileSystem) Read(relPath string) ([]byte, error) {
	p, err := cleanRel(relPath)
	if err != nil {
		return nil, core.NewFilesystemError("read", relPath, err)
	}
	data, ok := m.files[p]
	if !ok {
		return nil, core.NewFilesystemError("read", relPath, fmt.Errorf("not found"))
	}
	return data, nil
}

func (m *MockFileSystem) WriteAtomic(relPath string, data []byte, perm fs.FileMode) error {
	p, err := cleanRel(relPath)
	if err != nil {
		return core.NewFilesystemError("write", relPath, err)
	}
	m.files[p] = append([]byte(nil), data...)
	m.perms[p] = perm
	return nil
}

func (m *MockFileSystem) List(relPath string) ([]fs.DirEntry, error) {
	p, err := cleanRel(relPath)
	if err != nil {
		return nil, core.NewFilesystemError("list", relPath, err)
	}
	prefix := p
	if prefix != "." {
		prefix += "/"
	} else {
		prefix = ""
	}

	seen := map[string]bool{}
	isDir := map[string]bool{}
	var names []string
	for file := range m.files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		rest := strings.TrimPrefix(file, prefix)
		parts := strings.SplitN(rest, "/", 2)
		if !seen[parts[0]] {
			seen[parts[0]] = true
			names = append(names, parts[0])
		}
		if len(parts) > 1 {
			isDir[parts[0]] = true
		}
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, mockDirEntry{name: n, isDir: isDir[n]})
	}
	return entries, nil
}

func (m *MockFileSystem) MkdirAll(relPath string, perm fs.FileMode) error {
	_, err := cleanRel(relPath)
	if err != nil {
		return core.NewFilesystemError("mkdir", relPath, err)
	}
	return nil
}

func (m *MockFileSystem) RemoveTree(relPath string) error {
	p, err := cleanRel(relPath)
	if err != nil {
		return core.NewFilesystemError("remove", relPath, err)
	}
	prefix := p + "/"
	for file := range m.files {
		if file == p || strings.HasPrefix(file, prefix) {
			delete(m.files, file)
		}
	}
	return nil
}

func (m *MockFileSystem) Exists(relPath string) bool {
	p, err := cleanRel(relPath)
	if err != nil {
		return false
	}
	if _, ok := m.files[p]; ok {
		return true
	}
	prefix := p + "/"
	for file := range m.files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

var _ FileSystem = &MockFileSystem{}

// --- process ---

// ProcCall records one invocation for assertions.
type ProcCall struct {
	Program string
	Args    []string
	Cwd     string
	Stdin   string
}

// MockProcessRunner returns a canned Result for each program, recording
// every call it received.
type MockProcessRunner struct {
	Calls     []ProcCall
	Responses map[string]*Result
	Errors    map[string]error
	// Func overrides a response dynamically when set.
	Func func(ctx context.Context, program string, args []string, cwd string, stdin string) (*Result, error)
}

func NewMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{Responses: map[string]*Result{}, Errors: map[string]error{}}
}

func (m *MockProcessRunner) Run(ctx context.Context, program string, args []string, cwd string, stdin string) (*Result, error) {
	m.Calls = append(m.Calls, ProcCall{Program: program, Args: args, Cwd: cwd, Stdin: stdin})

	if m.Func != nil {
		return m.Func(ctx, program, args, cwd, stdin)
	}

	key := program + " " + strings.Join(args, " ")
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if res, ok := m.Responses[key]; ok {
		return res, nil
	}
	return &Result{ExitCode: 0}, nil
}

var _ ProcessRunner = &MockProcessRunner{}

// --- http ---

// MockHTTPClient serves canned responses keyed by the same (method, url,
// query) cache key the live client uses, with an ordered miss list for
// assertions.
type MockHTTPClient struct {
	Fixtures map[string]json.RawMessage
	RawFixtures map[string][]byte
	Errors   map[string]error
	Misses   []string
}

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{Fixtures: map[string]json.RawMessage{}, RawFixtures: map[string][]byte{}, Errors: map[string]error{}}
}

func (m *MockHTTPClient) Seed(rawURL string, query map[string]string, body json.RawMessage) {
	m.Fixtures[string(makeCacheKey("GET", rawURL, query))] = body
}

func (m *MockHTTPClient) SeedRaw(rawURL string, query map[string]string, body []byte) {
	m.RawFixtures[string(makeCacheKey("GET", rawURL, query))] = body
}

func (m *MockHTTPClient) SeedError(rawURL string, query map[string]string, err error) {
	m.Errors[string(makeCacheKey("GET", rawURL, query))] = err
}

func (m *MockHTTPClient) GetJSON(_ context.Context, rawURL string, _ map[string]string, query map[string]string) (json.RawMessage, error) {
	key := string(makeCacheKey("GET", rawURL, query))
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if body, ok := m.Fixtures[key]; ok {
		return body, nil
	}
	m.Misses = append(m.Misses, key)
	return nil, core.NewNetworkError(core.NetworkKindStatus, rawURL, 404, fmt.Errorf("no fixture for %s", key))
}

func (m *MockHTTPClient) GetRaw(_ context.Context, rawURL string, _ map[string]string, query map[string]string) ([]byte, error) {
	key := string(makeCacheKey("GET", rawURL, query))
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if body, ok := m.RawFixtures[key]; ok {
		return body, nil
	}
	m.Misses = append(m.Misses, key)
	return nil, core.NewNetworkError(core.NetworkKindStatus, rawURL, 404, fmt.Errorf("no fixture for %s", key))
}

var _ HTTPClient = &MockHTTPClient{}

// --- prompt ---

// MockPrompter replays a scripted queue of answers, falling back to the
// caller-supplied default once the queue is exhausted.
type MockPrompter struct {
	ConfirmAnswers []bool
	SelectAnswers  []string
	InputAnswers   []string
}

func NewMockPrompter() *MockPrompter { return &MockPrompter{} }

func (m *MockPrompter) Confirm(_ string, def bool) (bool, error) {
	if len(m.ConfirmAnswers) == 0 {
		return def, nil
	}
	ans := m.ConfirmAnswers[0]
	m.ConfirmAnswers = m.ConfirmAnswers[1:]
	return ans, nil
}

func (m *MockPrompter) Select(_ string, _ []string, def string) (string, error) {
	if len(m.SelectAnswers) == 0 {
		return def, nil
	}
	ans := m.SelectAnswers[0]
	m.SelectAnswers = m.SelectAnswers[1:]
	return ans, nil
}

func (m *MockPrompter) Input(_ string, def string) (string, error) {
	if len(m.InputAnswers) == 0 {
		return def, nil
	}
	ans := m.InputAnswers[0]
	m.InputAnswers = m.InputAnswers[1:]
	return ans, nil
}

var _ Prompter = &MockPrompter{}

// --- progress ---

// MockProgressFactory hands out no-op handles so tests never depend on
// terminal state.
type MockProgressFactory struct{}

func (*MockProgressFactory) Spinner(string) Handle     { return &noopHandle{} }
func (*MockProgressFactory) Bar(string, int) Handle    { return &noopHandle{} }

var _ ProgressFactory = &MockProgressFactory{}
