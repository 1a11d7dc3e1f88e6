package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_WriteReadExists(t *testing.T) {
	fs := NewMockFileSystem()

	assert.False(t, fs.Exists("pack/pack.toml"))

	require.NoError(t, fs.WriteAtomic("pack/pack.toml", []byte("name = \"demo\""), 0o644))

	assert.True(t, fs.Exists("pack/pack.toml"))
	assert.True(t, fs.Exists("pack"))

	data, err := fs.Read("pack/pack.toml")
	require.NoError(t, err)
	assert.Equal(t, "name = \"demo\"", string(data))
}

func TestMockFileSystem_RejectsAbsolutePath(t *testing.T) {
	fs := NewMockFileSystem()
	err := fs.WriteAtomic("/etc/passwd", []byte("x"), 0o644)
	require.Error(t, err)
}

func TestMockFileSystem_RejectsEscapingPath(t *testing.T) {
	fs := NewMockFileSystem()
	err := fs.WriteAtomic("../outside", []byte("x"), 0o644)
	require.Error(t, err)
}

func TestMockFileSystem_List(t *testing.T) {
	fs := NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("dist/client/a.txt", []byte("a"), 0o644))
	require.NoError(t, fs.WriteAtomic("dist/server/b.txt", []byte("b"), 0o644))

	entries, err := fs.List("dist")
	require.NoError(t, err)
	names := []string{entries[0].Name(), entries[1].Name()}
	assert.ElementsMatch(t, []string{"client", "server"}, names)
}

func TestMockFileSystem_RemoveTree(t *testing.T) {
	fs := NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("dist/client/a.txt", []byte("a"), 0o644))
	require.NoError(t, fs.RemoveTree("dist/client"))
	assert.False(t, fs.Exists("dist/client/a.txt"))
}

func TestMockProcessRunner_RecordsCallsAndReplaysResponses(t *testing.T) {
	proc := NewMockProcessRunner()
	proc.Responses["packwiz refresh"] = &Result{ExitCode: 0, Stdout: "ok"}

	res, err := proc.Run(context.Background(), "packwiz", []string{"refresh"}, "/tmp", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Stdout)

	require.Len(t, proc.Calls, 1)
	assert.Equal(t, "packwiz", proc.Calls[0].Program)
}

func TestMockHTTPClient_SeedAndMiss(t *testing.T) {
	client := NewMockHTTPClient()
	client.Seed("https://api.modrinth.com/v2/search", map[string]string{"query": "sodium"}, []byte(`{"hits":[]}`))

	body, err := client.GetJSON(context.Background(), "https://api.modrinth.com/v2/search", nil, map[string]string{"query": "sodium"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hits":[]}`, string(body))

	_, err = client.GetJSON(context.Background(), "https://api.modrinth.com/v2/search", nil, map[string]string{"query": "lithium"})
	require.Error(t, err)
	assert.Len(t, client.Misses, 1)
}

func TestMockPrompter_DefaultsWhenQueueEmpty(t *testing.T) {
	p := NewMockPrompter()
	ok, err := p.Confirm("continue?", true)
	require.NoError(t, err)
	assert.True(t, ok)

	p.ConfirmAnswers = []bool{false}
	ok, err = p.Confirm("continue?", true)
	require.NoError(t, err)
	assert.False(t, ok)
}
