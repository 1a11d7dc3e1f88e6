package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	tmp := t.TempDir()

	cfg, err := Load(tmp, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.ModpackDirectory)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, 8, cfg.HTTPConcurrency)
	assert.False(t, cfg.NonInteractive)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "empack.config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("http_concurrency: 3\nlog_level: warn\n"), 0o644))

	cfg, err := Load(tmp, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.HTTPConcurrency)
	assert.Equal(t, LogLevelWarn, cfg.LogLevel)
}

func TestLoad_EnvOverridesProjectConfig(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "empack.config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("http_concurrency: 3\n"), 0o644))

	t.Setenv("EMPACK_HTTP_CONCURRENCY", "5")

	cfg, err := Load(tmp, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.HTTPConcurrency)
}

func TestLoad_DotenvPopulatesCurseForgeKey(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("EMPACK_CURSEFORGE_API_KEY=abc123\n"), 0o644))

	cfg, err := Load(tmp, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.CurseForgeAPIKey)
}

func TestLoad_FlagsWinOverEverything(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "empack.config.yml"), []byte("modpack_directory: /elsewhere\n"), 0o644))

	dir := "/from-flag"
	yes := true
	cfg, err := Load(tmp, Overrides{ModpackDirectory: &dir, Yes: &yes})
	require.NoError(t, err)

	assert.Equal(t, "/from-flag", cfg.ModpackDirectory)
	assert.True(t, cfg.NonInteractive)
}

func TestLoad_RejectsVerboseAndQuietTogether(t *testing.T) {
	tmp := t.TempDir()

	verbose, quiet := true, true
	_, err := Load(tmp, Overrides{Verbose: &verbose, Quiet: &quiet})
	require.Error(t, err)
}

func TestLoad_VerboseImpliesDebugLogLevel(t *testing.T) {
	tmp := t.TempDir()

	verbose := true
	cfg, err := Load(tmp, Overrides{Verbose: &verbose})
	require.NoError(t, err)

	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
}

func TestIsValidLogLevel(t *testing.T) {
	assert.True(t, IsValidLogLevel(LogLevelDebug))
	assert.True(t, IsValidLogLevel(LogLevelWarn))
	assert.False(t, IsValidLogLevel(EmpackLogLevel("trace")))
}
