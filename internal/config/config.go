// Package config loads empack's ambient settings: the workspace
// directory, interaction mode, logging verbosity, and the CurseForge API
// key, layered environment over project config over user config over
// built-in defaults, with explicit flags above all of them. It mirrors the dorcha-inc-orla config package's
// viper precedence shape, narrowed to the settings empack's own command
// surface actually exposes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/empack-dev/empack/internal/core"
)

// EmpackConfig is the fully resolved, validated configuration for one
// command invocation.
type EmpackConfig struct {
	ModpackDirectory string `mapstructure:"modpack_directory" yaml:"modpack_directory"`
	NonInteractive   bool   `mapstructure:"non_interactive" yaml:"non_interactive"`
	Verbose          bool   `mapstructure:"verbose" yaml:"verbose"`
	Quiet            bool   `mapstructure:"quiet" yaml:"quiet"`
	Debug            bool   `mapstructure:"debug" yaml:"debug"`
	DryRun           bool   `mapstructure:"dry_run" yaml:"dry_run"`
	LogLevel         EmpackLogLevel `mapstructure:"log_level" yaml:"log_level"`

	CurseForgeAPIKey string `mapstructure:"curseforge_api_key" yaml:"-"`
	HTTPConcurrency  int    `mapstructure:"http_concurrency" yaml:"http_concurrency"`
	HTTPTimeoutSec   int    `mapstructure:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	ProcessTimeoutSec int   `mapstructure:"process_timeout_seconds" yaml:"process_timeout_seconds"`
}

// EmpackLogLevel mirrors zap's level names. A dedicated string type
// keeps the viper binding and the validation error message separate
// from the zap-specific parsing in core.
type EmpackLogLevel string

const (
	LogLevelDebug EmpackLogLevel = "debug"
	LogLevelInfo  EmpackLogLevel = "info"
	LogLevelWarn  EmpackLogLevel = "warn"
	LogLevelError EmpackLogLevel = "error"
)

// ValidLogLevels returns the set of accepted log_level values, keyed by
// value for use with core.JoinMapKeys in validation error messages.
func ValidLogLevels() map[EmpackLogLevel]struct{} {
	return map[EmpackLogLevel]struct{}{
		LogLevelDebug: {},
		LogLevelInfo:  {},
		LogLevelWarn:  {},
		LogLevelError: {},
	}
}

func IsValidLogLevel(l EmpackLogLevel) bool {
	_, ok := ValidLogLevels()[l]
	return ok
}

// ConfigValue reports a single setting's resolved value and the layer it
// came from, for the `empack config get/list` style introspection the
// teacher's config package exposes.
type ConfigValue struct {
	Value  any    `json:"value"`
	Source string `json:"source"`
}

const (
	sourceFlag    = "flag"
	sourceEnv     = "env"
	sourceProject = "project"
	sourceUser    = "user"
	sourceDefault = "default"
)

// Overrides carries the global flag values parsed by cmd/empack's root
// command. Flags always win over every config layer.
type Overrides struct {
	ModpackDirectory *string
	Yes              *bool
	Verbose          *bool
	Quiet            *bool
	Debug            *bool
	DryRun           *bool
}

// Load resolves EmpackConfig from, in increasing precedence: built-in
// defaults, a user config file, a project config file, EMPACK_*
// environment variables (including a workspace-root .env file), and
// finally explicit flag overrides.
func Load(workspaceDir string, overrides Overrides) (*EmpackConfig, error) {
	v, err := setupViper(workspaceDir)
	if err != nil {
		return nil, core.NewConfigError("setup", err)
	}

	var cfg EmpackConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.NewConfigError("unmarshal", err)
	}

	applyOverrides(&cfg, overrides)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupViper(workspaceDir string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(core.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// dotenv at the workspace root layers in as plain process environment,
	// so AutomaticEnv picks it up without a dedicated viper codec.
	loadDotenv(filepath.Join(workspaceDir, ".env"))

	if userPath, err := UserConfigPath(); err == nil {
		if _, statErr := os.Stat(userPath); statErr == nil {
			v.SetConfigFile(userPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading user config %s: %w", userPath, err)
			}
		}
	}

	projectPath := filepath.Join(workspaceDir, "empack.config.yml")
	if _, err := os.Stat(projectPath); err == nil {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectPath, err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("modpack_directory", ".")
	v.SetDefault("non_interactive", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("debug", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log_level", string(LogLevelInfo))
	v.SetDefault("curseforge_api_key", "")
	v.SetDefault("http_concurrency", 8)
	v.SetDefault("http_timeout_seconds", 60)
	v.SetDefault("process_timeout_seconds", 600)
}

func applyOverrides(cfg *EmpackConfig, o Overrides) {
	if o.ModpackDirectory != nil {
		cfg.ModpackDirectory = *o.ModpackDirectory
	}
	if o.Yes != nil {
		cfg.NonInteractive = *o.Yes
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
		if *o.Verbose {
			cfg.LogLevel = LogLevelDebug
		}
	}
	if o.Quiet != nil {
		cfg.Quiet = *o.Quiet
	}
	if o.Debug != nil {
		cfg.Debug = *o.Debug
		if *o.Debug {
			cfg.LogLevel = LogLevelDebug
		}
	}
	if o.DryRun != nil {
		cfg.DryRun = *o.DryRun
	}
}

func validate(cfg *EmpackConfig) error {
	if !IsValidLogLevel(cfg.LogLevel) {
		return core.NewConfigError("log_level", fmt.Errorf("must be one of %s, got %q", core.JoinMapKeys(ValidLogLevels()), cfg.LogLevel))
	}
	if cfg.Verbose && cfg.Quiet {
		return core.NewConfigError("verbose/quiet", fmt.Errorf("-v/--verbose and -q/--quiet are mutually exclusive"))
	}
	if cfg.HTTPConcurrency < 1 {
		return core.NewConfigError("http_concurrency", fmt.Errorf("must be at least 1, got %d", cfg.HTTPConcurrency))
	}
	return nil
}

// UserConfigPath returns the per-user config file path
// ($XDG_CONFIG_HOME/empack/config.yml, falling back to ~/.config).
func UserConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "empack", "config.yml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "empack", "config.yml"), nil
}

// loadDotenv populates process environment variables from a .env file at
// path, without overwriting anything already set. Missing files are not
// an error: dotenv is optional ambient configuration.
func loadDotenv(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimFunc(strings.TrimSpace(value), func(r rune) bool { return r == '"' || r == '\'' })
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}

// Source resolves which layer produced settingKey's value, probing each
// layer in descending precedence the same way Load applies them.
// Used by introspection commands; not part of the hot load path.
func Source(workspaceDir, settingKey string) string {
	if _, ok := os.LookupEnv(core.EnvPrefix + "_" + strings.ToUpper(settingKey)); ok {
		return sourceEnv
	}

	projectPath := filepath.Join(workspaceDir, "empack.config.yml")
	if fileHasKey(projectPath, settingKey) {
		return sourceProject
	}

	if userPath, err := UserConfigPath(); err == nil && fileHasKey(userPath, settingKey) {
		return sourceUser
	}

	return sourceDefault
}

func fileHasKey(path, key string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return false
	}
	return v.IsSet(key)
}
