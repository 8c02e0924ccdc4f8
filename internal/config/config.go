package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// CacheDir holds the singleton marker and the IPC socket. Defaults to
	// the claude-status directory under the user cache dir so the receiver
	// plugin and the daemon agree on the marker location.
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Receiver contains configuration for the local HTTP receiver that consumes
// mapping snapshots.
type Receiver struct {
	URL            string `toml:"url"`
	RequestTimeout int    `toml:"request_timeout"` // seconds
}

// Sync contains slot assignment and scheduling settings.
type Sync struct {
	MaxSlots             int `toml:"max_slots"`
	HeartbeatInterval    int `toml:"heartbeat_interval"`     // seconds
	TerminationGraceMS   int `toml:"termination_grace_ms"`   // milliseconds
	EnumerationTimeoutMS int `toml:"enumeration_timeout_ms"` // milliseconds
}

// Process contains the command-line signature used to recognize prior daemon
// instances before terminating them.
type Process struct {
	Executable    string `toml:"executable"`
	AutostartMark string `toml:"autostart_mark"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for slotsync.
//
// Configuration sections by subsystem:
//   - Paths: cache (marker + socket) and log directories
//   - Receiver: mapping delivery endpoint and timeout
//   - Sync: slot bank size, heartbeat period, termination grace delay
//   - Process: singleton classification signature
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Receiver Receiver `toml:"receiver"`
	Sync     Sync     `toml:"sync"`
	Process  Process  `toml:"process"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slotsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file is not an error;
// defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slotsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MarkerPath returns the singleton marker file location.
func (c *Config) MarkerPath() string {
	return filepath.Join(c.Paths.CacheDir, "daemon.pid")
}

// SocketPath returns the IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.CacheDir, "slotsync.sock")
}

// ReceiverTimeout returns the HTTP delivery timeout as a duration.
func (c *Config) ReceiverTimeout() time.Duration {
	return time.Duration(c.Receiver.RequestTimeout) * time.Second
}

// Heartbeat returns the unconditional resend period as a duration.
func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.Sync.HeartbeatInterval) * time.Second
}

// TerminationGrace returns the delay applied after a session-terminated
// notification before the mapping is rebuilt.
func (c *Config) TerminationGrace() time.Duration {
	return time.Duration(c.Sync.TerminationGraceMS) * time.Millisecond
}

// EnumerationTimeout bounds a single window/pane enumeration call.
func (c *Config) EnumerationTimeout() time.Duration {
	return time.Duration(c.Sync.EnumerationTimeoutMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
