package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultLogDir              = "~/.local/share/slotsync/logs"
	defaultReceiverURL         = "http://127.0.0.1:51820/sessions"
	defaultReceiverTimeout     = 2
	defaultMaxSlots            = 8
	defaultHeartbeatInterval   = 30
	defaultTerminationGraceMS  = 100
	defaultEnumerationTimeout  = 2000
	defaultProcessExecutable   = "slotsync"
	defaultProcessAutostartTag = "--autostart"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Receiver: Receiver{
			URL:            defaultReceiverURL,
			RequestTimeout: defaultReceiverTimeout,
		},
		Sync: Sync{
			MaxSlots:             defaultMaxSlots,
			HeartbeatInterval:    defaultHeartbeatInterval,
			TerminationGraceMS:   defaultTerminationGraceMS,
			EnumerationTimeoutMS: defaultEnumerationTimeout,
		},
		Process: Process{
			Executable:    defaultProcessExecutable,
			AutostartMark: defaultProcessAutostartTag,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// defaultCacheDir resolves the marker directory shared with the receiver
// plugin. The directory name is fixed by the receiver's contract.
func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "claude-status")
	}
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "claude-status")
	}
	return "~/.cache/claude-status"
}
