package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeReceiver()
	c.normalizeSync()
	c.normalizeProcess()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeReceiver() {
	c.Receiver.URL = strings.TrimSpace(c.Receiver.URL)
	if c.Receiver.URL == "" {
		c.Receiver.URL = defaultReceiverURL
	}
	if c.Receiver.RequestTimeout <= 0 {
		c.Receiver.RequestTimeout = defaultReceiverTimeout
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.MaxSlots <= 0 {
		c.Sync.MaxSlots = defaultMaxSlots
	}
	if c.Sync.HeartbeatInterval <= 0 {
		c.Sync.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Sync.TerminationGraceMS <= 0 {
		c.Sync.TerminationGraceMS = defaultTerminationGraceMS
	}
	if c.Sync.EnumerationTimeoutMS <= 0 {
		c.Sync.EnumerationTimeoutMS = defaultEnumerationTimeout
	}
}

func (c *Config) normalizeProcess() {
	c.Process.Executable = strings.TrimSpace(c.Process.Executable)
	if c.Process.Executable == "" {
		c.Process.Executable = defaultProcessExecutable
	}
	c.Process.AutostartMark = strings.TrimSpace(c.Process.AutostartMark)
	if c.Process.AutostartMark == "" {
		c.Process.AutostartMark = defaultProcessAutostartTag
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
