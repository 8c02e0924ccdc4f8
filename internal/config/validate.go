package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate verifies configuration invariants after normalization.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Receiver.URL)
	if err != nil {
		return fmt.Errorf("receiver.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("receiver.url: unsupported scheme %q", parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("receiver.url: missing host")
	}

	if c.Sync.MaxSlots > 64 {
		return fmt.Errorf("sync.max_slots: %d exceeds the supported slot bank size", c.Sync.MaxSlots)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
