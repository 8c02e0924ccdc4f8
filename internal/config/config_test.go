package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slotsync/internal/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	if cfg.Sync.MaxSlots != 8 {
		t.Fatalf("expected default max_slots 8, got %d", cfg.Sync.MaxSlots)
	}
	if cfg.Receiver.URL != "http://127.0.0.1:51820/sessions" {
		t.Fatalf("unexpected default receiver url %q", cfg.Receiver.URL)
	}
	if cfg.Receiver.RequestTimeout != 2 {
		t.Fatalf("expected default request_timeout 2, got %d", cfg.Receiver.RequestTimeout)
	}
	if cfg.Sync.HeartbeatInterval != 30 {
		t.Fatalf("expected default heartbeat_interval 30, got %d", cfg.Sync.HeartbeatInterval)
	}
	if cfg.Sync.TerminationGraceMS != 100 {
		t.Fatalf("expected default termination_grace_ms 100, got %d", cfg.Sync.TerminationGraceMS)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if cfg.Heartbeat() != 30*time.Second {
		t.Fatalf("unexpected heartbeat %s", cfg.Heartbeat())
	}
	if cfg.TerminationGrace() != 100*time.Millisecond {
		t.Fatalf("unexpected grace delay %s", cfg.TerminationGrace())
	}
	if !filepath.IsAbs(cfg.Paths.CacheDir) {
		t.Fatalf("cache dir not normalized: %q", cfg.Paths.CacheDir)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := strings.Join([]string{
		"[paths]",
		`cache_dir = "` + filepath.Join(dir, "cache") + `"`,
		"[receiver]",
		`url = "http://127.0.0.1:9000/slots"`,
		"request_timeout = 5",
		"[sync]",
		"max_slots = 4",
		"heartbeat_interval = 10",
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Receiver.URL != "http://127.0.0.1:9000/slots" {
		t.Fatalf("unexpected receiver url %q", cfg.Receiver.URL)
	}
	if cfg.ReceiverTimeout() != 5*time.Second {
		t.Fatalf("unexpected receiver timeout %s", cfg.ReceiverTimeout())
	}
	if cfg.Sync.MaxSlots != 4 {
		t.Fatalf("unexpected max_slots %d", cfg.Sync.MaxSlots)
	}
	if cfg.MarkerPath() != filepath.Join(dir, "cache", "daemon.pid") {
		t.Fatalf("unexpected marker path %q", cfg.MarkerPath())
	}
}

func TestLoadRejectsBadReceiverURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[receiver]\nurl = \"ftp://example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for non-http receiver url")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", p)
		}
	}
}
