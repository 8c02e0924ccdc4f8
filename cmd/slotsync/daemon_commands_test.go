package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slotsync/internal/config"
	"slotsync/internal/daemon"
	"slotsync/internal/ipc"
	"slotsync/internal/logging"
	"slotsync/internal/mapping"
	"slotsync/internal/scheduler"
)

func TestRenderStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	status := &ipc.StatusResponse{
		Running:     true,
		PID:         4242,
		InstanceID:  "abc-123",
		StartedAt:   now.Add(-90 * time.Minute),
		MarkerPath:  "/tmp/claude-status/daemon.pid",
		SocketPath:  "/tmp/claude-status/slotsync.sock",
		ReceiverURL: "http://127.0.0.1:51820/sessions",
		LastSync: ipc.SyncState{
			Trigger:  "heartbeat",
			Time:     now.Add(-12 * time.Second),
			Sessions: 2,
			Mapping:  map[string]int{"alpha": 1, "beta": 2},
		},
	}

	out := renderStatus(status, now)
	for _, want := range []string{
		"4242",
		"abc-123",
		"1 hour ago",
		"12 seconds ago",
		"heartbeat",
		"http://127.0.0.1:51820/sessions",
		"alpha",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusNeverSynced(t *testing.T) {
	out := renderStatus(&ipc.StatusResponse{Running: true, PID: 1}, time.Now())
	if !strings.Contains(out, "never") {
		t.Fatalf("zero sync time should render as never:\n%s", out)
	}
}

func TestSlotTableOrderedNumericallyBySlot(t *testing.T) {
	out := slotTable(map[string]int{"zeta": 10, "alpha": 1, "mid": 2})
	alphaIdx := strings.Index(out, "alpha")
	midIdx := strings.Index(out, "mid")
	zetaIdx := strings.Index(out, "zeta")
	if alphaIdx < 0 || midIdx < 0 || zetaIdx < 0 {
		t.Fatalf("missing sessions in table:\n%s", out)
	}
	if !(alphaIdx < midIdx && midIdx < zetaIdx) {
		t.Fatalf("rows not in numeric slot order:\n%s", out)
	}
}

func TestSlotTableSplitPanesShareSlot(t *testing.T) {
	out := slotTable(map[string]int{"b": 2, "a": 2, "solo": 1})
	soloIdx := strings.Index(out, "solo")
	aIdx := strings.Index(out, "a\x20")
	bIdx := strings.Index(out, "b\x20")
	if soloIdx < 0 || aIdx < 0 || bIdx < 0 {
		t.Fatalf("missing sessions in table:\n%s", out)
	}
	if !(soloIdx < aIdx && aIdx < bIdx) {
		t.Fatalf("shared-slot rows not ordered by session:\n%s", out)
	}
}

type cliEnumerator struct{}

func (cliEnumerator) CurrentWindow(ctx context.Context) (*mapping.Window, error) {
	return &mapping.Window{Tabs: []mapping.Tab{{Sessions: []mapping.SessionID{"s-1"}}}}, nil
}

type cliDispatcher struct{}

func (cliDispatcher) Send(ctx context.Context, m mapping.Mapping) {}

func startCLITestDaemon(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Default()
	cfg.Paths.CacheDir = t.TempDir()

	sched := scheduler.New(cliEnumerator{}, cliDispatcher{}, nil, scheduler.Options{
		MaxSlots:  cfg.Sync.MaxSlots,
		Heartbeat: time.Hour,
	}, logging.NewNop())
	d, err := daemon.New(&cfg, sched, logging.NewNop(), cancel)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	socketPath := filepath.Join(t.TempDir(), "slotsync.sock")
	server, err := ipc.NewServer(ctx, socketPath, d, logging.NewNop())
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)
	return socketPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusCommandAgainstLiveDaemon(t *testing.T) {
	socketPath := startCLITestDaemon(t)

	out, err := runCommand(t, "--socket", socketPath, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Running") || !strings.Contains(out, "yes") {
		t.Fatalf("status output missing running marker:\n%s", out)
	}
}

func TestSyncCommandAgainstLiveDaemon(t *testing.T) {
	socketPath := startCLITestDaemon(t)

	out, err := runCommand(t, "--socket", socketPath, "sync")
	if err != nil {
		t.Fatalf("sync: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Synced 1 session(s)") {
		t.Fatalf("unexpected sync output:\n%s", out)
	}
	if !strings.Contains(out, "s-1") {
		t.Fatalf("sync output missing mapping table:\n%s", out)
	}
}

func TestStopCommandAgainstLiveDaemon(t *testing.T) {
	socketPath := startCLITestDaemon(t)

	out, err := runCommand(t, "--socket", socketPath, "stop")
	if err != nil {
		t.Fatalf("stop: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Daemon stopped") {
		t.Fatalf("unexpected stop output:\n%s", out)
	}
}

func TestStatusCommandWithoutDaemon(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "absent.sock")
	out, err := runCommand(t, "--socket", socketPath, "status")
	if err == nil {
		t.Fatalf("status should fail without a daemon:\n%s", out)
	}
	if !strings.Contains(err.Error(), "slotsync run") {
		t.Fatalf("error should hint at starting the daemon: %v", err)
	}
}
