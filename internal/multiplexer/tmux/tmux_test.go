package tmux

import (
	"context"
	"os/exec"
	"testing"

	"slotsync/internal/logging"
	"slotsync/internal/mapping"
)

type fakeRunner struct {
	output []byte
	err    error
}

func (f *fakeRunner) Output(context.Context, string, ...string) ([]byte, error) {
	return f.output, f.err
}

func TestParsePaneListGroupsByWindowIndex(t *testing.T) {
	out := "1 %0\n" +
		"1 %4\n" +
		"2 %1\n" +
		"5 %7\n"

	window := parsePaneList(out)
	if window == nil {
		t.Fatal("expected window")
	}
	if len(window.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(window.Tabs))
	}
	first := window.Tabs[0].Sessions
	if len(first) != 2 || first[0] != "%0" || first[1] != "%4" {
		t.Fatalf("unexpected first tab sessions %v", first)
	}
	if window.Tabs[2].Sessions[0] != mapping.SessionID("%7") {
		t.Fatalf("unexpected last tab sessions %v", window.Tabs[2].Sessions)
	}
}

func TestParsePaneListEmptyOutput(t *testing.T) {
	if window := parsePaneList("\n"); window != nil {
		t.Fatalf("expected nil window, got %#v", window)
	}
}

func TestCurrentWindowNoServerDegradesToNil(t *testing.T) {
	enum := NewEnumerator(0)
	enum.runner = &fakeRunner{err: &exec.ExitError{}}

	window, err := enum.CurrentWindow(context.Background())
	if err != nil {
		t.Fatalf("expected nil error when tmux reports no server, got %v", err)
	}
	if window != nil {
		t.Fatalf("expected nil window, got %#v", window)
	}
}

func TestClassifyNotificationLines(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		layout     bool
		terminated bool
	}{
		{"layout change", "%layout-change @1 cafe,80x24,0,0,1 cafe,80x24,0,0,1 *", true, false},
		{"window close", "%window-close @2", false, true},
		{"unlinked window close", "%unlinked-window-close @3", false, true},
		{"session changed", "%session-changed $1 main", true, false},
		{"pane output ignored", "%output %1 hello", false, false},
		{"command reply ignored", "%begin 1578922740 269 1", false, false},
		{"plain text ignored", "not a notification", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			monitor := NewMonitor(logging.NewNop())
			monitor.classify(tc.line)

			if got := drained(monitor.LayoutChanged()); got != tc.layout {
				t.Fatalf("layout wake = %v, want %v", got, tc.layout)
			}
			if got := drained(monitor.SessionTerminated()); got != tc.terminated {
				t.Fatalf("termination wake = %v, want %v", got, tc.terminated)
			}
		})
	}
}

func TestClassifyCoalescesBursts(t *testing.T) {
	monitor := NewMonitor(logging.NewNop())
	for i := 0; i < 10; i++ {
		monitor.classify("%layout-change @1")
	}
	if !drained(monitor.LayoutChanged()) {
		t.Fatal("expected one pending wake")
	}
	if drained(monitor.LayoutChanged()) {
		t.Fatal("burst must coalesce to a single wake")
	}
}

func drained(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
