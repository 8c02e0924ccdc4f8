package tmux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"slotsync/internal/mapping"
)

type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execCommandRunner struct{}

func (execCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.Output()
}

// Enumerator lists the attached session's windows and panes via the tmux
// binary.
type Enumerator struct {
	runner  commandRunner
	timeout time.Duration
}

// NewEnumerator builds an exec-backed enumerator. The timeout bounds each
// tmux invocation.
func NewEnumerator(timeout time.Duration) *Enumerator {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Enumerator{runner: execCommandRunner{}, timeout: timeout}
}

// CurrentWindow returns the attached session's windows as tabs, each holding
// its pane IDs as sessions. When no server is running or no client is
// attached, the window is nil and the caller sends an empty mapping.
func (e *Enumerator) CurrentWindow(ctx context.Context) (*mapping.Window, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.runner.Output(runCtx, "tmux", "list-panes", "-s", "-F", "#{window_index} #{pane_id}")
	if err != nil {
		// tmux exits non-zero with no server or no session; treat as
		// nothing focused rather than an error.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("list tmux panes: %w", err)
	}
	return parsePaneList(string(out)), nil
}

// parsePaneList groups "window_index pane_id" lines into tabs ordered by
// window index.
func parsePaneList(out string) *mapping.Window {
	panesByWindow := map[int][]mapping.SessionID{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) != 2 {
			continue
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		panesByWindow[index] = append(panesByWindow[index], mapping.SessionID(fields[1]))
	}
	if len(panesByWindow) == 0 {
		return nil
	}

	indexes := make([]int, 0, len(panesByWindow))
	for index := range panesByWindow {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	window := &mapping.Window{Tabs: make([]mapping.Tab, 0, len(indexes))}
	for _, index := range indexes {
		window.Tabs = append(window.Tabs, mapping.Tab{Sessions: panesByWindow[index]})
	}
	return window
}
