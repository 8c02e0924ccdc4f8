package tmux

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"slotsync/internal/logging"
	"slotsync/internal/multiplexer"
)

// Monitor attaches a tmux control-mode client and translates its
// asynchronous notification lines into wake signals.
type Monitor struct {
	logger *slog.Logger

	layout     multiplexer.Signal
	terminated multiplexer.Signal
}

// NewMonitor builds an event monitor. Start must be called before the
// channels deliver anything.
func NewMonitor(logger *slog.Logger) *Monitor {
	return &Monitor{
		logger:     logging.NewComponentLogger(logger, "tmux-events"),
		layout:     multiplexer.NewSignal(),
		terminated: multiplexer.NewSignal(),
	}
}

func (m *Monitor) LayoutChanged() <-chan struct{} { return m.layout }

func (m *Monitor) SessionTerminated() <-chan struct{} { return m.terminated }

// Start launches the control-mode client and reads notifications until the
// context is canceled. Returns an error only when the client cannot start;
// a later disconnect leaves the channels silent and the heartbeat carries
// convergence from there.
func (m *Monitor) Start(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "tmux", "-C", "attach-session")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("control mode stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("attach control mode client: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			m.classify(scanner.Text())
		}
		_ = cmd.Wait()
		if ctx.Err() == nil {
			m.logger.Warn("control mode client disconnected",
				logging.String(logging.FieldEventType, "tmux_control_disconnect"))
		}
	}()
	return nil
}

// classify routes one control-mode output line. Window close notifications
// double as the session-termination wake: a pane death always collapses or
// closes its window, and the rebuild after the grace delay reads fresh state
// either way.
func (m *Monitor) classify(line string) {
	if !strings.HasPrefix(line, "%") {
		return
	}
	notification := line
	if idx := strings.IndexByte(line, ' '); idx > 0 {
		notification = line[:idx]
	}
	switch notification {
	case "%layout-change", "%window-add", "%window-renamed", "%session-window-changed", "%sessions-changed", "%session-changed":
		m.layout.Raise()
	case "%window-close", "%unlinked-window-close":
		m.terminated.Raise()
	}
}
