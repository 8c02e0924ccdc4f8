package singleton

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"slotsync/internal/logging"
	"slotsync/internal/procprobe"
)

// Guard claims singleton status for the current process.
type Guard struct {
	markerPath string
	signature  procprobe.Signature
	probe      procprobe.Probe
	terminator procprobe.Terminator
	logger     *slog.Logger

	// Injectable for tests; default to the real process identifiers.
	selfPID   int
	parentPID int
}

// Option customizes guard construction.
type Option func(*Guard)

// WithSelfPID overrides the PID treated as the current process.
func WithSelfPID(pid int) Option {
	return func(g *Guard) { g.selfPID = pid }
}

// WithParentPID overrides the PID excluded from the sweep as the launcher.
func WithParentPID(pid int) Option {
	return func(g *Guard) { g.parentPID = pid }
}

// New builds a guard for the given marker path and instance signature.
func New(markerPath string, sig procprobe.Signature, probe procprobe.Probe, terminator procprobe.Terminator, logger *slog.Logger, opts ...Option) *Guard {
	g := &Guard{
		markerPath: markerPath,
		signature:  sig,
		probe:      probe,
		terminator: terminator,
		logger:     logging.NewComponentLogger(logger, "singleton"),
		selfPID:    os.Getpid(),
		parentPID:  os.Getppid(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Acquire supersedes any prior daemon instance and writes a fresh marker
// naming the current process. It must run once, before the event loop starts.
// Only a failure to create the marker directory aborts; every other error is
// swallowed, because the next instance's sweep corrects a missed kill.
func (g *Guard) Acquire(ctx context.Context) error {
	dir := filepath.Dir(g.markerPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create marker directory %q: %w", dir, err)
	}

	// Serialize the read/kill/write section against another instance
	// starting at the same moment.
	claim := flock.New(filepath.Join(dir, "daemon.lock"))
	if err := claim.Lock(); err != nil {
		g.logger.Warn("marker claim lock unavailable", logging.Error(err))
	} else {
		defer func() {
			_ = claim.Unlock()
		}()
	}

	if pid, ok := g.readMarker(); ok {
		g.terminateIfPriorInstance(ctx, pid)
	}
	g.sweep(ctx)

	if err := g.writeMarker(); err != nil {
		g.logger.Warn("write singleton marker failed", logging.Error(err), logging.String("path", g.markerPath))
	} else {
		g.logger.Info("singleton marker claimed",
			logging.Int(logging.FieldPID, g.selfPID),
			logging.String("path", g.markerPath))
	}
	return nil
}

// Release deletes the marker on graceful exit, but only while it still names
// this process. A superseded instance that is still shutting down must not
// delete its successor's marker.
func (g *Guard) Release() {
	pid, ok := g.readMarker()
	if !ok || pid != g.selfPID {
		return
	}
	if err := os.Remove(g.markerPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		g.logger.Warn("remove singleton marker failed", logging.Error(err))
		return
	}
	g.logger.Debug("singleton marker released", logging.Int(logging.FieldPID, pid))
}

// MarkerPath returns the marker file location.
func (g *Guard) MarkerPath() string {
	return g.markerPath
}

func (g *Guard) readMarker() (int, bool) {
	data, err := os.ReadFile(g.markerPath)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		// Corrupt marker reads as "no prior instance".
		return 0, false
	}
	return pid, true
}

func (g *Guard) writeMarker() error {
	return os.WriteFile(g.markerPath, []byte(strconv.Itoa(g.selfPID)+"\n"), 0o644)
}

// terminateIfPriorInstance kills the marker PID when its command line carries
// the daemon signature. Unmatched PIDs are left alone: the marker may be
// stale and the PID recycled by an unrelated process.
func (g *Guard) terminateIfPriorInstance(ctx context.Context, pid int) {
	if pid == g.selfPID || pid == g.parentPID {
		return
	}
	command, err := g.probe.CommandLine(ctx, pid)
	if err != nil {
		if !errors.Is(err, procprobe.ErrNotFound) {
			g.logger.Debug("marker pid lookup failed", logging.Int(logging.FieldPID, pid), logging.Error(err))
		}
		return
	}
	if !g.signature.Matches(command) {
		g.logger.Debug("marker pid is not a daemon instance",
			logging.Int(logging.FieldPID, pid),
			logging.String("command", command))
		return
	}
	g.kill(pid, command, "marker")
}

// sweep terminates every signature match on the process table except this
// process and its parent. This catches daemons started before marker support
// existed and any marker race losers.
func (g *Guard) sweep(ctx context.Context) {
	records, err := g.probe.Snapshot(ctx)
	if err != nil {
		g.logger.Debug("process table snapshot failed", logging.Error(err))
		return
	}
	for _, record := range records {
		if record.PID == g.selfPID || record.PID == g.parentPID {
			continue
		}
		if !g.signature.Matches(record.Command) {
			continue
		}
		g.kill(record.PID, record.Command, "sweep")
	}
}

func (g *Guard) kill(pid int, command, origin string) {
	if err := g.terminator.Kill(pid); err != nil {
		// No such process or insufficient permission; either way the
		// instance is not ours to worry about.
		g.logger.Debug("terminate prior instance failed",
			logging.Int(logging.FieldPID, pid),
			logging.String("origin", origin),
			logging.Error(err))
		return
	}
	g.logger.Info("terminated prior instance",
		logging.Int(logging.FieldPID, pid),
		logging.String("origin", origin),
		logging.String("command", command))
}
