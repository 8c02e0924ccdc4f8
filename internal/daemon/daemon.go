package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"slotsync/internal/config"
	"slotsync/internal/logging"
	"slotsync/internal/scheduler"
)

// Daemon wires the scheduler into a process lifecycle and answers IPC
// queries.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	scheduler *scheduler.Scheduler

	instanceID string
	startedAt  time.Time
	stop       context.CancelFunc

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool
	PID         int
	InstanceID  string
	StartedAt   time.Time
	MarkerPath  string
	ReceiverURL string
	LastSync    scheduler.Snapshot
}

// New constructs a daemon. The stop function ends the surrounding run
// context; IPC Stop uses it to shut the whole process down.
func New(cfg *config.Config, s *scheduler.Scheduler, logger *slog.Logger, stop context.CancelFunc) (*Daemon, error) {
	if cfg == nil || s == nil {
		return nil, errors.New("daemon requires config and scheduler")
	}
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		scheduler:  s,
		instanceID: uuid.NewString(),
		stop:       stop,
	}, nil
}

// Start launches the sync loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.scheduler.Start(ctx); err != nil {
		return err
	}
	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("slotsync daemon started",
		logging.Int(logging.FieldPID, os.Getpid()),
		logging.String("instance_id", d.instanceID),
		logging.String(logging.FieldEndpoint, d.cfg.Receiver.URL))
	return nil
}

// Stop ends the sync loops and asks the process to exit.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.running.Store(false)
	d.scheduler.Stop()
	d.logger.Info("slotsync daemon stopping")
	if d.stop != nil {
		d.stop()
	}
}

// SyncNow rebuilds and dispatches immediately.
func (d *Daemon) SyncNow(ctx context.Context) scheduler.Snapshot {
	return d.scheduler.SyncNow(ctx)
}

// InstanceID returns the per-run identifier carried in logs and status.
func (d *Daemon) InstanceID() string {
	return d.instanceID
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		InstanceID:  d.instanceID,
		StartedAt:   d.startedAt,
		MarkerPath:  d.cfg.MarkerPath(),
		ReceiverURL: d.cfg.Receiver.URL,
		LastSync:    d.scheduler.LastSync(),
	}
}
