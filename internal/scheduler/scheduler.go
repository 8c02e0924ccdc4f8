package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"slotsync/internal/dispatch"
	"slotsync/internal/logging"
	"slotsync/internal/mapping"
	"slotsync/internal/multiplexer"
)

// Trigger names the event that caused a sync.
type Trigger string

const (
	TriggerStartup     Trigger = "startup"
	TriggerLayout      Trigger = "layout"
	TriggerTermination Trigger = "termination"
	TriggerHeartbeat   Trigger = "heartbeat"
	TriggerManual      Trigger = "manual"
)

// Options bundles scheduler timing configuration.
type Options struct {
	MaxSlots         int
	Heartbeat        time.Duration
	TerminationGrace time.Duration
}

// Snapshot describes the most recent sync, for status reporting only.
type Snapshot struct {
	Trigger  Trigger
	Time     time.Time
	Sessions int
	Mapping  mapping.Mapping
}

// Scheduler owns the three trigger loops.
type Scheduler struct {
	enumerator multiplexer.Enumerator
	dispatcher dispatch.Dispatcher
	events     multiplexer.Events
	opts       Options
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lastMu sync.Mutex
	last   Snapshot
}

// New builds a scheduler. Events may be nil, in which case only the
// heartbeat drives rebuilds.
func New(enumerator multiplexer.Enumerator, dispatcher dispatch.Dispatcher, events multiplexer.Events, opts Options, logger *slog.Logger) *Scheduler {
	if opts.MaxSlots <= 0 {
		opts.MaxSlots = 8
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 30 * time.Second
	}
	if opts.TerminationGrace <= 0 {
		opts.TerminationGrace = 100 * time.Millisecond
	}
	return &Scheduler{
		enumerator: enumerator,
		dispatcher: dispatcher,
		events:     events,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "scheduler"),
	}
}

// Start performs the initial sync, then launches the trigger loops. The
// loops run until the context is canceled; there is no other terminal state.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.ctx = runCtx
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.syncOnce(runCtx, TriggerStartup)

	s.wg.Add(3)
	go s.layoutLoop(runCtx)
	go s.terminationLoop(runCtx)
	go s.heartbeatLoop(runCtx)

	s.logger.Info("sync loops started",
		logging.Duration("heartbeat", s.opts.Heartbeat),
		logging.Duration("termination_grace", s.opts.TerminationGrace),
		logging.Int("max_slots", s.opts.MaxSlots))
	return nil
}

// Stop cancels the loops and waits for them to exit. Used by tests and the
// IPC stop path; a superseded daemon is simply killed instead.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()
	s.wg.Wait()
}

// SyncNow rebuilds and dispatches immediately, outside the loops.
func (s *Scheduler) SyncNow(ctx context.Context) Snapshot {
	s.syncOnce(ctx, TriggerManual)
	return s.LastSync()
}

// LastSync returns the most recent sync snapshot.
func (s *Scheduler) LastSync() Snapshot {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.last
}

func (s *Scheduler) layoutLoop(ctx context.Context) {
	defer s.wg.Done()
	if s.events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.events.LayoutChanged():
			s.syncOnce(ctx, TriggerLayout)
		}
	}
}

func (s *Scheduler) terminationLoop(ctx context.Context) {
	defer s.wg.Done()
	if s.events == nil {
		return
	}
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.events.SessionTerminated():
			// Let the host finish removing the dead session from its
			// window model before rebuilding.
			timer.Reset(s.opts.TerminationGrace)
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			s.syncOnce(ctx, TriggerTermination)
		}
	}
}

func (s *Scheduler) heartbeatLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx, TriggerHeartbeat)
		}
	}
}

// syncOnce computes a complete fresh snapshot and dispatches it. Enumeration
// failure degrades to an empty mapping; a lost delivery is corrected by the
// next trigger.
func (s *Scheduler) syncOnce(ctx context.Context, trigger Trigger) {
	window, err := s.enumerator.CurrentWindow(ctx)
	if err != nil {
		s.logger.Debug("window enumeration failed",
			logging.String(logging.FieldTrigger, string(trigger)),
			logging.Error(err))
		window = nil
	}

	m := mapping.Build(window, s.opts.MaxSlots)
	s.dispatcher.Send(ctx, m)

	s.lastMu.Lock()
	s.last = Snapshot{
		Trigger:  trigger,
		Time:     time.Now(),
		Sessions: len(m),
		Mapping:  m,
	}
	s.lastMu.Unlock()
}
