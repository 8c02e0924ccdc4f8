package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"slotsync/internal/logging"
	"slotsync/internal/mapping"
	"slotsync/internal/multiplexer"
	"slotsync/internal/scheduler"
)

type fakeEnumerator struct {
	mu     sync.Mutex
	window *mapping.Window
}

func (f *fakeEnumerator) CurrentWindow(context.Context) (*mapping.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window, nil
}

func (f *fakeEnumerator) set(window *mapping.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.window = window
}

type recordingDispatcher struct {
	mu    sync.Mutex
	sends []mapping.Mapping
}

func (r *recordingDispatcher) Send(_ context.Context, m mapping.Mapping) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, m)
}

func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sends)
}

func (r *recordingDispatcher) lastSend() mapping.Mapping {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sends) == 0 {
		return nil
	}
	return r.sends[len(r.sends)-1]
}

type fakeEvents struct {
	layout     multiplexer.Signal
	terminated multiplexer.Signal
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		layout:     multiplexer.NewSignal(),
		terminated: multiplexer.NewSignal(),
	}
}

func (f *fakeEvents) LayoutChanged() <-chan struct{}     { return f.layout }
func (f *fakeEvents) SessionTerminated() <-chan struct{} { return f.terminated }

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func singleTabWindow(sessions ...mapping.SessionID) *mapping.Window {
	return &mapping.Window{Tabs: []mapping.Tab{{Sessions: sessions}}}
}

func TestStartSendsInitialSnapshotImmediately(t *testing.T) {
	enum := &fakeEnumerator{window: singleTabWindow("a")}
	dispatcher := &recordingDispatcher{}
	s := scheduler.New(enum, dispatcher, newFakeEvents(), scheduler.Options{
		Heartbeat: time.Hour,
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if dispatcher.count() != 1 {
		t.Fatalf("expected exactly one startup send, got %d", dispatcher.count())
	}
	if got := dispatcher.lastSend(); got["a"] != 1 {
		t.Fatalf("unexpected startup snapshot %v", got)
	}
	if s.LastSync().Trigger != scheduler.TriggerStartup {
		t.Fatalf("unexpected last trigger %q", s.LastSync().Trigger)
	}
}

func TestLayoutWakeRebuildsAndSends(t *testing.T) {
	enum := &fakeEnumerator{window: singleTabWindow("a")}
	dispatcher := &recordingDispatcher{}
	events := newFakeEvents()
	s := scheduler.New(enum, dispatcher, events, scheduler.Options{
		Heartbeat: time.Hour,
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	enum.set(&mapping.Window{Tabs: []mapping.Tab{
		{Sessions: []mapping.SessionID{"b"}},
		{Sessions: []mapping.SessionID{"a"}},
	}})
	events.layout.Raise()

	waitFor(t, time.Second, func() bool { return dispatcher.count() >= 2 })
	got := dispatcher.lastSend()
	if got["b"] != 1 || got["a"] != 2 {
		t.Fatalf("unexpected snapshot after layout wake %v", got)
	}
}

func TestHeartbeatResendsUnconditionally(t *testing.T) {
	const heartbeat = 30 * time.Millisecond

	enum := &fakeEnumerator{window: singleTabWindow("a")}
	dispatcher := &recordingDispatcher{}
	s := scheduler.New(enum, dispatcher, newFakeEvents(), scheduler.Options{
		Heartbeat: heartbeat,
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	started := time.Now()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Initial send plus at least three heartbeats, with no events firing.
	waitFor(t, time.Second, func() bool { return dispatcher.count() >= 4 })
	s.Stop()
	elapsed := time.Since(started)

	// One tick per period: the initial send plus at most one heartbeat per
	// elapsed period, with one period of slack for a tick in flight at Stop.
	periods := int(elapsed / heartbeat)
	if got, max := dispatcher.count(), periods+2; got > max {
		t.Fatalf("%d sends in %v exceeds one per %v period (max %d)", got, elapsed, heartbeat, max)
	}

	if send := dispatcher.lastSend(); send["a"] != 1 {
		t.Fatalf("heartbeat must carry the full current mapping, got %v", send)
	}
	if s.LastSync().Trigger != scheduler.TriggerHeartbeat {
		t.Fatalf("unexpected last trigger %q", s.LastSync().Trigger)
	}
}

func TestTerminationGraceElapsesBeforeRebuild(t *testing.T) {
	// The enumerator keeps reporting the dead session for a short while
	// after the notification, imitating the host's delayed model update.
	enum := &fakeEnumerator{window: singleTabWindow("dying", "alive")}
	dispatcher := &recordingDispatcher{}
	events := newFakeEvents()
	s := scheduler.New(enum, dispatcher, events, scheduler.Options{
		Heartbeat:        time.Hour,
		TerminationGrace: 80 * time.Millisecond,
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	events.terminated.Raise()
	time.AfterFunc(30*time.Millisecond, func() {
		enum.set(singleTabWindow("alive"))
	})

	waitFor(t, time.Second, func() bool { return dispatcher.count() >= 2 })
	got := dispatcher.lastSend()
	if _, ok := got["dying"]; ok {
		t.Fatalf("terminated session still present after grace delay: %v", got)
	}
	if got["alive"] != 1 {
		t.Fatalf("unexpected snapshot %v", got)
	}
}

func TestSyncNowDispatchesManualSnapshot(t *testing.T) {
	enum := &fakeEnumerator{window: singleTabWindow("a")}
	dispatcher := &recordingDispatcher{}
	s := scheduler.New(enum, dispatcher, nil, scheduler.Options{Heartbeat: time.Hour}, logging.NewNop())

	snap := s.SyncNow(context.Background())
	if snap.Trigger != scheduler.TriggerManual {
		t.Fatalf("unexpected trigger %q", snap.Trigger)
	}
	if snap.Sessions != 1 {
		t.Fatalf("unexpected session count %d", snap.Sessions)
	}
	if dispatcher.count() != 1 {
		t.Fatalf("expected one send, got %d", dispatcher.count())
	}
}

func TestStartTwiceFails(t *testing.T) {
	enum := &fakeEnumerator{}
	s := scheduler.New(enum, &recordingDispatcher{}, newFakeEvents(), scheduler.Options{Heartbeat: time.Hour}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()
	if err := s.Start(ctx); err == nil {
		t.Fatal("second Start must fail")
	}
}
