// Package daemonrun assembles the slotsync daemon process: singleton
// acquisition, multiplexer wiring, scheduler startup, and the IPC server.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"slotsync/internal/config"
	"slotsync/internal/daemon"
	"slotsync/internal/dispatch"
	"slotsync/internal/ipc"
	"slotsync/internal/logging"
	"slotsync/internal/multiplexer/tmux"
	"slotsync/internal/procprobe"
	"slotsync/internal/scheduler"
	"slotsync/internal/singleton"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel  string
	Autostart bool
}

// Run starts the slotsync daemon and blocks until the process is asked to
// exit, either by signal or by an IPC stop request.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	sig := procprobe.Signature{
		Executable:    cfg.Process.Executable,
		AutostartMark: cfg.Process.AutostartMark,
	}
	guard := singleton.New(cfg.MarkerPath(), sig, procprobe.NewPSProbe(), procprobe.SIGKILLTerminator{}, logger)
	if err := guard.Acquire(signalCtx); err != nil {
		return fmt.Errorf("acquire singleton: %w", err)
	}
	defer guard.Release()

	logger.Info("slotsync starting",
		logging.Int(logging.FieldPID, os.Getpid()),
		logging.Bool("autostart", opts.Autostart),
		logging.Bool("tmux_available", binaryAvailable("tmux")),
		logging.String(logging.FieldEndpoint, cfg.Receiver.URL))

	enumerator := tmux.NewEnumerator(cfg.EnumerationTimeout())
	monitor := tmux.NewMonitor(logger)
	if err := monitor.Start(signalCtx); err != nil {
		// No multiplexer server yet: stay up and let the heartbeat keep the
		// receiver converged until one appears.
		logger.Warn("event monitor unavailable",
			logging.Error(err),
			logging.String(logging.FieldEventType, "event_monitor_unavailable"))
	}

	dispatcher := dispatch.NewHTTPDispatcher(cfg.Receiver.URL, cfg.ReceiverTimeout(), logger)
	sched := scheduler.New(enumerator, dispatcher, monitor, scheduler.Options{
		MaxSlots:         cfg.Sync.MaxSlots,
		Heartbeat:        cfg.Heartbeat(),
		TerminationGrace: cfg.TerminationGrace(),
	}, logger)

	d, err := daemon.New(cfg, sched, logger, cancel)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	defer d.Stop()

	<-signalCtx.Done()
	logger.Info("slotsync daemon shutting down")
	return nil
}

func binaryAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
