package procprobe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Record describes one process table entry.
type Record struct {
	PID     int
	Command string
}

// Probe queries the OS process table.
type Probe interface {
	// CommandLine returns the full command line for one PID.
	CommandLine(ctx context.Context, pid int) (string, error)
	// Snapshot returns the full process table.
	Snapshot(ctx context.Context) ([]Record, error)
}

// ErrNotFound indicates the PID has no process table entry.
var ErrNotFound = errors.New("process not found")

type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execCommandRunner struct{}

func (execCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.Output()
}

// PSProbe reads the process table by shelling out to ps. The -axo form works
// on both Linux procps and the BSD ps shipped with macOS.
type PSProbe struct {
	runner  commandRunner
	timeout time.Duration
}

// NewPSProbe builds a probe backed by the ps binary.
func NewPSProbe() *PSProbe {
	return &PSProbe{runner: execCommandRunner{}, timeout: 5 * time.Second}
}

func (p *PSProbe) CommandLine(ctx context.Context, pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.runner.Output(runCtx, "ps", "-o", "command=", "-p", strconv.Itoa(pid))
	if err != nil {
		// ps exits non-zero when the PID does not exist.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("query pid %d: %w", pid, err)
	}
	command := strings.TrimSpace(string(out))
	if command == "" {
		return "", ErrNotFound
	}
	return command, nil
}

func (p *PSProbe) Snapshot(ctx context.Context) ([]Record, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.runner.Output(runCtx, "ps", "-axo", "pid=,command=")
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return parseTable(string(out)), nil
}

// parseTable extracts PID and command pairs from ps output, skipping lines
// that do not start with a numeric PID.
func parseTable(out string) []Record {
	lines := strings.Split(out, "\n")
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
		if len(fields) != 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil || pid <= 0 {
			continue
		}
		command := strings.TrimSpace(fields[1])
		if command == "" {
			continue
		}
		records = append(records, Record{PID: pid, Command: command})
	}
	return records
}
