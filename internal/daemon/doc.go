// Package daemon coordinates the long-running slotsync process.
//
// It owns the scheduler lifecycle and exposes the runtime status consumed
// over IPC. Orchestration only: slot assignment, delivery, and singleton
// enforcement live in their respective packages.
package daemon
