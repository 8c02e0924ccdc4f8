// Package dispatch delivers mapping snapshots to the local HTTP receiver.
//
// Delivery is level triggered and best effort: every failure is swallowed,
// because the next layout change, termination, or heartbeat resends a fresh
// authoritative snapshot. Nothing is queued or retried, and the receiver may
// be absent indefinitely.
package dispatch
