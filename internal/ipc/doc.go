// Package ipc implements control-plane communication between the slotsync
// CLI and the running daemon.
//
// The daemon listens on a Unix domain socket and serves JSON-RPC. Clients
// use the same package to query status, trigger an immediate sync, or ask
// the daemon to shut down.
package ipc
