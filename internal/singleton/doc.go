// Package singleton enforces single-instance execution for the daemon.
//
// The guard records the authoritative PID in a marker file, forcibly
// terminates any prior instance named by that marker, and sweeps the whole
// process table for instances that predate marker support. Every step except
// creating the marker directory is best effort: the goal is "no conflicting
// instance", guaranteed probabilistically, not strictly.
package singleton
