// Package procprobe inspects the OS process table and terminates processes.
//
// The Probe interface answers "what command line does this PID run" and "what
// does the whole table look like", which the singleton guard uses to decide
// whether a PID is a prior daemon instance. The Terminator interface carries
// the forcible termination strength: SIGKILL, which no handler can intercept.
// Both have exec-backed defaults and are injectable for tests.
package procprobe
