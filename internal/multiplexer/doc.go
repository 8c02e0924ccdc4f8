// Package multiplexer defines the interface to the terminal multiplexer, an
// external collaborator. The daemon consumes two things from it: a snapshot
// of the focused window's tab layout, and level-triggered wake signals for
// layout changes and session terminations. Adapters for concrete hosts live
// in subpackages.
package multiplexer
