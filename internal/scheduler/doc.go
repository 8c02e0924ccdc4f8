// Package scheduler drives the sync loop: every trigger rebuilds the full
// session-to-slot mapping and hands it to the dispatcher.
//
// Three concurrent triggers feed the loop. Layout changes rebuild
// immediately; session terminations rebuild after a short grace delay so the
// host finishes dropping the dead session from its own model first; a
// heartbeat rebuilds unconditionally so a late-starting receiver converges
// within one period. The loops share no mutable state: each computes an
// independent complete snapshot, so a slow send in one never delays another.
package scheduler
