// Package tmux adapts a running tmux server to the multiplexer interfaces.
//
// The iTerm2-style model maps onto tmux as follows: the focused window is the
// tmux session the client is attached to, tabs are tmux windows in index
// order, and split-pane sessions are tmux panes. Layout enumeration shells
// out to list-panes; notifications come from a control-mode client whose
// asynchronous output lines are classified into layout and termination wakes.
package tmux
