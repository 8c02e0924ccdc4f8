// Package mapping defines the session-to-slot data model and builds mapping
// snapshots from the current window layout.
package mapping
