// Package logging builds the slog loggers used across slotsync.
//
// It offers a console handler for interactive use, a JSON handler for
// machine-readable logs, typed attribute helpers, and the shared field-name
// constants that keep log output greppable. Construct loggers through New or
// NewFromConfig so every component emits the same shape of output.
package logging
