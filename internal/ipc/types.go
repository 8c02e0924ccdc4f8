package ipc

import "time"

// StatusRequest asks the daemon for its current state.
type StatusRequest struct{}

// SyncState describes the most recent dispatch to the receiver.
type SyncState struct {
	Trigger  string         `json:"trigger"`
	Time     time.Time      `json:"time"`
	Sessions int            `json:"sessions"`
	Mapping  map[string]int `json:"mapping,omitempty"`
}

// StatusResponse carries daemon runtime information back to the CLI.
type StatusResponse struct {
	Running     bool      `json:"running"`
	PID         int       `json:"pid"`
	InstanceID  string    `json:"instance_id"`
	StartedAt   time.Time `json:"started_at"`
	MarkerPath  string    `json:"marker_path"`
	SocketPath  string    `json:"socket_path"`
	ReceiverURL string    `json:"receiver_url"`
	LastSync    SyncState `json:"last_sync"`
}

// StopRequest asks the daemon to shut down.
type StopRequest struct{}

// StopResponse acknowledges a stop request.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// SyncRequest asks the daemon to rebuild and dispatch immediately.
type SyncRequest struct{}

// SyncResponse reports the outcome of a manual sync.
type SyncResponse struct {
	Sync SyncState `json:"sync"`
}
