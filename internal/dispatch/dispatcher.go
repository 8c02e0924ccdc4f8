package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"slotsync/internal/logging"
	"slotsync/internal/mapping"
)

const userAgent = "slotsync/0.1.0"

// Dispatcher sends a mapping snapshot to the receiver. Send never surfaces an
// error: delivery failures are part of normal operation.
type Dispatcher interface {
	Send(ctx context.Context, m mapping.Mapping)
}

// HTTPDispatcher posts JSON snapshots to a fixed local endpoint.
type HTTPDispatcher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPDispatcher builds a dispatcher for the given endpoint with a bounded
// request timeout.
func NewHTTPDispatcher(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPDispatcher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPDispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Send posts the mapping as a JSON object of session id to slot. Connection
// refusal, timeouts, and non-2xx responses are all logged at debug and
// dropped.
func (d *HTTPDispatcher) Send(ctx context.Context, m mapping.Mapping) {
	if err := d.post(ctx, m); err != nil {
		d.logger.Debug("snapshot delivery dropped",
			logging.String(logging.FieldEndpoint, d.endpoint),
			logging.Int(logging.FieldSlotCount, len(m)),
			logging.Error(err))
		return
	}
	d.logger.Debug("snapshot delivered",
		logging.String(logging.FieldEndpoint, d.endpoint),
		logging.Int(logging.FieldSlotCount, len(m)))
}

func (d *HTTPDispatcher) post(ctx context.Context, m mapping.Mapping) error {
	if m == nil {
		m = mapping.Mapping{}
	}
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build receiver request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post mapping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("receiver returned %d", resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
