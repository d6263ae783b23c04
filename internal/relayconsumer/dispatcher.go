package relayconsumer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-petr/peerpay/internal/domain"
)

const dispatchTimeout = 10 * time.Second

// Dispatcher delivers webhook envelopes over HTTP.
//
// Delivery is at-most-once: a failed call is reported to the caller for
// logging but never retried and never dead-lettered.
type Dispatcher struct {
	client *http.Client
}

// NewDispatcher returns a dispatcher using the given shared client.
func NewDispatcher(client *http.Client) *Dispatcher {
	return &Dispatcher{
		client: client,
	}
}

// Dispatch POSTs the envelope payload to its target URL. Each call is
// bounded by its own timeout independent of the consumer loop.
func (d *Dispatcher) Dispatch(ctx context.Context, envelope domain.WebhookEnvelope) error {
	callCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	body, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, envelope.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook target returned status %d", resp.StatusCode)
	}

	return nil
}
