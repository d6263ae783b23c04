// Package relayproducer translates transaction change notifications
// into webhook envelopes and publishes them to the relay topic.
package relayproducer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/pkg/retrypkg"
	"github.com/rs/zerolog"
)

// publishMaxElapsed bounds the retries of a single publish. On
// exhaustion the event is dropped and the loop moves on.
const publishMaxElapsed = time.Minute

// Publisher provides the queue capability needed by the producer.
//
//go:generate mockgen -source producer.go -destination producer_mock.go -package relayproducer
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Producer consumes raw notification payloads and publishes envelopes
// bound to the configured delivery target, preserving event order.
type Producer struct {
	events     <-chan string
	publisher  Publisher
	webhookURL string
}

// New returns a relay producer reading from events.
func New(events <-chan string, pub Publisher, webhookURL string) *Producer {
	return &Producer{
		events:     events,
		publisher:  pub,
		webhookURL: webhookURL,
	}
}

// Run processes events until ctx is done or the events channel closes.
// No single event may terminate the loop.
func (p *Producer) Run(ctx context.Context) {
	l := zerolog.Ctx(ctx)

	l.Info().Msg("relay producer started")

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-p.events:
			if !ok {
				return
			}

			p.handle(ctx, raw)
		}
	}
}

func (p *Producer) handle(ctx context.Context, raw string) {
	l := zerolog.Ctx(ctx)

	var payload domain.WebhookPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		l.Warn().Err(err).Str("payload", raw).Msg("dropping undecodable notification")
		return
	}

	envelope := domain.WebhookEnvelope{
		WebhookURL: p.webhookURL,
		Payload:    payload,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		l.Error().Err(err).Send()
		return
	}

	publish := func() error {
		return p.publisher.Publish(ctx, payload.TransactionID.String(), value)
	}

	if err := backoff.Retry(publish, retrypkg.Bounded(ctx, publishMaxElapsed)); err != nil {
		l.Error().Err(err).
			Str("transaction_id", payload.TransactionID.String()).
			Msg("giving up publishing envelope")
	}
}
