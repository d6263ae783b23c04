// Package relayconsumer reads webhook envelopes from the relay topic
// and dispatches them to their targets.
package relayconsumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/pkg/retrypkg"
	"github.com/rs/zerolog"
)

// Subscriber provides the queue capability needed by the consumer.
//
//go:generate mockgen -source consumer.go -destination consumer_mock.go -package relayconsumer
type Subscriber interface {
	Receive(ctx context.Context) ([]byte, error)
}

// EnvelopeDispatcher delivers one envelope to its target.
type EnvelopeDispatcher interface {
	Dispatch(ctx context.Context, envelope domain.WebhookEnvelope) error
}

// Consumer runs the relay consumption loop for the life of the process.
//
// All transient queue failures, both on initial attach and in steady
// state, are retried under the single shared backoff policy; the loop
// terminates only when ctx is done.
type Consumer struct {
	subscriber Subscriber
	dispatcher EnvelopeDispatcher
}

// New returns a relay consumer.
func New(sub Subscriber, d EnvelopeDispatcher) *Consumer {
	return &Consumer{
		subscriber: sub,
		dispatcher: d,
	}
}

// Run consumes messages until ctx is done. Each decoded envelope is
// dispatched on its own goroutine so a slow target never blocks
// consumption of subsequent messages.
func (c *Consumer) Run(ctx context.Context) {
	l := zerolog.Ctx(ctx)

	l.Info().Msg("relay consumer started")

	b := retrypkg.Unbounded(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		value, err := c.subscriber.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			l.Error().Err(err).Msg("receive failed")

			wait := b.NextBackOff()
			if wait == backoff.Stop {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			continue
		}

		b.Reset()

		var envelope domain.WebhookEnvelope
		if err := json.Unmarshal(value, &envelope); err != nil {
			l.Warn().Err(err).Msg("dropping undecodable message")
			continue
		}

		go func() {
			if err := c.dispatcher.Dispatch(ctx, envelope); err != nil {
				l.Error().Err(err).
					Str("transaction_id", envelope.Payload.TransactionID.String()).
					Str("webhook_url", envelope.WebhookURL).
					Msg("webhook delivery failed")
			}
		}()
	}
}
