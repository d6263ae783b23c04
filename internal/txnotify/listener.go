// Package txnotify subscribes to the database change notifications
// emitted once per committed transaction insertion.
package txnotify

import (
	"context"

	"github.com/go-petr/peerpay/pkg/retrypkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Listener maintains a long-lived LISTEN subscription on one channel.
//
// Reconnection after a transient loss of the subscription is handled by
// pq.Listener itself, using the shared retry policy intervals. There is
// no durable checkpoint: notifications emitted while disconnected are
// lost (at-most-once consumption).
type Listener struct {
	pql    *pq.Listener
	events chan string
	logger zerolog.Logger
}

// NewListener connects to the database and starts listening on channel.
func NewListener(dbSource, channel string, logger zerolog.Logger) (*Listener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Error().Err(err).Int("listener_event", int(ev)).Msg("notify listener problem")
		}
	}

	pql := pq.NewListener(dbSource, retrypkg.InitialInterval, retrypkg.MaxInterval, reportProblem)

	if err := pql.Listen(channel); err != nil {
		return nil, err
	}

	return &Listener{
		pql:    pql,
		events: make(chan string),
		logger: logger,
	}, nil
}

// Events returns the stream of raw notification payloads.
func (l *Listener) Events() <-chan string {
	return l.events
}

// Run forwards notifications to the events channel until ctx is done.
// A nil notification marks a re-established connection and is skipped.
func (l *Listener) Run(ctx context.Context) {
	defer close(l.events)

	for {
		select {
		case <-ctx.Done():
			if err := l.pql.Close(); err != nil {
				l.logger.Error().Err(err).Send()
			}

			return
		case n := <-l.pql.Notify:
			if n == nil {
				l.logger.Warn().Msg("notify connection re-established, notifications may have been missed")
				continue
			}

			select {
			case l.events <- n.Extra:
			case <-ctx.Done():
			}
		}
	}
}
