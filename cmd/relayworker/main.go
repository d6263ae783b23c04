// Package main runs the relay worker: it consumes webhook envelopes
// from the relay topic and dispatches them to their targets.
package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/peerpay/internal/middleware"
	"github.com/go-petr/peerpay/internal/relayconsumer"
	"github.com/go-petr/peerpay/pkg/configpkg"
	"github.com/go-petr/peerpay/pkg/queuepkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	subscriber := queuepkg.NewSubscriber(
		config.KafkaBrokerAddress,
		config.KafkaConsumerGroup,
		config.KafkaWebhookTopic,
		logger,
	)

	dispatcher := relayconsumer.NewDispatcher(&http.Client{})
	consumer := relayconsumer.New(subscriber, dispatcher)

	ctx := logger.WithContext(context.Background())

	logger.Info().Msg("RELAY WORKER HAS STARTED")

	consumer.Run(ctx)
}
