// Package main runs the peerpay API server together with the relay
// producer feeding the webhook topic.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/peerpay/cmd/httpserver"
	"github.com/go-petr/peerpay/internal/middleware"
	"github.com/go-petr/peerpay/internal/relayproducer"
	"github.com/go-petr/peerpay/internal/txnotify"
	"github.com/go-petr/peerpay/pkg/configpkg"
	"github.com/go-petr/peerpay/pkg/dbpkg"
	"github.com/go-petr/peerpay/pkg/queuepkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	listener, err := txnotify.NewListener(config.DBSource, config.NotifyChannel, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot listen to transaction notifications")
	}

	publisher := queuepkg.NewPublisher(config.KafkaBrokerAddress, config.KafkaWebhookTopic, logger)
	producer := relayproducer.New(listener.Events(), publisher, config.WebhookTargetURL)

	ctx := logger.WithContext(context.Background())

	go listener.Run(ctx)
	go producer.Run(ctx)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("PEERPAY API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
