package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"clinic/internal/notifier"
	"clinic/pkg/config"
	"clinic/pkg/kafka"
	kafka_config "clinic/pkg/kafka/config"
	kafka_middleware "clinic/pkg/kafka/middleware"

	"github.com/spf13/cobra"
)

const NotifierName = "clinic-notifier"

func notifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Consume booking events and notify patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifier()
		},
	}
}

func runNotifier() error {
	cfg := config.Load(NotifierName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Error("Invalid Kafka configuration", "error", err)
		return err
	}

	kafkaCfg.LogConfiguration(cfg.Log)

	n := notifier.New(notifier.LogSender{Log: cfg.Log}, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.Log, kafkaCfg.BookingEventsTopic, kafkaCfg.NotifierGroupID, kafkaCfg.BookingEventsDLQTopic, n.Handle)
	if err != nil {
		return err
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close consumer", "error", err)
		}
	}()

	metrics := &kafka_middleware.Metrics{}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier consuming booking events",
		"topic", kafkaCfg.BookingEventsTopic,
		"group_id", kafkaCfg.NotifierGroupID,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	cfg.Log.Info("Notifier stopped", "metrics", metrics.Snapshot())
	return nil
}
