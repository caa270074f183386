package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/configs"
	"oms-books-sync/internal/delivery/kafka"
	"oms-books-sync/internal/service"
)

// Publishes a Books webhook payload file to the webhook topic, for exercising the consumer locally.
func main() {
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("error loading config: %s", err)
	}
	cfg.ConfigureLogger()
	if !cfg.KafkaEnabled() {
		logrus.Fatal("KAFKA_BROKERS is empty")
	}

	path := cfg.WebhookPayloadPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		logrus.Fatalf("open payload file: %s", err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		logrus.Fatalf("read payload file: %s", err)
	}
	payload, err := service.DecodeWebhookPayload(body)
	if err != nil {
		logrus.Fatalf("payload is not a webhook event: %s", err)
	}

	pub := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaWebhookTopic)
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			logrus.Errorf("publisher close: %v", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, nil, body); err != nil {
		logrus.Fatalf("publish failed: %s", err)
	}
	logrus.WithFields(logrus.Fields{
		"topic":     cfg.KafkaWebhookTopic,
		"resources": len(payload),
	}).Info("webhook payload published")
}
