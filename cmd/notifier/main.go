package main

import (
	"context"
	"log"
	"os"

	"github.com/example/herbal-backoffice/internal/config"
	"github.com/example/herbal-backoffice/internal/email"
	"github.com/example/herbal-backoffice/internal/infrastructure/kafka"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/notification"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"golang.org/x/sync/errgroup"
)

// consumerGroup is dedicated so every event reaches the notifier as well as
// the projector.
const consumerGroup = "backoffice-notifier"

func main() {
	cfg := config.Load()
	if !cfg.UseKafka() {
		log.Fatal("[Notifier] KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Herbal Back Office - Order Mailer")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Notifier] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Notifier] Group: %s", consumerGroup)
	log.Printf("[Notifier] SMTP: %s:%s", cfg.SMTPHost, cfg.SMTPPort)
	log.Printf("[Notifier] From: %s", cfg.SMTPFrom)

	// Customer contact details come from the read store
	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Notifier] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("[Notifier] Connected to PostgreSQL (Read DB)")

	readStore := store.NewPostgresReadStore(db)
	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc, readStore)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, consumerGroup)
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("[Notifier] Starting event consumer...")
		err := consumer.Consume(gctx, handler.HandleEvent)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"kafka-consumer": func(context.Context) error {
				log.Println("[Notifier] Shutting down...")
				cancel()
				return g.Wait()
			},
		},
	)

	exitCode := <-wait
	os.Exit(exitCode)
}
