package main

import (
	"context"
	"log"
	"os"

	"github.com/example/herbal-backoffice/internal/config"
	"github.com/example/herbal-backoffice/internal/infrastructure/kafka"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/projection"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	if !cfg.UseKafka() {
		log.Fatal("[Projector] KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[Projector] ========================================")
	log.Println("[Projector] Herbal Back Office - Read Model Projector")
	log.Println("[Projector] ========================================")
	log.Printf("[Projector] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Projector] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Projector] Group: %s", cfg.ConsumerGroup)

	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Projector] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("[Projector] Connected to PostgreSQL (Read DB)")

	readStore := store.NewPostgresReadStore(db)
	if err := readStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("[Projector] Failed to prepare read store: %v", err)
	}

	projector := projection.NewProjector(readStore)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ConsumerGroup)
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("[Projector] Starting event consumer...")
		err := consumer.Consume(gctx, projector.HandleEvent)
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
				log.Println("[Projector] Shutting down...")
				cancel()
				return g.Wait()
			},
		},
	)

	exitCode := <-wait
	os.Exit(exitCode)
}
