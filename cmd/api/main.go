package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/example/herbal-backoffice/internal/api"
	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/config"
	"github.com/example/herbal-backoffice/internal/email"
	"github.com/example/herbal-backoffice/internal/idempotency"
	"github.com/example/herbal-backoffice/internal/infrastructure/kafka"
	"github.com/example/herbal-backoffice/internal/infrastructure/redisx"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/notification"
	"github.com/example/herbal-backoffice/internal/projection"
	"github.com/example/herbal-backoffice/internal/query"
	"github.com/example/herbal-backoffice/internal/seed"
	"github.com/example/herbal-backoffice/internal/session"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[API] ========================================")
	log.Println("[API] Herbal Back Office")
	log.Println("[API] ========================================")
	log.Printf("[API] Event store: %s", cfg.EventStore)
	if cfg.UseKafka() {
		log.Printf("[API] Kafka: %v (topic %s)", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Println("[API] Projection: inline")
	}

	// Postgres backs both the events and the read models
	var db *sql.DB
	if cfg.EventStore == config.EventStorePostgres {
		var err error
		db, err = store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		log.Println("[API] Connected to PostgreSQL")
	}

	var readStore store.ReadStoreInterface = store.NewReadStore()
	if db != nil {
		pgReadStore := store.NewPostgresReadStore(db)
		if err := pgReadStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("[API] Failed to prepare read store: %v", err)
		}
		readStore = pgReadStore
	}
	projector := projection.NewProjector(readStore)

	mailer := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	notifier := notification.NewHandler(mailer, readStore)

	var publisher store.Publisher
	var consumer *kafka.Consumer
	if cfg.UseKafka() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer

		// The standalone projector owns the Postgres read store; an in-memory
		// read store is kept current by this process.
		if db == nil {
			consumer = kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ConsumerGroup+"-api")
			defer consumer.Close()
		}
	} else {
		inline := projection.NewInlinePublisher(projector)
		inline.OnEvent(func(_ context.Context, event store.Event) {
			go func() {
				if err := notifier.Handle(context.Background(), event); err != nil {
					log.Printf("[API] Notification failed for event %s: %v", event.ID, err)
				}
			}()
		})
		publisher = inline
	}

	eventStore := openEventStore(ctx, cfg, db, publisher)

	if !cfg.UseKafka() || db == nil {
		if _, err := projection.Rebuild(ctx, eventStore, readStore); err != nil {
			log.Fatalf("[API] Failed to rebuild read models: %v", err)
		}
	}

	cmdHandler := command.NewHandler(command.NewServices(eventStore), readStore)
	queryHandler := query.NewHandler(readStore)

	if cfg.SeedDemo && len(eventStore.GetAllEvents()) == 0 {
		fixture, err := seed.Demo()
		if err != nil {
			log.Fatalf("[API] Failed to parse demo data: %v", err)
		}
		if err := seed.Apply(ctx, cmdHandler, fixture); err != nil {
			log.Fatalf("[API] Failed to seed demo data: %v", err)
		}
	}

	if _, created, err := cmdHandler.BootstrapAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("[API] Failed to bootstrap admin: %v", err)
	} else if created {
		log.Printf("[API] Admin account %s is ready", cfg.AdminEmail)
	}

	sessions, idem := openSessionStores(ctx, cfg)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	router := api.NewRouter(api.RouterConfig{
		Handlers:     api.NewHandlers(cmdHandler, queryHandler, idem),
		AuthHandlers: api.NewAuthHandlers(cmdHandler, jwtService, sessions),
		JWTService:   jwtService,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if consumer != nil {
		g.Go(func() error {
			log.Println("[API] Starting Kafka consumer (async projection)...")
			err := consumer.Consume(gctx, projector.HandleEvent)
			if gctx.Err() != nil {
				return nil
			}
			return err
		})
	}
	go func() {
		if err := g.Wait(); err != nil {
			log.Fatalf("[API] %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("[API] Shutting down...")
				return server.Shutdown(ctx)
			},
			"kafka-consumer": func(context.Context) error {
				cancel()
				return nil
			},
		},
	)

	exitCode := <-wait
	log.Printf("[API] Exited with code %d", exitCode)
	os.Exit(exitCode)
}

func openEventStore(ctx context.Context, cfg config.Config, db *sql.DB, publisher store.Publisher) store.EventStoreInterface {
	switch cfg.EventStore {
	case config.EventStorePostgres:
		es := store.NewPostgresEventStore(db, publisher)
		if err := es.EnsureSchema(ctx); err != nil {
			log.Fatalf("[API] Failed to prepare event store: %v", err)
		}
		return es
	case config.EventStoreDynamoDB:
		client, err := store.NewDynamoClient(ctx, cfg.DynamoRegion, cfg.DynamoURL)
		if err != nil {
			log.Fatalf("[API] Failed to create DynamoDB client: %v", err)
		}
		log.Printf("[API] DynamoDB tables: %s, %s", cfg.DynamoTable, cfg.SnapshotTable)
		return store.NewDynamoEventStore(client, cfg.DynamoTable, cfg.SnapshotTable, publisher)
	default:
		return store.NewEventStore(publisher)
	}
}

// openSessionStores uses Redis when REDIS_ADDR is set, process memory otherwise
func openSessionStores(ctx context.Context, cfg config.Config) (session.Store, idempotency.Store) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), idempotency.NewMemoryStore()
	}

	rdb := redisx.New(cfg.RedisAddr)
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	log.Printf("[API] Sessions and idempotency keys in Redis at %s", cfg.RedisAddr)
	return redisx.NewSessionStore(rdb), redisx.NewIdempotencyStore(rdb)
}
