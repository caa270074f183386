package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/auth"
	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/configs"
	httpdelivery "oms-books-sync/internal/delivery/http"
	"oms-books-sync/internal/delivery/kafka"
	"oms-books-sync/internal/remote"
	"oms-books-sync/internal/repository"
	"oms-books-sync/internal/repository/cache"
	"oms-books-sync/internal/repository/postgres"
	"oms-books-sync/internal/repository/redis"
	"oms-books-sync/internal/scheduler"
	"oms-books-sync/internal/service"
)

// @title oms-books-sync
// @version 1.0
// @description Keeps orders and stock in step between the order management system and Books. Polls open orders into postgres, pushes them to Books as sales orders, mirrors shipments back and applies Books stock events to OMS locations.

// @host localhost:8081
// @basePath /

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	cfg.ConfigureLogger()
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.ConnectDB(postgres.Config{DSN: cfg.PgDSN()})
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if derr := db.Close(); derr != nil {
			logrus.Errorf("db close: %v", derr)
		}
	}()
	if err := postgres.Migrate(db); err != nil {
		logrus.Fatalf("postgres migrate: %s", err)
	}
	logrus.Print("connected to postgres")

	tokens, closeTokens := tokenStore(cfg)
	defer closeTokens()

	repo := repository.NewRepository(db, tokens)

	hc := &http.Client{}
	retryPolicy := func(n int) remote.RetryPolicy {
		return remote.RetryPolicy{MaxRetries: n, InitialInterval: 500 * time.Millisecond, MaxInterval: 10 * time.Second}
	}

	omsLimiter := remote.NewLimiter(cfg.OMSRateLimitRPM, cfg.OMSRateLimitConc)
	omsAuth := oms.NewAuthorizer(
		remote.NewClient(remote.Config{BaseURL: cfg.OMSAuthURL, Timeout: cfg.OMSTimeout, Retry: retryPolicy(cfg.OMSMaxRetries)}, hc),
		oms.Credentials{
			ApplicationID:     cfg.OMSApplicationID,
			ApplicationSecret: cfg.OMSApplicationSecret,
			InstallToken:      cfg.OMSInstallToken,
		},
	)
	omsTokens := auth.NewTokenManager(repo.Tokens, omsAuth, auth.Options{
		Prefix:        "oms",
		RefreshBuffer: cfg.TokenRefreshBuffer,
		MinTTL:        cfg.TokenMinTTL,
	})
	omsClient := oms.NewClient(remote.NewClient(remote.Config{
		BaseURL: cfg.OMSAPIURL,
		Timeout: cfg.OMSTimeout,
		Retry:   retryPolicy(cfg.OMSMaxRetries),
		Limiter: omsLimiter,
	}, hc), omsTokens)

	booksLimiter := remote.NewLimiter(cfg.BooksRateLimitRPM, cfg.BooksRateLimitConc)
	booksAuth := books.NewAuthorizer(
		remote.NewClient(remote.Config{BaseURL: cfg.BooksTokenURL, Timeout: cfg.BooksTimeout, Retry: retryPolicy(cfg.BooksMaxRetries)}, hc),
		books.OAuthCredentials{
			ClientID:     cfg.BooksClientID,
			ClientSecret: cfg.BooksClientSecret,
			RefreshToken: cfg.BooksRefreshToken,
		},
	)
	booksTokens := auth.NewTokenManager(repo.Tokens, booksAuth, auth.Options{
		Prefix:        "books",
		RefreshBuffer: cfg.TokenRefreshBuffer,
		MinTTL:        cfg.TokenMinTTL,
	})
	booksClient := books.NewClient(remote.NewClient(remote.Config{
		BaseURL: cfg.BooksAPIURL,
		Timeout: cfg.BooksTimeout,
		Retry:   retryPolicy(cfg.BooksMaxRetries),
		Limiter: booksLimiter,
	}, hc), booksTokens, cfg.BooksOrganizationID, cfg.ItemDetailsBatchSize)

	var events service.EventPublisher = service.NopPublisher{}
	var eventPub *kafka.EventPublisher
	if cfg.KafkaEnabled() {
		p := kafka.NewEventPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaEventsTopic)
		eventPub = &p
		events = p
	}

	svc := service.NewService(service.Deps{
		Repo:        repo,
		OMS:         omsClient,
		Books:       booksClient,
		Events:      events,
		OMSTokens:   omsTokens,
		BooksTokens: booksTokens,
	}, service.Options{
		DefaultLocationID:   cfg.OMSLocationID,
		BatchSize:           cfg.BatchSize,
		SyncMaxRetries:      cfg.SyncMaxRetries,
		SyncOrderDelay:      cfg.SyncOrderDelay,
		SyncStepDelay:       cfg.SyncStepDelay,
		TargetWarehouses:    cfg.TargetWarehouses(),
		InventoryPageSize:   cfg.InventoryPageSize,
		InventoryPushBatch:  cfg.InventoryPushBatch,
		SalesOrderRefPrefix: cfg.SalesOrderRefPrefix,
	})

	var wg sync.WaitGroup

	var consumer *kafka.Consumer
	if cfg.KafkaEnabled() {
		consumer = kafka.NewConsumer(kafka.Config{
			Brokers:    cfg.KafkaBrokersSlice(),
			GroupID:    cfg.KafkaGroupID,
			Topic:      cfg.KafkaWebhookTopic,
			DLQ:        cfg.KafkaDLQTopic,
			MaxRetries: cfg.KafkaMaxRetries,
		}, svc)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Subscribe(ctx); err != nil {
				logrus.Errorf("consumer stopped: %v", err)
				cancel()
			}
		}()
		logrus.Print("kafka subscription started")
	} else {
		logrus.Print("kafka disabled, webhooks accepted over http only")
	}

	sched := scheduler.New(
		scheduler.Job{Name: "poll", Interval: cfg.PollInterval, Run: func(ctx context.Context) error {
			_, err := svc.RunPollCycle(ctx)
			return err
		}},
		scheduler.Job{Name: "sync", Interval: cfg.SyncInterval, Run: func(ctx context.Context) error {
			_, err := svc.RunSyncCycle(ctx)
			return err
		}},
		scheduler.Job{Name: "inventory", Interval: cfg.InventorySyncInterval, Run: func(ctx context.Context) error {
			_, err := svc.RunInventorySync(ctx)
			return err
		}},
	)
	sched.Start(ctx)
	logrus.Print("scheduler started")

	h := httpdelivery.NewHandler(svc)
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}

	cancel()
	sched.Wait()

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logrus.Errorf("consumer close: %s", err)
		}
	}
	wg.Wait()

	if eventPub != nil {
		if err := eventPub.Close(); err != nil {
			logrus.Errorf("event publisher close: %s", err)
		}
	}
	logrus.Print("service stopped")
}

// tokenStore picks redis when configured so every replica shares one token, else process memory.
func tokenStore(cfg configs.Config) (repository.TokenStore, func()) {
	if cfg.RedisAddr == "" {
		c := cache.NewCache()
		logrus.Print("token store: in-memory")
		return cache.NewTokenStore(c), c.Close
	}

	rs, err := redis.NewTokenStore(redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   "oms-books-sync:",
	})
	if err != nil {
		logrus.Fatalf("redis connect: %s", err)
	}
	logrus.Printf("token store: redis at %s", cfg.RedisAddr)
	return rs, func() {
		if err := rs.Close(); err != nil {
			logrus.Errorf("redis close: %v", err)
		}
	}
}
