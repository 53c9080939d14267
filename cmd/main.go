package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderbot/internal/config"
	"orderbot/internal/database"
	"orderbot/internal/logger"
	"orderbot/internal/messaging"
	"orderbot/internal/services/fulfillment"
	"orderbot/internal/services/orderbot"
	"orderbot/internal/services/receipts"
	"orderbot/internal/services/tracking"
	"orderbot/internal/session"
	"orderbot/internal/session/inmem"
	"orderbot/internal/session/postgres"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (chat, fulfillment-worker, tracking-service, receipts-subscriber)")
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
		port       = flag.Int("port", 3000, "HTTP port (tracking-service mode)")
		sessionKey = flag.String("session", "", "Resume an existing session (chat mode)")
		storeKind  = flag.String("store", "", "Session store: memory or postgres (overrides config)")
		noPublish  = flag.Bool("no-publish", false, "Disable order publishing to RabbitMQ (chat mode)")
		workerName = flag.String("worker-name", "", "Worker name (required for fulfillment-worker mode)")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count (fulfillment-worker mode)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *storeKind != "" {
		cfg.Bot.Store = *storeKind
	}
	if *noPublish {
		cfg.Bot.PublishOrders = false
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "chat":
		if err := runChat(ctx, cfg, log, *sessionKey); err != nil {
			log.Error("service_failed", "Chat failed", requestID, err, nil)
			os.Exit(1)
		}
	case "fulfillment-worker":
		if *workerName == "" {
			log.Error("validation_failed", "worker-name is required for fulfillment-worker mode", requestID, nil, nil)
			os.Exit(1)
		}
		if err := runFulfillmentWorker(ctx, cfg, log, *workerName, *prefetch); err != nil {
			log.Error("service_failed", "Fulfillment worker failed", requestID, err, nil)
			os.Exit(1)
		}
	case "tracking-service":
		if err := runTrackingService(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", "Tracking service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "receipts-subscriber":
		if err := runReceiptsSubscriber(ctx, cfg, log); err != nil {
			log.Error("service_failed", "Receipts subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runChat runs the interactive order conversation on the terminal.
func runChat(ctx context.Context, cfg *config.Config, log *logger.Logger, resumeKey string) error {
	store, cleanup, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var publisher *messaging.Publisher
	if cfg.Bot.PublishOrders {
		conn, err := messaging.New(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()
		publisher = messaging.NewPublisher(conn, log)
	}

	engine := orderbot.NewEngine(store, orderbot.NewRegistry(), publisher, log)
	repl := orderbot.NewREPL(engine, os.Stdin, os.Stdout)
	return repl.Run(ctx, resumeKey)
}

// openSessionStore builds the configured session store. The returned
// cleanup closes whatever the store opened.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, func(), error) {
	switch cfg.Bot.Store {
	case "", "memory":
		return inmem.New(), func() {}, nil
	case "postgres":
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx, "migrations"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return postgres.New(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Bot.Store)
	}
}

// runFulfillmentWorker archives placed orders from the fulfillment queue.
func runFulfillmentWorker(ctx context.Context, cfg *config.Config, log *logger.Logger, workerName string, prefetch int) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.FulfillmentQueue, workerName, prefetch)
	publisher := messaging.NewPublisher(conn, log)

	worker := fulfillment.NewWorker(workerName, prefetch, db, consumer, publisher, log)
	return worker.Start(ctx)
}

// runTrackingService serves the read-only HTTP API over sessions and
// archived orders.
func runTrackingService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	service := tracking.NewService(db, postgres.New(db), log)
	handler := tracking.NewHandler(service, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Tracking service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runReceiptsSubscriber prints receipts as the fulfillment worker fans
// them out.
func runReceiptsSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.ReceiptsQueue, "receipts-subscriber", 1)
	subscriber := receipts.NewSubscriber(consumer, log)
	return subscriber.Start(ctx)
}
