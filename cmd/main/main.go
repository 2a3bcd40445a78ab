package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"apt/src/config"
	"apt/src/data_source/uex"
	"apt/src/detector"
	"apt/src/ingest"
	"apt/src/interfaces"
	"apt/src/logger"
	"apt/src/network"
	"apt/src/notify"
	"apt/src/query"
	"apt/src/server"
	"apt/src/storage"
	"apt/src/tasks"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file (plus .env / environment overrides)
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.LogLevel, config.Name)

	// 1. Market Data Store
	var store interfaces.IMarketStore

	switch config.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresStore(config.MConfig, appLogger)
	default:
		// Default to SQLite
		store, err = storage.NewSQLiteStore(config.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init store: %v", err)
	}
	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate store: %v", err)
	}
	defer store.Close()

	// 2. Remote Market Client
	var networkManager interfaces.INetworkManager = network.NewAsyncNetworkManager(config.MConfig, appLogger)
	var client interfaces.IMarketClient = uex.NewUEXClient(config.MConfig, networkManager)

	// 3. Query Service and API Server
	queryService := query.NewService(config.MConfig, store, client)
	srv := server.NewAPIServer(config.MConfig, appLogger, queryService)

	// 4. Alert sinks: websocket stream always, channel webhook when configured
	notifiers := []interfaces.IAlertNotifier{srv}
	if config.Alerts.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(config.MConfig, networkManager))
	} else {
		appLogger.Warning("No alert webhook configured; alerts go to websocket clients only")
	}

	// 5. Background tasks: the two loops run on independent intervals and
	// coordinate only through the store and the upstream API.
	runner := tasks.NewRunner(appLogger)
	if err := runner.Register(ingest.NewScheduler(config.MConfig, store, client)); err != nil {
		appLogger.Critical("Failed to register ingestion task: %v", err)
	}
	if err := runner.Register(detector.NewDetector(config.MConfig, client, notifiers)); err != nil {
		appLogger.Critical("Failed to register detector task: %v", err)
	}

	// 6. Start Server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 7. Start tasks and wait for shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runner.StartAll(ctx); err != nil {
		appLogger.Critical("Failed to start background tasks: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	runner.StopAll()
}
