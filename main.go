package main

import (
	"time"

	"go.uber.org/zap"

	"fraudtrack/internal/alert"
	"fraudtrack/internal/audit"
	"fraudtrack/internal/config"
	"fraudtrack/internal/metrics"
	"fraudtrack/internal/ml_client"
	"fraudtrack/internal/repository"
	"fraudtrack/internal/scoring"
	"fraudtrack/internal/server"
	"fraudtrack/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db, logger)

	// Initialize classifier client and risk scorer
	mlClient := ml_client.NewClient(cfg.MLService.URL, time.Duration(cfg.MLService.TimeoutSeconds)*time.Second)
	scorer := scoring.NewScorer(mlClient)

	// Prediction audit log
	auditLog := audit.NewLog(cfg.Audit.LogPath)

	// Alert channels: webhook always (when configured), Telegram optionally
	alertTimeout := time.Duration(cfg.Alert.TimeoutSeconds) * time.Second
	var dispatchers []alert.Dispatcher
	if cfg.Alert.WebhookURL != "" {
		dispatchers = append(dispatchers, alert.NewWebhookDispatcher(cfg.Alert.WebhookURL, alertTimeout))
	} else {
		logger.Warn("No alert webhook configured, suspicious sessions will only be logged")
	}
	if cfg.Telegram.Enabled {
		notifier, err := alert.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		} else if notifier != nil {
			dispatchers = append(dispatchers, notifier)
		}
	}

	// Metrics
	m := metrics.NewMetrics()

	// Ingestion & decision service
	svc := service.NewIngestService(
		sessionRepo,
		scorer,
		auditLog,
		dispatchers,
		m,
		logger,
		cfg.Alert.CaseFileBaseURL,
		alertTimeout,
	)

	// Initialize and run the server
	srv := server.NewServer(svc, sessionRepo, m, cfg.Export.Dir, logger)
	srv.Run(cfg.Server.Port)
}
