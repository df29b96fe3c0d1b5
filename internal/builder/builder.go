package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/medi-assistant/internal/api"
	adviceapi "github.com/futig/medi-assistant/internal/api/advice"
	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/integration/llm"
	"github.com/futig/medi-assistant/internal/integration/speech"
	"github.com/futig/medi-assistant/internal/integration/translate"
	"github.com/futig/medi-assistant/internal/pkg/formatter"
	"github.com/futig/medi-assistant/internal/pkg/validator"
	"github.com/futig/medi-assistant/internal/repository"
	"github.com/futig/medi-assistant/internal/telegram"
	"github.com/futig/medi-assistant/internal/usecase/advice"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core holds what both binaries share: the advice usecase and the resources
// it owns.
type core struct {
	usecase *advice.Usecase
	db      *pgxpool.Pool
}

func (c *core) close() {
	if c.db != nil {
		c.db.Close()
	}
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	c, err := buildCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	adviceHandler := adviceapi.NewHandler(c.usecase, formatter.NewFactory())
	logger.Info("API handlers initialized")

	router := api.SetupRouter(adviceHandler, api.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		DocsSpecPath:   cfg.DocsSpecPath,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     c.db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot. The returned
// cleanup releases the database pool, if any.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	c, err := buildCore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, c.usecase, logger)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, c.close, nil
}

func buildCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*core, error) {
	c := &core{}

	history, err := setupHistory(ctx, cfg, logger, c)
	if err != nil {
		return nil, err
	}

	audioStore, err := repository.NewAudioFileStore(cfg.AudioCfg.Dir)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("setup audio store: %w", err)
	}

	// Expired or deleted sessions take their audio file with them.
	sessions := repository.NewSessionCache(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval, func(sessionID string) {
		if err := audioStore.Remove(context.Background(), sessionID); err != nil {
			logger.Warn("failed to remove audio of expired session",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	})
	logger.Info("Repositories initialized")

	var (
		llmConnector       advice.LLMConnector
		translateConnector advice.TranslateConnector
		speechConnector    advice.SpeechConnector
	)

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector = llm.NewMockConnector(logger)
		translateConnector = translate.NewMockConnector(logger)
		speechConnector = speech.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services",
			zap.String("speech_provider", cfg.SpeechConnectorCfg.Provider),
			zap.Bool("model_key_set", cfg.HFAPIKey != ""),
		)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, cfg.HFAPIKey, logger)
		translateConnector = translate.NewConnector(cfg.TranslatorConnectorCfg, logger)

		switch cfg.SpeechConnectorCfg.Provider {
		case config.SpeechProviderHuggingFace:
			speechConnector = speech.NewHuggingFaceConnector(cfg.SpeechConnectorCfg, cfg.HFAPIKey, logger)
		default:
			speechConnector = speech.NewGoogleConnector(cfg.SpeechConnectorCfg, logger)
		}
	}

	adviceValidator := validator.NewValidator(cfg.SessionCfg)
	logger.Info("Validators initialized")

	c.usecase = advice.NewUsecase(
		sessions,
		audioStore,
		history,
		adviceValidator,
		llmConnector,
		translateConnector,
		speechConnector,
		advice.Options{SuggestionMaxTokens: cfg.LLMConnectorCfg.SuggestionMaxTokens},
		logger,
	)
	logger.Info("Use cases initialized")

	return c, nil
}

// setupHistory connects the advice history store. Without DATABASE_URL the
// history is disabled and nothing is persisted.
func setupHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger, c *core) (repository.HistoryRepository, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL is not set, advice history is disabled")
		return repository.NoopHistory{}, nil
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	c.db = db

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		c.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	return repository.NewHistoryPostgres(db), nil
}
