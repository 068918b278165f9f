// Package main - точка входа для REST API сервера Study Hub.
//
// Сервер обслуживает панель студента-медика:
// - Прогрессия: опыт, уровни, юбилейные медали
// - Предметы и журнал повторений с оценкой запоминания
// - Расписание дня и будильники
// - Лента уведомлений
// - AI-наставник (вопросы и квизы)
//
// Философия: "Дисциплина превыше мотивации" - сервер фиксирует каждое
// действие студента и превращает рутину обучения в измеримый прогресс.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shyrus-os/study-hub/config"
	"github.com/shyrus-os/study-hub/internal/application/command"
	"github.com/shyrus-os/study-hub/internal/application/eventhandler"
	"github.com/shyrus-os/study-hub/internal/application/query"
	"github.com/shyrus-os/study-hub/internal/infrastructure/external/mentor"
	"github.com/shyrus-os/study-hub/internal/infrastructure/messaging"
	"github.com/shyrus-os/study-hub/internal/infrastructure/persistence/postgres"
	"github.com/shyrus-os/study-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/shyrus-os/study-hub/internal/interface/http"
	"github.com/shyrus-os/study-hub/internal/interface/http/handlers"
	"github.com/shyrus-os/study-hub/pkg/clock"
	"github.com/shyrus-os/study-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Study Hub API server",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// Проверяем соединение
	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var progressCache *redis.ProgressCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
		} else {
			defer redisCache.Close()
			progressCache = redis.NewProgressCache(redisCache, cfg.Redis.ProfileCacheTTL, cfg.Redis.RetentionCacheTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	profileRepo := postgres.NewProfileRepository(dbConn)
	subjectRepo := postgres.NewSubjectRepository(dbConn)
	entryRepo := postgres.NewScheduleEntryRepository(dbConn)
	reminderRepo := postgres.NewReminderRepository(dbConn)
	notifRepo := postgres.NewNotificationRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// Подписчики: вехи и рекорды серий попадают в ленту уведомлений
	notifier := eventhandler.NewProgressionNotifier(notifRepo, log)
	if err := notifier.Register(eventBus); err != nil {
		return fmt.Errorf("failed to register progression notifier: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	var mentorClient *mentor.Client
	if !cfg.Mentor.Disabled && cfg.Mentor.APIKey != "" {
		log.Info("initializing mentor client...")
		mentorCfg := mentor.DefaultClientConfig(cfg.Mentor.BaseURL, cfg.Mentor.APIKey)
		mentorCfg.Model = cfg.Mentor.Model
		mentorCfg.Timeout = cfg.Mentor.RequestTimeout
		mentorCfg.Logger = log
		mentorClient = mentor.NewClient(mentorCfg)
	} else {
		log.Info("mentor client disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ ОБРАБОТЧИКОВ КОМАНД И ЗАПРОСОВ
	// ─────────────────────────────────────────────────────────────────────────
	clk := clock.NewSystem(cfg.App.Location)

	// Typed-nil в интерфейсе не считается отсутствующим кешем,
	// поэтому присваиваем только при живом подключении.
	var progressInvalidator command.ProgressInvalidator
	var retentionInvalidator command.RetentionInvalidator
	var profileCache query.ProfileCache
	var retentionCache query.RetentionCache
	if progressCache != nil {
		progressInvalidator = progressCache
		retentionInvalidator = progressCache
		profileCache = progressCache
		retentionCache = progressCache
	}

	gainHandler := command.NewGainExperienceHandler(profileRepo, eventBus, progressInvalidator, clk)
	logRevisionHandler := command.NewLogRevisionHandler(subjectRepo, gainHandler, retentionInvalidator, clk.Now)
	dutyHandler := command.NewManageDutyHandler(profileRepo, progressInvalidator)
	progressHandler := query.NewGetProgressHandler(profileRepo, profileCache, clk)
	revisionQueueHandler := query.NewGetRevisionQueueHandler(subjectRepo, clk, retentionCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК HTTP СЕРВЕРА
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout

	deps := httpapi.Dependencies{
		GainExperienceHandler:   gainHandler,
		LogRevisionHandler:      logRevisionHandler,
		ManageDutyHandler:       dutyHandler,
		GetProgressHandler:      progressHandler,
		GetRevisionQueueHandler: revisionQueueHandler,
		SubjectRepo:             subjectRepo,
		EntryRepo:               entryRepo,
		ReminderRepo:            reminderRepo,
		NotificationRepo:        notifRepo,
		Clock:                   clk,
		Logger:                  setupHTTPLogger(cfg),
		HealthChecker:           healthChecker,
	}
	if mentorClient != nil {
		deps.Mentor = mentorClient
	}

	server := httpapi.NewServer(serverCfg, deps)
	errCh := server.StartAsync()
	log.Info("Study Hub API server is running",
		"addr", fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.HTTP.ShutdownTimeout.String())
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// setupHTTPLogger настраивает логгер уровня запросов для HTTP слоя.
func setupHTTPLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
