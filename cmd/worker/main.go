// Package main - точка входа для фоновых процессов (Worker) Study Hub.
//
// Worker отвечает за периодические задачи:
// - Оповещение о начале блоков расписания
// - Срабатывание разовых и повторяющихся будильников
// - Сканирование предметов на угасание запоминания
// - Утренний брифинг от AI-наставника
//
// Философия: "Дисциплина превыше мотивации" - Worker напоминает о
// занятиях и повторениях вовремя, чтобы знания не успевали угасать.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shyrus-os/study-hub/config"
	"github.com/shyrus-os/study-hub/internal/application/eventhandler"
	"github.com/shyrus-os/study-hub/internal/infrastructure/external/mentor"
	"github.com/shyrus-os/study-hub/internal/infrastructure/messaging"
	"github.com/shyrus-os/study-hub/internal/infrastructure/persistence/postgres"
	"github.com/shyrus-os/study-hub/internal/infrastructure/persistence/redis"
	"github.com/shyrus-os/study-hub/internal/infrastructure/scheduler"
	"github.com/shyrus-os/study-hub/internal/infrastructure/scheduler/jobs"
	"github.com/shyrus-os/study-hub/pkg/clock"
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

	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled, nothing to run")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Study Hub Worker",
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
	// 4. ЗАПУСК МИГРАЦИЙ (Worker также должен иметь актуальную схему)
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

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, briefing guard disabled", "error", err)
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

	notifier := eventhandler.NewProgressionNotifier(notifRepo, log)
	if err := notifier.Register(eventBus); err != nil {
		return fmt.Errorf("failed to register progression notifier: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing mentor client...")
	mentorCfg := mentor.DefaultClientConfig(cfg.Mentor.BaseURL, cfg.Mentor.APIKey)
	mentorCfg.Model = cfg.Mentor.Model
	mentorCfg.Timeout = cfg.Mentor.RequestTimeout
	mentorCfg.Disabled = cfg.Mentor.Disabled
	mentorCfg.Logger = log
	// Отключённый клиент переходит на офлайн-шаблоны брифинга.
	mentorClient := mentor.NewClient(mentorCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. НАСТРОЙКА ПЛАНИРОВЩИКА
	// ─────────────────────────────────────────────────────────────────────────
	clk := clock.NewSystem(cfg.App.Location)

	sched := scheduler.New(scheduler.Config{
		Logger:     log,
		Timezone:   cfg.App.Location,
		Clock:      clk,
		JobTimeout: cfg.Scheduler.JobTimeout,
	})

	pollEvery := scheduler.NewIntervalSchedule(cfg.Scheduler.SchedulePollInterval)

	if cfg.Features.IsEnabled(config.FeatureNotifySchedule) {
		job := jobs.NewScheduleWatchJob(entryRepo, notifRepo, eventBus, clk, log)
		if err := sched.Register(job, pollEvery); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}

	if cfg.Features.IsEnabled(config.FeatureNotifyReminders) {
		job := jobs.NewReminderWatchJob(reminderRepo, notifRepo, eventBus, clk, log)
		if err := sched.Register(job, pollEvery); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}

	if cfg.Features.IsEnabled(config.FeatureNotifyRetention) {
		job := jobs.NewRetentionScanJob(subjectRepo, notifRepo, eventBus, clk, log, cfg.Scheduler.RetentionWarnBelow)
		scanEvery := scheduler.NewIntervalSchedule(cfg.Scheduler.RetentionScanInterval)
		if err := sched.Register(job, scanEvery); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}

	if cfg.Features.IsEnabled(config.FeatureMentorBriefing) {
		// Typed-nil в интерфейсе не считается отсутствующим кешем,
		// поэтому присваиваем только при живом подключении.
		var briefingCache jobs.BriefingCache
		if progressCache != nil {
			briefingCache = progressCache
		}
		job := jobs.NewDailyBriefingJob(profileRepo, subjectRepo, notifRepo, mentorClient, briefingCache, clk, log)
		// Брифинг составляется к началу учебного дня.
		morning := scheduler.NewDailySchedule(7, 0)
		if err := sched.Register(job, morning); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК ПЛАНИРОВЩИКА
	// ─────────────────────────────────────────────────────────────────────────
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Info("Study Hub Worker is running",
		"poll_interval", cfg.Scheduler.SchedulePollInterval.String(),
		"retention_scan_interval", cfg.Scheduler.RetentionScanInterval.String(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	if err := sched.Stop(); err != nil {
		log.Error("scheduler stop failed", "error", err)
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
