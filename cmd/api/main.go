package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"flowboard_backend/internal/adapters"
	"flowboard_backend/internal/adapters/storage"
	"flowboard_backend/internal/auth"
	"flowboard_backend/internal/board"
	boardservice "flowboard_backend/internal/board/service"
	"flowboard_backend/internal/checklists"
	"flowboard_backend/internal/events"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/internal/http/router"
	"flowboard_backend/internal/identity"
	"flowboard_backend/internal/notification"
	"flowboard_backend/internal/notification/email"
	"flowboard_backend/internal/projects"
	projectsrepo "flowboard_backend/internal/projects/repository"
	"flowboard_backend/internal/scheduler"
	"flowboard_backend/internal/services"
	"flowboard_backend/migrations"
	"flowboard_backend/platform/config"
	"flowboard_backend/platform/db"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for project attachments (MinIO)
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketProjectAttachments()
		if err := withRetry(ctx, log, "ensure attachments bucket", 5, 2*time.Second, func() error {
			return svc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = svc
		log.Info("storage service initialized", "attachmentsBucket", bucket)
	} else {
		log.Warn("MinIO not configured; project attachments disabled")
	}

	// Task queue client for deferred board reconciles
	queueClient, closeQueue := initQueueClient(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}
	var enqueuer boardservice.TaskEnqueuer
	if queueClient != nil {
		enqueuer = queueClient
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, val, log)

	accounts := adapters.NewIdentityAccounts(authModule.Service())
	identityModule := identity.NewModule(pool, accounts, eventBus, val, log)

	servicesModule := services.NewModule(pool, val, log)
	servicesModule.RegisterHandlers(eventBus)

	projectsModule := projects.NewModule(pool, storageSvc, cfg, eventBus, val, log)

	categories := adapters.NewBoardCategoryReader(servicesModule.Service())
	boardModule, err := board.NewModule(pool, categories, enqueuer, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize board module", "error", err)
		panic("failed to initialize board module: " + err.Error())
	}
	defer boardModule.Close()

	checklistsModule := checklists.NewModule(pool, val, log)

	var mailer email.Sender
	if cfg.GetEmailEnabled() {
		mailer = email.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email sending disabled")
	}
	owners := adapters.NewOrganizationOwnerDirectory(identityModule.Service(), authModule.Service())
	projectNames := adapters.NewProjectNameDirectory(projectsrepo.New(pool))
	notificationModule := notification.NewModule(mailer, owners, projectNames, log)
	notificationModule.RegisterHandlers(eventBus)
	defer notificationModule.Close()

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			identityModule,
			servicesModule,
			projectsModule,
			boardModule,
			checklistsModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initQueueClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background reconciles disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
