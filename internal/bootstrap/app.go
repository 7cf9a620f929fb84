package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"recruit-backend/internal/analyses"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/server"
	"recruit-backend/internal/shared/storage/db"
	"recruit-backend/internal/shared/storage/kv"
	"recruit-backend/internal/shared/storage/object"
	localstore "recruit-backend/internal/shared/storage/object/local"
	s3store "recruit-backend/internal/shared/storage/object/s3"
	"recruit-backend/internal/shared/telemetry"
)

// App holds shared dependencies for the API and worker processes.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Redis           *redis.Client
	Store           object.ObjectStore
	Queue           *queue.SQSClient
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build connects the configured backends and wires the analyses service.
// Optional backends (Postgres in dev, Redis, SQS, SNS) fall back to in-process
// implementations when they are not configured.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	rdb, err := kv.NewRedis(ctx, cfg)
	if err != nil {
		if !isDevLike(cfg.Env) {
			app.Close()
			return nil, err
		}
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
	}
	app.Redis = rdb

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	if cfg.SQSQueueURL != "" {
		q, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL, cfg.SQSVisibilityTimeoutSecs)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("sqs client: %w", err)
		}
		app.Queue = q
	}

	publisher, err := buildPublisher(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	if app.DB != nil {
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		app.AnalysesRepo = analyses.NewMemoryRepo()
	}

	svc := &analyses.Service{
		Repo:      app.AnalysesRepo,
		Cache:     analyses.NopCache{},
		Store:     app.Store,
		Publisher: publisher,
	}
	if app.Redis != nil {
		svc.Cache = analyses.NewRedisCache(app.Redis, cfg.CacheTTL)
	}
	// Leave the interface nil when SQS is not configured so Enqueue reports
	// the queue as unavailable.
	if app.Queue != nil {
		svc.Queue = app.Queue
	}
	app.AnalysesService = svc
	app.AnalysisHandler = analyses.NewHandler(svc)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Routes: []server.RouteRegistrar{app.AnalysisHandler},
		Checks: app.readinessChecks(),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"postgres":     app.DB != nil,
		"redis":        app.Redis != nil,
		"object_store": cfg.ObjectStoreType,
		"sqs":          app.Queue != nil,
		"sns":          cfg.SNSTopicARN != "",
	})
	return app, nil
}

// Close releases connections held by the app.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func (a *App) readinessChecks() map[string]server.ReadinessCheck {
	checks := map[string]server.ReadinessCheck{}
	if a.DB != nil {
		checks["postgres"] = a.DB.PingContext
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.WithOverrides(db.DefaultServerOptions(), cfg.DB))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "", "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown object store %q", config.ErrInvalidConfig, cfg.ObjectStoreType)
	}
}

func buildPublisher(ctx context.Context, cfg config.Config) (notify.Publisher, error) {
	if cfg.SNSTopicARN == "" {
		return notify.NopPublisher{}, nil
	}
	p, err := notify.NewSNSPublisher(ctx, cfg.AWSRegion, cfg.SNSTopicARN)
	if err != nil {
		return nil, fmt.Errorf("sns publisher: %w", err)
	}
	return p, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "dev", "local":
		return true
	default:
		return false
	}
}

var errNoQueue = errors.New("SQS_QUEUE_URL is required for the worker")

// RequireQueue returns the queue consumer or an error when SQS is not configured.
func (a *App) RequireQueue() (*queue.SQSClient, error) {
	if a.Queue == nil {
		return nil, errNoQueue
	}
	return a.Queue, nil
}
