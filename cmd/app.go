// File: /cmd/app.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
	"socialpulse-api/config"
	"socialpulse-api/database"
	"socialpulse-api/jobs"
	"socialpulse-api/publishers"
	"socialpulse-api/realtime"
	"socialpulse-api/repositories"
	"socialpulse-api/routes"
	"socialpulse-api/services"
)

const defaultJWTSecret = "dev-secret-change-me"

// App holds every long-lived resource of the process.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Mongo  *mongo.Client
	Redis  *redis.Client

	Posts repositories.PostStore
	Hub   *realtime.Hub
	Job   *jobs.PublishJob

	deps routes.Dependencies
}

// Bootstrap connects the stores and wires services, the scheduler and the
// HTTP dependencies. Call Close when done.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.Environment == "development")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app := &App{Config: cfg, DB: db}

	if err := app.openPostStore(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Redis = database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
	if app.Redis != nil {
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, continuing without cache and fan-out")
			_ = app.Redis.Close()
			app.Redis = nil
		}
	}

	users := repositories.NewUserRepository(db)
	accounts := repositories.NewSocialAccountRepository(db)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	analytics := services.NewAnalyticsService(app.Posts, app.Redis, cfg.AnalyticsCacheTTL)
	notifications := services.NewNotificationService(repositories.NewNotificationRepository(db))
	app.Hub = realtime.NewHub(app.Redis)

	var mailer services.WelcomeMailer
	listeners := []jobs.StatusListener{app.Hub, analytics, notifications}
	if cfg.SMTPHost != "" && cfg.SMTPUsername != "" {
		emails := services.NewEmailService(cfg)
		mailer = emails
		listeners = append(listeners, services.NewFailureNotifier(users, emails))
	} else {
		log.Info().Msg("SMTP not configured, emails disabled")
	}

	app.Job = jobs.NewPublishJob(app.Posts, publishers.DefaultRegistry(nil), jobs.PublishJobConfig{
		Interval:       cfg.SchedulerInterval,
		BatchSize:      cfg.SchedulerBatchSize,
		Concurrency:    cfg.SchedulerConcurrency,
		PublishTimeout: cfg.SchedulerPublishTimeout,
		ClaimTTL:       cfg.SchedulerClaimTTL,
	}, listeners...)

	app.deps = routes.Dependencies{
		Config:        cfg,
		Tokens:        tokens,
		Auth:          services.NewAuthService(users, tokens, mailer),
		Posts:         services.NewPostService(app.Posts),
		Renderer:      services.NewContentRenderer(),
		Accounts:      services.NewAccountService(accounts),
		LinkedIn:      services.NewLinkedInOAuthService(cfg, tokens, accounts),
		Analytics:     analytics,
		AI:            services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, ""),
		Notifications: notifications,
		Hub:           app.Hub,
	}
	return app, nil
}

func (a *App) openPostStore(ctx context.Context) error {
	switch a.Config.PostStore {
	case "", "sql":
		a.Posts = repositories.NewPostRepository(a.DB)
	case "mongo":
		client, db, err := database.ConnectMongo(ctx, a.Config.MongoURL, a.Config.MongoDatabase)
		if err != nil {
			return err
		}
		a.Mongo = client
		store := repositories.NewMongoPostRepository(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		a.Posts = store
	default:
		return fmt.Errorf("unsupported post store %q", a.Config.PostStore)
	}
	log.Info().Str("post_store", a.Config.PostStore).Str("driver", a.Config.DatabaseDriver).Msg("Stores ready")
	return nil
}

// Migrate creates the relational schema.
func (a *App) Migrate() error {
	if err := database.Migrate(a.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.Hub != nil {
		if err := a.Hub.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event hub")
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect mongo")
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
