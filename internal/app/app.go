// Package app wires configuration, storage, cache, events and services into
// one runnable unit shared by every CLI command.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/config"
	"github.com/winmanuel/eduhub/internal/database"
	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/repositories"
	"github.com/winmanuel/eduhub/internal/repositories/postgres"
	"github.com/winmanuel/eduhub/internal/seed"
	"github.com/winmanuel/eduhub/internal/services"
	"github.com/winmanuel/eduhub/internal/validator"
)

type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Services services.ServiceManager

	repoManager repositories.RepositoryManager
}

// New opens the database, the optional cache and the event publisher and
// initializes the services. A cache that cannot be reached is logged and
// skipped.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := database.Open(ctx, cfg.Database, cfg.Observability.SlowQueryThreshold, cfg.IsProduction(), log)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.OpenRedis(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("report cache disabled")
		redisClient = nil
	}

	closeStores := func() error {
		err := database.Close(db)
		if redisClient != nil {
			err = errors.Join(err, redisClient.Close())
		}
		return err
	}

	publisher, err := events.NewPublisher(cfg.Events, log)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create event publisher: %w", err), closeStores())
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		Logger:      log,
		BatchSize:   cfg.Database.BatchSize,
	})
	if err := repoManager.Initialize(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize repositories: %w", err), publisher.Close(), closeStores())
	}

	deps := services.Dependencies{
		Repo:      repoManager.GetRepository(),
		Publisher: publisher,
		Cache:     cache.NewCacheManager(redisClient, cfg.Redis.ReportTTL, log),
		Logger:    log,
		Validator: validator.New(),
	}
	serviceManager := services.NewServiceManager(deps, Generator(cfg.Seed))
	if err := serviceManager.Initialize(ctx); err != nil {
		return nil, errors.Join(err, serviceManager.Shutdown(ctx))
	}

	log.Debug().
		Bool("cache", redisClient != nil).
		Bool("kafka", len(cfg.Events.KafkaBrokers) > 0).
		Msg("application initialized")

	return &App{
		Config:      cfg,
		Logger:      log,
		Services:    serviceManager,
		repoManager: repoManager,
	}, nil
}

// OperationContext bounds one CLI operation by the configured timeout.
func (a *App) OperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.Config.OperationTimeout)
}

// Close shuts the services down, which closes the publisher, the database
// and the cache.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Services.Shutdown(ctx)
}

// SeedCounts converts the seed settings into generator counts.
func SeedCounts(cfg config.SeedConfig) seed.Counts {
	return seed.Counts{
		Students:    cfg.Students,
		Instructors: cfg.Instructors,
		Courses:     cfg.Courses,
		Enrollments: cfg.Enrollments,
		Lessons:     cfg.Lessons,
		Assignments: cfg.Assignments,
		Submissions: cfg.Submissions,
	}
}

// Generator returns a deterministic generator when a random seed is set and
// nil otherwise, letting the setup service pick a time-seeded one.
func Generator(cfg config.SeedConfig) *seed.Generator {
	if cfg.RandomSeed == 0 {
		return nil
	}
	return seed.NewGenerator(seed.WithSeed(cfg.RandomSeed))
}
