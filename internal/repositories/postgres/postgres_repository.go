package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         zerolog.Logger
	batchSize   int

	user        repositories.UserRepository
	course      repositories.CourseRepository
	enrollment  repositories.EnrollmentRepository
	lesson      repositories.LessonRepository
	assignment  repositories.AssignmentRepository
	submission  repositories.SubmissionRepository
	report      repositories.ReportRepository
	diagnostics repositories.DiagnosticsRepository
	provisioner repositories.Provisioner
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	Logger      zerolog.Logger
	BatchSize   int
}

func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	return newRepository(config.DB, config.RedisClient, config.Logger, config.BatchSize)
}

func newRepository(db *gorm.DB, redisClient *redis.Client, log zerolog.Logger, batchSize int) *PostgreSQLRepository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &PostgreSQLRepository{
		db:          db,
		redisClient: redisClient,
		log:         log,
		batchSize:   batchSize,
		user:        NewUserPostgreSQL(db, batchSize),
		course:      NewCoursePostgreSQL(db, batchSize),
		enrollment:  NewEnrollmentPostgreSQL(db, batchSize),
		lesson:      NewLessonPostgreSQL(db, batchSize),
		assignment:  NewAssignmentPostgreSQL(db, batchSize),
		submission:  NewSubmissionPostgreSQL(db, batchSize),
		report:      NewReportRepository(db),
		diagnostics: NewDiagnosticsRepository(db),
		provisioner: NewProvisioner(db, log),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Course() repositories.CourseRepository {
	return r.course
}

func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository {
	return r.enrollment
}

func (r *PostgreSQLRepository) Lesson() repositories.LessonRepository {
	return r.lesson
}

func (r *PostgreSQLRepository) Assignment() repositories.AssignmentRepository {
	return r.assignment
}

func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository {
	return r.submission
}

func (r *PostgreSQLRepository) Report() repositories.ReportRepository {
	return r.report
}

func (r *PostgreSQLRepository) Diagnostics() repositories.DiagnosticsRepository {
	return r.diagnostics
}

func (r *PostgreSQLRepository) Provisioner() repositories.Provisioner {
	return r.provisioner
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepository(tx, r.redisClient, r.log, r.batchSize))
	})
}

// Ping checks the database. An unreachable cache is logged only; reports
// fall back to the database.
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Ping(ctx).Err(); err != nil {
			r.log.Warn().Err(err).Msg("cache ping failed")
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize verifies the connections and builds the repositories.
func (rm *RepositoryManager) Initialize(ctx context.Context) error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
