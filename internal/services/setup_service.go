package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winmanuel/eduhub/internal/repositories"
	"github.com/winmanuel/eduhub/internal/seed"
)

type setupService struct {
	serviceBase
	generator *seed.Generator
	export    ExportService
}

// NewSetupService wires provisioning and seeding. A nil generator uses an
// unseeded one.
func NewSetupService(deps Dependencies, generator *seed.Generator, export ExportService) SetupService {
	base := newServiceBase(deps, "setup")
	if generator == nil {
		generator = seed.NewGenerator(seed.WithClock(base.now))
	}
	return &setupService{
		serviceBase: base,
		generator:   generator,
		export:      export,
	}
}

func (s *setupService) Provision(ctx context.Context, resetExisting bool) (*repositories.ProvisionResult, error) {
	result, err := s.repo.Provisioner().Provision(ctx, resetExisting)
	if err != nil {
		return result, fmt.Errorf("provisioning incomplete: %w", err)
	}
	return result, nil
}

// Seed generates a dataset and inserts it parents first. Every batch is
// attempted; failures are logged per collection and joined.
func (s *setupService) Seed(ctx context.Context, counts seed.Counts) (*SeedResult, error) {
	dataset, err := s.generator.Generate(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sample data: %w", err)
	}

	result := &SeedResult{}
	var errs []error
	record := func(c repositories.Collection, dst *repositories.BatchResult, res repositories.BatchResult, err error) {
		*dst = res
		if err != nil {
			s.logger.Error().Err(err).Str("collection", string(c)).Int("attempted", res.Attempted).Msg("batch insert failed")
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			return
		}
		s.logger.Info().Str("collection", string(c)).Int("inserted", res.Inserted).Int("duplicates", res.Duplicates).Msg("batch inserted")
	}

	res, err := s.repo.User().CreateMany(ctx, nil, dataset.Users())
	record(repositories.CollectionUsers, &result.Users, res, err)
	res, err = s.repo.Course().CreateMany(ctx, nil, dataset.Courses)
	record(repositories.CollectionCourses, &result.Courses, res, err)
	res, err = s.repo.Enrollment().CreateMany(ctx, nil, dataset.Enrollments)
	record(repositories.CollectionEnrollments, &result.Enrollments, res, err)
	res, err = s.repo.Lesson().CreateMany(ctx, nil, dataset.Lessons)
	record(repositories.CollectionLessons, &result.Lessons, res, err)
	res, err = s.repo.Assignment().CreateMany(ctx, nil, dataset.Assignments)
	record(repositories.CollectionAssignments, &result.Assignments, res, err)
	res, err = s.repo.Submission().CreateMany(ctx, nil, dataset.Submissions)
	record(repositories.CollectionSubmissions, &result.Submissions, res, err)

	s.cache.InvalidateReports(ctx)
	return result, errors.Join(errs...)
}

// Init stops after a failed provisioning step; seeding and export run only
// against a complete schema.
func (s *setupService) Init(ctx context.Context, resetExisting bool, counts seed.Counts, exportDir string) (*InitResult, error) {
	start := time.Now()
	result := &InitResult{}

	var err error
	if result.Provision, err = s.Provision(ctx, resetExisting); err != nil {
		return result, err
	}

	seedResult, seedErr := s.Seed(ctx, counts)
	result.Seed = seedResult
	if seedResult == nil {
		return result, seedErr
	}

	exported, exportErr := s.export.ExportAll(ctx, exportDir)
	result.Exported = exported
	result.Elapsed = time.Since(start)

	s.logger.Info().
		Bool("reset", resetExisting).
		Str("export_dir", exportDir).
		Dur("elapsed", result.Elapsed).
		Msg("sample data initialized")

	return result, errors.Join(seedErr, exportErr)
}
