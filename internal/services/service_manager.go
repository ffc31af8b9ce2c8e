package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/seed"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps      Dependencies
	generator *seed.Generator

	// Service instances
	userService       UserService
	courseService     CourseService
	courseworkService CourseworkService
	reportService     ReportService
	exportService     ExportService
	setupService      SetupService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies.
// generator may be nil.
func NewServiceManager(deps Dependencies, generator *seed.Generator) ServiceManager {
	return &serviceManager{
		deps:      deps,
		generator: generator,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Repo == nil {
		return fmt.Errorf("failed to initialize services: repository is required")
	}

	sm.userService = NewUserService(sm.deps)
	sm.courseService = NewCourseService(sm.deps)
	sm.courseworkService = NewCourseworkService(sm.deps)
	sm.reportService = NewReportService(sm.deps)
	sm.exportService = NewExportService(sm.deps, sm.reportService)
	sm.setupService = NewSetupService(sm.deps, sm.generator, sm.exportService)

	sm.initialized = true
	sm.deps.Logger.Debug().Msg("service manager initialized")

	return nil
}

func (sm *serviceManager) User() UserService {
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mustBeInitialized()
	return sm.courseService
}

func (sm *serviceManager) Coursework() CourseworkService {
	sm.mustBeInitialized()
	return sm.courseworkService
}

func (sm *serviceManager) Report() ReportService {
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) Export() ExportService {
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) Setup() SetupService {
	sm.mustBeInitialized()
	return sm.setupService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// HealthCheck fails when the store is unreachable. An unreachable cache is
// only logged since reports fall back to the store.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	if sm.deps.Cache != nil {
		if err := sm.deps.Cache.HealthCheck(ctx); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
			sm.deps.Logger.Warn().Err(err).Msg("cache unhealthy")
		}
	}

	return nil
}

// Shutdown closes the event publisher and then the store.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	var errs []error
	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}
	if sm.deps.Repo != nil {
		if err := sm.deps.Repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close repository: %w", err))
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Debug().Msg("service manager shut down")

	return errors.Join(errs...)
}
