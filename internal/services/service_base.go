package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/repositories"
	"github.com/winmanuel/eduhub/internal/validator"
)

// Dependencies are shared by every service. Publisher and Cache may be nil.
type Dependencies struct {
	Repo      repositories.Repository
	Publisher events.Publisher
	Cache     *cache.CacheManager
	Logger    zerolog.Logger
	Validator *validator.BusinessValidator
	Clock     func() time.Time
}

type serviceBase struct {
	repo      repositories.Repository
	publisher events.Publisher
	cache     *cache.CacheManager
	logger    zerolog.Logger
	validator *validator.BusinessValidator
	now       func() time.Time
}

func newServiceBase(deps Dependencies, component string) serviceBase {
	b := serviceBase{
		repo:      deps.Repo,
		publisher: deps.Publisher,
		cache:     deps.Cache,
		logger:    deps.Logger.With().Str("service", component).Logger(),
		validator: deps.Validator,
		now:       deps.Clock,
	}
	if b.cache == nil {
		b.cache = cache.NewCacheManager(nil, 0, deps.Logger)
	}
	if b.validator == nil {
		b.validator = validator.New()
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// publish sends a domain event. Delivery failures are logged and never fail
// the write that produced the event.
func (b *serviceBase) publish(ctx context.Context, eventType events.EventType, entity, entityID string, data any) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, events.NewEvent(eventType, entity, entityID, data)); err != nil {
		b.logger.Warn().Err(err).Str("event_type", string(eventType)).Str("entity_id", entityID).Msg("failed to publish event")
	}
}

func (b *serviceBase) timestamp() time.Time {
	return b.now().UTC()
}

// newID returns "<prefix>_" followed by 8 random hex characters.
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}
