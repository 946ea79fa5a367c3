package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"booking-api/internal/event"
	"booking-api/internal/model"
	"booking-api/internal/util"
	"booking-api/pkg/apierror"
)

const catalogListKey = "catalog:services"

// CatalogCache is a JSON key/value store with expiry, such as cache.Cache.
type CatalogCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type CatalogService struct {
	services catalogStore
	cache    CatalogCache
	cacheTTL time.Duration
	bus      event.Bus

	// generation counts invalidations; a list read across one is not cached.
	generation atomic.Uint64
}

// NewCatalogService builds the catalog; cache may be nil, in which case every read
// goes to the store.
func NewCatalogService(services catalogStore, cache CatalogCache, cacheTTL time.Duration, bus event.Bus) *CatalogService {
	return &CatalogService{services: services, cache: cache, cacheTTL: cacheTTL, bus: bus}
}

func (s *CatalogService) Create(ctx context.Context, req model.CreateServiceRequest, actorID string) (model.ServiceOffering, error) {
	icon := util.SanitizeText(req.Icon)
	title := util.SanitizeText(req.Title)
	if icon == "" || title == "" {
		return model.ServiceOffering{}, apierror.BadRequest("missing required fields", "icon and title are required")
	}

	category := model.DefaultServiceCategory
	if req.Category != nil {
		if cleaned := util.SanitizeText(*req.Category); cleaned != "" {
			category = cleaned
		}
	}

	created, err := s.services.Create(ctx, model.ServiceOffering{
		ID:          uuid.NewString(),
		Icon:        icon,
		Title:       title,
		Description: util.SanitizeOptional(req.Description),
		Category:    category,
	})
	if err != nil {
		return model.ServiceOffering{}, err
	}

	s.invalidate(ctx)
	publish(s.bus, event.TypeServiceCreated, created.ID, actorID, map[string]string{"title": created.Title})
	return created, nil
}

// List serves the catalog from the cache when one is configured. Cache failures
// fall back to the store.
func (s *CatalogService) List(ctx context.Context) ([]model.ServiceOffering, error) {
	if s.cache != nil {
		var cached []model.ServiceOffering
		found, err := s.cache.Get(ctx, catalogListKey, &cached)
		if err != nil {
			slog.Warn("catalog cache read failed", "error", err)
		}
		if found && err == nil {
			return cached, nil
		}
	}

	generation := s.generation.Load()
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.generation.Load() == generation {
		if err := s.cache.Set(ctx, catalogListKey, services, s.cacheTTL); err != nil {
			slog.Warn("catalog cache write failed", "error", err)
		}
		// A write that landed between the check and Set may have been overwritten.
		if s.generation.Load() != generation {
			s.invalidateKey(ctx)
		}
	}
	return services, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (model.ServiceOffering, error) {
	return s.services.FindByID(ctx, id)
}

// Update changes only the fields present in patch.
func (s *CatalogService) Update(ctx context.Context, id string, patch model.ServiceOfferingPatch, actorID string) (model.ServiceOffering, error) {
	if patch.IsEmpty() {
		return model.ServiceOffering{}, apierror.BadRequest("no fields to update", "")
	}

	patch.Icon = util.SanitizeOptional(patch.Icon)
	patch.Title = util.SanitizeOptional(patch.Title)
	patch.Description = util.SanitizeOptional(patch.Description)
	patch.Category = util.SanitizeOptional(patch.Category)
	if (patch.Icon != nil && *patch.Icon == "") || (patch.Title != nil && *patch.Title == "") {
		return model.ServiceOffering{}, apierror.BadRequest("icon and title cannot be empty", "")
	}
	if patch.Category != nil && *patch.Category == "" {
		category := model.DefaultServiceCategory
		patch.Category = &category
	}

	updated, err := s.services.Update(ctx, id, patch)
	if err != nil {
		return model.ServiceOffering{}, err
	}

	s.invalidate(ctx)
	publish(s.bus, event.TypeServiceUpdated, id, actorID, patch)
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	publish(s.bus, event.TypeServiceDeleted, id, actorID, nil)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	s.invalidateKey(ctx)
}

func (s *CatalogService) invalidateKey(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, catalogListKey); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
}
