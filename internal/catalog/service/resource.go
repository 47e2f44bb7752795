package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "fieldbook/internal/catalog/errors"
	"fieldbook/internal/catalog/repository"
	"fieldbook/pkg/auth"
	"fieldbook/pkg/config"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/model"
	"fieldbook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

// CatalogService owns resource definitions: exclusive zones and
// quantity-pooled materials. Inactivation blocks new bookings only;
// existing reservations against an inactive resource stay valid.
type CatalogService interface {
	Create(ctx context.Context, actingTeam string, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Resource, int64, error)
	Update(ctx context.Context, actingTeam string, id string, updates *model.ResourceUpdate) error
}

type catalogService struct {
	repo     repository.ResourceRepository
	caps     auth.Capabilities
	validate *validator.Validate
	cfg      *config.Config
}

func NewCatalogService(repo repository.ResourceRepository, caps auth.Capabilities, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:     repo,
		caps:     caps,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *catalogService) Create(ctx context.Context, actingTeam string, resource *model.Resource) error {
	if !s.caps.CanManageInventory(actingTeam) {
		return apperrors.Unauthorized("managing inventory requires the inventory capability")
	}

	resource.Name = sanitizer.NormalizeName(resource.Name)
	resource.Active = true
	if resource.Exclusive() {
		// Zones have no countable capacity.
		resource.TotalQuantity = 0
	} else if resource.TotalQuantity < 1 {
		return apperrors.Validation("Resource validation failed", map[string]any{
			"error": "material resources need a total_quantity of at least 1",
		})
	}

	if err := s.validate.Struct(resource); err != nil {
		return apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		s.cfg.Log.Error("Failed to create resource", "error", err)
		return apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created",
		"id", resource.ID,
		"kind", resource.Kind,
		"name", resource.Name,
	)
	return nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}

	return resource, nil
}

func (s *catalogService) GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Resource, int64, error) {
	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindAll(ctx, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}

func (s *catalogService) Update(ctx context.Context, actingTeam string, id string, updates *model.ResourceUpdate) error {
	if !s.caps.CanManageInventory(actingTeam) {
		return apperrors.Unauthorized("managing inventory requires the inventory capability")
	}
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.validate.Struct(updates); err != nil {
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.TotalQuantity != nil && !merged.Exclusive() {
		merged.TotalQuantity = *updates.TotalQuantity
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	if err := s.validate.Struct(&merged); err != nil {
		return apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}
	if !merged.Exclusive() && merged.TotalQuantity < 1 {
		return apperrors.Validation("Resource validation failed", map[string]any{
			"error": "material resources need a total_quantity of at least 1",
		})
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		s.cfg.Log.Error("Failed to update resource", "id", id, "error", err)
		return apperrors.Internal("Failed to update resource", err)
	}

	s.cfg.Log.Info("Resource updated", "id", id, "active", merged.Active)
	return nil
}
