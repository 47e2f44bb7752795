package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "fieldbook/internal/catalog/errors"
	catalogrepo "fieldbook/internal/catalog/repository"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/interval"
	"fieldbook/pkg/model"
)

// AvailabilityReport is the read-only answer to "could this fit". It is
// a snapshot: only admission inside the per-resource lock is binding.
type AvailabilityReport struct {
	ResourceID        string             `json:"resource_id"`
	ResourceKind      model.ResourceKind `json:"resource_kind"`
	Active            bool               `json:"active"`
	StartsAt          time.Time          `json:"starts_at"`
	EndsAt            time.Time          `json:"ends_at"`
	Free              bool               `json:"free"`
	AvailableQuantity int                `json:"available_quantity"`
}

type AvailabilityService interface {
	Check(ctx context.Context, resourceID string, iv interval.Interval) (*AvailabilityReport, error)
}

type availabilityService struct {
	resources catalogrepo.ResourceRepository
	engine    AvailabilityEngine
}

func NewAvailabilityService(resources catalogrepo.ResourceRepository, engine AvailabilityEngine) AvailabilityService {
	return &availabilityService{
		resources: resources,
		engine:    engine,
	}
}

// Check reports capacity for the interval. Inactive resources still get
// a truthful report with Active false; only admission refuses them.
func (s *availabilityService) Check(ctx context.Context, resourceID string, iv interval.Interval) (*AvailabilityReport, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid resource ID: %s", resourceID))
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	available, err := s.engine.AvailableQuantity(ctx, resource, iv, "")
	if err != nil {
		return nil, err
	}

	return &AvailabilityReport{
		ResourceID:        resource.ID,
		ResourceKind:      resource.Kind,
		Active:            resource.Active,
		StartsAt:          iv.Start,
		EndsAt:            iv.End,
		Free:              available > 0,
		AvailableQuantity: available,
	}, nil
}
