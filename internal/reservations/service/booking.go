package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	catalogerrors "fieldbook/internal/catalog/errors"
	catalogrepo "fieldbook/internal/catalog/repository"
	meetingservice "fieldbook/internal/meetings/service"
	reservationerrors "fieldbook/internal/reservations/errors"
	"fieldbook/internal/reservations/repository"
	resvalidator "fieldbook/internal/reservations/validator"
	"fieldbook/pkg/auth"
	"fieldbook/pkg/config"
	dbmongo "fieldbook/pkg/db/mongo"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/interval"
	"fieldbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const lockReleaseTimeout = 5 * time.Second

// BookingService admits and manages reservations. Submit and Update
// serialize per resource: an advisory lock keyed by the resource id is
// taken first, then the capacity check and the write run in one
// transaction, so two racing requests can never both pass the check.
type BookingService interface {
	Submit(ctx context.Context, actingTeam string, req *model.BookingRequest) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	List(ctx context.Context, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, actingTeam string, id string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Cancel(ctx context.Context, actingTeam string, id string) error
}

type bookingService struct {
	reservations repository.ReservationRepository
	locks        repository.ReservationLockRepository
	resources    catalogrepo.ResourceRepository
	meetings     meetingservice.MeetingResolver
	availability AvailabilityEngine
	txManager    dbmongo.TransactionManager
	notifier     Notifier
	caps         auth.Capabilities
	validator    *resvalidator.BookingValidator
	cfg          *config.Config
}

func NewBookingService(
	reservations repository.ReservationRepository,
	locks repository.ReservationLockRepository,
	resources catalogrepo.ResourceRepository,
	meetings meetingservice.MeetingResolver,
	availability AvailabilityEngine,
	txManager dbmongo.TransactionManager,
	notifier Notifier,
	caps auth.Capabilities,
	bookingValidator *resvalidator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		reservations: reservations,
		locks:        locks,
		resources:    resources,
		meetings:     meetings,
		availability: availability,
		txManager:    txManager,
		notifier:     notifier,
		caps:         caps,
		validator:    bookingValidator,
		cfg:          cfg,
	}
}

func (s *bookingService) Submit(ctx context.Context, actingTeam string, req *model.BookingRequest) (*model.Reservation, error) {
	if !s.caps.CanBookReservations(actingTeam) {
		return nil, apperrors.Unauthorized("booking reservations requires an acting team")
	}

	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, mapValidationError("Booking request validation failed", err)
	}

	iv := interval.New(req.StartsAt, req.EndsAt)
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	resource, err := s.loadBookableResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	amount, err := normalizeAmount(resource, req.Amount)
	if err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		ResourceID:   resource.ID,
		ResourceKind: resource.Kind,
		TeamID:       actingTeam,
		Amount:       amount,
		StartsAt:     iv.Start,
		EndsAt:       iv.End,
	}

	if req.Meeting != nil {
		meetingID, err := s.meetings.Resolve(ctx, actingTeam, req.Meeting.Date, req.Meeting.Type)
		if err != nil {
			return nil, err
		}
		reservation.MeetingID = meetingID
	}

	if err := s.withAdmissionLock(ctx, resource.ID, func() error {
		return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.admit(sessCtx, resource, iv, amount, ""); err != nil {
				return err
			}
			if err := s.reservations.Insert(sessCtx, reservation); err != nil {
				return apperrors.StorageUnavailable(err)
			}
			return nil
		})
	}); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Reservation committed",
		"id", reservation.ID,
		"resource_id", resource.ID,
		"team_id", actingTeam,
		"amount", amount,
	)
	s.publish(ctx, EventReservationCommitted, reservation)

	return reservation, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	return reservation, nil
}

func (s *bookingService) List(ctx context.Context, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg       sync.WaitGroup
		list     []*model.Reservation
		total    int64
		listErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		list, listErr = s.reservations.List(ctx, filter, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.reservations.Count(ctx, filter)
	}()
	wg.Wait()

	if listErr != nil {
		return nil, 0, apperrors.StorageUnavailable(listErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.StorageUnavailable(countErr)
	}

	return list, total, nil
}

func (s *bookingService) Update(ctx context.Context, actingTeam string, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if updates == nil || (updates.StartsAt == nil && updates.EndsAt == nil && updates.Amount == nil) {
		return nil, apperrors.InvalidInput("No reservation fields to update")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, mapValidationError("Reservation update validation failed", err)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeModify(actingTeam, current); err != nil {
		return nil, err
	}
	if current.Cancelled() {
		return nil, apperrors.AlreadyCancelled(id)
	}

	resource, err := s.loadBookableResource(ctx, current.ResourceID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if updates.StartsAt != nil {
		updated.StartsAt = *updates.StartsAt
	}
	if updates.EndsAt != nil {
		updated.EndsAt = *updates.EndsAt
	}
	if updates.Amount != nil {
		updated.Amount = *updates.Amount
	}

	iv := interval.New(updated.StartsAt, updated.EndsAt)
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	updated.StartsAt, updated.EndsAt = iv.Start, iv.End

	amount, err := normalizeAmount(resource, updated.Amount)
	if err != nil {
		return nil, err
	}
	updated.Amount = amount

	// Re-admission excludes the reservation itself, so shrinking or
	// shifting within its own footprint always succeeds.
	if err := s.withAdmissionLock(ctx, resource.ID, func() error {
		return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.admit(sessCtx, resource, iv, amount, id); err != nil {
				return err
			}
			if err := s.reservations.Update(sessCtx, id, &updated); err != nil {
				return mapLookupError(err, id)
			}
			return nil
		})
	}); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Reservation updated", "id", id, "resource_id", resource.ID)
	s.publish(ctx, EventReservationUpdated, &updated)

	return &updated, nil
}

func (s *bookingService) Cancel(ctx context.Context, actingTeam string, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeModify(actingTeam, current); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.reservations.Cancel(ctx, id, now); err != nil {
		if errors.Is(err, reservationerrors.ErrAlreadyCancelled) {
			return apperrors.AlreadyCancelled(id)
		}
		return mapLookupError(err, id)
	}

	current.CancelledAt = &now
	s.cfg.Log.Info("Reservation cancelled", "id", id, "resource_id", current.ResourceID)
	s.publish(ctx, EventReservationCancelled, current)

	return nil
}

func (s *bookingService) loadBookableResource(ctx context.Context, resourceID string) (*model.Resource, error) {
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
	if !resource.Active {
		return nil, apperrors.ResourceInactive(resource.ID)
	}
	return resource, nil
}

// withAdmissionLock takes the per-resource lock, runs fn, and releases
// the lock on a detached context so a cancelled request cannot leak it.
func (s *bookingService) withAdmissionLock(ctx context.Context, resourceID string, fn func() error) error {
	if err := s.locks.Acquire(ctx, resourceID, s.cfg.AdmissionLockTTL); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("another reservation for this resource is being admitted, retry shortly")
		}
		return apperrors.StorageUnavailable(err)
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
		defer cancel()
		if err := s.locks.Release(releaseCtx, resourceID); err != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "resource_id", resourceID, "error", err)
		}
	}()

	return fn()
}

func (s *bookingService) admit(ctx context.Context, resource *model.Resource, iv interval.Interval, amount int, excludeID string) error {
	if resource.Exclusive() {
		free, err := s.availability.IsFree(ctx, resource.ID, iv, excludeID)
		if err != nil {
			return err
		}
		if !free {
			return apperrors.Conflict(fmt.Sprintf("zone %q is already reserved during the requested interval", resource.Name))
		}
		return nil
	}

	available, err := s.availability.AvailableQuantity(ctx, resource, iv, excludeID)
	if err != nil {
		return err
	}
	if amount > available {
		return apperrors.Conflict(fmt.Sprintf("requested %d of %q but only %d available during the requested interval", amount, resource.Name, available))
	}
	return nil
}

func (s *bookingService) authorizeModify(actingTeam string, reservation *model.Reservation) error {
	if actingTeam != "" && (actingTeam == reservation.TeamID || s.caps.CanManageInventory(actingTeam)) {
		return nil
	}
	return apperrors.Unauthorized("only the owning team may modify this reservation")
}

func (s *bookingService) publish(ctx context.Context, eventType string, reservation *model.Reservation) {
	if err := s.notifier.Notify(ctx, eventType, reservation); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}

// normalizeAmount defaults and bounds the requested amount for the
// resource kind. Zones always book as a single unit. A material request
// larger than the whole pool can never fit, whatever the interval.
func normalizeAmount(resource *model.Resource, amount int) (int, error) {
	if resource.Exclusive() {
		return 1, nil
	}
	if amount == 0 {
		amount = 1
	}
	if amount < 1 {
		return 0, apperrors.InvalidInput("Amount must be at least 1")
	}
	if amount > resource.TotalQuantity {
		return 0, apperrors.Conflict(fmt.Sprintf("requested %d of %q but the pool holds only %d", amount, resource.Name, resource.TotalQuantity))
	}
	return amount, nil
}

func mapValidationError(message string, err error) *apperrors.AppError {
	var verrs resvalidator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, map[string]any{"errors": verrs})
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func mapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, reservationerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationerrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid reservation ID: %s", id))
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.StorageUnavailable(err)
	}
}
