package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/internal/bookings/repository"
	"slotbook/internal/bookings/validator"
	resourceserrors "slotbook/internal/resources/errors"
	resourcesrepo "slotbook/internal/resources/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, principal *model.Principal, booking *model.Booking) error
	GetByID(ctx context.Context, principal *model.Principal, id string) (*model.Booking, error)
	List(ctx context.Context, principal *model.Principal, filter *model.BookingFilter) ([]*model.Booking, int64, error)
	Update(ctx context.Context, principal *model.Principal, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, principal *model.Principal, id string) error
	History(ctx context.Context, principal *model.Principal, id string) ([]*model.AuditRecord, error)
	HasConflict(ctx context.Context, principal *model.Principal, resourceID string, interval model.Interval, excludeID string) (bool, error)
	Calendar(ctx context.Context, principal *model.Principal, req CalendarRequest) (*model.Calendar, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.BookingLockRepository
	auditRepo    repository.AuditRepository
	resourceRepo resourcesrepo.ResourceRepository
	validator    *validator.BookingValidator
	publisher    EventPublisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	auditRepo repository.AuditRepository,
	resourceRepo resourcesrepo.ResourceRepository,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		auditRepo:    auditRepo,
		resourceRepo: resourceRepo,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, principal *model.Principal, booking *model.Booking) error {
	booking.TenantID = principal.TenantID
	if booking.UserID == "" {
		booking.UserID = principal.UserID
	}
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.verifyResource(ctx, booking.TenantID, booking.ResourceID); err != nil {
		return err
	}

	// Acquire advisory lock to prevent concurrent writes on the same resource
	lockID, err := s.acquireResourceLock(ctx, booking.TenantID, booking.ResourceID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseResourceLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tenant_id", booking.TenantID,
		"resource_id", booking.ResourceID,
		"start_time", booking.StartTime,
	)

	if err := s.appendAudit(ctx, principal, booking, model.ActionCreated, nil, snapshot(booking)); err != nil {
		return err
	}

	s.publishEvent(ctx, EventBookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, principal *model.Principal, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, principal *model.Principal, filter *model.BookingFilter) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByTenant(ctx, principal.TenantID, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "tenant_id", principal.TenantID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByTenant(ctx, principal.TenantID, filter)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "tenant_id", principal.TenantID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, principal *model.Principal, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to check booking existence")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Status != "" && !existing.Status.CanTransitionTo(updates.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Illegal status transition: %s -> %s", existing.Status, updates.Status))
	}
	if existing.Status.IsTerminal() && (updates.ChangesInterval() || updates.Title != "" ||
		updates.Description != nil || updates.ExternalReference != nil || updates.Metadata != nil) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Cannot modify a booking in terminal status %q", existing.Status))
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	// Moving the booking in time requires the same resource lock and conflict
	// re-check as creation.
	if updates.ChangesInterval() {
		lockID, err := s.acquireResourceLock(ctx, merged.TenantID, merged.ResourceID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if releaseErr := s.releaseResourceLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if updates.ChangesInterval() {
			if err := s.verifyNoConflict(sessCtx, merged, id); err != nil {
				return err
			}
		}
		if _, err := s.repo.Update(sessCtx, principal.TenantID, id, merged); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "tenant_id", principal.TenantID)

	if err := s.appendAudit(ctx, principal, merged, model.ActionUpdated, snapshot(existing), snapshot(merged)); err != nil {
		return merged, err
	}

	s.publishEvent(ctx, EventBookingUpdated, merged)
	return merged, nil
}

// Cancel is idempotent: cancelling a booking already in a terminal status is
// a no-op success.
func (s *bookingService) Cancel(ctx context.Context, principal *model.Principal, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to check booking existence")
	}

	if existing.Status.IsTerminal() {
		s.cfg.Log.Debug("Cancel is a no-op for terminal booking", "id", id, "status", existing.Status)
		return nil
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.UpdateStatus(sessCtx, principal.TenantID, id, model.StatusCancelled); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to cancel booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "tenant_id", principal.TenantID)

	cancelled := *existing
	cancelled.Status = model.StatusCancelled
	if err := s.appendAudit(ctx, principal, &cancelled, model.ActionCancelled, snapshot(existing), snapshot(&cancelled)); err != nil {
		return err
	}

	s.publishEvent(ctx, EventBookingCancelled, &cancelled)
	return nil
}

func (s *bookingService) History(ctx context.Context, principal *model.Principal, id string) ([]*model.AuditRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if _, err := s.repo.FindByID(ctx, principal.TenantID, id); err != nil {
		return nil, s.mapRepoError(err, id, "Failed to check booking existence")
	}

	records, err := s.auditRepo.FindByBooking(ctx, principal.TenantID, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve booking history", err)
	}
	return records, nil
}

// HasConflict answers the read-only conflict probe without writing anything.
func (s *bookingService) HasConflict(ctx context.Context, principal *model.Principal, resourceID string, interval model.Interval, excludeID string) (bool, error) {
	if resourceID == "" {
		return false, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.verifyResource(ctx, principal.TenantID, resourceID); err != nil {
		return false, err
	}

	existing, err := s.repo.FindOverlapping(ctx, principal.TenantID, resourceID, interval, excludeID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return false, apperrors.InvalidInput("Invalid booking ID format")
		}
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}

	return len(existing) > 0, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.Title = sanitizer.NormalizeTitle(b.Title)
	b.Description = sanitizer.NormalizeDescription(b.Description)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.ExternalReference != nil {
		merged.ExternalReference = *updates.ExternalReference
	}
	if updates.Metadata != nil {
		merged.Metadata = updates.Metadata
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) mapRepoError(err error, id, internalMsg string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal(internalMsg, err)
}

// verifyNoConflict re-checks overlap inside the write transaction so the
// check and the insert observe the same snapshot.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking, excludeID string) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.TenantID, booking.ResourceID, booking.Interval(), excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Interval().Overlaps(booking.Interval()) {
			return apperrors.Conflict(fmt.Sprintf(
				"Booking time overlaps with existing booking (%s - %s)",
				b.StartTime.Format(time.RFC3339),
				b.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// appendAudit writes the trail record after the booking write has committed.
// On failure the booking stays persisted; the caller gets AUDIT_WRITE_FAILED
// so it can tell "saved but unaudited" apart from "not saved".
func (s *bookingService) appendAudit(ctx context.Context, principal *model.Principal, booking *model.Booking, action model.AuditAction, oldValues, newValues map[string]any) error {
	record := &model.AuditRecord{
		ID:          uuid.New().String(),
		TenantID:    booking.TenantID,
		BookingID:   booking.ID,
		Action:      action,
		OldValues:   oldValues,
		NewValues:   newValues,
		PerformedBy: principal.UserID,
		PerformedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.auditRepo.Append(ctx, record); err != nil {
		s.cfg.Log.Error("Failed to append audit record",
			"booking_id", booking.ID,
			"action", action,
			"error", err,
		)
		return apperrors.AuditWriteFailed(booking.ID, err)
	}
	return nil
}

func snapshot(b *model.Booking) map[string]any {
	return map[string]any{
		"title":              b.Title,
		"description":        b.Description,
		"resource_id":        b.ResourceID,
		"start_time":         b.StartTime,
		"end_time":           b.EndTime,
		"status":             string(b.Status),
		"external_reference": b.ExternalReference,
	}
}

// verifyResource requires the booking target to exist, belong to the tenant,
// and be active. An inactive or foreign resource is indistinguishable from a
// missing one.
func (s *bookingService) verifyResource(ctx context.Context, tenantID, resourceID string) error {
	resource, err := s.resourceRepo.FindByID(ctx, tenantID, resourceID)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", resourceID)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid resource ID format")
		}
		return apperrors.Internal("Failed to retrieve resource", err)
	}
	if !resource.IsActive {
		return apperrors.NotFoundWithID("Resource", resourceID)
	}
	return nil
}

// acquireResourceLock creates an advisory lock covering all writes to one
// resource's timeline. The granule is the whole resource, not a slot
// coordinate: two overlapping intervals with different start times must
// contend for the same lock, otherwise both transactions read clean snapshots
// and insert distinct documents. Returns the lock ID, or a conflict error if
// another request holds the resource.
func (s *bookingService) acquireResourceLock(ctx context.Context, tenantID, resourceID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s", tenantID, resourceID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.LockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This resource is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

// releaseResourceLock removes the advisory lock
func (s *bookingService) releaseResourceLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
