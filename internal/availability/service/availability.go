package service

import (
	"context"
	"errors"
	"time"

	bookingsrepo "slotbook/internal/bookings/repository"
	resourceserrors "slotbook/internal/resources/errors"
	resourcesrepo "slotbook/internal/resources/repository"
	tenantssvc "slotbook/internal/tenants/service"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

// PlanRequest describes one availability query. StartDate and EndDate are
// calendar days; the planned range is the half-open day span
// [startOfDay(StartDate), startOfDay(EndDate)), so equal dates yield an empty
// plan and a one-day query passes EndDate = StartDate + 1 day.
type PlanRequest struct {
	ResourceID  string
	StartDate   time.Time
	EndDate     time.Time
	DurationMin int
}

type AvailabilityService interface {
	Plan(ctx context.Context, principal *model.Principal, req PlanRequest) (*model.Availability, error)
}

type availabilityService struct {
	bookingRepo  bookingsrepo.BookingRepository
	resourceRepo resourcesrepo.ResourceRepository
	tenants      tenantssvc.TenantService
	cfg          *config.Config
	now          func() time.Time
}

func NewAvailabilityService(
	bookingRepo bookingsrepo.BookingRepository,
	resourceRepo resourcesrepo.ResourceRepository,
	tenants tenantssvc.TenantService,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		tenants:      tenants,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Plan derives bookable slots for a resource over a day range. Candidate
// starts advance at the configured stride; a candidate survives when it ends
// after now, starts inside the tenant's business-hour window, does not touch
// any existing non-terminal booking, and does not overlap a slot already
// accepted. The output is therefore ordered and non-overlapping.
func (s *availabilityService) Plan(ctx context.Context, principal *model.Principal, req PlanRequest) (*model.Availability, error) {
	durationMin := req.DurationMin
	if durationMin == 0 {
		durationMin = s.cfg.DefaultSlotDurationMin
	}
	if durationMin <= 0 || durationMin > 24*60 {
		return nil, apperrors.InvalidInput("duration_min must be between 1 and 1440")
	}

	rangeStart := startOfDay(req.StartDate)
	rangeEnd := startOfDay(req.EndDate)
	if rangeEnd.Before(rangeStart) {
		return nil, apperrors.InvalidInput("end_date must not be before start_date")
	}

	resource, err := s.resourceRepo.FindByID(ctx, principal.TenantID, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", req.ResourceID)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}
	// An inactive resource is not bookable; treat it like a missing one.
	if !resource.IsActive {
		return nil, apperrors.NotFoundWithID("Resource", req.ResourceID)
	}

	startHour, endHour := s.businessHours(ctx, principal.TenantID)

	result := &model.Availability{
		ResourceID:  req.ResourceID,
		StartDate:   rangeStart,
		EndDate:     rangeEnd,
		DurationMin: durationMin,
		Slots:       []model.AvailabilitySlot{},
		Existing:    []model.Interval{},
	}

	if !rangeStart.Before(rangeEnd) {
		return result, nil
	}

	// One fetch covers the whole range; each candidate is checked in memory.
	rangeInterval := model.Interval{Start: rangeStart, End: rangeEnd}
	bookings, err := s.bookingRepo.FindOverlapping(ctx, principal.TenantID, req.ResourceID, rangeInterval, "")
	if err != nil {
		s.cfg.Log.Error("Failed to fetch bookings for availability",
			"tenant_id", principal.TenantID,
			"resource_id", req.ResourceID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve existing bookings", err)
	}

	existing := make([]model.Interval, 0, len(bookings))
	for _, b := range bookings {
		existing = append(existing, b.Interval())
	}
	result.Existing = existing

	now := s.now()
	stride := time.Duration(s.cfg.SlotStrideMin) * time.Minute
	duration := time.Duration(durationMin) * time.Minute

	var lastAcceptedEnd time.Time
	for t := rangeStart; t.Before(rangeEnd); t = t.Add(stride) {
		slot := model.Interval{Start: t, End: t.Add(duration)}

		if !slot.End.After(now) {
			continue
		}
		if t.Hour() < startHour || t.Hour() >= endHour {
			continue
		}
		if t.Before(lastAcceptedEnd) {
			continue
		}
		if overlapsAny(slot, existing) {
			continue
		}

		result.Slots = append(result.Slots, model.AvailabilitySlot{
			StartTime:   slot.Start,
			EndTime:     slot.End,
			DurationMin: durationMin,
			Available:   true,
		})
		lastAcceptedEnd = slot.End
	}

	return result, nil
}

// businessHours returns the tenant's configured slot-start window, falling
// back to the engine defaults when the tenant has none.
func (s *availabilityService) businessHours(ctx context.Context, tenantID string) (int, int) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		s.cfg.Log.Warn("Falling back to default business hours", "tenant_id", tenantID, "error", err)
		return s.cfg.BusinessHoursStart, s.cfg.BusinessHoursEnd
	}

	if bh := tenant.Settings.BusinessHours; bh != nil && bh.EndHour > bh.StartHour {
		return bh.StartHour, bh.EndHour
	}
	return s.cfg.BusinessHoursStart, s.cfg.BusinessHoursEnd
}

func overlapsAny(slot model.Interval, existing []model.Interval) bool {
	for _, iv := range existing {
		if slot.Overlaps(iv) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
