package service

import (
	"context"
	"time"

	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

const (
	ViewMonth = "month"
	ViewWeek  = "week"
	ViewDay   = "day"
)

// CalendarRequest selects a month window of the tenant's calendar. Month is
// "YYYY-MM"; empty means the current month. View only controls whether the
// per-day grid is built.
type CalendarRequest struct {
	Month      string
	View       string
	ResourceID string
}

// Calendar returns the tenant's non-cancelled bookings inside the month
// window ordered by start time, together with the active resources and
// per-status counts. Cancelled bookings are the only ones hidden; completed
// ones still show on the calendar.
func (s *bookingService) Calendar(ctx context.Context, principal *model.Principal, req CalendarRequest) (*model.Calendar, error) {
	view := req.View
	if view == "" {
		view = ViewMonth
	}
	if view != ViewMonth && view != ViewWeek && view != ViewDay {
		return nil, apperrors.InvalidInput("view must be one of: month, week, day")
	}

	windowStart, windowEnd, err := monthWindow(req.Month)
	if err != nil {
		return nil, err
	}

	filter := &model.BookingFilter{
		ResourceID:       req.ResourceID,
		ExcludeCancelled: true,
		From:             &windowStart,
		To:               &windowEnd,
		Limit:            s.cfg.MaxOverlapFetch,
	}

	bookings, err := s.repo.FindByTenant(ctx, principal.TenantID, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch calendar bookings", "tenant_id", principal.TenantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	resources, err := s.resourceRepo.FindByTenant(ctx, principal.TenantID, true, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch calendar resources", "tenant_id", principal.TenantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve resources", err)
	}

	result := &model.Calendar{
		Period: model.CalendarPeriod{
			Start: windowStart,
			End:   windowEnd,
			View:  view,
		},
		Bookings:  bookings,
		Resources: resources,
		Summary:   summarize(bookings),
	}

	if view == ViewMonth {
		result.Days = buildDayGrid(windowStart, windowEnd, bookings)
	}

	return result, nil
}

// monthWindow resolves a "YYYY-MM" month into the half-open window
// [first of month, first of next month). Empty input means the current month.
func monthWindow(month string) (time.Time, time.Time, error) {
	var start time.Time
	if month == "" {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("Invalid month format. Use YYYY-MM.")
		}
		start = parsed
	}
	return start, start.AddDate(0, 1, 0), nil
}

// buildDayGrid attaches each booking to every day it spans the start of, plus
// the day it begins on. Multi-day bookings therefore appear on each day they
// cover.
func buildDayGrid(windowStart, windowEnd time.Time, bookings []*model.Booking) []model.CalendarDay {
	var days []model.CalendarDay
	for day := windowStart; day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		var dayBookings []*model.Booking
		for _, b := range bookings {
			spansDay := !b.StartTime.After(day) && b.EndTime.After(day)
			startsOnDay := b.StartTime.Year() == day.Year() && b.StartTime.YearDay() == day.YearDay()
			if spansDay || startsOnDay {
				dayBookings = append(dayBookings, b)
			}
		}
		days = append(days, model.CalendarDay{
			Date:      day.Format("2006-01-02"),
			DayOfWeek: int(day.Weekday()),
			Bookings:  dayBookings,
		})
	}
	return days
}

func summarize(bookings []*model.Booking) model.CalendarSummary {
	summary := model.CalendarSummary{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case model.StatusConfirmed:
			summary.ConfirmedBookings++
		case model.StatusPending:
			summary.PendingBookings++
		}
	}
	return summary
}
