package model

import "time"

// CalendarPeriod is the resolved half-open month window of a calendar query.
type CalendarPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	View  string    `json:"view"`
}

// CalendarDay groups the bookings touching one calendar day. A booking
// belongs to a day when it spans the day's start or begins during the day.
type CalendarDay struct {
	Date      string     `json:"date"`
	DayOfWeek int        `json:"day_of_week"`
	Bookings  []*Booking `json:"bookings"`
}

type CalendarSummary struct {
	TotalBookings     int `json:"total_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
	PendingBookings   int `json:"pending_bookings"`
}

// Calendar is the tenant-scoped calendar view: the non-cancelled bookings of
// a month window ordered by start time, the tenant's active resources, and a
// per-day grid for the month view.
type Calendar struct {
	Period    CalendarPeriod  `json:"period"`
	Bookings  []*Booking      `json:"bookings"`
	Resources []*Resource     `json:"resources"`
	Days      []CalendarDay   `json:"calendar_days,omitempty"`
	Summary   CalendarSummary `json:"summary"`
}
