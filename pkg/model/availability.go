package model

import "time"

// AvailabilitySlot is a derived candidate slot, never persisted.
type AvailabilitySlot struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Available   bool      `json:"available"`
}

// Availability is the planner's result: an ordered, non-overlapping slot
// sequence plus the existing bookings of the range for caller display.
type Availability struct {
	ResourceID  string             `json:"resource_id"`
	StartDate   time.Time          `json:"start_date"`
	EndDate     time.Time          `json:"end_date"`
	DurationMin int                `json:"duration_min"`
	Slots       []AvailabilitySlot `json:"available_slots"`
	Existing    []Interval         `json:"existing_bookings"`
}
