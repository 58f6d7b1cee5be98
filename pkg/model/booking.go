package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// IsTerminal reports whether no further transition is defined for the status.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo permits only forward transitions:
// pending -> confirmed -> completed, and pending|confirmed -> cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

type Booking struct {
	ID                string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID          string         `json:"tenant_id" bson:"tenant_id" validate:"required"`
	ResourceID        string         `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	UserID            string         `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty"`
	Title             string         `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description       string         `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	StartTime         time.Time      `json:"start_time" bson:"start_time" validate:"required"`
	EndTime           time.Time      `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status            BookingStatus  `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	ExternalReference string         `json:"external_reference,omitempty" bson:"external_reference,omitempty" validate:"omitempty,max=200"`
	Metadata          map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt         time.Time      `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Interval returns the booking's half-open occupancy range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingUpdate is a partial patch: absent fields keep their prior values.
type BookingUpdate struct {
	Title             string         `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description       *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartTime         *time.Time     `json:"start_time,omitempty" validate:"omitempty"`
	EndTime           *time.Time     `json:"end_time,omitempty" validate:"omitempty"`
	Status            BookingStatus  `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	ExternalReference *string        `json:"external_reference,omitempty" validate:"omitempty,max=200"`
	// Metadata replaces the stored map wholesale; there is no per-key merge.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ChangesInterval reports whether the patch moves the booking in time.
func (u *BookingUpdate) ChangesInterval() bool {
	return u.StartTime != nil || u.EndTime != nil
}

// BookingFilter narrows tenant-scoped listing. Zero values mean "no filter".
// ExcludeCancelled is only consulted when Status is unset.
type BookingFilter struct {
	ResourceID       string
	UserID           string
	Status           BookingStatus
	ExcludeCancelled bool
	From             *time.Time
	To               *time.Time
	Limit            int
	Offset           int64
}
