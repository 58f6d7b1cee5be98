package model

import "time"

type AuditAction string

const (
	ActionCreated   AuditAction = "created"
	ActionUpdated   AuditAction = "updated"
	ActionCancelled AuditAction = "cancelled"
	ActionConfirmed AuditAction = "confirmed"
)

// AuditRecord is an immutable, append-only trace of one booking state change.
// It references its booking by id only and must survive later changes to the
// booking row.
type AuditRecord struct {
	ID          string         `json:"id" bson:"_id" validate:"required,uuid4"`
	TenantID    string         `json:"tenant_id" bson:"tenant_id" validate:"required"`
	BookingID   string         `json:"booking_id" bson:"booking_id" validate:"required"`
	Action      AuditAction    `json:"action" bson:"action" validate:"required,oneof=created updated cancelled confirmed"`
	OldValues   map[string]any `json:"old_values,omitempty" bson:"old_values,omitempty"`
	NewValues   map[string]any `json:"new_values,omitempty" bson:"new_values,omitempty"`
	PerformedBy string         `json:"performed_by,omitempty" bson:"performed_by,omitempty"`
	PerformedAt time.Time      `json:"performed_at" bson:"performed_at" validate:"required"`
}
