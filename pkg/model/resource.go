package model

import "time"

// Resource is a bookable unit owned by exactly one tenant. Created and
// deactivated by administrative operations outside this engine; read-only here.
// Capacity is informational: conflict checking treats every resource as
// capacity 1.
type Resource struct {
	ID          string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID    string         `json:"tenant_id" bson:"tenant_id" validate:"required"`
	Name        string         `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string         `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Category    string         `json:"category,omitempty" bson:"category,omitempty" validate:"omitempty,max=100"`
	Capacity    int            `json:"capacity" bson:"capacity" validate:"required,min=1,max=1000"`
	Location    string         `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Settings    map[string]any `json:"settings,omitempty" bson:"settings,omitempty"`
	IsActive    bool           `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}
