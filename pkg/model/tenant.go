package model

import "time"

// Tenant is the isolation unit. Provisioned outside the engine; read-only here.
type Tenant struct {
	ID        string         `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string         `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Domain    string         `json:"domain,omitempty" bson:"domain,omitempty"`
	APIKey    string         `json:"-" bson:"api_key" validate:"required"`
	Settings  TenantSettings `json:"settings" bson:"settings"`
	IsActive  bool           `json:"is_active" bson:"is_active"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// TenantSettings models the tenant configuration blob with named optional
// fields plus a residual map for fields the engine does not interpret.
// The engine itself only ever reads BusinessHours.
type TenantSettings struct {
	BusinessHours      *BusinessHours `json:"business_hours,omitempty" bson:"business_hours,omitempty"`
	AdvanceBookingDays int            `json:"advance_booking_days,omitempty" bson:"advance_booking_days,omitempty" validate:"omitempty,min=0,max=730"`
	ServiceAreas       []string       `json:"service_areas,omitempty" bson:"service_areas,omitempty"`
	Extra              map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// BusinessHours is an inclusive-start/exclusive-end daily window of slot
// start hours.
type BusinessHours struct {
	StartHour int `json:"start_hour" bson:"start_hour" validate:"min=0,max=23"`
	EndHour   int `json:"end_hour" bson:"end_hour" validate:"min=1,max=24,gtfield=StartHour"`
}

// Principal is the resolved caller identity consumed from the auth
// collaborator. Opaque to the engine beyond its tenant scope.
type Principal struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id,omitempty"`
	Role     string `json:"role,omitempty"`
}
