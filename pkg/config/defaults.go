package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Availability planning. Candidate starts advance at a fixed stride,
	// independent of the requested slot duration.
	DefaultDefaultSlotDurationMin = 60
	DefaultSlotStrideMin          = 30
	DefaultBusinessHoursStart     = 9
	DefaultBusinessHoursEnd       = 18

	// Upper bound on bookings fetched per overlap check or range scan.
	DefaultMaxOverlapFetch = 500

	// Advisory slot locks auto-expire so a crashed request cannot wedge a slot.
	DefaultLockTTL = 10 * time.Second

	DefaultKafkaEnabled       = false
	DefaultBookingEventsTopic = "booking-events"
	DefaultBookingEventsDLQ   = "dlq-booking-events"
)
