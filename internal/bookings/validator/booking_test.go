package validator

import (
	"testing"
	"time"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Service: "test"})
}

func validBooking() *model.Booking {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &model.Booking{
		TenantID:   "tenant-1",
		ResourceID: "64f1b2a3c4d5e6f7a8b9c0d1",
		Title:      "Team sync",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     model.StatusPending,
	}
}

func TestValidate_Valid(t *testing.T) {
	v := NewBookingValidator(testLogger())
	require.NoError(t, v.Validate(validBooking()))
}

func TestValidate_MissingFields(t *testing.T) {
	v := NewBookingValidator(testLogger())

	b := validBooking()
	b.TenantID = ""
	b.Title = ""
	err := v.Validate(b)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		fields = append(fields, ve.Field)
	}
	assert.Contains(t, fields, "TenantID")
	assert.Contains(t, fields, "Title")
}

func TestValidate_EndBeforeStart(t *testing.T) {
	v := NewBookingValidator(testLogger())

	b := validBooking()
	b.EndTime = b.StartTime.Add(-time.Hour)
	err := v.Validate(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EndTime")
}

func TestValidate_EqualStartEnd(t *testing.T) {
	v := NewBookingValidator(testLogger())

	b := validBooking()
	b.EndTime = b.StartTime
	assert.Error(t, v.Validate(b))
}

func TestValidate_BadStatus(t *testing.T) {
	v := NewBookingValidator(testLogger())

	b := validBooking()
	b.Status = "archived"
	assert.Error(t, v.Validate(b))
}

func TestValidate_BadResourceID(t *testing.T) {
	v := NewBookingValidator(testLogger())

	b := validBooking()
	b.ResourceID = "not-an-object-id"
	assert.Error(t, v.Validate(b))
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(time.Hour)
	require.NoError(t, v.ValidateUpdate(&model.BookingUpdate{StartTime: &start, EndTime: &end}))

	bad := start.Add(-time.Minute)
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{StartTime: &start, EndTime: &bad}))

	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{Title: "x"}))
}
