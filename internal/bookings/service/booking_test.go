package service

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/internal/bookings/repository"
	"slotbook/internal/bookings/validator"
	resourceserrors "slotbook/internal/resources/errors"
	resourcesrepo "slotbook/internal/resources/repository"
	"slotbook/pkg/config"
	mongotx "slotbook/pkg/db/mongo"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/kafka"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// --- In-memory fakes ---

type fakeBookingRepository struct {
	mu       sync.Mutex
	bookings []*model.Booking
}

var _ repository.BookingRepository = (*fakeBookingRepository)(nil)

func (f *fakeBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *booking
	stored.ID = primitive.NewObjectID().Hex()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	f.bookings = append(f.bookings, &stored)
	booking.ID = stored.ID
	return nil
}

func (f *fakeBookingRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && b.TenantID == tenantID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (f *fakeBookingRepository) FindByTenant(ctx context.Context, tenantID string, filter *model.BookingFilter) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID {
			continue
		}
		if filter != nil && filter.ResourceID != "" && b.ResourceID != filter.ResourceID {
			continue
		}
		if filter != nil && filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter != nil && filter.Status == "" && filter.ExcludeCancelled && b.Status == model.StatusCancelled {
			continue
		}
		if filter != nil && filter.From != nil && !b.EndTime.After(*filter.From) {
			continue
		}
		if filter != nil && filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeBookingRepository) CountByTenant(ctx context.Context, tenantID string, filter *model.BookingFilter) (int64, error) {
	bookings, _ := f.FindByTenant(ctx, tenantID, filter)
	return int64(len(bookings)), nil
}

func (f *fakeBookingRepository) FindOverlapping(ctx context.Context, tenantID, resourceID string, interval model.Interval, excludeID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID || b.ResourceID != resourceID {
			continue
		}
		if b.Status.IsTerminal() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Interval().Overlaps(interval) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingRepository) Update(ctx context.Context, tenantID, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookings {
		if b.ID == id && b.TenantID == tenantID {
			updated := *booking
			updated.ID = id
			updated.TenantID = tenantID
			updated.UpdatedAt = time.Now().UTC()
			f.bookings[i] = &updated
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (f *fakeBookingRepository) UpdateStatus(ctx context.Context, tenantID, id string, status model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && b.TenantID == tenantID {
			b.Status = status
			b.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

func (f *fakeBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func (f *fakeBookingRepository) get(id string) *model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			copied := *b
			return &copied
		}
	}
	return nil
}

type fakeLockRepository struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

var _ repository.BookingLockRepository = (*fakeLockRepository)(nil)

func newFakeLockRepository() *fakeLockRepository {
	return &fakeLockRepository{locks: make(map[string]struct{})}
}

func (f *fakeLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.locks[lock.ID]; held {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	f.locks[lock.ID] = struct{}{}
	return lock, nil
}

func (f *fakeLockRepository) Delete(ctx context.Context, lockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, lockID)
	return nil
}

type fakeAuditRepository struct {
	mu        sync.Mutex
	records   []*model.AuditRecord
	appendErr error
}

var _ repository.AuditRepository = (*fakeAuditRepository)(nil)

func (f *fakeAuditRepository) Append(ctx context.Context, record *model.AuditRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAuditRepository) FindByBooking(ctx context.Context, tenantID, bookingID string) ([]*model.AuditRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AuditRecord
	for _, r := range f.records {
		if r.TenantID == tenantID && r.BookingID == bookingID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeResourceRepository struct {
	missing  map[string]bool
	inactive map[string]bool
	listed   []*model.Resource
}

var _ resourcesrepo.ResourceRepository = (*fakeResourceRepository)(nil)

func newFakeResourceRepository() *fakeResourceRepository {
	return &fakeResourceRepository{
		missing:  make(map[string]bool),
		inactive: make(map[string]bool),
	}
}

func (f *fakeResourceRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error) {
	if f.missing[id] {
		return nil, resourceserrors.ErrNotFound
	}
	return &model.Resource{ID: id, TenantID: tenantID, Name: "Room A", IsActive: !f.inactive[id]}, nil
}

func (f *fakeResourceRepository) FindByTenant(ctx context.Context, tenantID string, activeOnly bool, limit int, offset int64) ([]*model.Resource, error) {
	return f.listed, nil
}

func (f *fakeResourceRepository) CountByTenant(ctx context.Context, tenantID string, activeOnly bool) (int64, error) {
	return int64(len(f.listed)), nil
}

type capturePublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (p *capturePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

// --- Fixtures ---

type fixture struct {
	svc       BookingService
	repo      *fakeBookingRepository
	locks     *fakeLockRepository
	audit     *fakeAuditRepository
	resources *fakeResourceRepository
	publisher *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.ERROR, Service: "test"})
	cfg := &config.Config{
		Log:             log,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		MaxOverlapFetch: 100,
		LockTTL:         10 * time.Second,
	}

	repo := &fakeBookingRepository{}
	locks := newFakeLockRepository()
	audit := &fakeAuditRepository{}
	resources := newFakeResourceRepository()
	publisher := &capturePublisher{}

	svc := NewBookingService(
		repo,
		locks,
		audit,
		resources,
		validator.NewBookingValidator(log),
		publisher,
		cfg,
	)

	return &fixture{svc: svc, repo: repo, locks: locks, audit: audit, resources: resources, publisher: publisher}
}

func principal(tenantID string) *model.Principal {
	return &model.Principal{TenantID: tenantID, UserID: "user-1"}
}

func newBooking(resourceID string, startMin, endMin int) *model.Booking {
	base := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
	return &model.Booking{
		ResourceID: resourceID,
		Title:      "Team sync",
		StartTime:  base.Add(time.Duration(startMin) * time.Minute),
		EndTime:    base.Add(time.Duration(endMin) * time.Minute),
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	return appErr.Code
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	b := newBooking(resourceID, 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), b))

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, "tenant-a", b.TenantID)

	require.Len(t, f.audit.records, 1)
	assert.Equal(t, model.ActionCreated, f.audit.records[0].Action)
	assert.Equal(t, b.ID, f.audit.records[0].BookingID)
	assert.Equal(t, "user-1", f.audit.records[0].PerformedBy)

	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, EventBookingCreated, f.publisher.messages[0].GetEventType())
	assert.Equal(t, b.ID, f.publisher.messages[0].Key)

	// Lock is released after the write.
	assert.Empty(t, f.locks.locks)
}

func TestCreate_OverlapConflict(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60, 15*60)))

	err := f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60+30, 15*60+30))
	assert.Equal(t, apperrors.CodeConflict, appErrCode(t, err))
	assert.Len(t, f.repo.bookings, 1)
}

func TestCreate_TouchingBoundaryIsNotConflict(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60, 15*60)))
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 15*60, 16*60)))

	assert.Len(t, f.repo.bookings, 2)
}

func TestCreate_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()
	p := principal("tenant-a")

	first := newBooking(resourceID, 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, first))
	require.NoError(t, f.svc.Cancel(context.Background(), p, first.ID))

	err := f.svc.Create(context.Background(), p, newBooking(resourceID, 14*60, 15*60))
	assert.NoError(t, err)
}

func TestCreate_SameSlotDifferentResources(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)))
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)))
}

func TestCreate_SameSlotDifferentTenants(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60, 15*60)))
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-b"), newBooking(resourceID, 14*60, 15*60)))
}

func TestCreate_ValidationFailure(t *testing.T) {
	f := newFixture(t)

	b := newBooking(primitive.NewObjectID().Hex(), 15*60, 14*60)
	err := f.svc.Create(context.Background(), principal("tenant-a"), b)
	assert.Equal(t, apperrors.CodeValidation, appErrCode(t, err))
	assert.Empty(t, f.repo.bookings)
	assert.Empty(t, f.audit.records)
}

func TestCreate_AuditWriteFailed(t *testing.T) {
	f := newFixture(t)
	f.audit.appendErr = assert.AnError

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	err := f.svc.Create(context.Background(), principal("tenant-a"), b)
	assert.Equal(t, apperrors.CodeAuditWriteFailed, appErrCode(t, err))

	// The booking write is never rolled back for an audit failure.
	assert.NotNil(t, f.repo.get(b.ID))
}

func TestCreate_UnknownResource(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()
	f.resources.missing[resourceID] = true

	err := f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60, 15*60))
	assert.Equal(t, apperrors.CodeNotFound, appErrCode(t, err))
	assert.Empty(t, f.repo.bookings)
	assert.Empty(t, f.audit.records)
}

func TestCreate_InactiveResource(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()
	f.resources.inactive[resourceID] = true

	err := f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60, 15*60))
	assert.Equal(t, apperrors.CodeNotFound, appErrCode(t, err))
	assert.Empty(t, f.repo.bookings)
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 14*60, 15*60))
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if apperrors.AsAppError(err).Code == apperrors.CodeConflict {
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.repo.bookings, 1)
}

func TestCreate_ConcurrentOverlappingIntervals(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	// Different start times, overlapping ranges: the per-resource lock must
	// still force one of the two writers to lose.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, window := range [][2]int{{14 * 60, 15 * 60}, {14*60 + 30, 15*60 + 30}} {
		wg.Add(1)
		go func(startMin, endMin int) {
			defer wg.Done()
			results <- f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, startMin, endMin))
		}(window[0], window[1])
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if apperrors.AsAppError(err).Code == apperrors.CodeConflict {
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.repo.bookings, 1)
}

// --- Reads and tenant isolation ---

func TestGetByID_TenantIsolation(t *testing.T) {
	f := newFixture(t)

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), b))

	_, err := f.svc.GetByID(context.Background(), principal("tenant-b"), b.ID)
	assert.Equal(t, apperrors.CodeNotFound, appErrCode(t, err))

	got, err := f.svc.GetByID(context.Background(), principal("tenant-a"), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestList_FiltersByTenant(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()

	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), newBooking(resourceID, 9*60, 10*60)))
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-b"), newBooking(resourceID, 9*60, 10*60)))

	bookings, total, err := f.svc.List(context.Background(), principal("tenant-a"), &model.BookingFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, bookings, 1)
	assert.Equal(t, "tenant-a", bookings[0].TenantID)
}

// --- Update and status transitions ---

func TestUpdate_IllegalTransition(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))

	_, err := f.svc.Update(context.Background(), p, b.ID, &model.BookingUpdate{Status: model.StatusCompleted})
	assert.Equal(t, apperrors.CodeInvalidInput, appErrCode(t, err))
}

func TestUpdate_ForwardTransitions(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))

	updated, err := f.svc.Update(context.Background(), p, b.ID, &model.BookingUpdate{Status: model.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)

	updated, err = f.svc.Update(context.Background(), p, b.ID, &model.BookingUpdate{Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
}

func TestUpdate_TerminalBookingRejectsChanges(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))
	require.NoError(t, f.svc.Cancel(context.Background(), p, b.ID))

	_, err := f.svc.Update(context.Background(), p, b.ID, &model.BookingUpdate{Title: "New title"})
	assert.Equal(t, apperrors.CodeInvalidInput, appErrCode(t, err))
}

func TestUpdate_RescheduleConflict(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")
	resourceID := primitive.NewObjectID().Hex()

	first := newBooking(resourceID, 10*60, 11*60)
	require.NoError(t, f.svc.Create(context.Background(), p, first))
	second := newBooking(resourceID, 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, second))

	// Move the second booking onto the first.
	newStart := first.StartTime.Add(30 * time.Minute)
	newEnd := newStart.Add(time.Hour)
	_, err := f.svc.Update(context.Background(), p, second.ID, &model.BookingUpdate{StartTime: &newStart, EndTime: &newEnd})
	assert.Equal(t, apperrors.CodeConflict, appErrCode(t, err))

	// Moving it to a free range succeeds, and its own old range is ignored.
	freeStart := first.StartTime.Add(6 * time.Hour)
	freeEnd := freeStart.Add(time.Hour)
	updated, err := f.svc.Update(context.Background(), p, second.ID, &model.BookingUpdate{StartTime: &freeStart, EndTime: &freeEnd})
	require.NoError(t, err)
	assert.Equal(t, freeStart, updated.StartTime)
}

func TestUpdate_AuditTrail(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))

	_, err := f.svc.Update(context.Background(), p, b.ID, &model.BookingUpdate{Title: "Renamed meeting"})
	require.NoError(t, err)

	require.Len(t, f.audit.records, 2)
	rec := f.audit.records[1]
	assert.Equal(t, model.ActionUpdated, rec.Action)
	assert.Equal(t, "Team sync", rec.OldValues["title"])
	assert.Equal(t, "Renamed meeting", rec.NewValues["title"])
}

// --- Cancel ---

func TestCancel_Success(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))
	require.NoError(t, f.svc.Cancel(context.Background(), p, b.ID))

	stored := f.repo.get(b.ID)
	require.NotNil(t, stored)
	assert.Equal(t, model.StatusCancelled, stored.Status)

	require.Len(t, f.audit.records, 2)
	assert.Equal(t, model.ActionCancelled, f.audit.records[1].Action)
}

func TestCancel_Idempotent(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))
	require.NoError(t, f.svc.Cancel(context.Background(), p, b.ID))

	auditCount := len(f.audit.records)
	require.NoError(t, f.svc.Cancel(context.Background(), p, b.ID))

	// Second cancel is a no-op: no extra audit record, no extra event.
	assert.Len(t, f.audit.records, auditCount)
}

func TestCancel_TenantIsolation(t *testing.T) {
	f := newFixture(t)

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), principal("tenant-a"), b))

	err := f.svc.Cancel(context.Background(), principal("tenant-b"), b.ID)
	assert.Equal(t, apperrors.CodeNotFound, appErrCode(t, err))
}

// --- History and conflict probe ---

func TestHistory(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	b := newBooking(primitive.NewObjectID().Hex(), 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))
	_, err := f.svc.Update(context.Background(), p, b.ID, &model.BookingUpdate{Status: model.StatusConfirmed})
	require.NoError(t, err)

	records, err := f.svc.History(context.Background(), p, b.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.ActionCreated, records[0].Action)
	assert.Equal(t, model.ActionUpdated, records[1].Action)
}

func TestHasConflict(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")
	resourceID := primitive.NewObjectID().Hex()

	b := newBooking(resourceID, 14*60, 15*60)
	require.NoError(t, f.svc.Create(context.Background(), p, b))

	probe := func(startMin, endMin int) model.Interval {
		base := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
		return model.Interval{
			Start: base.Add(time.Duration(startMin) * time.Minute),
			End:   base.Add(time.Duration(endMin) * time.Minute),
		}
	}

	conflict, err := f.svc.HasConflict(context.Background(), p, resourceID, probe(14*60+30, 15*60+30), "")
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = f.svc.HasConflict(context.Background(), p, resourceID, probe(15*60, 16*60), "")
	require.NoError(t, err)
	assert.False(t, conflict)

	// Excluding the booking itself clears the conflict.
	conflict, err = f.svc.HasConflict(context.Background(), p, resourceID, probe(14*60, 15*60), b.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	// Other tenants never see the booking.
	conflict, err = f.svc.HasConflict(context.Background(), principal("tenant-b"), resourceID, probe(14*60, 15*60), "")
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestHasConflict_UnknownResource(t *testing.T) {
	f := newFixture(t)
	resourceID := primitive.NewObjectID().Hex()
	f.resources.missing[resourceID] = true

	interval := model.Interval{
		Start: time.Date(2030, 6, 10, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 6, 10, 15, 0, 0, 0, time.UTC),
	}
	_, err := f.svc.HasConflict(context.Background(), principal("tenant-a"), resourceID, interval, "")
	assert.Equal(t, apperrors.CodeNotFound, appErrCode(t, err))
}

// --- Calendar ---

func TestCalendar(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")
	resourceID := primitive.NewObjectID().Hex()
	f.resources.listed = []*model.Resource{{ID: resourceID, TenantID: "tenant-a", Name: "Room A", IsActive: true}}

	pending := newBooking(resourceID, 9*60, 10*60)
	require.NoError(t, f.svc.Create(context.Background(), p, pending))

	confirmed := newBooking(resourceID, 11*60, 12*60)
	require.NoError(t, f.svc.Create(context.Background(), p, confirmed))
	_, err := f.svc.Update(context.Background(), p, confirmed.ID, &model.BookingUpdate{Status: model.StatusConfirmed})
	require.NoError(t, err)

	cancelled := newBooking(resourceID, 13*60, 14*60)
	require.NoError(t, f.svc.Create(context.Background(), p, cancelled))
	require.NoError(t, f.svc.Cancel(context.Background(), p, cancelled.ID))

	calendar, err := f.svc.Calendar(context.Background(), p, CalendarRequest{Month: "2030-06"})
	require.NoError(t, err)

	// Cancelled bookings are hidden; pending and confirmed show.
	require.Len(t, calendar.Bookings, 2)
	assert.Equal(t, 2, calendar.Summary.TotalBookings)
	assert.Equal(t, 1, calendar.Summary.ConfirmedBookings)
	assert.Equal(t, 1, calendar.Summary.PendingBookings)

	assert.Equal(t, "month", calendar.Period.View)
	assert.Equal(t, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), calendar.Period.Start)
	assert.Equal(t, time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC), calendar.Period.End)

	require.Len(t, calendar.Resources, 1)
	assert.Equal(t, resourceID, calendar.Resources[0].ID)

	// June has 30 days; the bookings land on the grid day they start on.
	require.Len(t, calendar.Days, 30)
	day10 := calendar.Days[9]
	assert.Equal(t, "2030-06-10", day10.Date)
	assert.Len(t, day10.Bookings, 2)
	assert.Empty(t, calendar.Days[10].Bookings)
}

func TestCalendar_WeekViewSkipsDayGrid(t *testing.T) {
	f := newFixture(t)

	calendar, err := f.svc.Calendar(context.Background(), principal("tenant-a"), CalendarRequest{Month: "2030-06", View: "week"})
	require.NoError(t, err)
	assert.Empty(t, calendar.Days)
	assert.Equal(t, "week", calendar.Period.View)
}

func TestCalendar_InvalidInput(t *testing.T) {
	f := newFixture(t)
	p := principal("tenant-a")

	_, err := f.svc.Calendar(context.Background(), p, CalendarRequest{Month: "June 2030"})
	assert.Equal(t, apperrors.CodeInvalidInput, appErrCode(t, err))

	_, err = f.svc.Calendar(context.Background(), p, CalendarRequest{Month: "2030-06", View: "year"})
	assert.Equal(t, apperrors.CodeInvalidInput, appErrCode(t, err))
}
