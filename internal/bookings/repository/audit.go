package repository

import (
	"context"
	"fmt"
	"slotbook/pkg/config"
	"slotbook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const AuditCollectionName = "Booking_audit"

// AuditRepository is append-only. Records are never updated or deleted, and
// they survive any later change to the booking they reference.
type AuditRepository interface {
	Append(ctx context.Context, record *model.AuditRecord) error
	FindByBooking(ctx context.Context, tenantID, bookingID string) ([]*model.AuditRecord, error)
}

type mongoAuditRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAuditRepository(cfg *config.Config) AuditRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoAuditRepository{
		cfg:        cfg,
		collection: db.Collection(AuditCollectionName),
	}
}

func (r *mongoAuditRepository) Append(ctx context.Context, record *model.AuditRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if record.PerformedAt.IsZero() {
		record.PerformedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func (r *mongoAuditRepository) FindByBooking(ctx context.Context, tenantID, bookingID string) ([]*model.AuditRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "booking_id": bookingID}
	opts := options.Find().SetSort(bson.D{{Key: "performed_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.AuditRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode audit records: %w", err)
	}

	return records, nil
}
