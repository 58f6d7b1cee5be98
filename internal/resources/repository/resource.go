package repository

import (
	"context"
	"errors"
	"fmt"
	resourceserrors "slotbook/internal/resources/errors"
	"slotbook/pkg/config"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Resources"

// ResourceRepository is read-only and tenant-scoped. Resource provisioning
// happens outside the engine.
type ResourceRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error)
	FindByTenant(ctx context.Context, tenantID string, activeOnly bool, limit int, offset int64) ([]*model.Resource, error)
	CountByTenant(ctx context.Context, tenantID string, activeOnly bool) (int64, error)
}

type mongoResourceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoResourceRepository(cfg *config.Config) ResourceRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoResourceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoResourceRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "tenant_id": tenantID}

	var resource model.Resource
	err = r.collection.FindOne(ctx, filter).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource: %w", err)
	}

	return &resource, nil
}

func (r *mongoResourceRepository) FindByTenant(ctx context.Context, tenantID string, activeOnly bool, limit int, offset int64) ([]*model.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}

	return resources, nil
}

func (r *mongoResourceRepository) CountByTenant(ctx context.Context, tenantID string, activeOnly bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}
	if activeOnly {
		filter["is_active"] = true
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}
