package repository

import (
	"context"
	"errors"
	"fmt"
	tenantserrors "slotbook/internal/tenants/errors"
	"slotbook/pkg/config"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Tenants"

// TenantRepository is read-only: tenants are provisioned by an external
// administrative process.
type TenantRepository interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error)
	FindByID(ctx context.Context, id string) (*model.Tenant, error)
}

type mongoTenantRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTenantRepository(cfg *config.Config) TenantRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoTenantRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// FindByAPIKey only matches active tenants: a deactivated tenant's key stops
// authenticating immediately.
func (r *mongoTenantRepository) FindByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"api_key": apiKey, "is_active": true}

	var tenant model.Tenant
	err := r.collection.FindOne(ctx, filter).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenantserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant by API key: %w", err)
	}

	return &tenant, nil
}

func (r *mongoTenantRepository) FindByID(ctx context.Context, id string) (*model.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var tenant model.Tenant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenantserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	return &tenant, nil
}
