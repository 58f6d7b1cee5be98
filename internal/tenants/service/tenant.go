package service

import (
	"context"
	"errors"
	tenantserrors "slotbook/internal/tenants/errors"
	"slotbook/internal/tenants/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

type TenantService interface {
	ResolvePrincipal(ctx context.Context, apiKey string) (*model.Principal, error)
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
}

type tenantService struct {
	repo repository.TenantRepository
	cfg  *config.Config
}

func NewTenantService(repo repository.TenantRepository, cfg *config.Config) TenantService {
	return &tenantService{
		repo: repo,
		cfg:  cfg,
	}
}

// ResolvePrincipal maps an API key to a tenant-scoped caller identity. Used
// by the authentication middleware on every request.
func (s *tenantService) ResolvePrincipal(ctx context.Context, apiKey string) (*model.Principal, error) {
	if apiKey == "" {
		return nil, apperrors.Unauthorized("API key is required")
	}

	tenant, err := s.repo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, tenantserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid API key")
		}
		s.cfg.Log.Error("Failed to resolve tenant by API key", "error", err)
		return nil, apperrors.Internal("Failed to resolve tenant", err)
	}

	return &model.Principal{TenantID: tenant.ID}, nil
}

func (s *tenantService) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tenant ID cannot be empty")
	}

	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tenantserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tenant", id)
		}
		return nil, apperrors.Internal("Failed to retrieve tenant", err)
	}

	return tenant, nil
}
