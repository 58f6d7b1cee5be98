package service

import (
	"context"
	"errors"
	resourceserrors "slotbook/internal/resources/errors"
	"slotbook/internal/resources/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
	"sync"
)

type ResourceService interface {
	GetByID(ctx context.Context, principal *model.Principal, id string) (*model.Resource, error)
	List(ctx context.Context, principal *model.Principal, activeOnly bool, limit int, offset int64) ([]*model.Resource, int64, error)
}

type resourceService struct {
	repo repository.ResourceRepository
	cfg  *config.Config
}

func NewResourceService(repo repository.ResourceRepository, cfg *config.Config) ResourceService {
	return &resourceService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *resourceService) GetByID(ctx context.Context, principal *model.Principal, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}

	return resource, nil
}

func (s *resourceService) List(ctx context.Context, principal *model.Principal, activeOnly bool, limit int, offset int64) ([]*model.Resource, int64, error) {
	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByTenant(ctx, principal.TenantID, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "tenant_id", principal.TenantID, "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindByTenant(ctx, principal.TenantID, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "tenant_id", principal.TenantID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}
