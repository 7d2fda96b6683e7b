package service

import (
	"context"

	v1 "certlab/api/v1"
	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/pkg/log"

	"go.uber.org/zap"
)

type LabProviderService interface {
	List(ctx context.Context, enabledOnly bool) (*v1.ListProviderResponseData, error)
	Get(ctx context.Context, providerID string) (*v1.ProviderDetail, error)
	SetEnabled(ctx context.Context, providerID string, enabled bool) (*v1.ProviderDetail, error)
	PutInstanceType(ctx context.Context, providerID, typeID string, spec *v1.InstanceTypeSpec) (*v1.ProviderDetail, error)
	DeleteInstanceType(ctx context.Context, providerID, typeID string) (*v1.ProviderDetail, error)
}

func NewLabProviderService(
	service *Service,
	providerRepo repository.LabProviderRepository,
	logger *log.Logger,
) LabProviderService {
	return &labProviderService{
		providerRepo: providerRepo,
		Service:      service,
		logger:       logger,
	}
}

type labProviderService struct {
	providerRepo repository.LabProviderRepository
	*Service
	logger *log.Logger
}

func (s *labProviderService) List(ctx context.Context, enabledOnly bool) (*v1.ListProviderResponseData, error) {
	providers, err := s.providerRepo.List(ctx, enabledOnly)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list providers", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	items := make([]v1.ProviderDetail, 0, len(providers))
	for _, provider := range providers {
		items = append(items, providerDetail(provider))
	}
	return &v1.ListProviderResponseData{Items: items}, nil
}

func (s *labProviderService) Get(ctx context.Context, providerID string) (*v1.ProviderDetail, error) {
	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	detail := providerDetail(provider)
	return &detail, nil
}

func (s *labProviderService) SetEnabled(ctx context.Context, providerID string, enabled bool) (*v1.ProviderDetail, error) {
	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := s.providerRepo.SetEnabled(ctx, providerID, enabled); err != nil {
		s.logger.WithContext(ctx).Error("failed to set provider enabled", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if enabled {
		provider.IsEnabled = 1
	} else {
		provider.IsEnabled = 0
	}
	detail := providerDetail(provider)
	return &detail, nil
}

func (s *labProviderService) PutInstanceType(ctx context.Context, providerID, typeID string, spec *v1.InstanceTypeSpec) (*v1.ProviderDetail, error) {
	if typeID == "" || spec.VCPU <= 0 || spec.MemoryGB <= 0 || spec.CostPerHour <= 0 {
		return nil, v1.ErrInvalidCatalogEntry
	}
	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider.InstanceTypes == nil {
		provider.InstanceTypes = make(map[string]model.InstanceTypeSpec)
	}
	provider.InstanceTypes[typeID] = model.InstanceTypeSpec{
		VCPU:        spec.VCPU,
		MemoryGB:    spec.MemoryGB,
		CostPerHour: spec.CostPerHour,
	}
	if err := s.providerRepo.Update(ctx, provider); err != nil {
		s.logger.WithContext(ctx).Error("failed to update provider catalog", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	detail := providerDetail(provider)
	return &detail, nil
}

func (s *labProviderService) DeleteInstanceType(ctx context.Context, providerID, typeID string) (*v1.ProviderDetail, error) {
	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if _, ok := provider.InstanceTypes[typeID]; !ok {
		return nil, v1.ErrInstanceTypeNotFound
	}
	delete(provider.InstanceTypes, typeID)
	if err := s.providerRepo.Update(ctx, provider); err != nil {
		s.logger.WithContext(ctx).Error("failed to update provider catalog", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	detail := providerDetail(provider)
	return &detail, nil
}

func (s *labProviderService) getProvider(ctx context.Context, providerID string) (*model.LabProvider, error) {
	provider, err := s.providerRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get provider", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if provider == nil {
		return nil, v1.ErrProviderNotFound
	}
	return provider, nil
}

func providerDetail(provider *model.LabProvider) v1.ProviderDetail {
	types := make(map[string]v1.InstanceTypeSpec, len(provider.InstanceTypes))
	for name, spec := range provider.InstanceTypes {
		types[name] = v1.InstanceTypeSpec{
			VCPU:        spec.VCPU,
			MemoryGB:    spec.MemoryGB,
			CostPerHour: spec.CostPerHour,
		}
	}
	return v1.ProviderDetail{
		ProviderID:    provider.ProviderID,
		DisplayName:   provider.DisplayName,
		IsEnabled:     provider.Enabled(),
		Regions:       provider.Regions,
		InstanceTypes: types,
		ResourceKinds: provider.ResourceKinds,
	}
}
