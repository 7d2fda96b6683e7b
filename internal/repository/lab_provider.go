package repository

import (
	"context"
	"errors"

	"certlab/internal/model"

	"gorm.io/gorm"
)

type LabProviderRepository interface {
	Create(ctx context.Context, provider *model.LabProvider) error
	Update(ctx context.Context, provider *model.LabProvider) error
	GetByProviderID(ctx context.Context, providerID string) (*model.LabProvider, error)
	List(ctx context.Context, enabledOnly bool) ([]*model.LabProvider, error)
	SetEnabled(ctx context.Context, providerID string, enabled bool) error
}

func NewLabProviderRepository(r *Repository) LabProviderRepository {
	return &labProviderRepository{Repository: r}
}

type labProviderRepository struct {
	*Repository
}

func (r *labProviderRepository) Create(ctx context.Context, provider *model.LabProvider) error {
	return r.DB(ctx).Create(provider).Error
}

func (r *labProviderRepository) Update(ctx context.Context, provider *model.LabProvider) error {
	return r.DB(ctx).Save(provider).Error
}

func (r *labProviderRepository) GetByProviderID(ctx context.Context, providerID string) (*model.LabProvider, error) {
	var provider model.LabProvider
	if err := r.DB(ctx).Where("provider_id = ?", providerID).First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *labProviderRepository) List(ctx context.Context, enabledOnly bool) ([]*model.LabProvider, error) {
	var providers []*model.LabProvider
	query := r.DB(ctx)
	if enabledOnly {
		query = query.Where("is_enabled = 1")
	}
	if err := query.Order("provider_id ASC").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *labProviderRepository) SetEnabled(ctx context.Context, providerID string, enabled bool) error {
	value := int8(0)
	if enabled {
		value = 1
	}
	result := r.DB(ctx).Model(&model.LabProvider{}).
		Where("provider_id = ?", providerID).
		Update("is_enabled", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
