package repository

import (
	"context"
	"errors"
	"time"

	"certlab/internal/model"

	"gorm.io/gorm"
)

type LabInstanceRepository interface {
	Create(ctx context.Context, inst *model.LabInstance) error
	Update(ctx context.Context, inst *model.LabInstance) error
	GetByInstanceID(ctx context.Context, instanceID string) (*model.LabInstance, error)
	// TransitionStatus applies updates only if the row is still in fromStatus.
	// Returns false when the guard failed, i.e. a concurrent transition won.
	TransitionStatus(ctx context.Context, instanceID, fromStatus string, updates map[string]interface{}) (bool, error)
	ListWithFilters(ctx context.Context, status, providerID, userID string, page, pageSize int) ([]*model.LabInstance, int64, error)
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByProvider(ctx context.Context) (map[string]int64, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	SumResources(ctx context.Context) (vcpu int64, memoryGB float64, err error)
	SumRunningCostPerHour(ctx context.Context) (float64, error)
	RecentErrors(ctx context.Context, limit int) ([]*model.LabInstance, error)
	ListExpiredLeases(ctx context.Context, now time.Time, limit int) ([]*model.LabInstance, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountTerminatedSince(ctx context.Context, since time.Time) (int64, error)
	CountFailedSince(ctx context.Context, since time.Time) (int64, error)
	CountCreatedSinceByProvider(ctx context.Context, since time.Time) (map[string]int64, error)
	SumAccruedSince(ctx context.Context, since time.Time) (hours float64, cost float64, err error)
}

func NewLabInstanceRepository(r *Repository) LabInstanceRepository {
	return &labInstanceRepository{Repository: r}
}

type labInstanceRepository struct {
	*Repository
}

func (r *labInstanceRepository) Create(ctx context.Context, inst *model.LabInstance) error {
	return r.DB(ctx).Create(inst).Error
}

func (r *labInstanceRepository) Update(ctx context.Context, inst *model.LabInstance) error {
	return r.DB(ctx).Save(inst).Error
}

func (r *labInstanceRepository) GetByInstanceID(ctx context.Context, instanceID string) (*model.LabInstance, error) {
	var inst model.LabInstance
	if err := r.DB(ctx).Where("instance_id = ?", instanceID).First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inst, nil
}

func (r *labInstanceRepository) TransitionStatus(ctx context.Context, instanceID, fromStatus string, updates map[string]interface{}) (bool, error) {
	result := r.DB(ctx).Model(&model.LabInstance{}).
		Where("instance_id = ? AND status = ?", instanceID, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *labInstanceRepository) ListWithFilters(ctx context.Context, status, providerID, userID string, page, pageSize int) ([]*model.LabInstance, int64, error) {
	var instances []*model.LabInstance
	var total int64

	query := r.DB(ctx).Model(&model.LabInstance{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if providerID != "" {
		query = query.Where("provider_id = ?", providerID)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("id DESC").Find(&instances).Error; err != nil {
		return nil, 0, err
	}
	return instances, total, nil
}

func (r *labInstanceRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Where("user_id = ? AND status IN ?", userID, []string{model.InstanceStatusProvisioning, model.InstanceStatusRunning}).
		Count(&count).Error
	return count, err
}

type statusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

func (r *labInstanceRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type providerCount struct {
	ProviderID string `gorm:"column:provider_id"`
	Count      int64  `gorm:"column:count"`
}

func (r *labInstanceRepository) CountByProvider(ctx context.Context) (map[string]int64, error) {
	var rows []providerCount
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Select("provider_id, COUNT(*) AS count").
		Where("status <> ?", model.InstanceStatusTerminated).
		Group("provider_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ProviderID] = row.Count
	}
	return counts, nil
}

func (r *labInstanceRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Where("status IN ?", []string{model.InstanceStatusProvisioning, model.InstanceStatusRunning, model.InstanceStatusSuspended}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *labInstanceRepository) SumResources(ctx context.Context) (int64, float64, error) {
	var result struct {
		VCPU     int64   `gorm:"column:vcpu"`
		MemoryGB float64 `gorm:"column:memory_gb"`
	}
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Select("COALESCE(SUM(vcpu), 0) AS vcpu, COALESCE(SUM(memory_gb), 0) AS memory_gb").
		Where("status <> ?", model.InstanceStatusTerminated).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.VCPU, result.MemoryGB, nil
}

func (r *labInstanceRepository) SumRunningCostPerHour(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Select("COALESCE(SUM(cost_per_hour), 0)").
		Where("status IN ?", []string{model.InstanceStatusRunning, model.InstanceStatusSuspended}).
		Scan(&total).Error
	return total, err
}

func (r *labInstanceRepository) RecentErrors(ctx context.Context, limit int) ([]*model.LabInstance, error) {
	var instances []*model.LabInstance
	err := r.DB(ctx).
		Where("status = ?", model.InstanceStatusError).
		Order("last_transition_at DESC").
		Limit(limit).
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *labInstanceRepository) ListExpiredLeases(ctx context.Context, now time.Time, limit int) ([]*model.LabInstance, error) {
	var instances []*model.LabInstance
	err := r.DB(ctx).
		Where("status IN ? AND lease_expires_at IS NOT NULL AND lease_expires_at < ?",
			[]string{model.InstanceStatusRunning, model.InstanceStatusSuspended}, now).
		Order("lease_expires_at ASC").
		Limit(limit).
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *labInstanceRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Where("gmt_create >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *labInstanceRepository) CountTerminatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Where("terminated_at IS NOT NULL AND terminated_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *labInstanceRepository) CountFailedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Where("status = ? AND last_transition_at >= ?", model.InstanceStatusError, since).
		Count(&count).Error
	return count, err
}

func (r *labInstanceRepository) CountCreatedSinceByProvider(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []providerCount
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Select("provider_id, COUNT(*) AS count").
		Where("gmt_create >= ?", since).
		Group("provider_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ProviderID] = row.Count
	}
	return counts, nil
}

func (r *labInstanceRepository) SumAccruedSince(ctx context.Context, since time.Time) (float64, float64, error) {
	var result struct {
		Hours float64 `gorm:"column:hours"`
		Cost  float64 `gorm:"column:cost"`
	}
	err := r.DB(ctx).Model(&model.LabInstance{}).
		Select("COALESCE(SUM(accrued_hours), 0) AS hours, COALESCE(SUM(accrued_hours * cost_per_hour), 0) AS cost").
		Where("last_transition_at >= ?", since).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Hours, result.Cost, nil
}
