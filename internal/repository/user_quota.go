package repository

import (
	"context"
	"errors"
	"time"

	"certlab/internal/model"

	"gorm.io/gorm"
)

type UserQuotaRepository interface {
	Create(ctx context.Context, quota *model.UserQuota) error
	Update(ctx context.Context, quota *model.UserQuota) error
	GetByUserID(ctx context.Context, userID string) (*model.UserQuota, error)
	List(ctx context.Context) ([]*model.UserQuota, error)
	// ReserveSlot atomically increments current_active_labs while it is below
	// the row's own max_concurrent_labs. Returns false when there is no
	// headroom. This single guarded UPDATE is the concurrency boundary for
	// the check-then-act race on provisioning.
	ReserveSlot(ctx context.Context, userID string) (bool, error)
	// ReleaseSlot decrements current_active_labs, never below zero.
	ReleaseSlot(ctx context.Context, userID string) error
	// AccrueHours atomically adds to both the daily and monthly counters.
	AccrueHours(ctx context.Context, userID string, hours float64) error
	ResetDailyCounter(ctx context.Context, userID string, resetAt time.Time) error
	ResetMonthlyCounter(ctx context.Context, userID string, resetAt time.Time) error
}

func NewUserQuotaRepository(r *Repository) UserQuotaRepository {
	return &userQuotaRepository{Repository: r}
}

type userQuotaRepository struct {
	*Repository
}

func (r *userQuotaRepository) Create(ctx context.Context, quota *model.UserQuota) error {
	return r.DB(ctx).Create(quota).Error
}

func (r *userQuotaRepository) Update(ctx context.Context, quota *model.UserQuota) error {
	return r.DB(ctx).Save(quota).Error
}

func (r *userQuotaRepository) GetByUserID(ctx context.Context, userID string) (*model.UserQuota, error) {
	var quota model.UserQuota
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&quota).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quota, nil
}

func (r *userQuotaRepository) List(ctx context.Context) ([]*model.UserQuota, error) {
	var quotas []*model.UserQuota
	if err := r.DB(ctx).Order("user_id ASC").Find(&quotas).Error; err != nil {
		return nil, err
	}
	return quotas, nil
}

func (r *userQuotaRepository) ReserveSlot(ctx context.Context, userID string) (bool, error) {
	result := r.DB(ctx).Model(&model.UserQuota{}).
		Where("user_id = ? AND current_active_labs < max_concurrent_labs", userID).
		Update("current_active_labs", gorm.Expr("current_active_labs + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userQuotaRepository) ReleaseSlot(ctx context.Context, userID string) error {
	return r.DB(ctx).Model(&model.UserQuota{}).
		Where("user_id = ? AND current_active_labs > 0", userID).
		Update("current_active_labs", gorm.Expr("current_active_labs - 1")).Error
}

func (r *userQuotaRepository) AccrueHours(ctx context.Context, userID string, hours float64) error {
	return r.DB(ctx).Model(&model.UserQuota{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"hours_used_today":      gorm.Expr("hours_used_today + ?", hours),
			"hours_used_this_month": gorm.Expr("hours_used_this_month + ?", hours),
		}).Error
}

func (r *userQuotaRepository) ResetDailyCounter(ctx context.Context, userID string, resetAt time.Time) error {
	return r.DB(ctx).Model(&model.UserQuota{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"hours_used_today": 0,
			"daily_reset_at":   resetAt,
		}).Error
}

func (r *userQuotaRepository) ResetMonthlyCounter(ctx context.Context, userID string, resetAt time.Time) error {
	return r.DB(ctx).Model(&model.UserQuota{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"hours_used_this_month": 0,
			"monthly_reset_at":      resetAt,
		}).Error
}
