package service

import (
	"context"
	"time"

	v1 "certlab/api/v1"
	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type UserQuotaService interface {
	// GetOrCreate returns the user's quota row, materializing the platform
	// defaults on first use.
	GetOrCreate(ctx context.Context, userID string) (*model.UserQuota, error)
	// Reserve is the quota gate for provisioning. Checks run in a fixed
	// order and fail fast with a specific error kind: provider allowed,
	// instance type allowed, concurrent-lab headroom, daily hours, monthly
	// hours. The concurrent-lab check is a guarded counter increment, so two
	// racing calls can never both pass on the last slot.
	Reserve(ctx context.Context, userID, providerID, instanceTypeID string) error
	// ReacquireSlot re-takes a concurrency slot for a suspended instance
	// being resumed. Same guarded increment as Reserve, no catalog checks.
	ReacquireSlot(ctx context.Context, userID string) error
	Release(ctx context.Context, userID string) error
	// AccrueHours records lab running time against the daily and monthly
	// counters. Over-accrual is recorded as-is; it only blocks future
	// reservations, never the recording itself.
	AccrueHours(ctx context.Context, userID string, hours float64) error
	Get(ctx context.Context, userID string) (*v1.QuotaDetail, error)
	List(ctx context.Context) (*v1.ListQuotaResponseData, error)
	SetOverride(ctx context.Context, userID string, limits *v1.QuotaLimits) (*v1.QuotaDetail, error)
	ClearOverride(ctx context.Context, userID string) (*v1.QuotaDetail, error)
}

func NewUserQuotaService(
	service *Service,
	quotaRepo repository.UserQuotaRepository,
	conf *viper.Viper,
	logger *log.Logger,
) UserQuotaService {
	return &userQuotaService{
		quotaRepo: quotaRepo,
		conf:      conf,
		Service:   service,
		logger:    logger,
	}
}

type userQuotaService struct {
	quotaRepo repository.UserQuotaRepository
	conf      *viper.Viper
	*Service
	logger *log.Logger
}

func (s *userQuotaService) defaultLimits() v1.QuotaLimits {
	limits := v1.QuotaLimits{
		MaxConcurrentLabs:    2,
		MaxDailyLabHours:     4,
		MaxMonthlyLabHours:   40,
		StorageLimitGB:       10,
		AllowedProviders:     []string{"aws", "gcp", "azure"},
		AllowedInstanceTypes: []string{"small", "medium"},
	}
	if s.conf.IsSet("labs.default_quota.max_concurrent_labs") {
		limits.MaxConcurrentLabs = s.conf.GetInt("labs.default_quota.max_concurrent_labs")
	}
	if s.conf.IsSet("labs.default_quota.max_daily_lab_hours") {
		limits.MaxDailyLabHours = s.conf.GetFloat64("labs.default_quota.max_daily_lab_hours")
	}
	if s.conf.IsSet("labs.default_quota.max_monthly_lab_hours") {
		limits.MaxMonthlyLabHours = s.conf.GetFloat64("labs.default_quota.max_monthly_lab_hours")
	}
	if s.conf.IsSet("labs.default_quota.storage_limit_gb") {
		limits.StorageLimitGB = s.conf.GetFloat64("labs.default_quota.storage_limit_gb")
	}
	if s.conf.IsSet("labs.default_quota.allowed_providers") {
		limits.AllowedProviders = s.conf.GetStringSlice("labs.default_quota.allowed_providers")
	}
	if s.conf.IsSet("labs.default_quota.allowed_instance_types") {
		limits.AllowedInstanceTypes = s.conf.GetStringSlice("labs.default_quota.allowed_instance_types")
	}
	return limits
}

func applyLimits(quota *model.UserQuota, limits v1.QuotaLimits) {
	quota.MaxConcurrentLabs = limits.MaxConcurrentLabs
	quota.MaxDailyLabHours = limits.MaxDailyLabHours
	quota.MaxMonthlyLabHours = limits.MaxMonthlyLabHours
	quota.StorageLimitGB = limits.StorageLimitGB
	quota.AllowedProviders = limits.AllowedProviders
	quota.AllowedInstanceTypes = limits.AllowedInstanceTypes
}

func (s *userQuotaService) GetOrCreate(ctx context.Context, userID string) (*model.UserQuota, error) {
	quota, err := s.quotaRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get quota", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if quota == nil {
		now := time.Now()
		quota = &model.UserQuota{
			UserID:         userID,
			DailyResetAt:   startOfDay(now),
			MonthlyResetAt: startOfMonth(now),
		}
		applyLimits(quota, s.defaultLimits())
		if err := s.quotaRepo.Create(ctx, quota); err != nil {
			// a concurrent request may have materialized the row first
			existing, getErr := s.quotaRepo.GetByUserID(ctx, userID)
			if getErr == nil && existing != nil {
				quota = existing
			} else {
				s.logger.WithContext(ctx).Error("failed to create quota", zap.Error(err))
				return nil, v1.ErrInternalServerError
			}
		}
	}
	if err := s.rolloverCounters(ctx, quota); err != nil {
		return nil, err
	}
	return quota, nil
}

// rolloverCounters zeroes the daily/monthly hour counters when their period
// has passed. Called on every read path so stale counters never gate a
// reservation.
func (s *userQuotaService) rolloverCounters(ctx context.Context, quota *model.UserQuota) error {
	now := time.Now()
	if day := startOfDay(now); quota.DailyResetAt.Before(day) {
		if err := s.quotaRepo.ResetDailyCounter(ctx, quota.UserID, day); err != nil {
			s.logger.WithContext(ctx).Error("failed to reset daily counter", zap.Error(err))
			return v1.ErrInternalServerError
		}
		quota.HoursUsedToday = 0
		quota.DailyResetAt = day
	}
	if month := startOfMonth(now); quota.MonthlyResetAt.Before(month) {
		if err := s.quotaRepo.ResetMonthlyCounter(ctx, quota.UserID, month); err != nil {
			s.logger.WithContext(ctx).Error("failed to reset monthly counter", zap.Error(err))
			return v1.ErrInternalServerError
		}
		quota.HoursUsedThisMonth = 0
		quota.MonthlyResetAt = month
	}
	return nil
}

func (s *userQuotaService) Reserve(ctx context.Context, userID, providerID, instanceTypeID string) error {
	quota, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if !quota.ProviderAllowed(providerID) {
		return v1.ErrProviderNotAllowed
	}
	if !quota.InstanceTypeAllowed(instanceTypeID) {
		return v1.ErrInstanceTypeNotAllowed
	}
	ok, err := s.quotaRepo.ReserveSlot(ctx, userID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to reserve quota slot", zap.Error(err))
		return v1.ErrInternalServerError
	}
	if !ok {
		return v1.ErrQuotaExceeded
	}
	// hour budgets are checked after the slot is held so a failed check can
	// release exactly what this call reserved
	if quota.HoursUsedToday >= quota.MaxDailyLabHours ||
		quota.HoursUsedThisMonth >= quota.MaxMonthlyLabHours {
		if relErr := s.quotaRepo.ReleaseSlot(ctx, userID); relErr != nil {
			s.logger.WithContext(ctx).Error("failed to release quota slot", zap.Error(relErr))
		}
		return v1.ErrQuotaExceeded
	}
	return nil
}

func (s *userQuotaService) ReacquireSlot(ctx context.Context, userID string) error {
	ok, err := s.quotaRepo.ReserveSlot(ctx, userID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to reacquire quota slot", zap.Error(err))
		return v1.ErrInternalServerError
	}
	if !ok {
		return v1.ErrQuotaExceeded
	}
	return nil
}

func (s *userQuotaService) Release(ctx context.Context, userID string) error {
	if err := s.quotaRepo.ReleaseSlot(ctx, userID); err != nil {
		s.logger.WithContext(ctx).Error("failed to release quota slot", zap.Error(err))
		return v1.ErrInternalServerError
	}
	return nil
}

func (s *userQuotaService) AccrueHours(ctx context.Context, userID string, hours float64) error {
	if hours <= 0 {
		return nil
	}
	if err := s.quotaRepo.AccrueHours(ctx, userID, hours); err != nil {
		s.logger.WithContext(ctx).Error("failed to accrue hours", zap.Error(err))
		return v1.ErrInternalServerError
	}
	return nil
}

func (s *userQuotaService) Get(ctx context.Context, userID string) (*v1.QuotaDetail, error) {
	quota, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail := quotaDetail(quota)
	return &detail, nil
}

func (s *userQuotaService) List(ctx context.Context) (*v1.ListQuotaResponseData, error) {
	quotas, err := s.quotaRepo.List(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list quotas", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	items := make([]v1.QuotaDetail, 0, len(quotas))
	for _, quota := range quotas {
		items = append(items, quotaDetail(quota))
	}
	return &v1.ListQuotaResponseData{Items: items}, nil
}

func (s *userQuotaService) SetOverride(ctx context.Context, userID string, limits *v1.QuotaLimits) (*v1.QuotaDetail, error) {
	quota, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	// an override replaces limits only, accrued counters survive
	applyLimits(quota, *limits)
	quota.IsOverride = 1
	if err := s.quotaRepo.Update(ctx, quota); err != nil {
		s.logger.WithContext(ctx).Error("failed to set quota override", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	detail := quotaDetail(quota)
	return &detail, nil
}

func (s *userQuotaService) ClearOverride(ctx context.Context, userID string) (*v1.QuotaDetail, error) {
	quota, err := s.quotaRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get quota", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if quota == nil {
		return nil, v1.ErrNotFound
	}
	applyLimits(quota, s.defaultLimits())
	quota.IsOverride = 0
	if err := s.quotaRepo.Update(ctx, quota); err != nil {
		s.logger.WithContext(ctx).Error("failed to clear quota override", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	detail := quotaDetail(quota)
	return &detail, nil
}

func quotaDetail(quota *model.UserQuota) v1.QuotaDetail {
	return v1.QuotaDetail{
		UserID:               quota.UserID,
		MaxConcurrentLabs:    quota.MaxConcurrentLabs,
		MaxDailyLabHours:     quota.MaxDailyLabHours,
		MaxMonthlyLabHours:   quota.MaxMonthlyLabHours,
		StorageLimitGB:       quota.StorageLimitGB,
		AllowedProviders:     quota.AllowedProviders,
		AllowedInstanceTypes: quota.AllowedInstanceTypes,
		CurrentActiveLabs:    quota.CurrentActiveLabs,
		HoursUsedToday:       quota.HoursUsedToday,
		HoursUsedThisMonth:   quota.HoursUsedThisMonth,
		IsOverride:           quota.IsOverride != 0,
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}
