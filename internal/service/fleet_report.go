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

// FleetReportService aggregates over the instance registry for the admin
// dashboard. Read-only: it never mutates instance or quota state.
type FleetReportService interface {
	Dashboard(ctx context.Context) (*v1.FleetDashboardData, error)
	Metrics(ctx context.Context, period string) (*v1.FleetMetricsData, error)
}

func NewFleetReportService(
	service *Service,
	instanceRepo repository.LabInstanceRepository,
	conf *viper.Viper,
	logger *log.Logger,
) FleetReportService {
	return &fleetReportService{
		instanceRepo: instanceRepo,
		conf:         conf,
		Service:      service,
		logger:       logger,
	}
}

type fleetReportService struct {
	instanceRepo repository.LabInstanceRepository
	conf         *viper.Viper
	*Service
	logger *log.Logger
}

func (s *fleetReportService) recentErrorsLimit() int {
	limit := s.conf.GetInt("labs.recent_errors_limit")
	if limit <= 0 {
		limit = 5
	}
	return limit
}

func (s *fleetReportService) Dashboard(ctx context.Context) (*v1.FleetDashboardData, error) {
	byStatus, err := s.instanceRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count instances by status", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	byProvider, err := s.instanceRepo.CountByProvider(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count instances by provider", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	activeUsers, err := s.instanceRepo.CountActiveUsers(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count active users", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	vcpu, memoryGB, err := s.instanceRepo.SumResources(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to sum resources", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	costPerHour, err := s.instanceRepo.SumRunningCostPerHour(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to sum cost", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	recent, err := s.instanceRepo.RecentErrors(ctx, s.recentErrorsLimit())
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list recent errors", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	if byProvider == nil {
		byProvider = map[string]int64{}
	}
	recentErrors := make([]v1.FleetInstanceError, 0, len(recent))
	for _, inst := range recent {
		recentErrors = append(recentErrors, v1.FleetInstanceError{
			InstanceID:   inst.InstanceID,
			UserID:       inst.UserID,
			LabID:        inst.LabID,
			ProviderID:   inst.ProviderID,
			ErrorMessage: inst.ErrorMessage,
			OccurredAt:   inst.LastTransitionAt,
		})
	}

	return &v1.FleetDashboardData{
		Instances: v1.FleetInstanceCounts{
			Provisioning: byStatus[model.InstanceStatusProvisioning],
			Running:      byStatus[model.InstanceStatusRunning],
			Suspended:    byStatus[model.InstanceStatusSuspended],
			Terminated:   byStatus[model.InstanceStatusTerminated],
			Error:        byStatus[model.InstanceStatusError],
		},
		Providers:   byProvider,
		ActiveUsers: activeUsers,
		Resources: v1.FleetResourceTotals{
			TotalVCPU:          int(vcpu),
			TotalMemoryGB:      memoryGB,
			EstimatedDailyCost: costPerHour * 24,
		},
		RecentErrors: recentErrors,
	}, nil
}

func periodDuration(period string) (time.Duration, bool) {
	switch period {
	case "1h":
		return time.Hour, true
	case "", "24h":
		return 24 * time.Hour, true
	case "7d":
		return 7 * 24 * time.Hour, true
	case "30d":
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

func (s *fleetReportService) Metrics(ctx context.Context, period string) (*v1.FleetMetricsData, error) {
	window, ok := periodDuration(period)
	if !ok {
		return nil, v1.ErrBadRequest
	}
	if period == "" {
		period = "24h"
	}
	since := time.Now().Add(-window)

	provisioned, err := s.instanceRepo.CountCreatedSince(ctx, since)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count provisioned", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	terminated, err := s.instanceRepo.CountTerminatedSince(ctx, since)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count terminated", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	failed, err := s.instanceRepo.CountFailedSince(ctx, since)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count failures", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	byProvider, err := s.instanceRepo.CountCreatedSinceByProvider(ctx, since)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count by provider", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	hours, cost, err := s.instanceRepo.SumAccruedSince(ctx, since)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to sum accrued hours", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	byStatus, err := s.instanceRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to count instances by status", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}

	if byProvider == nil {
		byProvider = map[string]int64{}
	}
	return &v1.FleetMetricsData{
		Period:           period,
		Since:            since,
		Provisioned:      provisioned,
		Terminated:       terminated,
		Failed:           failed,
		HoursAccrued:     hours,
		ByProvider:       byProvider,
		EstimatedCost:    cost,
		ActiveAtEndCount: byStatus[model.InstanceStatusProvisioning] + byStatus[model.InstanceStatusRunning],
	}, nil
}
