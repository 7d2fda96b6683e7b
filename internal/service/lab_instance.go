package service

import (
	"context"
	"fmt"
	"time"

	v1 "certlab/api/v1"
	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Starter simulates the provider-side boot of a lab instance. It is a seam:
// the default implementation always succeeds, tests swap in failing ones to
// exercise the provision rollback path.
type Starter interface {
	Start(ctx context.Context, inst *model.LabInstance) error
}

type simulatedStarter struct{}

func (simulatedStarter) Start(ctx context.Context, inst *model.LabInstance) error {
	return nil
}

func NewStarter() Starter {
	return simulatedStarter{}
}

type LabInstanceService interface {
	// Provision validates the request against the provider catalog and the
	// quota gate, creates the instance in provisioning and drives it to
	// running. A failed start leaves the row in error with the message set
	// and releases the quota reservation before returning.
	Provision(ctx context.Context, req *v1.ProvisionInstanceRequest) (*v1.InstanceDetail, error)
	ApplyAction(ctx context.Context, instanceID, action string) (*v1.InstanceDetail, error)
	Get(ctx context.Context, instanceID string) (*v1.InstanceDetail, error)
	List(ctx context.Context, req *v1.ListInstanceRequest) (*v1.ListInstanceResponseData, error)
	// TerminateExpired reaps instances whose lease deadline passed. Called
	// by the scheduled job, goes through the same transition path as an
	// explicit terminate.
	TerminateExpired(ctx context.Context, limit int) (int, error)
}

func NewLabInstanceService(
	service *Service,
	instanceRepo repository.LabInstanceRepository,
	providerRepo repository.LabProviderRepository,
	quotaRepo repository.UserQuotaRepository,
	quotaService UserQuotaService,
	starter Starter,
	conf *viper.Viper,
	logger *log.Logger,
) LabInstanceService {
	return &labInstanceService{
		instanceRepo: instanceRepo,
		providerRepo: providerRepo,
		quotaRepo:    quotaRepo,
		quotaService: quotaService,
		starter:      starter,
		conf:         conf,
		Service:      service,
		logger:       logger,
	}
}

type labInstanceService struct {
	instanceRepo repository.LabInstanceRepository
	providerRepo repository.LabProviderRepository
	quotaRepo    repository.UserQuotaRepository
	quotaService UserQuotaService
	starter      Starter
	conf         *viper.Viper
	*Service
	logger *log.Logger
}

func (s *labInstanceService) leaseDuration() time.Duration {
	hours := s.conf.GetFloat64("labs.lease_hours")
	if hours <= 0 {
		hours = 2
	}
	return time.Duration(hours * float64(time.Hour))
}

func (s *labInstanceService) extendIncrement() time.Duration {
	hours := s.conf.GetFloat64("labs.extend_hours")
	if hours <= 0 {
		hours = 1
	}
	return time.Duration(hours * float64(time.Hour))
}

// maxExtends returns the cap on repeated extensions, 0 meaning unlimited.
func (s *labInstanceService) maxExtends() int {
	return s.conf.GetInt("labs.max_extends")
}

func (s *labInstanceService) Provision(ctx context.Context, req *v1.ProvisionInstanceRequest) (*v1.InstanceDetail, error) {
	provider, err := s.providerRepo.GetByProviderID(ctx, req.ProviderID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get provider", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if provider == nil {
		return nil, v1.ErrProviderNotFound
	}
	if !provider.Enabled() {
		return nil, v1.ErrProviderDisabled
	}
	if !provider.SupportsRegion(req.Region) {
		return nil, v1.ErrRegionNotSupported
	}
	typeSpec, ok := provider.InstanceTypes[req.InstanceTypeID]
	if !ok {
		return nil, v1.ErrInstanceTypeNotFound
	}

	if err := s.quotaService.Reserve(ctx, req.UserID, req.ProviderID, req.InstanceTypeID); err != nil {
		return nil, err
	}

	instanceID, err := s.sid.GenString()
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to generate instance id", zap.Error(err))
		s.releaseReservation(ctx, req.UserID)
		return nil, v1.ErrInternalServerError
	}

	now := time.Now()
	inst := &model.LabInstance{
		InstanceID:       fmt.Sprintf("lab-%s", instanceID),
		UserID:           req.UserID,
		LabID:            req.LabID,
		ProviderID:       req.ProviderID,
		Region:           req.Region,
		InstanceTypeID:   req.InstanceTypeID,
		VCPU:             typeSpec.VCPU,
		MemoryGB:         typeSpec.MemoryGB,
		CostPerHour:      typeSpec.CostPerHour,
		Status:           model.InstanceStatusProvisioning,
		LastTransitionAt: now,
	}
	if err := s.instanceRepo.Create(ctx, inst); err != nil {
		s.logger.WithContext(ctx).Error("failed to create instance", zap.Error(err))
		s.releaseReservation(ctx, req.UserID)
		return nil, v1.ErrInternalServerError
	}

	if startErr := s.starter.Start(ctx, inst); startErr != nil {
		// failed provision must never keep the quota slot
		now = time.Now()
		ok, err := s.instanceRepo.TransitionStatus(ctx, inst.InstanceID, model.InstanceStatusProvisioning, map[string]interface{}{
			"status":             model.InstanceStatusError,
			"error_message":      startErr.Error(),
			"last_transition_at": now,
		})
		if err != nil || !ok {
			s.logger.WithContext(ctx).Error("failed to mark instance error",
				zap.Error(err), zap.String("instance_id", inst.InstanceID))
		}
		s.releaseReservation(ctx, req.UserID)
		s.logger.WithContext(ctx).Warn("instance start failed",
			zap.String("instance_id", inst.InstanceID), zap.Error(startErr))
		return nil, v1.ErrStartFailed
	}

	now = time.Now()
	leaseExpiry := now.Add(s.leaseDuration())
	ok, err = s.instanceRepo.TransitionStatus(ctx, inst.InstanceID, model.InstanceStatusProvisioning, map[string]interface{}{
		"status":             model.InstanceStatusRunning,
		"started_at":         now,
		"last_transition_at": now,
		"lease_expires_at":   leaseExpiry,
	})
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to start instance", zap.Error(err))
		s.releaseReservation(ctx, req.UserID)
		return nil, v1.ErrInternalServerError
	}
	if !ok {
		// someone raced the transition; surface the current row
		return s.Get(ctx, inst.InstanceID)
	}

	inst.Status = model.InstanceStatusRunning
	inst.StartedAt = &now
	inst.LastTransitionAt = now
	inst.LeaseExpiresAt = &leaseExpiry

	s.logger.WithContext(ctx).Info("instance provisioned",
		zap.String("instance_id", inst.InstanceID),
		zap.String("user_id", inst.UserID),
		zap.String("provider_id", inst.ProviderID))

	detail := instanceDetail(inst)
	return &detail, nil
}

func (s *labInstanceService) releaseReservation(ctx context.Context, userID string) {
	if err := s.quotaService.Release(ctx, userID); err != nil {
		s.logger.WithContext(ctx).Error("failed to roll back quota reservation",
			zap.Error(err), zap.String("user_id", userID))
	}
}

func (s *labInstanceService) ApplyAction(ctx context.Context, instanceID, action string) (*v1.InstanceDetail, error) {
	detail, err := s.applyActionOnce(ctx, instanceID, action)
	if err == v1.ErrConflictingUpdate {
		// benign race, one internal retry against the fresh state
		detail, err = s.applyActionOnce(ctx, instanceID, action)
	}
	return detail, err
}

func (s *labInstanceService) applyActionOnce(ctx context.Context, instanceID, action string) (*v1.InstanceDetail, error) {
	inst, err := s.instanceRepo.GetByInstanceID(ctx, instanceID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get instance", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if inst == nil {
		return nil, v1.ErrInstanceNotFound
	}

	// terminate is idempotent on an already terminated instance
	if action == model.InstanceActionTerminate && inst.Status == model.InstanceStatusTerminated {
		detail := instanceDetail(inst)
		return &detail, nil
	}

	switch action {
	case model.InstanceActionSuspend:
		return s.suspend(ctx, inst)
	case model.InstanceActionResume:
		return s.resume(ctx, inst)
	case model.InstanceActionExtend:
		return s.extend(ctx, inst)
	case model.InstanceActionTerminate:
		return s.terminate(ctx, inst)
	default:
		return nil, v1.ErrBadRequest
	}
}

func (s *labInstanceService) suspend(ctx context.Context, inst *model.LabInstance) (*v1.InstanceDetail, error) {
	if inst.Status != model.InstanceStatusRunning {
		return nil, v1.ErrInvalidTransition
	}
	now := time.Now()
	delta := runningDelta(inst, now)
	err := s.tm.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.instanceRepo.TransitionStatus(ctx, inst.InstanceID, model.InstanceStatusRunning, map[string]interface{}{
			"status":             model.InstanceStatusSuspended,
			"accrued_hours":      inst.AccruedHours + delta,
			"last_transition_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return v1.ErrConflictingUpdate
		}
		// suspended instances do not hold a concurrency slot
		if err := s.quotaRepo.ReleaseSlot(ctx, inst.UserID); err != nil {
			return err
		}
		return s.quotaRepo.AccrueHours(ctx, inst.UserID, delta)
	})
	if err != nil {
		return s.transitionError(ctx, inst.InstanceID, "suspend", err)
	}
	inst.Status = model.InstanceStatusSuspended
	inst.AccruedHours += delta
	inst.LastTransitionAt = now
	detail := instanceDetail(inst)
	return &detail, nil
}

func (s *labInstanceService) resume(ctx context.Context, inst *model.LabInstance) (*v1.InstanceDetail, error) {
	if inst.Status != model.InstanceStatusSuspended {
		return nil, v1.ErrInvalidTransition
	}
	now := time.Now()
	err := s.tm.Transaction(ctx, func(ctx context.Context) error {
		// re-take the slot first; the user may have filled it while this
		// instance was suspended
		ok, err := s.quotaRepo.ReserveSlot(ctx, inst.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return v1.ErrQuotaExceeded
		}
		ok, err = s.instanceRepo.TransitionStatus(ctx, inst.InstanceID, model.InstanceStatusSuspended, map[string]interface{}{
			"status":             model.InstanceStatusRunning,
			"last_transition_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return v1.ErrConflictingUpdate
		}
		return nil
	})
	if err != nil {
		if err == v1.ErrQuotaExceeded {
			return nil, err
		}
		return s.transitionError(ctx, inst.InstanceID, "resume", err)
	}
	inst.Status = model.InstanceStatusRunning
	inst.LastTransitionAt = now
	detail := instanceDetail(inst)
	return &detail, nil
}

func (s *labInstanceService) extend(ctx context.Context, inst *model.LabInstance) (*v1.InstanceDetail, error) {
	if inst.Status != model.InstanceStatusRunning {
		return nil, v1.ErrInvalidTransition
	}
	if limit := s.maxExtends(); limit > 0 && inst.ExtendCount >= limit {
		return nil, v1.ErrExtendLimit
	}
	base := time.Now()
	if inst.LeaseExpiresAt != nil && inst.LeaseExpiresAt.After(base) {
		base = *inst.LeaseExpiresAt
	}
	newExpiry := base.Add(s.extendIncrement())
	ok, err := s.instanceRepo.TransitionStatus(ctx, inst.InstanceID, model.InstanceStatusRunning, map[string]interface{}{
		"lease_expires_at": newExpiry,
		"extend_count":     inst.ExtendCount + 1,
	})
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to extend lease", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if !ok {
		return nil, v1.ErrConflictingUpdate
	}
	inst.LeaseExpiresAt = &newExpiry
	inst.ExtendCount++
	detail := instanceDetail(inst)
	return &detail, nil
}

func (s *labInstanceService) terminate(ctx context.Context, inst *model.LabInstance) (*v1.InstanceDetail, error) {
	switch inst.Status {
	case model.InstanceStatusRunning, model.InstanceStatusSuspended, model.InstanceStatusError:
	default:
		return nil, v1.ErrInvalidTransition
	}
	now := time.Now()
	fromStatus := inst.Status
	delta := 0.0
	if fromStatus == model.InstanceStatusRunning {
		delta = runningDelta(inst, now)
	}
	err := s.tm.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.instanceRepo.TransitionStatus(ctx, inst.InstanceID, fromStatus, map[string]interface{}{
			"status":             model.InstanceStatusTerminated,
			"accrued_hours":      inst.AccruedHours + delta,
			"last_transition_at": now,
			"terminated_at":      now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return v1.ErrConflictingUpdate
		}
		// only running/provisioning hold a slot; suspended gave it back on
		// suspend and error gave it back when the provision rolled back
		if fromStatus == model.InstanceStatusRunning {
			if err := s.quotaRepo.ReleaseSlot(ctx, inst.UserID); err != nil {
				return err
			}
		}
		if delta > 0 {
			return s.quotaRepo.AccrueHours(ctx, inst.UserID, delta)
		}
		return nil
	})
	if err != nil {
		return s.transitionError(ctx, inst.InstanceID, "terminate", err)
	}
	inst.Status = model.InstanceStatusTerminated
	inst.AccruedHours += delta
	inst.LastTransitionAt = now
	inst.TerminatedAt = &now
	s.logger.WithContext(ctx).Info("instance terminated",
		zap.String("instance_id", inst.InstanceID),
		zap.String("from_status", fromStatus))
	detail := instanceDetail(inst)
	return &detail, nil
}

func (s *labInstanceService) transitionError(ctx context.Context, instanceID, action string, err error) (*v1.InstanceDetail, error) {
	if err == v1.ErrConflictingUpdate {
		return nil, err
	}
	s.logger.WithContext(ctx).Error("transition failed",
		zap.String("instance_id", instanceID),
		zap.String("action", action),
		zap.Error(err))
	return nil, v1.ErrInternalServerError
}

func (s *labInstanceService) Get(ctx context.Context, instanceID string) (*v1.InstanceDetail, error) {
	inst, err := s.instanceRepo.GetByInstanceID(ctx, instanceID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get instance", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if inst == nil {
		return nil, v1.ErrInstanceNotFound
	}
	detail := instanceDetail(inst)
	return &detail, nil
}

func (s *labInstanceService) List(ctx context.Context, req *v1.ListInstanceRequest) (*v1.ListInstanceResponseData, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	instances, total, err := s.instanceRepo.ListWithFilters(ctx, req.Status, req.ProviderID, req.UserID, page, pageSize)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list instances", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	items := make([]v1.InstanceDetail, 0, len(instances))
	for _, inst := range instances {
		items = append(items, instanceDetail(inst))
	}
	return &v1.ListInstanceResponseData{Items: items, Total: total}, nil
}

func (s *labInstanceService) TerminateExpired(ctx context.Context, limit int) (int, error) {
	expired, err := s.instanceRepo.ListExpiredLeases(ctx, time.Now(), limit)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to list expired leases", zap.Error(err))
		return 0, v1.ErrInternalServerError
	}
	reaped := 0
	for _, inst := range expired {
		if _, err := s.ApplyAction(ctx, inst.InstanceID, model.InstanceActionTerminate); err != nil {
			s.logger.WithContext(ctx).Warn("failed to reap expired instance",
				zap.String("instance_id", inst.InstanceID), zap.Error(err))
			continue
		}
		reaped++
	}
	return reaped, nil
}

// runningDelta is the wall-clock hours since the instance last entered
// running. Applied to accrued_hours on every transition out of running.
func runningDelta(inst *model.LabInstance, now time.Time) float64 {
	delta := now.Sub(inst.LastTransitionAt).Hours()
	if delta < 0 {
		return 0
	}
	return delta
}

func instanceDetail(inst *model.LabInstance) v1.InstanceDetail {
	return v1.InstanceDetail{
		InstanceID:     inst.InstanceID,
		UserID:         inst.UserID,
		LabID:          inst.LabID,
		ProviderID:     inst.ProviderID,
		Region:         inst.Region,
		InstanceTypeID: inst.InstanceTypeID,
		Resources: v1.ResourceSnapshot{
			VCPU:        inst.VCPU,
			MemoryGB:    inst.MemoryGB,
			CostPerHour: inst.CostPerHour,
		},
		Status:           inst.Status,
		ErrorMessage:     inst.ErrorMessage,
		AccruedHours:     inst.AccruedHours,
		ExtendCount:      inst.ExtendCount,
		LeaseExpiresAt:   inst.LeaseExpiresAt,
		StartedAt:        inst.StartedAt,
		LastTransitionAt: inst.LastTransitionAt,
		TerminatedAt:     inst.TerminatedAt,
	}
}
