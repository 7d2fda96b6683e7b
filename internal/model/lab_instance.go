package model

import "time"

// LabInstance is one leased unit of simulated lab compute, tied to a learner
// and a lab. vCPU/memory/cost are snapshot at provisioning time; catalog edits
// never change a row retroactively.
type LabInstance struct {
	Id         int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	InstanceID string `json:"instance_id" gorm:"column:instance_id;size:64;not null;uniqueIndex"`
	UserID     string `json:"user_id" gorm:"column:user_id;size:64;not null;index"`
	LabID      string `json:"lab_id" gorm:"column:lab_id;size:64;not null;index"`

	ProviderID     string `json:"provider_id" gorm:"column:provider_id;size:64;not null;index"`
	Region         string `json:"region" gorm:"column:region;size:64;not null"`
	InstanceTypeID string `json:"instance_type_id" gorm:"column:instance_type_id;size:64;not null"`

	// resource snapshot
	VCPU        int     `json:"vcpu" gorm:"column:vcpu;not null"`
	MemoryGB    float64 `json:"memory_gb" gorm:"column:memory_gb;not null"`
	CostPerHour float64 `json:"cost_per_hour" gorm:"column:cost_per_hour;not null"`

	Status       string `json:"status" gorm:"column:status;size:32;not null;default:'provisioning';index"`
	ErrorMessage string `json:"error_message" gorm:"column:error_message;size:512"`

	AccruedHours   float64    `json:"accrued_hours" gorm:"column:accrued_hours;not null;default:0"`
	ExtendCount    int        `json:"extend_count" gorm:"column:extend_count;not null;default:0"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at" gorm:"column:lease_expires_at;index"`

	StartedAt        *time.Time `json:"started_at" gorm:"column:started_at"`
	LastTransitionAt time.Time  `json:"last_transition_at" gorm:"column:last_transition_at"`
	TerminatedAt     *time.Time `json:"terminated_at" gorm:"column:terminated_at"`

	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (LabInstance) TableName() string {
	return "lab_instance"
}

const (
	InstanceStatusProvisioning = "provisioning"
	InstanceStatusRunning      = "running"
	InstanceStatusSuspended    = "suspended"
	InstanceStatusTerminated   = "terminated"
	InstanceStatusError        = "error"
)

const (
	InstanceActionSuspend   = "suspend"
	InstanceActionResume    = "resume"
	InstanceActionExtend    = "extend"
	InstanceActionTerminate = "terminate"
)

// IsActive reports whether the instance occupies a concurrency quota slot.
// Only provisioning and running count; suspended instances give the slot back.
func (i *LabInstance) IsActive() bool {
	return i.Status == InstanceStatusProvisioning || i.Status == InstanceStatusRunning
}
