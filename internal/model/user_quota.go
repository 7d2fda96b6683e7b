package model

import "time"

// UserQuota holds a learner's resource ceilings and live usage counters.
// Rows are materialized lazily from the platform defaults on first use; an
// admin override replaces the limits but never the accrued counters.
type UserQuota struct {
	Id     int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID string `json:"user_id" gorm:"column:user_id;size:64;not null;uniqueIndex"`

	// limits
	MaxConcurrentLabs    int      `json:"max_concurrent_labs" gorm:"column:max_concurrent_labs;not null"`
	MaxDailyLabHours     float64  `json:"max_daily_lab_hours" gorm:"column:max_daily_lab_hours;not null"`
	MaxMonthlyLabHours   float64  `json:"max_monthly_lab_hours" gorm:"column:max_monthly_lab_hours;not null"`
	StorageLimitGB       float64  `json:"storage_limit_gb" gorm:"column:storage_limit_gb;not null"`
	AllowedProviders     []string `json:"allowed_providers" gorm:"column:allowed_providers;serializer:json"`
	AllowedInstanceTypes []string `json:"allowed_instance_types" gorm:"column:allowed_instance_types;serializer:json"`

	// counters
	CurrentActiveLabs  int     `json:"current_active_labs" gorm:"column:current_active_labs;not null;default:0"`
	HoursUsedToday     float64 `json:"hours_used_today" gorm:"column:hours_used_today;not null;default:0"`
	HoursUsedThisMonth float64 `json:"hours_used_this_month" gorm:"column:hours_used_this_month;not null;default:0"`

	// IsOverride marks rows whose limits were set by an admin rather than
	// copied from platform defaults.
	IsOverride int8 `json:"is_override" gorm:"column:is_override;not null;default:0"`

	DailyResetAt   time.Time `json:"daily_reset_at" gorm:"column:daily_reset_at"`
	MonthlyResetAt time.Time `json:"monthly_reset_at" gorm:"column:monthly_reset_at"`

	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (UserQuota) TableName() string {
	return "user_quota"
}

func (q *UserQuota) ProviderAllowed(providerID string) bool {
	for _, p := range q.AllowedProviders {
		if p == providerID {
			return true
		}
	}
	return false
}

func (q *UserQuota) InstanceTypeAllowed(typeID string) bool {
	for _, t := range q.AllowedInstanceTypes {
		if t == typeID {
			return true
		}
	}
	return false
}
