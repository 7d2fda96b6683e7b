package v1

import "time"

// Fleet dashboard and metrics DTOs. Field names mirror what the admin lab
// console consumes.

type FleetInstanceCounts struct {
	Provisioning int64 `json:"provisioning" example:"1"`
	Running      int64 `json:"running" example:"12"`
	Suspended    int64 `json:"suspended" example:"3"`
	Terminated   int64 `json:"terminated" example:"120"`
	Error        int64 `json:"error" example:"2"`
}

type FleetResourceTotals struct {
	TotalVCPU          int     `json:"total_vcpu" example:"48"`
	TotalMemoryGB      float64 `json:"total_memory_gb" example:"96"`
	EstimatedDailyCost float64 `json:"estimated_daily_cost" example:"43.2"`
}

type FleetInstanceError struct {
	InstanceID   string    `json:"instance_id" example:"lab-1n3kz0q8"`
	UserID       string    `json:"user_id" example:"user-42"`
	LabID        string    `json:"lab_id" example:"lab-aws-saa-1"`
	ProviderID   string    `json:"provider_id" example:"aws"`
	ErrorMessage string    `json:"error_message" example:"simulated start failed"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type FleetDashboardData struct {
	Instances    FleetInstanceCounts  `json:"instances"`
	Providers    map[string]int64     `json:"providers"` // provider id -> non-terminated instances
	ActiveUsers  int64                `json:"active_users" example:"9"`
	Resources    FleetResourceTotals  `json:"resources"`
	RecentErrors []FleetInstanceError `json:"recent_errors"`
}

type FleetDashboardResponse struct {
	Response
	Data FleetDashboardData `json:"data"`
}

type FleetMetricsRequest struct {
	Period string `form:"period" example:"24h"` // 1h, 24h, 7d, 30d
}

type FleetMetricsData struct {
	Period           string           `json:"period" example:"24h"`
	Since            time.Time        `json:"since"`
	Provisioned      int64            `json:"provisioned" example:"31"`
	Terminated       int64            `json:"terminated" example:"24"`
	Failed           int64            `json:"failed" example:"2"`
	HoursAccrued     float64          `json:"hours_accrued" example:"63.5"`
	ByProvider       map[string]int64 `json:"by_provider"`
	EstimatedCost    float64          `json:"estimated_cost" example:"7.62"`
	ActiveAtEndCount int64            `json:"active_at_end_count" example:"15"`
}

type FleetMetricsResponse struct {
	Response
	Data FleetMetricsData `json:"data"`
}
