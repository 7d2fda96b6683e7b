package v1

type QuotaLimits struct {
	MaxConcurrentLabs    int      `json:"max_concurrent_labs" binding:"required,min=0" example:"2"`
	MaxDailyLabHours     float64  `json:"max_daily_lab_hours" binding:"required,min=0" example:"4"`
	MaxMonthlyLabHours   float64  `json:"max_monthly_lab_hours" binding:"required,min=0" example:"40"`
	StorageLimitGB       float64  `json:"storage_limit_gb" binding:"required,min=0" example:"10"`
	AllowedProviders     []string `json:"allowed_providers" binding:"required" example:"aws,gcp,azure"`
	AllowedInstanceTypes []string `json:"allowed_instance_types" binding:"required" example:"small,medium"`
}

type QuotaDetail struct {
	UserID               string   `json:"user_id" example:"user-42"`
	MaxConcurrentLabs    int      `json:"max_concurrent_labs" example:"2"`
	MaxDailyLabHours     float64  `json:"max_daily_lab_hours" example:"4"`
	MaxMonthlyLabHours   float64  `json:"max_monthly_lab_hours" example:"40"`
	StorageLimitGB       float64  `json:"storage_limit_gb" example:"10"`
	AllowedProviders     []string `json:"allowed_providers" example:"aws,gcp,azure"`
	AllowedInstanceTypes []string `json:"allowed_instance_types" example:"small,medium"`
	CurrentActiveLabs    int      `json:"current_active_labs" example:"1"`
	HoursUsedToday       float64  `json:"hours_used_today" example:"1.5"`
	HoursUsedThisMonth   float64  `json:"hours_used_this_month" example:"12.25"`
	IsOverride           bool     `json:"is_override" example:"false"`
}

type QuotaResponse struct {
	Response
	Data QuotaDetail `json:"data"`
}

type ListQuotaResponseData struct {
	Items []QuotaDetail `json:"items"`
}

type ListQuotaResponse struct {
	Response
	Data ListQuotaResponseData `json:"data"`
}
