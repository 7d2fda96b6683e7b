package v1

type InstanceTypeSpec struct {
	VCPU        int     `json:"vcpu" binding:"required,gt=0" example:"2"`
	MemoryGB    float64 `json:"memory_gb" binding:"required,gt=0" example:"4"`
	CostPerHour float64 `json:"cost_per_hour" binding:"required,gt=0" example:"0.12"`
}

type ProviderDetail struct {
	ProviderID    string                      `json:"provider_id" example:"aws"`
	DisplayName   string                      `json:"display_name" example:"Amazon Web Services"`
	IsEnabled     bool                        `json:"is_enabled" example:"true"`
	Regions       []string                    `json:"regions" example:"us-east-1,eu-west-1"`
	InstanceTypes map[string]InstanceTypeSpec `json:"instance_types"`
	ResourceKinds []string                    `json:"resource_kinds" example:"compute,storage,network"`
}

type ProviderResponse struct {
	Response
	Data ProviderDetail `json:"data"`
}

type ListProviderRequest struct {
	EnabledOnly bool `form:"enabled_only" example:"false"`
}

type ListProviderResponseData struct {
	Items []ProviderDetail `json:"items"`
}

type ListProviderResponse struct {
	Response
	Data ListProviderResponseData `json:"data"`
}

type SetProviderEnabledRequest struct {
	IsEnabled *bool `form:"is_enabled" binding:"required"`
}
