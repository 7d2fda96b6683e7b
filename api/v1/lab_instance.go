package v1

import "time"

type ProvisionInstanceRequest struct {
	UserID         string `json:"user_id" binding:"required" example:"user-42"` // admin may provision on behalf of a learner
	LabID          string `json:"lab_id" binding:"required" example:"lab-aws-saa-1"`
	ProviderID     string `json:"provider_id" binding:"required" example:"aws"`
	Region         string `json:"region" binding:"required" example:"us-east-1"`
	InstanceTypeID string `json:"instance_type_id" binding:"required" example:"small"`
}

type InstanceActionRequest struct {
	Action string `json:"action" binding:"required,oneof=suspend resume extend terminate" example:"suspend"`
}

// ResourceSnapshot is the vCPU/memory/cost copied from the provider catalog at
// provisioning time. Later catalog edits never change it.
type ResourceSnapshot struct {
	VCPU        int     `json:"vcpu" example:"2"`
	MemoryGB    float64 `json:"memory_gb" example:"4"`
	CostPerHour float64 `json:"cost_per_hour" example:"0.12"`
}

type InstanceDetail struct {
	InstanceID       string           `json:"instance_id" example:"lab-1n3kz0q8"`
	UserID           string           `json:"user_id" example:"user-42"`
	LabID            string           `json:"lab_id" example:"lab-aws-saa-1"`
	ProviderID       string           `json:"provider_id" example:"aws"`
	Region           string           `json:"region" example:"us-east-1"`
	InstanceTypeID   string           `json:"instance_type_id" example:"small"`
	Resources        ResourceSnapshot `json:"resources"`
	Status           string           `json:"status" example:"running"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	AccruedHours     float64          `json:"accrued_hours" example:"1.5"`
	ExtendCount      int              `json:"extend_count" example:"0"`
	LeaseExpiresAt   *time.Time       `json:"lease_expires_at,omitempty"`
	StartedAt        *time.Time       `json:"started_at,omitempty"`
	LastTransitionAt time.Time        `json:"last_transition_at"`
	TerminatedAt     *time.Time       `json:"terminated_at,omitempty"`
}

type InstanceResponse struct {
	Response
	Data InstanceDetail `json:"data"`
}

type ListInstanceRequest struct {
	Status     string `form:"status" example:"running"`
	ProviderID string `form:"provider" example:"aws"`
	UserID     string `form:"user_id" example:"user-42"`
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"20"`
}

type ListInstanceResponseData struct {
	Items []InstanceDetail `json:"items"`
	Total int64            `json:"total" example:"37"`
}

type ListInstanceResponse struct {
	Response
	Data ListInstanceResponseData `json:"data"`
}

type ConsoleTokenData struct {
	WsToken   string `json:"ws_token"`
	ExpiresIn int    `json:"expires_in" example:"300"` // seconds
}

type ConsoleTokenResponse struct {
	Response
	Data ConsoleTokenData `json:"data"`
}
