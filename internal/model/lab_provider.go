package model

import "time"

// InstanceTypeSpec is one entry of a provider's instance-type catalog.
type InstanceTypeSpec struct {
	VCPU        int     `json:"vcpu"`
	MemoryGB    float64 `json:"memory_gb"`
	CostPerHour float64 `json:"cost_per_hour"`
}

// LabProvider is an admin-managed simulated cloud vendor definition.
type LabProvider struct {
	Id          int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ProviderID  string `json:"provider_id" gorm:"column:provider_id;size:64;not null;uniqueIndex"`
	DisplayName string `json:"display_name" gorm:"column:display_name;size:128;not null"`
	IsEnabled   int8   `json:"is_enabled" gorm:"column:is_enabled;not null;default:1"`

	Regions       []string                    `json:"regions" gorm:"column:regions;serializer:json"`
	InstanceTypes map[string]InstanceTypeSpec `json:"instance_types" gorm:"column:instance_types;serializer:json"`
	ResourceKinds []string                    `json:"resource_kinds" gorm:"column:resource_kinds;serializer:json"`

	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (LabProvider) TableName() string {
	return "lab_provider"
}

func (p *LabProvider) Enabled() bool {
	return p.IsEnabled != 0
}

func (p *LabProvider) SupportsRegion(region string) bool {
	for _, r := range p.Regions {
		if r == region {
			return true
		}
	}
	return false
}
