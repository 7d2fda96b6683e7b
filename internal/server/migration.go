package server

import (
	"context"
	"os"

	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/pkg/log"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateServer struct {
	db           *gorm.DB
	log          *log.Logger
	providerRepo repository.LabProviderRepository
}

func NewMigrateServer(db *gorm.DB, log *log.Logger, providerRepo repository.LabProviderRepository) *MigrateServer {
	return &MigrateServer{
		db:           db,
		log:          log,
		providerRepo: providerRepo,
	}
}
func (m *MigrateServer) Start(ctx context.Context) error {
	if err := m.db.AutoMigrate(
		&model.LabInstance{},
		&model.UserQuota{},
		&model.LabProvider{},
	); err != nil {
		m.log.Error("migrate error", zap.Error(err))
		return err
	}
	m.log.Info("AutoMigrate success")

	if err := m.seedProviders(ctx); err != nil {
		m.log.Error("seed providers error", zap.Error(err))
		return err
	}

	os.Exit(0)
	return nil
}

// seedProviders creates the built-in provider catalog on first run. Existing
// rows are left untouched so admin edits survive re-migration.
func (m *MigrateServer) seedProviders(ctx context.Context) error {
	defaultTypes := map[string]model.InstanceTypeSpec{
		"small":  {VCPU: 1, MemoryGB: 2, CostPerHour: 0.05},
		"medium": {VCPU: 2, MemoryGB: 4, CostPerHour: 0.10},
		"large":  {VCPU: 4, MemoryGB: 8, CostPerHour: 0.20},
		"xlarge": {VCPU: 8, MemoryGB: 16, CostPerHour: 0.40},
	}
	seeds := []*model.LabProvider{
		{
			ProviderID:    "aws",
			DisplayName:   "Amazon Web Services",
			IsEnabled:     1,
			Regions:       []string{"us-east-1", "us-west-2", "eu-west-1"},
			InstanceTypes: defaultTypes,
			ResourceKinds: []string{"vm", "vpc", "s3"},
		},
		{
			ProviderID:    "gcp",
			DisplayName:   "Google Cloud Platform",
			IsEnabled:     1,
			Regions:       []string{"us-central1", "europe-west1"},
			InstanceTypes: defaultTypes,
			ResourceKinds: []string{"vm", "vpc", "gcs"},
		},
		{
			ProviderID:    "azure",
			DisplayName:   "Microsoft Azure",
			IsEnabled:     1,
			Regions:       []string{"eastus", "westeurope"},
			InstanceTypes: defaultTypes,
			ResourceKinds: []string{"vm", "vnet", "blob"},
		},
	}

	for _, seed := range seeds {
		existing, err := m.providerRepo.GetByProviderID(ctx, seed.ProviderID)
		if err != nil {
			return err
		}
		if existing != nil {
			m.log.Info("provider already exists", zap.String("provider", seed.ProviderID))
			continue
		}
		if err := m.providerRepo.Create(ctx, seed); err != nil {
			return err
		}
		m.log.Info("provider seeded", zap.String("provider", seed.ProviderID))
	}
	return nil
}
func (m *MigrateServer) Stop(ctx context.Context) error {
	m.log.Info("AutoMigrate stop")
	return nil
}
