package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/internal/service"
	"certlab/pkg/jwt"
	"certlab/pkg/log"
	"certlab/pkg/sid"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db              *gorm.DB
	conf            *viper.Viper
	instanceRepo    repository.LabInstanceRepository
	quotaRepo       repository.UserQuotaRepository
	providerRepo    repository.LabProviderRepository
	quotaService    service.UserQuotaService
	providerService service.LabProviderService
	instanceService service.LabInstanceService
	consoleService  service.LabConsoleService
	fleetService    service.FleetReportService
}

// newTestEnv wires the full service stack against a private in-memory
// database, so tests exercise the real SQL including the guarded updates.
func newTestEnv(t *testing.T, starter service.Starter) *testEnv {
	t.Helper()

	conf := viper.New()
	conf.Set("env", "test")
	conf.Set("log.log_level", "error")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	conf.Set("security.jwt.key", "test-signing-key")
	logger := log.NewLog(conf)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a sqlite :memory: database exists per connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.LabInstance{},
		&model.UserQuota{},
		&model.LabProvider{},
	))

	repo := repository.NewRepository(logger, db)
	tm := repository.NewTransaction(repo)
	instanceRepo := repository.NewLabInstanceRepository(repo)
	quotaRepo := repository.NewUserQuotaRepository(repo)
	providerRepo := repository.NewLabProviderRepository(repo)

	base := service.NewService(tm, logger, sid.NewSid(), jwt.NewJwt(conf))
	if starter == nil {
		starter = service.NewStarter()
	}
	quotaService := service.NewUserQuotaService(base, quotaRepo, conf, logger)
	providerService := service.NewLabProviderService(base, providerRepo, logger)
	instanceService := service.NewLabInstanceService(base, instanceRepo, providerRepo, quotaRepo, quotaService, starter, conf, logger)
	consoleService := service.NewLabConsoleService(base, instanceRepo, logger)
	fleetService := service.NewFleetReportService(base, instanceRepo, conf, logger)

	return &testEnv{
		db:              db,
		conf:            conf,
		instanceRepo:    instanceRepo,
		quotaRepo:       quotaRepo,
		providerRepo:    providerRepo,
		quotaService:    quotaService,
		providerService: providerService,
		instanceService: instanceService,
		consoleService:  consoleService,
		fleetService:    fleetService,
	}
}

func (e *testEnv) seedProvider(t *testing.T, providerID string, enabled bool) {
	t.Helper()
	value := int8(0)
	if enabled {
		value = 1
	}
	err := e.providerRepo.Create(context.Background(), &model.LabProvider{
		ProviderID:  providerID,
		DisplayName: providerID,
		IsEnabled:   value,
		Regions:     []string{"us-east-1", "eu-west-1"},
		InstanceTypes: map[string]model.InstanceTypeSpec{
			"small":  {VCPU: 1, MemoryGB: 2, CostPerHour: 0.05},
			"medium": {VCPU: 2, MemoryGB: 4, CostPerHour: 0.10},
			"large":  {VCPU: 4, MemoryGB: 8, CostPerHour: 0.20},
		},
		ResourceKinds: []string{"vm"},
	})
	require.NoError(t, err)
}

func (e *testEnv) activeLabs(t *testing.T, userID string) int {
	t.Helper()
	quota, err := e.quotaRepo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, quota)
	return quota.CurrentActiveLabs
}
