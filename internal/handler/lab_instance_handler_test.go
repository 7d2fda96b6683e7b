package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"certlab/internal/handler"
	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/internal/router"
	"certlab/internal/server"
	"certlab/internal/service"
	"certlab/pkg/jwt"
	"certlab/pkg/log"
	"certlab/pkg/sid"

	"github.com/gavv/httpexpect/v2"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *jwt.JWT) {
	t.Helper()

	conf := viper.New()
	conf.Set("env", "test")
	conf.Set("log.log_level", "error")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	conf.Set("security.jwt.key", "handler-test-key")
	logger := log.NewLog(conf)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.LabInstance{}, &model.UserQuota{}, &model.LabProvider{}))

	repo := repository.NewRepository(logger, db)
	tm := repository.NewTransaction(repo)
	instanceRepo := repository.NewLabInstanceRepository(repo)
	quotaRepo := repository.NewUserQuotaRepository(repo)
	providerRepo := repository.NewLabProviderRepository(repo)

	require.NoError(t, providerRepo.Create(context.Background(), &model.LabProvider{
		ProviderID:  "aws",
		DisplayName: "Amazon Web Services",
		IsEnabled:   1,
		Regions:     []string{"us-east-1"},
		InstanceTypes: map[string]model.InstanceTypeSpec{
			"small": {VCPU: 1, MemoryGB: 2, CostPerHour: 0.05},
		},
		ResourceKinds: []string{"vm"},
	}))

	j := jwt.NewJwt(conf)
	base := service.NewService(tm, logger, sid.NewSid(), j)
	quotaService := service.NewUserQuotaService(base, quotaRepo, conf, logger)
	providerService := service.NewLabProviderService(base, providerRepo, logger)
	instanceService := service.NewLabInstanceService(base, instanceRepo, providerRepo, quotaRepo, quotaService, service.NewStarter(), conf, logger)
	consoleService := service.NewLabConsoleService(base, instanceRepo, logger)
	fleetService := service.NewFleetReportService(base, instanceRepo, conf, logger)

	h := handler.NewHandler(logger)
	deps := router.RouterDeps{
		Logger:             logger,
		Config:             conf,
		JWT:                j,
		LabInstanceHandler: handler.NewLabInstanceHandler(h, instanceService, consoleService),
		UserQuotaHandler:   handler.NewUserQuotaHandler(h, quotaService),
		LabProviderHandler: handler.NewLabProviderHandler(h, providerService),
		FleetReportHandler: handler.NewFleetReportHandler(h, fleetService),
	}

	srv := server.NewHTTPServer(deps)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, j
}

func bearer(t *testing.T, j *jwt.JWT, userID, role string) string {
	t.Helper()
	token, err := j.GenToken(userID, role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestInstanceEndpoints(t *testing.T) {
	ts, j := newTestServer(t)
	e := httpexpect.Default(t, ts.URL)
	alice := bearer(t, j, "alice", "student")

	e.GET("/api/v1/labs/instances").
		Expect().Status(http.StatusUnauthorized)

	obj := e.POST("/api/v1/labs/instances").
		WithHeader("Authorization", alice).
		WithJSON(map[string]interface{}{
			"user_id":          "someone-else", // ignored for learners
			"lab_id":           "lab-aws-saa-1",
			"provider_id":      "aws",
			"region":           "us-east-1",
			"instance_type_id": "small",
		}).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("code").Number().IsEqual(0)
	data := obj.Value("data").Object()
	data.Value("status").String().IsEqual("running")
	data.Value("user_id").String().IsEqual("alice")
	instanceID := data.Value("instance_id").String().Raw()

	obj = e.POST("/api/v1/labs/instances/{id}/action", instanceID).
		WithHeader("Authorization", alice).
		WithJSON(map[string]interface{}{"action": "suspend"}).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("data").Object().Value("status").String().IsEqual("suspended")

	// a stranger cannot act on alice's instance
	e.POST("/api/v1/labs/instances/{id}/action", instanceID).
		WithHeader("Authorization", bearer(t, j, "mallory", "student")).
		WithJSON(map[string]interface{}{"action": "resume"}).
		Expect().Status(http.StatusForbidden)

	// unknown actions are rejected by binding
	e.POST("/api/v1/labs/instances/{id}/action", instanceID).
		WithHeader("Authorization", alice).
		WithJSON(map[string]interface{}{"action": "reboot"}).
		Expect().Status(http.StatusBadRequest)

	list := e.GET("/api/v1/labs/instances").
		WithHeader("Authorization", alice).
		Expect().Status(http.StatusOK).
		JSON().Object().Value("data").Object()
	list.Value("total").Number().IsEqual(1)
}

func TestAdminOnlyEndpoints(t *testing.T) {
	ts, j := newTestServer(t)
	e := httpexpect.Default(t, ts.URL)
	student := bearer(t, j, "alice", "student")
	admin := bearer(t, j, "root", "admin")

	e.GET("/api/v1/labs/fleet/dashboard").
		WithHeader("Authorization", student).
		Expect().Status(http.StatusForbidden)

	obj := e.GET("/api/v1/labs/fleet/dashboard").
		WithHeader("Authorization", admin).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("data").Object().Value("active_users").Number().IsEqual(0)

	e.PUT("/api/v1/labs/quotas/{user_id}", "alice").
		WithHeader("Authorization", student).
		WithJSON(map[string]interface{}{
			"max_concurrent_labs":    5,
			"max_daily_lab_hours":    8,
			"max_monthly_lab_hours":  80,
			"storage_limit_gb":       20,
			"allowed_providers":      []string{"aws"},
			"allowed_instance_types": []string{"small"},
		}).
		Expect().Status(http.StatusForbidden)

	obj = e.PUT("/api/v1/labs/quotas/{user_id}", "alice").
		WithHeader("Authorization", admin).
		WithJSON(map[string]interface{}{
			"max_concurrent_labs":    5,
			"max_daily_lab_hours":    8,
			"max_monthly_lab_hours":  80,
			"storage_limit_gb":       20,
			"allowed_providers":      []string{"aws"},
			"allowed_instance_types": []string{"small"},
		}).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("data").Object().Value("is_override").Boolean().IsTrue()

	// learners read their own quota whatever user_id they pass
	obj = e.GET("/api/v1/labs/quotas/{user_id}", "root").
		WithHeader("Authorization", student).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("data").Object().Value("user_id").String().IsEqual("alice")

	// catalog reads are learner-visible, catalog writes are not
	e.GET("/api/v1/labs/providers").
		WithHeader("Authorization", student).
		Expect().Status(http.StatusOK)
	e.PUT("/api/v1/labs/providers/{id}", "aws").
		WithHeader("Authorization", student).
		WithQuery("is_enabled", false).
		Expect().Status(http.StatusForbidden)
	e.PUT("/api/v1/labs/providers/{id}", "aws").
		WithHeader("Authorization", admin).
		WithQuery("is_enabled", false).
		Expect().Status(http.StatusOK)
}
