package service_test

import (
	"context"
	"errors"
	"testing"

	v1 "certlab/api/v1"
	"certlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardEmptyFleet(t *testing.T) {
	env := newTestEnv(t, nil)

	data, err := env.fleetService.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, data.Instances.Running)
	assert.Zero(t, data.ActiveUsers)
	assert.Zero(t, data.Resources.TotalVCPU)
	assert.Zero(t, data.Resources.EstimatedDailyCost)
	assert.NotNil(t, data.Providers)
	assert.Empty(t, data.Providers)
	assert.Empty(t, data.RecentErrors)
}

func TestDashboardAggregates(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	env.seedProvider(t, "gcp", true)
	ctx := context.Background()

	// alice: one running aws, one suspended aws
	a1, err := env.instanceService.Provision(ctx, provisionReq("alice"))
	require.NoError(t, err)
	_ = a1
	a2, err := env.instanceService.Provision(ctx, provisionReq("alice"))
	require.NoError(t, err)
	_, err = env.instanceService.ApplyAction(ctx, a2.InstanceID, model.InstanceActionSuspend)
	require.NoError(t, err)

	// bob: one terminated gcp
	req := provisionReq("bob")
	req.ProviderID = "gcp"
	b1, err := env.instanceService.Provision(ctx, req)
	require.NoError(t, err)
	_, err = env.instanceService.ApplyAction(ctx, b1.InstanceID, model.InstanceActionTerminate)
	require.NoError(t, err)

	data, err := env.fleetService.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), data.Instances.Running)
	assert.Equal(t, int64(1), data.Instances.Suspended)
	assert.Equal(t, int64(1), data.Instances.Terminated)
	assert.Equal(t, int64(2), data.ActiveUsers, "suspended still counts the user as active")
	assert.Equal(t, int64(2), data.Providers["aws"])
	_, hasGcp := data.Providers["gcp"]
	assert.False(t, hasGcp, "terminated instances drop out of the provider map")

	// two small instances, 1 vcpu / 2 GB / 0.05 per hour each
	assert.Equal(t, 2, data.Resources.TotalVCPU)
	assert.Equal(t, 4.0, data.Resources.TotalMemoryGB)
	assert.InDelta(t, 2*0.05*24, data.Resources.EstimatedDailyCost, 1e-9)
}

func TestDashboardRecentErrors(t *testing.T) {
	env := newTestEnv(t, failingStarter{err: errors.New("no capacity")})
	env.conf.Set("labs.recent_errors_limit", 2)
	env.seedProvider(t, "aws", true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.instanceService.Provision(ctx, provisionReq("alice"))
		require.ErrorIs(t, err, v1.ErrStartFailed)
	}

	data, err := env.fleetService.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), data.Instances.Error)
	require.Len(t, data.RecentErrors, 2)
	assert.Equal(t, "no capacity", data.RecentErrors[0].ErrorMessage)
	assert.Equal(t, "alice", data.RecentErrors[0].UserID)
}

func TestMetricsPeriods(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	ctx := context.Background()

	detail, err := env.instanceService.Provision(ctx, provisionReq("alice"))
	require.NoError(t, err)
	_, err = env.instanceService.ApplyAction(ctx, detail.InstanceID, model.InstanceActionTerminate)
	require.NoError(t, err)
	_, err = env.instanceService.Provision(ctx, provisionReq("alice"))
	require.NoError(t, err)

	data, err := env.fleetService.Metrics(ctx, "24h")
	require.NoError(t, err)
	assert.Equal(t, "24h", data.Period)
	assert.Equal(t, int64(2), data.Provisioned)
	assert.Equal(t, int64(1), data.Terminated)
	assert.Zero(t, data.Failed)
	assert.Equal(t, int64(2), data.ByProvider["aws"])
	assert.Equal(t, int64(1), data.ActiveAtEndCount)

	// empty period defaults to 24h
	data, err = env.fleetService.Metrics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "24h", data.Period)

	_, err = env.fleetService.Metrics(ctx, "90d")
	assert.ErrorIs(t, err, v1.ErrBadRequest)
}
