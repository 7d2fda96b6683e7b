package service_test

import (
	"context"
	"testing"
	"time"

	v1 "certlab/api/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateMaterializesDefaults(t *testing.T) {
	env := newTestEnv(t, nil)
	env.conf.Set("labs.default_quota.max_concurrent_labs", 3)
	env.conf.Set("labs.default_quota.max_daily_lab_hours", 6)
	env.conf.Set("labs.default_quota.allowed_providers", []string{"aws", "gcp"})
	ctx := context.Background()

	quota, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, quota.MaxConcurrentLabs)
	assert.Equal(t, 6.0, quota.MaxDailyLabHours)
	assert.Equal(t, 40.0, quota.MaxMonthlyLabHours, "unset keys keep the built-in default")
	assert.Equal(t, []string{"aws", "gcp"}, quota.AllowedProviders)
	assert.Equal(t, int8(0), quota.IsOverride)
	assert.Zero(t, quota.CurrentActiveLabs)

	// second call reads the same row
	again, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, quota.Id, again.Id)
}

func TestSetAndClearOverride(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, env.quotaService.AccrueHours(ctx, "alice", 2.5))

	detail, err := env.quotaService.SetOverride(ctx, "alice", &v1.QuotaLimits{
		MaxConcurrentLabs:    5,
		MaxDailyLabHours:     12,
		MaxMonthlyLabHours:   100,
		StorageLimitGB:       50,
		AllowedProviders:     []string{"aws"},
		AllowedInstanceTypes: []string{"small", "medium", "large"},
	})
	require.NoError(t, err)
	assert.True(t, detail.IsOverride)
	assert.Equal(t, 5, detail.MaxConcurrentLabs)
	assert.Equal(t, 2.5, detail.HoursUsedToday, "override replaces limits, not counters")

	detail, err = env.quotaService.ClearOverride(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, detail.IsOverride)
	assert.Equal(t, 2, detail.MaxConcurrentLabs)
	assert.Equal(t, 2.5, detail.HoursUsedToday)
}

func TestClearOverrideUnknownUser(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.quotaService.ClearOverride(context.Background(), "nobody")
	assert.ErrorIs(t, err, v1.ErrNotFound)
}

func TestCounterRollover(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	quota, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, env.quotaService.AccrueHours(ctx, "alice", 3))

	// age the row into the previous day, same month
	quota, err = env.quotaRepo.GetByUserID(ctx, "alice")
	require.NoError(t, err)
	quota.DailyResetAt = quota.DailyResetAt.Add(-24 * time.Hour)
	require.NoError(t, env.quotaRepo.Update(ctx, quota))

	detail, err := env.quotaService.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, detail.HoursUsedToday, "daily counter rolls over")
	assert.Equal(t, 3.0, detail.HoursUsedThisMonth, "monthly counter survives the daily rollover")

	// age the row into the previous month
	quota, err = env.quotaRepo.GetByUserID(ctx, "alice")
	require.NoError(t, err)
	quota.MonthlyResetAt = quota.MonthlyResetAt.AddDate(0, -1, 0)
	require.NoError(t, env.quotaRepo.Update(ctx, quota))

	detail, err = env.quotaService.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, detail.HoursUsedThisMonth)
}

func TestReserveReleasesSlotWhenHourBudgetSpent(t *testing.T) {
	env := newTestEnv(t, nil)
	env.conf.Set("labs.default_quota.max_daily_lab_hours", 1)
	ctx := context.Background()

	_, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, env.quotaService.AccrueHours(ctx, "alice", 1.5))

	err = env.quotaService.Reserve(ctx, "alice", "aws", "small")
	assert.ErrorIs(t, err, v1.ErrQuotaExceeded)
	assert.Equal(t, 0, env.activeLabs(t, "alice"), "failed hour check must release the slot it took")
}

func TestReserveOrderOfChecks(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	err := env.quotaService.Reserve(ctx, "alice", "ibmcloud", "small")
	assert.ErrorIs(t, err, v1.ErrProviderNotAllowed)

	err = env.quotaService.Reserve(ctx, "alice", "aws", "xlarge")
	assert.ErrorIs(t, err, v1.ErrInstanceTypeNotAllowed)

	require.NoError(t, env.quotaService.Reserve(ctx, "alice", "aws", "small"))
	require.NoError(t, env.quotaService.Reserve(ctx, "alice", "aws", "medium"))
	err = env.quotaService.Reserve(ctx, "alice", "aws", "small")
	assert.ErrorIs(t, err, v1.ErrQuotaExceeded)
	assert.Equal(t, 2, env.activeLabs(t, "alice"))
}

func TestReleaseNeverGoesNegative(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, env.quotaService.Release(ctx, "alice"))
	require.NoError(t, env.quotaService.Release(ctx, "alice"))
	assert.Equal(t, 0, env.activeLabs(t, "alice"))
}

func TestAccrueHoursIgnoresNonPositive(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.quotaService.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, env.quotaService.AccrueHours(ctx, "alice", 0))
	require.NoError(t, env.quotaService.AccrueHours(ctx, "alice", -1))

	detail, err := env.quotaService.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, detail.HoursUsedToday)
}
