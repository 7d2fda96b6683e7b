package service_test

import (
	"context"
	"testing"

	v1 "certlab/api/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderListAndEnabled(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	env.seedProvider(t, "gcp", false)
	ctx := context.Background()

	list, err := env.providerService.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	list, err = env.providerService.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "aws", list.Items[0].ProviderID)

	detail, err := env.providerService.SetEnabled(ctx, "gcp", true)
	require.NoError(t, err)
	assert.True(t, detail.IsEnabled)

	list, err = env.providerService.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = env.providerService.SetEnabled(ctx, "ibmcloud", true)
	assert.ErrorIs(t, err, v1.ErrProviderNotFound)
}

func TestPutInstanceTypeValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	ctx := context.Background()

	_, err := env.providerService.PutInstanceType(ctx, "aws", "huge", &v1.InstanceTypeSpec{VCPU: 0, MemoryGB: 32, CostPerHour: 0.8})
	assert.ErrorIs(t, err, v1.ErrInvalidCatalogEntry)

	detail, err := env.providerService.PutInstanceType(ctx, "aws", "huge", &v1.InstanceTypeSpec{VCPU: 16, MemoryGB: 32, CostPerHour: 0.8})
	require.NoError(t, err)
	assert.Equal(t, 16, detail.InstanceTypes["huge"].VCPU)

	// upsert over an existing type
	detail, err = env.providerService.PutInstanceType(ctx, "aws", "small", &v1.InstanceTypeSpec{VCPU: 2, MemoryGB: 2, CostPerHour: 0.06})
	require.NoError(t, err)
	assert.Equal(t, 2, detail.InstanceTypes["small"].VCPU)
}

func TestDeleteInstanceType(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	ctx := context.Background()

	detail, err := env.providerService.DeleteInstanceType(ctx, "aws", "large")
	require.NoError(t, err)
	_, ok := detail.InstanceTypes["large"]
	assert.False(t, ok)

	_, err = env.providerService.DeleteInstanceType(ctx, "aws", "large")
	assert.ErrorIs(t, err, v1.ErrInstanceTypeNotFound)
}

func TestCatalogEditNeverChangesSnapshot(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	ctx := context.Background()

	inst, err := env.instanceService.Provision(ctx, provisionReq("alice"))
	require.NoError(t, err)
	require.Equal(t, 1, inst.Resources.VCPU)

	_, err = env.providerService.PutInstanceType(ctx, "aws", "small", &v1.InstanceTypeSpec{VCPU: 8, MemoryGB: 16, CostPerHour: 0.5})
	require.NoError(t, err)

	detail, err := env.instanceService.Get(ctx, inst.InstanceID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Resources.VCPU)
	assert.Equal(t, 0.05, detail.Resources.CostPerHour)
}
