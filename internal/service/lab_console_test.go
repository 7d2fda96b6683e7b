package service_test

import (
	"context"
	"testing"

	v1 "certlab/api/v1"
	"certlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueConsoleToken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProvider(t, "aws", true)
	ctx := context.Background()

	detail, err := env.instanceService.Provision(ctx, provisionReq("alice"))
	require.NoError(t, err)

	token, err := env.consoleService.IssueToken(ctx, detail.InstanceID)
	require.NoError(t, err)
	assert.NotEmpty(t, token.WsToken)
	assert.Equal(t, 300, token.ExpiresIn)

	_, err = env.consoleService.IssueToken(ctx, "lab-missing")
	assert.ErrorIs(t, err, v1.ErrInstanceNotFound)

	_, err = env.instanceService.ApplyAction(ctx, detail.InstanceID, model.InstanceActionSuspend)
	require.NoError(t, err)
	_, err = env.consoleService.IssueToken(ctx, detail.InstanceID)
	assert.ErrorIs(t, err, v1.ErrInvalidTransition, "console only attaches to a running instance")
}
