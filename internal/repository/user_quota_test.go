package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"certlab/internal/repository"
	"certlab/pkg/log"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*repository.Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	conf := viper.New()
	conf.Set("log.log_level", "error")
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	logger := log.NewLog(conf)
	return repository.NewRepository(logger, db), mock
}

func TestReserveSlotGuardedIncrement(t *testing.T) {
	repo, mock := newMockRepository(t)
	quotaRepo := repository.NewUserQuotaRepository(repo)
	ctx := context.Background()

	// the check and the increment must be one statement
	mock.ExpectExec("UPDATE `user_quota` SET .*current_active_labs.=current_active_labs \\+ 1.* WHERE user_id = \\? AND current_active_labs < max_concurrent_labs").
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := quotaRepo.ReserveSlot(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	// no headroom: zero rows affected, no error
	mock.ExpectExec("UPDATE `user_quota` SET .*current_active_labs.=current_active_labs \\+ 1.* WHERE user_id = \\? AND current_active_labs < max_concurrent_labs").
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = quotaRepo.ReserveSlot(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseSlotFloorsAtZero(t *testing.T) {
	repo, mock := newMockRepository(t)
	quotaRepo := repository.NewUserQuotaRepository(repo)

	mock.ExpectExec("UPDATE `user_quota` SET .*current_active_labs.=current_active_labs - 1.* WHERE user_id = \\? AND current_active_labs > 0").
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, quotaRepo.ReleaseSlot(context.Background(), "alice"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccrueHoursUpdatesBothCounters(t *testing.T) {
	repo, mock := newMockRepository(t)
	quotaRepo := repository.NewUserQuotaRepository(repo)

	mock.ExpectExec("UPDATE `user_quota` SET .*hours_used_this_month.=hours_used_this_month \\+ \\?.*hours_used_today.=hours_used_today \\+ \\?.* WHERE user_id = \\?").
		WithArgs(sqlmock.AnyArg(), 1.5, 1.5, "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, quotaRepo.AccrueHours(context.Background(), "alice", 1.5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusGuard(t *testing.T) {
	repo, mock := newMockRepository(t)
	instanceRepo := repository.NewLabInstanceRepository(repo)
	ctx := context.Background()

	mock.ExpectExec("UPDATE `lab_instance` SET .* WHERE instance_id = \\? AND status = \\?").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "lab-1", "running").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := instanceRepo.TransitionStatus(ctx, "lab-1", "running", map[string]interface{}{
		"status": "suspended",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	// a lost race shows up as zero rows affected and no error
	mock.ExpectExec("UPDATE `lab_instance` SET .* WHERE instance_id = \\? AND status = \\?").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "lab-1", "running").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = instanceRepo.TransitionStatus(ctx, "lab-1", "running", map[string]interface{}{
		"status": "suspended",
	})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
