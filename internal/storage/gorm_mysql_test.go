package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockMySQLStorage(t *testing.T, opts ...Option) (*GormStorage, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStorage(db, opts...), mock
}

func TestGormStorage_MySQL_GetUserMissing(t *testing.T) {
	store, mock := newMockMySQLStorage(t)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	user, err := store.GetUser(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStorage_MySQL_CreateAuditLogStampsTimestamp(t *testing.T) {
	stamp := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	store, mock := newMockMySQLStorage(t, WithClock(func() time.Time { return stamp }))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `audit_logs`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	log, err := store.CreateAuditLog(context.Background(), models.NewAuditLog{
		UserID:   1,
		Action:   models.AuditActionLogin,
		Resource: "auth",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(7), log.ID)
	require.NotNil(t, log.Timestamp)
	require.True(t, stamp.Equal(*log.Timestamp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStorage_MySQL_AuditLogsOrderedInQuery(t *testing.T) {
	store, mock := newMockMySQLStorage(t)

	newer := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	mock.ExpectQuery("SELECT \\* FROM `audit_logs` ORDER BY CASE WHEN occurred_at IS NULL THEN 1 ELSE 0 END, occurred_at DESC, id DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "details", "occurred_at"}).
			AddRow(2, 1, "LOGIN", "auth", nil, newer).
			AddRow(1, 1, "LOGIN", "auth", nil, older))

	logs, err := store.GetAuditLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, uint64(2), logs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
