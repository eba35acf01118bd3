package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/repository/sqlrepo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FixedTime is used to patch time.Now in tests.
var FixedTime = time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(sqlrepo.Models()...))
	return db
}

// MockNotifier records approval events.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event models.ApprovalEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMediaStore stands in for S3.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Save(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, folder, file)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
