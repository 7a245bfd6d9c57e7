package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

func newReportsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, total float64, status string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Order{
		ID:        common.UUIDint64(),
		OrderNo:   "T" + common.UUID(),
		Status:    status,
		Total:     total,
		CreatedAt: at,
	}).Error)
}

func TestRevenueQuartiles(t *testing.T) {
	db := newReportsDB(t)
	now := time.Now()
	for _, total := range []float64{10, 20, 30, 40} {
		seedOrder(t, db, total, domain.OrderStatusPending, now)
	}
	// cancelled orders stay out of the distribution
	seedOrder(t, db, 1000, domain.OrderStatusCancelled, now)

	svc := NewService(db)
	dist, err := svc.RevenueQuartiles(context.Background(), now.AddDate(0, 0, -1), now)
	require.NoError(t, err)

	assert.Equal(t, 10.0, dist.Min)
	assert.Equal(t, 15.0, dist.Q1)
	assert.Equal(t, 25.0, dist.Median)
	assert.Equal(t, 35.0, dist.Q3)
	assert.Equal(t, 40.0, dist.Max)
}

func TestRevenueQuartilesEmptyRange(t *testing.T) {
	db := newReportsDB(t)
	svc := NewService(db)

	dist, err := svc.RevenueQuartiles(context.Background(),
		time.Now().AddDate(-2, 0, 0), time.Now().AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, RevenueStats{}, dist)
}
