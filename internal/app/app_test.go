package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openmallhq/openmall/internal/domain"
)

func newSeedTestApp(t *testing.T) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	a := &Application{gormDB: db}
	a.initRepositories()
	a.settingsManager = NewSettingsManager(db)
	return a
}

func TestSeedDatabaseRefreshesSettings(t *testing.T) {
	a := newSeedTestApp(t)

	// the manager was built against an empty table; seeded defaults must
	// become visible without a restart or an admin save
	assert.False(t, a.GetSettingsBoolValue(SettingsPayment, "cod_enable"))

	a.seedDatabase()

	assert.True(t, a.GetSettingsBoolValue(SettingsPayment, "cod_enable"))
	assert.Equal(t, int64(10), a.GetSettingsInt64Value(SettingsShipping, "flat_rate"))
	assert.Equal(t, "OpenMall", a.GetSettingsStringValue(SettingsGeneral, "store_name"))
	assert.Contains(t, a.settingsManager.GetCategory(SettingsNotification), "admin_emails")
}

func TestSeedDatabaseIdempotent(t *testing.T) {
	a := newSeedTestApp(t)

	a.seedDatabase()
	require.NoError(t, a.SaveSettings(SettingsPayment, map[string]string{"cod_enable": "false"}))

	// a second seed run must not resurrect defaults over user edits
	a.seedDatabase()
	assert.False(t, a.GetSettingsBoolValue(SettingsPayment, "cod_enable"))

	var count int64
	a.gormDB.Model(&domain.SysOpr{}).Where("username = ?", "admin").Count(&count)
	assert.Equal(t, int64(1), count)
}
