package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/config"
	"github.com/openmallhq/openmall/internal/store"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(category string, values map[string]string) error
	DecodeSettings(category string, out interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// RepositoryProvider provides the storage repositories
type RepositoryProvider interface {
	Products() store.ProductRepository
	Categories() store.CategoryRepository
	Brands() store.BrandRepository
	Carts() store.CartRepository
	Orders() store.OrderRepository
	FlashDeals() store.FlashDealRepository
	Banners() store.BannerRepository
	Campaigns() store.CampaignRepository
	Reviews() store.ReviewRepository
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	RepositoryProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunSchedulerNow triggers a scheduler execution immediately by ID
	RunSchedulerNow(id int64) error
}
