package app

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openmallhq/openmall/config"
	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/pkg/metrics"
)

type Application struct {
	appConfig       *config.AppConfig
	gormDB          *gorm.DB
	sched           *cron.Cron
	settingsManager *SettingsManager

	productRepo   store.ProductRepository
	categoryRepo  store.CategoryRepository
	brandRepo     store.BrandRepository
	cartRepo      store.CartRepository
	orderRepo     store.OrderRepository
	flashDealRepo store.FlashDealRepository
	bannerRepo    store.BannerRepository
	campaignRepo  store.CampaignRepository
	reviewRepo    store.ReviewRepository
}

// Ensure Application implements all interfaces
var (
	_ DBProvider         = (*Application)(nil)
	_ ConfigProvider     = (*Application)(nil)
	_ SettingsProvider   = (*Application)(nil)
	_ SchedulerProvider  = (*Application)(nil)
	_ RepositoryProvider = (*Application)(nil)
	_ AppContext         = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
	a.initRepositories()
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var appLogger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		appLogger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		appLogger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(appLogger)

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	// Ensure database schema is migrated before loading configs
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.initRepositories()
	a.settingsManager = NewSettingsManager(a.gormDB)

	// wait for database initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.seedDatabase()
	}()

	a.initJob()
}

// seedDatabase runs the idempotent seed and repair routines, then refreshes
// the settings cache so rows seeded on a fresh database are visible without
// waiting for the first admin save.
func (a *Application) seedDatabase() {
	a.checkSuper()
	a.checkSettings()
	a.checkSchedulers()
	a.checkCatalog()
	a.settingsManager.Reload()
}

func (a *Application) initRepositories() {
	a.productRepo = store.NewGormProductRepository(a.gormDB)
	a.categoryRepo = store.NewGormCategoryRepository(a.gormDB)
	a.brandRepo = store.NewGormBrandRepository(a.gormDB)
	a.cartRepo = store.NewGormCartRepository(a.gormDB)
	a.orderRepo = store.NewGormOrderRepository(a.gormDB, a.productRepo)
	a.flashDealRepo = store.NewGormFlashDealRepository(a.gormDB)
	a.bannerRepo = store.NewGormBannerRepository(a.gormDB)
	a.campaignRepo = store.NewGormCampaignRepository(a.gormDB)
	a.reviewRepo = store.NewGormReviewRepository(a.gormDB)
}

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String())
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		zap.S().Panicf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// SettingsMgr returns the settings manager
func (a *Application) SettingsMgr() *SettingsManager {
	return a.settingsManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.settingsManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.settingsManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.settingsManager.GetBool(category, key)
}

// SaveSettings saves configuration settings for one category in a batch
func (a *Application) SaveSettings(category string, values map[string]string) error {
	return a.settingsManager.SaveBatch(category, values)
}

// DecodeSettings maps one settings category onto a typed struct
func (a *Application) DecodeSettings(category string, out interface{}) error {
	return a.settingsManager.DecodeCategory(category, out)
}

func (a *Application) Products() store.ProductRepository     { return a.productRepo }
func (a *Application) Categories() store.CategoryRepository  { return a.categoryRepo }
func (a *Application) Brands() store.BrandRepository         { return a.brandRepo }
func (a *Application) Carts() store.CartRepository           { return a.cartRepo }
func (a *Application) Orders() store.OrderRepository         { return a.orderRepo }
func (a *Application) FlashDeals() store.FlashDealRepository { return a.flashDealRepo }
func (a *Application) Banners() store.BannerRepository       { return a.bannerRepo }
func (a *Application) Campaigns() store.CampaignRepository   { return a.campaignRepo }
func (a *Application) Reviews() store.ReviewRepository       { return a.reviewRepo }

// StartBackgroundJobs starts the maintenance scheduler loop
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.StartSchedulerService(ctx)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
