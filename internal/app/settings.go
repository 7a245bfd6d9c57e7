package app

import (
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

// Settings categories
const (
	SettingsGeneral      = "general"
	SettingsPayment      = "payment"
	SettingsNotification = "notification"
	SettingsShipping     = "shipping"
)

// SettingsCategories lists all valid settings categories
var SettingsCategories = []string{
	SettingsGeneral,
	SettingsPayment,
	SettingsNotification,
	SettingsShipping,
}

// SettingsManager caches sys_config rows and exposes typed getters.
// Writes go through SaveBatch which refreshes the cache.
type SettingsManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string // "category.key" -> value
}

// NewSettingsManager creates the manager and loads the initial cache
func NewSettingsManager(db *gorm.DB) *SettingsManager {
	m := &SettingsManager{db: db, cache: map[string]string{}}
	m.Reload()
	return m
}

// Reload replaces the cache from the database
func (m *SettingsManager) Reload() {
	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		return
	}
	next := make(map[string]string, len(rows))
	for _, row := range rows {
		next[row.Type+"."+row.Name] = row.Value
	}
	m.mu.Lock()
	m.cache = next
	m.mu.Unlock()
}

// Preload seeds the cache directly, bypassing the database (tests)
func (m *SettingsManager) Preload(values map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.cache[k] = v
	}
}

// GetString returns a settings value or empty string
func (m *SettingsManager) GetString(category, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache[category+"."+key]
}

// GetInt64 returns a settings value coerced to int64, zero on failure
func (m *SettingsManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.GetString(category, key))
}

// GetBool returns a settings value coerced to bool, false on failure
func (m *SettingsManager) GetBool(category, key string) bool {
	return cast.ToBool(m.GetString(category, key))
}

// GetCategory returns all key/value pairs of one category
func (m *SettingsManager) GetCategory(category string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]string{}
	prefix := category + "."
	for k, v := range m.cache {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out[k[len(prefix):]] = v
		}
	}
	return out
}

// SaveBatch upserts all key/value pairs of one category and refreshes the
// cache. Each pair is one statement; there is no surrounding transaction.
func (m *SettingsManager) SaveBatch(category string, values map[string]string) error {
	for key, value := range values {
		var row domain.SysConfig
		err := m.db.Where("type = ? AND name = ?", category, key).First(&row).Error
		if err == gorm.ErrRecordNotFound {
			if err := m.db.Create(&domain.SysConfig{
				ID:        common.UUIDint64(),
				Type:      category,
				Name:      key,
				Value:     value,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := m.db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
	}
	m.Reload()
	return nil
}

// DecodeCategory maps one category's settings onto a typed struct using
// mapstructure tags (weak typing enabled so "true"/"42" coerce).
func (m *SettingsManager) DecodeCategory(category string, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m.GetCategory(category))
}

// NotificationSettings typed view of the notification category
type NotificationSettings struct {
	MailEnable  bool   `mapstructure:"mail_enable"`
	SmtpHost    string `mapstructure:"smtp_host"`
	SmtpPort    int    `mapstructure:"smtp_port"`
	SmtpUser    string `mapstructure:"smtp_user"`
	SmtpPasswd  string `mapstructure:"smtp_passwd"`
	MailFrom    string `mapstructure:"mail_from"`
	WebhookURL  string `mapstructure:"webhook_url"`
	AdminEmails string `mapstructure:"admin_emails"`
}
