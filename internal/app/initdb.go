package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "openmall"

	hashedPassword, err := common.HashPassword(defaultPassword)
	if err != nil {
		zap.L().Error("failed to hash default password", zap.Error(err))
		return
	}

	var operator domain.SysOpr
	err = a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     domain.OprLevelSuper,
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, domain.OprLevelSuper)
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = domain.OprLevelSuper
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

// defaultSettings seed values per category; missing rows are created, user
// edits are never overwritten
var defaultSettings = []domain.SysConfig{
	{Type: SettingsGeneral, Name: "store_name", Value: "OpenMall", Remark: "Store display name"},
	{Type: SettingsGeneral, Name: "store_locale", Value: "en", Remark: "Default storefront locale"},
	{Type: SettingsGeneral, Name: "currency", Value: "USD", Remark: "Display currency code"},
	{Type: SettingsPayment, Name: "cod_enable", Value: "true", Remark: "Enable cash on delivery"},
	{Type: SettingsPayment, Name: "card_enable", Value: "false", Remark: "Enable card payments"},
	{Type: SettingsNotification, Name: "mail_enable", Value: "false", Remark: "Send order emails"},
	{Type: SettingsNotification, Name: "smtp_host", Value: "", Remark: "SMTP server host"},
	{Type: SettingsNotification, Name: "smtp_port", Value: "587", Remark: "SMTP server port"},
	{Type: SettingsNotification, Name: "smtp_user", Value: "", Remark: "SMTP username"},
	{Type: SettingsNotification, Name: "smtp_passwd", Value: "", Remark: "SMTP password"},
	{Type: SettingsNotification, Name: "mail_from", Value: "noreply@openmall.local", Remark: "From address"},
	{Type: SettingsNotification, Name: "admin_emails", Value: "", Remark: "Comma separated order alert recipients"},
	{Type: SettingsNotification, Name: "webhook_url", Value: "", Remark: "Order event webhook endpoint"},
	{Type: SettingsShipping, Name: "free_shipping_min", Value: "99", Remark: "Order total for free shipping"},
	{Type: SettingsShipping, Name: "flat_rate", Value: "10", Remark: "Flat shipping rate"},
	{Type: SettingsShipping, Name: "cart_ttl_days", Value: "30", Remark: "Guest cart retention days"},
}

func (a *Application) checkSettings() {
	for sortid, item := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", item.Type, item.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   item.Type,
				Name:   item.Name,
				Value:  item.Value,
				Remark: item.Remark,
			})
			zap.L().Info("initialized config",
				zap.String("key", item.Type+"."+item.Name),
				zap.String("default", item.Value))
		}
	}
}

// checkSchedulers initializes default maintenance tasks
func (a *Application) checkSchedulers() {
	defaultSchedulers := []domain.SysScheduler{
		{
			Name:     "Flash Deal Expiry",
			TaskType: TaskDealExpiry,
			Interval: 300,
			Status:   common.ENABLED,
			Remark:   "Deactivates flash deals past their end time",
		},
		{
			Name:     "Banner Window",
			TaskType: TaskBannerWindow,
			Interval: 600,
			Status:   common.ENABLED,
			Remark:   "Deactivates banners past their display window",
		},
		{
			Name:     "Campaign Window",
			TaskType: TaskCampaignWindow,
			Interval: 600,
			Status:   common.ENABLED,
			Remark:   "Deactivates campaigns past their validity window",
		},
		{
			Name:     "Guest Cart Cleanup",
			TaskType: TaskCartCleanup,
			Interval: 3600,
			Status:   common.ENABLED,
			Remark:   "Purges guest carts untouched beyond the retention window",
		},
	}

	for _, sched := range defaultSchedulers {
		var count int64
		a.gormDB.Model(&domain.SysScheduler{}).
			Where("task_type = ?", sched.TaskType).
			Count(&count)

		if count == 0 {
			sched.ID = common.UUIDint64()
			sched.NextRunAt = time.Now().Add(time.Duration(sched.Interval) * time.Second)
			if err := a.gormDB.Create(&sched).Error; err != nil {
				zap.L().Error("failed to create default scheduler",
					zap.String("name", sched.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized default scheduler",
					zap.String("name", sched.Name),
					zap.String("task_type", sched.TaskType))
			}
		}
	}
}

// checkCatalog seeds a demo catalog on an empty database
func (a *Application) checkCatalog() {
	var count int64
	a.gormDB.Model(&domain.Category{}).Count(&count)
	if count > 0 {
		return
	}

	now := time.Now()
	electronics := domain.Category{
		ID: common.UUIDint64(), Slug: "electronics",
		NameEn: "Electronics", NameFr: "Électronique", NameEs: "Electrónica",
		Sort: 1, CreatedAt: now, UpdatedAt: now,
	}
	apparel := domain.Category{
		ID: common.UUIDint64(), Slug: "apparel",
		NameEn: "Apparel", NameFr: "Vêtements", NameEs: "Ropa",
		Sort: 2, CreatedAt: now, UpdatedAt: now,
	}
	for _, c := range []domain.Category{electronics, apparel} {
		if err := a.gormDB.Create(&c).Error; err != nil {
			zap.L().Error("failed to seed category", zap.String("slug", c.Slug), zap.Error(err))
			return
		}
	}

	brand := domain.Brand{
		ID: common.UUIDint64(), Name: "Acme", Featured: true,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := a.gormDB.Create(&brand).Error; err != nil {
		zap.L().Error("failed to seed brand", zap.Error(err))
		return
	}

	demoProducts := []domain.Product{
		{
			Slug: "acme-wireless-earbuds", NameEn: "Acme Wireless Earbuds",
			NameFr: "Écouteurs sans fil Acme", NameEs: "Auriculares inalámbricos Acme",
			Price: 49.99, OriginalPrice: 79.99, DiscountPercent: 37,
			Stock: 120, Active: true, Featured: true, FreeShipping: true,
			CategoryId: &electronics.ID, BrandId: &brand.ID,
		},
		{
			Slug: "acme-cotton-tee", NameEn: "Acme Cotton Tee",
			NameFr: "T-shirt coton Acme", NameEs: "Camiseta de algodón Acme",
			Price: 14.5, Stock: 300, Active: true, NewArrival: true,
			CategoryId: &apparel.ID, BrandId: &brand.ID,
		},
	}
	for _, p := range demoProducts {
		p.ID = common.UUIDint64()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to seed product", zap.String("slug", p.Slug), zap.Error(err))
		} else {
			zap.L().Info("initialized demo product", zap.String("slug", p.Slug))
		}
	}
}
