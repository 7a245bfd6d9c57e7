package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openmallhq/openmall/internal/domain"
)

// Maintenance task types driven by the sys_scheduler table
const (
	TaskDealExpiry     = "deal_expiry"
	TaskBannerWindow   = "banner_window"
	TaskCampaignWindow = "campaign_window"
	TaskCartCleanup    = "cart_cleanup"
)

// StartSchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers(ctx)
			}
		}
	}()
}

// runSchedulers executes enabled schedulers whose next run time has passed
func (a *Application) runSchedulers(ctx context.Context) {
	var schedulers []domain.SysScheduler
	a.gormDB.Where("status = ?", "enabled").Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		if sched.NextRunAt.IsZero() || now.After(sched.NextRunAt) || now.Equal(sched.NextRunAt) {
			a.runTask(ctx, &sched)
			a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).
				Update("next_run_at", now.Add(time.Duration(sched.Interval)*time.Second))
		}
	}
}

// RunSchedulerNow triggers a scheduler execution immediately by ID
func (a *Application) RunSchedulerNow(id int64) error {
	var sched domain.SysScheduler
	if err := a.gormDB.First(&sched, id).Error; err != nil {
		return err
	}

	a.runTask(context.Background(), &sched)

	now := time.Now()
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at": now,
		"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
	})
	return nil
}

func (a *Application) runTask(ctx context.Context, sched *domain.SysScheduler) {
	var result, message string
	switch sched.TaskType {
	case TaskDealExpiry:
		result, message = a.runDealExpiry(ctx)
	case TaskBannerWindow:
		result, message = a.runBannerWindow(ctx)
	case TaskCampaignWindow:
		result, message = a.runCampaignWindow(ctx)
	case TaskCartCleanup:
		result, message = a.runCartCleanup(ctx)
	default:
		result, message = "failed", "unsupported task type "+sched.TaskType
	}

	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})
}

// runDealExpiry deactivates flash deals past their end time
func (a *Application) runDealExpiry(ctx context.Context) (string, string) {
	n, err := a.flashDealRepo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		zap.L().Error("deal expiry task failed", zap.Error(err))
		return "failed", err.Error()
	}
	return "success", fmt.Sprintf("%d deals deactivated", n)
}

// runBannerWindow deactivates banners past their display window
func (a *Application) runBannerWindow(ctx context.Context) (string, string) {
	res := a.gormDB.WithContext(ctx).
		Model(&domain.Banner{}).
		Where("active = ? AND end_at != ? AND end_at <= ?", true, time.Time{}, time.Now()).
		Update("active", false)
	if res.Error != nil {
		zap.L().Error("banner window task failed", zap.Error(res.Error))
		return "failed", res.Error.Error()
	}
	return "success", fmt.Sprintf("%d banners deactivated", res.RowsAffected)
}

// runCampaignWindow deactivates campaigns past their validity window
func (a *Application) runCampaignWindow(ctx context.Context) (string, string) {
	res := a.gormDB.WithContext(ctx).
		Model(&domain.Campaign{}).
		Where("active = ? AND end_at != ? AND end_at <= ?", true, time.Time{}, time.Now()).
		Update("active", false)
	if res.Error != nil {
		zap.L().Error("campaign window task failed", zap.Error(res.Error))
		return "failed", res.Error.Error()
	}
	return "success", fmt.Sprintf("%d campaigns deactivated", res.RowsAffected)
}

// runCartCleanup purges guest carts beyond the retention window
func (a *Application) runCartCleanup(ctx context.Context) (string, string) {
	days := a.GetSettingsInt64Value(SettingsShipping, "cart_ttl_days")
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().Add(-time.Hour * 24 * time.Duration(days))
	n, err := a.cartRepo.DeleteStale(ctx, cutoff)
	if err != nil {
		zap.L().Error("cart cleanup task failed", zap.Error(err))
		return "failed", err.Error()
	}
	return "success", fmt.Sprintf("%d stale carts removed", n)
}
