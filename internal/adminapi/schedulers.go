package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
)

// schedulerUpdatePayload partial update of a maintenance task
type schedulerUpdatePayload struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=100"`
	Interval int    `json:"interval" validate:"omitempty,min=10"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=500"`
}

// registerSchedulerRoutes registers maintenance task routes. Tasks are
// seeded at startup; the API tunes and triggers them but never creates
// new task types.
func registerSchedulerRoutes() {
	webserver.AdminGET("/schedulers", ListSchedulers)
	webserver.AdminGET("/schedulers/:id", GetScheduler)
	webserver.AdminPUT("/schedulers/:id", UpdateScheduler)
	webserver.AdminPOST("/schedulers/:id/run", TriggerScheduler)
}

// ListSchedulers retrieves all maintenance tasks
func ListSchedulers(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysScheduler{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var rows []domain.SysScheduler
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query schedulers", err.Error())
	}
	return ok(c, rows)
}

// GetScheduler fetches a single maintenance task
func GetScheduler(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	var sched domain.SysScheduler
	if err := GetDB(c).First(&sched, id).Error; err != nil {
		return notFound(c, "Scheduler not found")
	}
	return ok(c, sched)
}

// UpdateScheduler tunes name, interval and status of a maintenance task
func UpdateScheduler(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	var sched domain.SysScheduler
	if err := GetDB(c).First(&sched, id).Error; err != nil {
		return notFound(c, "Scheduler not found")
	}

	var payload schedulerUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	updates := make(map[string]interface{})
	if payload.Name != "" {
		updates["name"] = payload.Name
	}
	if payload.Interval > 0 {
		updates["interval"] = payload.Interval
		updates["next_run_at"] = time.Now().Add(time.Duration(payload.Interval) * time.Second)
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := GetDB(c).Model(&sched).Updates(updates).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update scheduler", err.Error())
		}
	}

	GetDB(c).First(&sched, id)
	webserver.OprLog(c, "update_scheduler", "Updated scheduler "+sched.Name)
	return ok(c, sched)
}

// TriggerScheduler runs a maintenance task immediately
func TriggerScheduler(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	if err := GetAppContext(c).RunSchedulerNow(id); err != nil {
		return fail(c, http.StatusInternalServerError, "RUN_FAILED", "Failed to run scheduler", err.Error())
	}

	webserver.OprLog(c, "run_scheduler", "Triggered scheduler")
	return c.NoContent(http.StatusNoContent)
}
