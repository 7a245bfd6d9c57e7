package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type settingsPayload struct {
	Values map[string]string `json:"values" validate:"required"`
}

// registerSettingsRoutes registers settings routes, keyed by category
func registerSettingsRoutes() {
	webserver.AdminGET("/settings", ListSettingCategories)
	webserver.AdminGET("/settings/:category", GetSettings)
	webserver.AdminPUT("/settings/:category", SaveSettings)
}

// ListSettingCategories returns the known settings categories
func ListSettingCategories(c echo.Context) error {
	return ok(c, app.SettingsCategories)
}

// GetSettings returns the stored rows of one category, sorted for display
func GetSettings(c echo.Context) error {
	category := c.Param("category")
	if !common.InSlice(category, app.SettingsCategories) {
		return notFound(c, "Unknown settings category")
	}

	var rows []domain.SysConfig
	if err := GetDB(c).Where("type = ?", category).Order("sort ASC, name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

// SaveSettings upserts a batch of key/value pairs in one category and
// refreshes the in-memory cache
func SaveSettings(c echo.Context) error {
	category := c.Param("category")
	if !common.InSlice(category, app.SettingsCategories) {
		return notFound(c, "Unknown settings category")
	}

	var payload settingsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if len(payload.Values) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No values provided", nil)
	}

	if err := GetAppContext(c).SaveSettings(category, payload.Values); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}

	webserver.OprLog(c, "save_settings", "Saved settings category "+category)
	return okMsgSettings(c, category)
}

func okMsgSettings(c echo.Context, category string) error {
	var rows []domain.SysConfig
	GetDB(c).Where("type = ?", category).Order("sort ASC, name ASC").Find(&rows)
	return ok(c, rows)
}
