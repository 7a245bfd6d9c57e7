package adminapi

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// InitRouter registers all back-office API routes. Call after
// webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerBrandRoutes()
	registerOrderRoutes()
	registerCustomerRoutes()
	registerBannerRoutes()
	registerCampaignRoutes()
	registerFlashDealRoutes()
	registerReviewRoutes()
	registerSchedulerRoutes()
	registerSettingsRoutes()
	registerDashboardRoutes()
	registerExportRoutes()
}

// thin aliases so handler bodies read the same across files

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetApp(c)
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, code, msg string, data interface{}) error {
	return webserver.Fail(c, status, code, msg, data)
}

func notFound(c echo.Context, msg string) error {
	return webserver.NotFound(c, msg)
}

func paged(c echo.Context, data interface{}, total int64, pager store.Pagination) error {
	return webserver.Paged(c, data, total, pager)
}

func parsePagination(c echo.Context) store.Pagination {
	return webserver.ParsePagination(c)
}

func parseIDParam(c echo.Context) int64 {
	return webserver.ParseIDParam(c, "id")
}

func handleValidationError(c echo.Context, err error) error {
	return webserver.HandleValidationError(c, err)
}
