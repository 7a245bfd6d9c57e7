package storeapi

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// InitRouter registers all storefront API routes. Call after
// webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCatalogRoutes()
	registerPromoRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerMyOrderRoutes()
	registerReviewRoutes()
}

// supported storefront locales; the first is the fallback
var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
	language.Spanish,
})

// locale resolves the storefront locale: explicit ?locale= wins, then
// Accept-Language, then the store default
func locale(c echo.Context) string {
	if v := c.QueryParam("locale"); v == "en" || v == "fr" || v == "es" {
		return v
	}
	if accept := c.Request().Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			tag, _, _ := localeMatcher.Match(tags...)
			base, _ := tag.Base()
			switch base.String() {
			case "fr":
				return "fr"
			case "es":
				return "es"
			default:
				return "en"
			}
		}
	}
	if v := GetAppContext(c).GetSettingsStringValue(app.SettingsGeneral, "store_locale"); v != "" {
		return v
	}
	return "en"
}

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

// currentUserID returns the authenticated customer's id, zero for guests.
// Works on public routes too, where the bearer token is optional.
func currentUserID(c echo.Context) int64 {
	claims := webserver.GetClaims(c)
	if claims == nil {
		claims = webserver.ParseBearer(c)
	}
	if claims == nil {
		return 0
	}
	return claims.OprId
}
