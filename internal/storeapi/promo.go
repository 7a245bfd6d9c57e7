package storeapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// registerPromoRoutes registers public promotion routes
func registerPromoRoutes() {
	webserver.ApiGET("/banners", VisibleBanners)
	webserver.ApiGET("/flashdeals", RunningFlashDeals)
	webserver.ApiGET("/campaigns", LiveCampaigns)
}

// VisibleBanners returns active banners inside their display window,
// position order
func VisibleBanners(c echo.Context) error {
	rows, err := GetAppContext(c).Banners().ListVisible(c.Request().Context(), time.Now())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query banners", err.Error())
	}
	return ok(c, rows)
}

// RunningFlashDeals returns active deals whose window covers now, joined
// with their localized product view
func RunningFlashDeals(c echo.Context) error {
	now := time.Now()
	active := true
	filter := store.FlashDealFilter{
		Active:     &active,
		RunningAt:  &now,
		Pagination: parsePagination(c),
	}
	deals, total, err := GetAppContext(c).FlashDeals().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query flash deals", err.Error())
	}

	loc := locale(c)
	out := make([]map[string]interface{}, 0, len(deals))
	for _, deal := range deals {
		entry := map[string]interface{}{"deal": deal}
		if p, err := GetAppContext(c).Products().GetByID(c.Request().Context(), deal.ProductId); err == nil && p.Active {
			entry["product"] = productView(*p, loc)
		}
		out = append(out, entry)
	}
	return paged(c, out, total, filter.Pagination)
}

// LiveCampaigns returns active campaigns inside their validity window
func LiveCampaigns(c echo.Context) error {
	now := time.Now()
	active := true
	filter := store.CampaignFilter{
		Type:       c.QueryParam("type"),
		Active:     &active,
		LiveAt:     &now,
		Pagination: parsePagination(c),
	}
	rows, total, err := GetAppContext(c).Campaigns().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query campaigns", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}
