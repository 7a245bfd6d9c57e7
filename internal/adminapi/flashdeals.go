package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type flashDealPayload struct {
	ProductId  int64     `json:"product_id,string" validate:"required"`
	DealPrice  float64   `json:"deal_price" validate:"required,gt=0"`
	TotalStock int       `json:"total_stock" validate:"required,gt=0"`
	StartAt    time.Time `json:"start_at" validate:"required"`
	EndAt      time.Time `json:"end_at" validate:"required"`
	Active     *bool     `json:"active"`
}

// registerFlashDealRoutes registers flash deal management routes
func registerFlashDealRoutes() {
	webserver.AdminGET("/flashdeals", ListFlashDeals)
	webserver.AdminGET("/flashdeals/:id", GetFlashDeal)
	webserver.AdminPOST("/flashdeals", CreateFlashDeal)
	webserver.AdminPUT("/flashdeals/:id", UpdateFlashDeal)
	webserver.AdminDELETE("/flashdeals/:id", DeleteFlashDeal)
}

// ListFlashDeals retrieves the flash deal list
func ListFlashDeals(c echo.Context) error {
	filter := store.FlashDealFilter{Pagination: parsePagination(c)}
	if v := c.QueryParam("product_id"); v != "" {
		id := cast.ToInt64(v)
		filter.ProductId = &id
	}
	if v := c.QueryParam("active"); v != "" {
		b := cast.ToBool(v)
		filter.Active = &b
	}
	if cast.ToBool(c.QueryParam("running")) {
		now := time.Now()
		filter.RunningAt = &now
	}
	rows, total, err := GetAppContext(c).FlashDeals().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query flash deals", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// GetFlashDeal fetches a single flash deal
func GetFlashDeal(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid flash deal ID", nil)
	}
	d, err := GetAppContext(c).FlashDeals().GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Flash deal not found")
	}
	return ok(c, d)
}

// CreateFlashDeal creates a flash deal for an existing product. The deal
// price must undercut the product price.
func CreateFlashDeal(c echo.Context) error {
	var payload flashDealPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !payload.EndAt.After(payload.StartAt) {
		return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "End time must be after start time", nil)
	}

	ctx := c.Request().Context()
	product, err := GetAppContext(c).Products().GetByID(ctx, payload.ProductId)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_PRODUCT", "Product does not exist", nil)
	}
	if payload.DealPrice >= product.Price {
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Deal price must be below the product price", nil)
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	now := time.Now()
	d := domain.FlashDeal{
		ID:         common.UUIDint64(),
		ProductId:  payload.ProductId,
		DealPrice:  payload.DealPrice,
		TotalStock: payload.TotalStock,
		StartAt:    payload.StartAt,
		EndAt:      payload.EndAt,
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := GetAppContext(c).FlashDeals().Create(ctx, &d); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create flash deal", err.Error())
	}

	webserver.OprLog(c, "create_flashdeal", "Created flash deal for product "+product.Slug)
	return ok(c, d)
}

// UpdateFlashDeal updates a flash deal. The sold counter is never reset
// from here.
func UpdateFlashDeal(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid flash deal ID", nil)
	}

	repo := GetAppContext(c).FlashDeals()
	ctx := c.Request().Context()

	d, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Flash deal not found")
	}

	var payload flashDealPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !payload.EndAt.After(payload.StartAt) {
		return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "End time must be after start time", nil)
	}

	d.ProductId = payload.ProductId
	d.DealPrice = payload.DealPrice
	d.TotalStock = payload.TotalStock
	d.StartAt = payload.StartAt
	d.EndAt = payload.EndAt
	if payload.Active != nil {
		d.Active = *payload.Active
	}
	d.UpdatedAt = time.Now()

	if err := repo.Update(ctx, d); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update flash deal", err.Error())
	}

	webserver.OprLog(c, "update_flashdeal", "Updated flash deal")
	return ok(c, d)
}

// DeleteFlashDeal removes a flash deal
func DeleteFlashDeal(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid flash deal ID", nil)
	}
	if err := GetAppContext(c).FlashDeals().Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete flash deal", err.Error())
	}
	webserver.OprLog(c, "delete_flashdeal", "Deleted flash deal")
	return c.NoContent(http.StatusNoContent)
}
