package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type productPayload struct {
	Slug            string  `json:"slug" validate:"omitempty,max=200"`
	NameEn          string  `json:"name_en" validate:"required,min=1,max=200"`
	NameFr          string  `json:"name_fr" validate:"omitempty,max=200"`
	NameEs          string  `json:"name_es" validate:"omitempty,max=200"`
	DescriptionEn   string  `json:"description_en" validate:"omitempty,max=10000"`
	DescriptionFr   string  `json:"description_fr" validate:"omitempty,max=10000"`
	DescriptionEs   string  `json:"description_es" validate:"omitempty,max=10000"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	OriginalPrice   float64 `json:"original_price" validate:"omitempty,gte=0"`
	DiscountPercent int     `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	Stock           int     `json:"stock" validate:"gte=0"`
	Image           string  `json:"image" validate:"omitempty,max=500"`
	Featured        bool    `json:"featured"`
	HotDeal         bool    `json:"hot_deal"`
	BestSeller      bool    `json:"best_seller"`
	NewArrival      bool    `json:"new_arrival"`
	FreeShipping    bool    `json:"free_shipping"`
	Active          *bool   `json:"active"`
	CategoryId      *int64  `json:"category_id,string"`
	BrandId         *int64  `json:"brand_id,string"`
}

// registerProductRoutes registers product management routes
func registerProductRoutes() {
	webserver.AdminGET("/products", ListProducts)
	webserver.AdminGET("/products/:id", GetProduct)
	webserver.AdminPOST("/products", CreateProduct)
	webserver.AdminPUT("/products/:id", UpdateProduct)
	webserver.AdminDELETE("/products/:id", DeleteProduct)
	webserver.AdminPOST("/products/:id/stock", AdjustProductStock)
}

// productFilterFromQuery builds the list filter from query params
func productFilterFromQuery(c echo.Context) store.ProductFilter {
	filter := store.ProductFilter{
		Keyword:    strings.TrimSpace(c.QueryParam("q")),
		Sort:       c.QueryParam("sort"),
		Order:      c.QueryParam("order"),
		Pagination: parsePagination(c),
	}
	if v := c.QueryParam("category_id"); v != "" {
		id := cast.ToInt64(v)
		filter.CategoryId = &id
	}
	if v := c.QueryParam("brand_id"); v != "" {
		id := cast.ToInt64(v)
		filter.BrandId = &id
	}
	for name, target := range map[string]**bool{
		"featured":    &filter.Featured,
		"hot_deal":    &filter.HotDeal,
		"best_seller": &filter.BestSeller,
		"new_arrival": &filter.NewArrival,
		"active":      &filter.Active,
	} {
		if v := c.QueryParam(name); v != "" {
			b := cast.ToBool(v)
			*target = &b
		}
	}
	if v := c.QueryParam("price_min"); v != "" {
		f := cast.ToFloat64(v)
		filter.PriceMin = &f
	}
	if v := c.QueryParam("price_max"); v != "" {
		f := cast.ToFloat64(v)
		filter.PriceMax = &f
	}
	return filter
}

// ListProducts retrieves the product list with filters and sorting
func ListProducts(c echo.Context) error {
	filter := productFilterFromQuery(c)
	rows, total, err := GetAppContext(c).Products().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// GetProduct fetches a single product
func GetProduct(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetAppContext(c).Products().GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Product not found")
	}
	return ok(c, p)
}

// CreateProduct creates a product. A missing slug is derived from the
// English name; slugs must be unique.
func CreateProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	repo := GetAppContext(c).Products()
	ctx := c.Request().Context()

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.NameEn)
	}
	if slug == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Slug could not be derived from name", nil)
	}
	count, err := repo.CountBySlug(ctx, slug, 0)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check slug", err.Error())
	}
	if count > 0 {
		return fail(c, http.StatusConflict, "SLUG_EXISTS", "Product slug already exists", nil)
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	now := time.Now()
	p := domain.Product{
		ID:              common.UUIDint64(),
		Slug:            slug,
		NameEn:          payload.NameEn,
		NameFr:          payload.NameFr,
		NameEs:          payload.NameEs,
		DescriptionEn:   payload.DescriptionEn,
		DescriptionFr:   payload.DescriptionFr,
		DescriptionEs:   payload.DescriptionEs,
		Price:           payload.Price,
		OriginalPrice:   payload.OriginalPrice,
		DiscountPercent: payload.DiscountPercent,
		Stock:           payload.Stock,
		Image:           payload.Image,
		Featured:        payload.Featured,
		HotDeal:         payload.HotDeal,
		BestSeller:      payload.BestSeller,
		NewArrival:      payload.NewArrival,
		FreeShipping:    payload.FreeShipping,
		Active:          active,
		CategoryId:      payload.CategoryId,
		BrandId:         payload.BrandId,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(ctx, &p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	webserver.OprLog(c, "create_product", "Created product "+p.Slug)
	return ok(c, p)
}

// UpdateProduct replaces the editable fields of a product
func UpdateProduct(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	repo := GetAppContext(c).Products()
	ctx := c.Request().Context()

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Product not found")
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = p.Slug
	}
	if slug != p.Slug {
		count, err := repo.CountBySlug(ctx, slug, id)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check slug", err.Error())
		}
		if count > 0 {
			return fail(c, http.StatusConflict, "SLUG_EXISTS", "Product slug already exists", nil)
		}
	}

	p.Slug = slug
	p.NameEn = payload.NameEn
	p.NameFr = payload.NameFr
	p.NameEs = payload.NameEs
	p.DescriptionEn = payload.DescriptionEn
	p.DescriptionFr = payload.DescriptionFr
	p.DescriptionEs = payload.DescriptionEs
	p.Price = payload.Price
	p.OriginalPrice = payload.OriginalPrice
	p.DiscountPercent = payload.DiscountPercent
	p.Stock = payload.Stock
	p.Image = payload.Image
	p.Featured = payload.Featured
	p.HotDeal = payload.HotDeal
	p.BestSeller = payload.BestSeller
	p.NewArrival = payload.NewArrival
	p.FreeShipping = payload.FreeShipping
	if payload.Active != nil {
		p.Active = *payload.Active
	}
	p.CategoryId = payload.CategoryId
	p.BrandId = payload.BrandId
	p.UpdatedAt = time.Now()

	if err := repo.Update(ctx, p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}

	webserver.OprLog(c, "update_product", "Updated product "+p.Slug)
	return ok(c, p)
}

// DeleteProduct removes a product
func DeleteProduct(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetAppContext(c).Products().Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	webserver.OprLog(c, "delete_product", "Deleted product "+cast.ToString(id))
	return c.NoContent(http.StatusNoContent)
}

type stockPayload struct {
	Delta int `json:"delta" validate:"required"`
}

// AdjustProductStock applies a manual stock adjustment
func AdjustProductStock(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	repo := GetAppContext(c).Products()
	if err := repo.AdjustStock(c.Request().Context(), id, payload.Delta); err != nil {
		return fail(c, http.StatusConflict, "STOCK_CONFLICT", "Stock adjustment rejected", err.Error())
	}
	p, err := repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Product not found")
	}
	webserver.OprLog(c, "adjust_stock", "Adjusted stock of product "+p.Slug)
	return ok(c, p)
}
