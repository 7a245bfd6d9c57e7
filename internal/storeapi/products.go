package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// ProductView locale-projected product for the storefront
type ProductView struct {
	ID              int64   `json:"id,string"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	OriginalPrice   float64 `json:"original_price,omitempty"`
	DiscountPercent int     `json:"discount_percent,omitempty"`
	Stock           int     `json:"stock"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
	Image           string  `json:"image"`
	Featured        bool    `json:"featured"`
	HotDeal         bool    `json:"hot_deal"`
	BestSeller      bool    `json:"best_seller"`
	NewArrival      bool    `json:"new_arrival"`
	FreeShipping    bool    `json:"free_shipping"`
	CategoryId      *int64  `json:"category_id,string,omitempty"`
	BrandId         *int64  `json:"brand_id,string,omitempty"`
}

func productView(p domain.Product, loc string) ProductView {
	return ProductView{
		ID:              p.ID,
		Slug:            p.Slug,
		Name:            p.Name(loc),
		Description:     p.Description(loc),
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent,
		Stock:           p.Stock,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		Image:           p.Image,
		Featured:        p.Featured,
		HotDeal:         p.HotDeal,
		BestSeller:      p.BestSeller,
		NewArrival:      p.NewArrival,
		FreeShipping:    p.FreeShipping,
		CategoryId:      p.CategoryId,
		BrandId:         p.BrandId,
	}
}

// registerProductRoutes registers public product browsing routes
func registerProductRoutes() {
	webserver.ApiGET("/products", BrowseProducts)
	webserver.ApiGET("/products/:id", ShowProduct)
	webserver.ApiGET("/products/slug/:slug", ShowProductBySlug)
}

// BrowseProducts lists active products with filtering, sorting and
// pagination, names projected into the request locale
func BrowseProducts(c echo.Context) error {
	active := true
	filter := store.ProductFilter{
		Keyword:    strings.TrimSpace(c.QueryParam("q")),
		Active:     &active,
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

	rows, total, err := GetAppContext(c).Products().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	loc := locale(c)
	views := make([]ProductView, 0, len(rows))
	for _, p := range rows {
		views = append(views, productView(p, loc))
	}
	return paged(c, views, total, filter.Pagination)
}

// ShowProduct fetches one active product by id
func ShowProduct(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetAppContext(c).Products().GetByID(c.Request().Context(), id)
	if err != nil || !p.Active {
		return notFound(c, "Product not found")
	}
	return ok(c, productDetail(c, *p))
}

// ShowProductBySlug fetches one active product by slug. Unknown slugs are
// a plain 404.
func ShowProductBySlug(c echo.Context) error {
	slug := c.Param("slug")
	p, err := GetAppContext(c).Products().GetBySlug(c.Request().Context(), slug)
	if err != nil || !p.Active {
		return notFound(c, "Product not found")
	}
	return ok(c, productDetail(c, *p))
}

// productDetail augments the view with a running flash deal, when one
// covers the product right now
func productDetail(c echo.Context, p domain.Product) map[string]interface{} {
	view := productView(p, locale(c))
	detail := map[string]interface{}{"product": view}

	now := time.Now()
	filter := store.FlashDealFilter{
		ProductId: &p.ID,
		RunningAt: &now,
		Pagination: store.Pagination{
			Page:     1,
			PageSize: 1,
		},
	}
	deals, _, err := GetAppContext(c).FlashDeals().List(c.Request().Context(), filter)
	if err == nil && len(deals) > 0 && deals[0].Running(now) {
		detail["flash_deal"] = deals[0]
	}
	return detail
}
