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

type brandPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Logo     string `json:"logo" validate:"omitempty,max=500"`
	Featured bool   `json:"featured"`
}

// registerBrandRoutes registers brand management routes
func registerBrandRoutes() {
	webserver.AdminGET("/brands", ListBrands)
	webserver.AdminGET("/brands/:id", GetBrand)
	webserver.AdminPOST("/brands", CreateBrand)
	webserver.AdminPUT("/brands/:id", UpdateBrand)
	webserver.AdminDELETE("/brands/:id", DeleteBrand)
}

// ListBrands retrieves the brand list
func ListBrands(c echo.Context) error {
	filter := store.BrandFilter{
		Keyword:    strings.TrimSpace(c.QueryParam("q")),
		Pagination: parsePagination(c),
	}
	if v := c.QueryParam("featured"); v != "" {
		b := cast.ToBool(v)
		filter.Featured = &b
	}
	rows, total, err := GetAppContext(c).Brands().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// GetBrand fetches a single brand
func GetBrand(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}
	b, err := GetAppContext(c).Brands().GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Brand not found")
	}
	return ok(c, b)
}

// CreateBrand creates a brand
func CreateBrand(c echo.Context) error {
	var payload brandPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	now := time.Now()
	b := domain.Brand{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Logo:      payload.Logo,
		Featured:  payload.Featured,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetAppContext(c).Brands().Create(c.Request().Context(), &b); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create brand", err.Error())
	}

	webserver.OprLog(c, "create_brand", "Created brand "+b.Name)
	return ok(c, b)
}

// UpdateBrand updates a brand
func UpdateBrand(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	repo := GetAppContext(c).Brands()
	ctx := c.Request().Context()

	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Brand not found")
	}

	var payload brandPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	b.Name = strings.TrimSpace(payload.Name)
	b.Logo = payload.Logo
	b.Featured = payload.Featured
	b.UpdatedAt = time.Now()

	if err := repo.Update(ctx, b); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update brand", err.Error())
	}

	webserver.OprLog(c, "update_brand", "Updated brand "+b.Name)
	return ok(c, b)
}

// DeleteBrand removes a brand unless products still reference it
func DeleteBrand(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	repo := GetAppContext(c).Brands()
	ctx := c.Request().Context()

	if _, err := repo.GetByID(ctx, id); err != nil {
		return notFound(c, "Brand not found")
	}
	if n, _ := repo.CountProducts(ctx, id); n > 0 {
		return fail(c, http.StatusConflict, "HAS_PRODUCTS", "Brand still has products", nil)
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete brand", err.Error())
	}

	webserver.OprLog(c, "delete_brand", "Deleted brand")
	return c.NoContent(http.StatusNoContent)
}
