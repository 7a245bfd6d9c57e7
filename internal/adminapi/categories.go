package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type categoryPayload struct {
	Slug     string `json:"slug" validate:"omitempty,max=200"`
	NameEn   string `json:"name_en" validate:"required,min=1,max=200"`
	NameFr   string `json:"name_fr" validate:"omitempty,max=200"`
	NameEs   string `json:"name_es" validate:"omitempty,max=200"`
	Image    string `json:"image" validate:"omitempty,max=500"`
	ParentId *int64 `json:"parent_id,string"`
	Sort     int    `json:"sort"`
}

// registerCategoryRoutes registers category management routes
func registerCategoryRoutes() {
	webserver.AdminGET("/categories", ListCategories)
	webserver.AdminGET("/categories/:id", GetCategory)
	webserver.AdminPOST("/categories", CreateCategory)
	webserver.AdminPUT("/categories/:id", UpdateCategory)
	webserver.AdminDELETE("/categories/:id", DeleteCategory)
}

// ListCategories returns all categories ordered by sort then id
func ListCategories(c echo.Context) error {
	rows, err := GetAppContext(c).Categories().ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

// GetCategory fetches a single category
func GetCategory(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	cat, err := GetAppContext(c).Categories().GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Category not found")
	}
	return ok(c, cat)
}

// CreateCategory creates a category
func CreateCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	repo := GetAppContext(c).Categories()
	ctx := c.Request().Context()

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.NameEn)
	}
	if _, err := repo.GetBySlug(ctx, slug); err == nil {
		return fail(c, http.StatusConflict, "SLUG_EXISTS", "Category slug already exists", nil)
	}

	if payload.ParentId != nil {
		if _, err := repo.GetByID(ctx, *payload.ParentId); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_PARENT", "Parent category does not exist", nil)
		}
	}

	now := time.Now()
	cat := domain.Category{
		ID:        common.UUIDint64(),
		Slug:      slug,
		NameEn:    payload.NameEn,
		NameFr:    payload.NameFr,
		NameEs:    payload.NameEs,
		Image:     payload.Image,
		ParentId:  payload.ParentId,
		Sort:      payload.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, &cat); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}

	webserver.OprLog(c, "create_category", "Created category "+cat.Slug)
	return ok(c, cat)
}

// UpdateCategory updates a category. A category cannot become its own
// parent.
func UpdateCategory(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	repo := GetAppContext(c).Categories()
	ctx := c.Request().Context()

	cat, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Category not found")
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	if payload.ParentId != nil {
		if *payload.ParentId == id {
			return fail(c, http.StatusBadRequest, "INVALID_PARENT", "Category cannot be its own parent", nil)
		}
		if _, err := repo.GetByID(ctx, *payload.ParentId); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_PARENT", "Parent category does not exist", nil)
		}
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug != "" && slug != cat.Slug {
		if _, err := repo.GetBySlug(ctx, slug); err == nil {
			return fail(c, http.StatusConflict, "SLUG_EXISTS", "Category slug already exists", nil)
		}
		cat.Slug = slug
	}

	cat.NameEn = payload.NameEn
	cat.NameFr = payload.NameFr
	cat.NameEs = payload.NameEs
	cat.Image = payload.Image
	cat.ParentId = payload.ParentId
	cat.Sort = payload.Sort
	cat.UpdatedAt = time.Now()

	if err := repo.Update(ctx, cat); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}

	webserver.OprLog(c, "update_category", "Updated category "+cat.Slug)
	return ok(c, cat)
}

// DeleteCategory removes a category unless children or products still
// reference it
func DeleteCategory(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	repo := GetAppContext(c).Categories()
	ctx := c.Request().Context()

	if _, err := repo.GetByID(ctx, id); err != nil {
		return notFound(c, "Category not found")
	}
	if n, _ := repo.CountChildren(ctx, id); n > 0 {
		return fail(c, http.StatusConflict, "HAS_CHILDREN", "Category still has child categories", nil)
	}
	if n, _ := repo.CountProducts(ctx, id); n > 0 {
		return fail(c, http.StatusConflict, "HAS_PRODUCTS", "Category still has products", nil)
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}

	webserver.OprLog(c, "delete_category", "Deleted category")
	return c.NoContent(http.StatusNoContent)
}
