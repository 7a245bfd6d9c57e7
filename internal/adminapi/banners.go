package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type bannerPayload struct {
	Title    string    `json:"title" validate:"required,min=1,max=200"`
	Image    string    `json:"image" validate:"required,max=500"`
	Link     string    `json:"link" validate:"omitempty,max=500"`
	Position int       `json:"position"`
	StartAt  time.Time `json:"start_at"` // zero means no lower bound
	EndAt    time.Time `json:"end_at"`   // zero means no upper bound
	Active   *bool     `json:"active"`
}

// registerBannerRoutes registers banner management routes
func registerBannerRoutes() {
	webserver.AdminGET("/banners", ListBanners)
	webserver.AdminGET("/banners/:id", GetBanner)
	webserver.AdminPOST("/banners", CreateBanner)
	webserver.AdminPUT("/banners/:id", UpdateBanner)
	webserver.AdminDELETE("/banners/:id", DeleteBanner)
}

// ListBanners returns all banners ordered by position
func ListBanners(c echo.Context) error {
	rows, err := GetAppContext(c).Banners().ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query banners", err.Error())
	}
	return ok(c, rows)
}

// GetBanner fetches a single banner
func GetBanner(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	b, err := GetAppContext(c).Banners().GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Banner not found")
	}
	return ok(c, b)
}

// CreateBanner creates a banner. A window where the end precedes the
// start is rejected; either bound may be zero.
func CreateBanner(c echo.Context) error {
	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !payload.StartAt.IsZero() && !payload.EndAt.IsZero() && !payload.EndAt.After(payload.StartAt) {
		return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "End time must be after start time", nil)
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	now := time.Now()
	b := domain.Banner{
		ID:        common.UUIDint64(),
		Title:     payload.Title,
		Image:     payload.Image,
		Link:      payload.Link,
		Position:  payload.Position,
		StartAt:   payload.StartAt,
		EndAt:     payload.EndAt,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetAppContext(c).Banners().Create(c.Request().Context(), &b); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create banner", err.Error())
	}

	webserver.OprLog(c, "create_banner", "Created banner "+b.Title)
	return ok(c, b)
}

// UpdateBanner updates a banner
func UpdateBanner(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}

	repo := GetAppContext(c).Banners()
	ctx := c.Request().Context()

	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Banner not found")
	}

	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !payload.StartAt.IsZero() && !payload.EndAt.IsZero() && !payload.EndAt.After(payload.StartAt) {
		return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "End time must be after start time", nil)
	}

	b.Title = payload.Title
	b.Image = payload.Image
	b.Link = payload.Link
	b.Position = payload.Position
	b.StartAt = payload.StartAt
	b.EndAt = payload.EndAt
	if payload.Active != nil {
		b.Active = *payload.Active
	}
	b.UpdatedAt = time.Now()

	if err := repo.Update(ctx, b); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update banner", err.Error())
	}

	webserver.OprLog(c, "update_banner", "Updated banner "+b.Title)
	return ok(c, b)
}

// DeleteBanner removes a banner
func DeleteBanner(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	if err := GetAppContext(c).Banners().Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete banner", err.Error())
	}
	webserver.OprLog(c, "delete_banner", "Deleted banner")
	return c.NoContent(http.StatusNoContent)
}
