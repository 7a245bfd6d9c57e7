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

type campaignPayload struct {
	Name    string    `json:"name" validate:"required,min=1,max=200"`
	Type    string    `json:"type" validate:"required,oneof=discount coupon free_shipping"`
	Content string    `json:"content" validate:"omitempty,max=4000"`
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
	Active  *bool     `json:"active"`
}

// registerCampaignRoutes registers campaign management routes
func registerCampaignRoutes() {
	webserver.AdminGET("/campaigns", ListCampaigns)
	webserver.AdminGET("/campaigns/:id", GetCampaign)
	webserver.AdminPOST("/campaigns", CreateCampaign)
	webserver.AdminPUT("/campaigns/:id", UpdateCampaign)
	webserver.AdminDELETE("/campaigns/:id", DeleteCampaign)
}

// ListCampaigns retrieves the campaign list
func ListCampaigns(c echo.Context) error {
	filter := store.CampaignFilter{
		Type:       strings.TrimSpace(c.QueryParam("type")),
		Keyword:    strings.TrimSpace(c.QueryParam("q")),
		Pagination: parsePagination(c),
	}
	if v := c.QueryParam("active"); v != "" {
		b := cast.ToBool(v)
		filter.Active = &b
	}
	rows, total, err := GetAppContext(c).Campaigns().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query campaigns", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// GetCampaign fetches a single campaign
func GetCampaign(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID", nil)
	}
	camp, err := GetAppContext(c).Campaigns().GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(c, "Campaign not found")
	}
	return ok(c, camp)
}

// CreateCampaign creates a campaign
func CreateCampaign(c echo.Context) error {
	var payload campaignPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !payload.EndAt.After(payload.StartAt) {
		return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "End time must be after start time", nil)
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	now := time.Now()
	camp := domain.Campaign{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Type:      payload.Type,
		Content:   payload.Content,
		StartAt:   payload.StartAt,
		EndAt:     payload.EndAt,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetAppContext(c).Campaigns().Create(c.Request().Context(), &camp); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create campaign", err.Error())
	}

	webserver.OprLog(c, "create_campaign", "Created campaign "+camp.Name)
	return ok(c, camp)
}

// UpdateCampaign updates a campaign
func UpdateCampaign(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID", nil)
	}

	repo := GetAppContext(c).Campaigns()
	ctx := c.Request().Context()

	camp, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Campaign not found")
	}

	var payload campaignPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !payload.EndAt.After(payload.StartAt) {
		return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "End time must be after start time", nil)
	}

	camp.Name = payload.Name
	camp.Type = payload.Type
	camp.Content = payload.Content
	camp.StartAt = payload.StartAt
	camp.EndAt = payload.EndAt
	if payload.Active != nil {
		camp.Active = *payload.Active
	}
	camp.UpdatedAt = time.Now()

	if err := repo.Update(ctx, camp); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update campaign", err.Error())
	}

	webserver.OprLog(c, "update_campaign", "Updated campaign "+camp.Name)
	return ok(c, camp)
}

// DeleteCampaign removes a campaign
func DeleteCampaign(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID", nil)
	}
	if err := GetAppContext(c).Campaigns().Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete campaign", err.Error())
	}
	webserver.OprLog(c, "delete_campaign", "Deleted campaign")
	return c.NoContent(http.StatusNoContent)
}
