package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// registerReviewRoutes registers review moderation routes
func registerReviewRoutes() {
	webserver.AdminGET("/reviews", ListReviews)
	webserver.AdminDELETE("/reviews/:id", DeleteReview)
}

// ListReviews retrieves reviews filtered by product, user and rating
func ListReviews(c echo.Context) error {
	filter := store.ReviewFilter{Pagination: parsePagination(c)}
	if v := c.QueryParam("product_id"); v != "" {
		id := cast.ToInt64(v)
		filter.ProductId = &id
	}
	if v := c.QueryParam("user_id"); v != "" {
		id := cast.ToInt64(v)
		filter.UserId = &id
	}
	if v := c.QueryParam("rating"); v != "" {
		r := cast.ToInt(v)
		filter.Rating = &r
	}
	rows, total, err := GetAppContext(c).Reviews().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// DeleteReview removes a review and refreshes the denormalized rating on
// its product
func DeleteReview(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}

	appCtx := GetAppContext(c)
	ctx := c.Request().Context()

	rv, err := appCtx.Reviews().GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Review not found")
	}
	if err := appCtx.Reviews().Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete review", err.Error())
	}

	// refresh the product copy; a failure here leaves it stale until the
	// next review event
	stats, err := appCtx.Reviews().Stats(ctx, rv.ProductId)
	if err == nil {
		if err := appCtx.Products().UpdateRating(ctx, rv.ProductId, stats.Average, int(stats.Total)); err != nil {
			zap.L().Error("rating refresh failed", zap.Int64("product_id", rv.ProductId), zap.Error(err))
		}
	}

	webserver.OprLog(c, "delete_review", "Deleted review")
	return c.NoContent(http.StatusNoContent)
}
