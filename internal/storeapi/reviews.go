package storeapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/notify"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type reviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"omitempty,max=4000"`
}

// registerReviewRoutes registers review browsing and submission routes
func registerReviewRoutes() {
	webserver.ApiGET("/products/:id/reviews", ProductReviews)
	webserver.ApiGET("/products/:id/reviews/stats", ProductReviewStats)
	webserver.MyPOST("/products/:id/reviews", CreateReview)
}

// ProductReviews lists reviews for a product, newest first
func ProductReviews(c echo.Context) error {
	productID := parseIDParam(c)
	if productID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	filter := store.ReviewFilter{
		ProductId:  &productID,
		Pagination: parsePagination(c),
	}
	rows, total, err := GetAppContext(c).Reviews().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// ProductReviewStats returns the aggregate rating computed from review
// rows. Every star bucket 1..5 is present even when empty.
func ProductReviewStats(c echo.Context) error {
	productID := parseIDParam(c)
	if productID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	stats, err := GetAppContext(c).Reviews().Stats(c.Request().Context(), productID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute review stats", err.Error())
	}
	return ok(c, stats)
}

// CreateReview submits a review for a product. The denormalized rating on
// the product is refreshed asynchronously.
func CreateReview(c echo.Context) error {
	productID := parseIDParam(c)
	if productID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var payload reviewPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	appCtx := GetAppContext(c)
	ctx := c.Request().Context()

	p, err := appCtx.Products().GetByID(ctx, productID)
	if err != nil || !p.Active {
		return notFound(c, "Product not found")
	}

	now := time.Now()
	review := domain.Review{
		ID:        common.UUIDint64(),
		ProductId: productID,
		UserId:    currentUserID(c),
		Rating:    payload.Rating,
		Content:   payload.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := appCtx.Reviews().Create(ctx, &review); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create review", err.Error())
	}

	notify.PublishReviewCreated(&review)
	return ok(c, review)
}
