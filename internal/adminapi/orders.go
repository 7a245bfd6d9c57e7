package adminapi

import (
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/notify"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

type orderStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipping delivered cancelled"`
}

type orderPaymentPayload struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=unpaid paid refunded"`
}

// registerOrderRoutes registers order management routes
func registerOrderRoutes() {
	webserver.AdminGET("/orders", ListOrders)
	webserver.AdminGET("/orders/:id", GetOrder)
	webserver.AdminPUT("/orders/:id/status", UpdateOrderStatus)
	webserver.AdminPUT("/orders/:id/payment", UpdateOrderPayment)
	webserver.AdminDELETE("/orders/:id", DeleteOrder)
}

// orderFilterFromQuery builds the order list filter from query params.
// from/to accept any format dateparse understands.
func orderFilterFromQuery(c echo.Context) store.OrderFilter {
	filter := store.OrderFilter{
		Status:        strings.TrimSpace(c.QueryParam("status")),
		PaymentStatus: strings.TrimSpace(c.QueryParam("payment_status")),
		Keyword:       strings.TrimSpace(c.QueryParam("q")),
		Sort:          c.QueryParam("sort"),
		Order:         c.QueryParam("order"),
		Pagination:    parsePagination(c),
	}
	if v := c.QueryParam("user_id"); v != "" {
		id := cast.ToInt64(v)
		filter.UserId = &id
	}
	if v := c.QueryParam("from"); v != "" {
		if t, err := dateparse.ParseAny(v); err == nil {
			filter.From = &t
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if t, err := dateparse.ParseAny(v); err == nil {
			filter.To = &t
		}
	}
	return filter
}

// ListOrders retrieves the order list with filters
func ListOrders(c echo.Context) error {
	filter := orderFilterFromQuery(c)
	rows, total, err := GetAppContext(c).Orders().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// GetOrder fetches one order with its item snapshots
func GetOrder(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	repo := GetAppContext(c).Orders()
	ctx := c.Request().Context()

	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Order not found")
	}
	items, err := repo.Items(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", err.Error())
	}

	return ok(c, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

// UpdateOrderStatus transitions an order. Cancelling restores item
// quantities onto product stock inside the repository.
func UpdateOrderStatus(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	repo := GetAppContext(c).Orders()
	ctx := c.Request().Context()

	before, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Order not found")
	}
	wasCancelled := before.Status == domain.OrderStatusCancelled

	order, err := repo.UpdateStatus(ctx, id, payload.Status)
	if err != nil {
		if err == store.ErrInvalidStatus {
			return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order status", err.Error())
	}

	if order.Status == domain.OrderStatusCancelled && !wasCancelled {
		notify.PublishOrderCancelled(order)
	}

	webserver.OprLog(c, "update_order_status", "Order "+order.OrderNo+" set to "+order.Status)
	return ok(c, order)
}

// UpdateOrderPayment sets the payment status of an order
func UpdateOrderPayment(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload orderPaymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	repo := GetAppContext(c).Orders()
	ctx := c.Request().Context()

	if err := repo.UpdatePayment(ctx, id, payload.PaymentStatus); err != nil {
		return notFound(c, "Order not found")
	}
	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Order not found")
	}

	webserver.OprLog(c, "update_order_payment", "Order "+order.OrderNo+" payment set to "+order.PaymentStatus)
	return ok(c, order)
}

// DeleteOrder removes an order and its item snapshots. Deleting does not
// restock; cancel first if stock should return.
func DeleteOrder(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	repo := GetAppContext(c).Orders()
	ctx := c.Request().Context()

	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return notFound(c, "Order not found")
	}
	if err := repo.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", err.Error())
	}

	webserver.OprLog(c, "delete_order", "Deleted order "+order.OrderNo)
	return c.NoContent(http.StatusNoContent)
}
