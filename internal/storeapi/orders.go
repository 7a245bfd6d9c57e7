package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/notify"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// registerMyOrderRoutes registers the authenticated customer order routes
func registerMyOrderRoutes() {
	webserver.MyGET("/orders", MyOrders)
	webserver.MyGET("/orders/:id", MyOrderDetail)
	webserver.MyPOST("/orders/:id/cancel", CancelMyOrder)
}

// MyOrders lists the customer's own orders, newest first
func MyOrders(c echo.Context) error {
	uid := currentUserID(c)
	filter := store.OrderFilter{
		UserId:     &uid,
		Status:     c.QueryParam("status"),
		Sort:       "created_at",
		Order:      "DESC",
		Pagination: parsePagination(c),
	}
	rows, total, err := GetAppContext(c).Orders().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}

// myOrder loads an order and verifies ownership
func myOrder(c echo.Context) (*domain.Order, error) {
	id := parseIDParam(c)
	if id == 0 {
		return nil, fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetAppContext(c).Orders().GetByID(c.Request().Context(), id)
	if err != nil || order.UserId != currentUserID(c) {
		return nil, notFound(c, "Order not found")
	}
	return order, nil
}

// MyOrderDetail returns one of the customer's orders with its items
func MyOrderDetail(c echo.Context) error {
	order, errResp := myOrder(c)
	if order == nil {
		return errResp
	}
	items, err := GetAppContext(c).Orders().Items(c.Request().Context(), order.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", err.Error())
	}
	return ok(c, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

// CancelMyOrder cancels a pending order and restores its stock
func CancelMyOrder(c echo.Context) error {
	order, errResp := myOrder(c)
	if order == nil {
		return errResp
	}
	if order.Status != domain.OrderStatusPending {
		return fail(c, http.StatusConflict, "NOT_CANCELLABLE", "Only pending orders can be cancelled", nil)
	}

	cancelled, err := GetAppContext(c).Orders().UpdateStatus(c.Request().Context(), order.ID, domain.OrderStatusCancelled)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to cancel order", err.Error())
	}

	notify.PublishOrderCancelled(cancelled)
	return ok(c, cancelled)
}
