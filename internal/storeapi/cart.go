package storeapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

type addItemPayload struct {
	ProductId int64 `json:"product_id,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"omitempty,min=1"`
}

type updateItemPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartLine one cart row joined with its product
type CartLine struct {
	ItemId    int64        `json:"item_id,string"`
	Quantity  int          `json:"quantity"`
	UnitPrice float64      `json:"unit_price"`
	LineTotal float64      `json:"line_total"`
	Product   *ProductView `json:"product,omitempty"`
}

// registerCartRoutes registers cart routes. Guests get a cookie-session
// cart; authenticated customers get a user-bound cart.
func registerCartRoutes() {
	webserver.ApiGET("/cart", ShowCart)
	webserver.ApiPOST("/cart/items", AddCartItem)
	webserver.ApiPUT("/cart/items/:id", UpdateCartItem)
	webserver.ApiDELETE("/cart/items/:id", RemoveCartItem)
	webserver.ApiDELETE("/cart", ClearCart)
}

// currentCart resolves the cart for this request
func currentCart(c echo.Context) (*domain.Cart, error) {
	ctx := c.Request().Context()
	repo := GetAppContext(c).Carts()
	if uid := currentUserID(c); uid != 0 {
		return repo.GetOrCreateByUser(ctx, uid)
	}
	return repo.GetOrCreateBySession(ctx, webserver.SessionID(c))
}

// cartLines loads items and joins product data. Deal pricing applies at
// checkout, not here; the cart shows the list price.
func cartLines(c echo.Context, cartID int64) ([]CartLine, float64, error) {
	ctx := c.Request().Context()
	appCtx := GetAppContext(c)

	items, err := appCtx.Carts().Items(ctx, cartID)
	if err != nil {
		return nil, 0, err
	}

	loc := locale(c)
	lines := make([]CartLine, 0, len(items))
	var subtotal float64
	for _, item := range items {
		line := CartLine{ItemId: item.ID, Quantity: item.Quantity}
		if p, err := appCtx.Products().GetByID(ctx, item.ProductId); err == nil {
			view := productView(*p, loc)
			line.Product = &view
			line.UnitPrice = p.Price
			line.LineTotal = float64(item.Quantity) * p.Price
		}
		subtotal += line.LineTotal
		lines = append(lines, line)
	}
	return lines, subtotal, nil
}

// ShowCart returns the cart content with product data and totals
func ShowCart(c echo.Context) error {
	cart, err := currentCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}
	lines, subtotal, err := cartLines(c, cart.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart items", err.Error())
	}
	return ok(c, map[string]interface{}{
		"cart_id":  cart.ID,
		"items":    lines,
		"subtotal": subtotal,
	})
}

// AddCartItem merges a product into the cart. Adding the same product
// twice grows the existing row instead of creating another.
func AddCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Quantity < 1 {
		payload.Quantity = 1
	}

	ctx := c.Request().Context()
	appCtx := GetAppContext(c)

	p, err := appCtx.Products().GetByID(ctx, payload.ProductId)
	if err != nil || !p.Active {
		return notFound(c, "Product not found")
	}

	cart, err := currentCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}

	item, err := appCtx.Carts().AddItem(ctx, cart.ID, payload.ProductId, payload.Quantity)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add item", err.Error())
	}
	touchCart(c, cart.ID)
	return ok(c, item)
}

// UpdateCartItem sets the quantity of one cart row
func UpdateCartItem(c echo.Context) error {
	itemID := parseIDParam(c)
	if itemID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}

	var payload updateItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	cart, err := currentCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}

	err = GetAppContext(c).Carts().UpdateItemQuantity(c.Request().Context(), cart.ID, itemID, payload.Quantity)
	switch err {
	case nil:
	case store.ErrQuantityTooLow:
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be at least 1", nil)
	default:
		return notFound(c, "Cart item not found")
	}
	touchCart(c, cart.ID)
	return webserver.OKMsg(c, "Cart updated")
}

// RemoveCartItem deletes one cart row
func RemoveCartItem(c echo.Context) error {
	itemID := parseIDParam(c)
	if itemID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}
	cart, err := currentCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}
	if err := GetAppContext(c).Carts().RemoveItem(c.Request().Context(), cart.ID, itemID); err != nil {
		return notFound(c, "Cart item not found")
	}
	return webserver.OKMsg(c, "Item removed")
}

// ClearCart removes every item from the cart
func ClearCart(c echo.Context) error {
	cart, err := currentCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}
	if err := GetAppContext(c).Carts().Clear(c.Request().Context(), cart.ID); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to clear cart", err.Error())
	}
	return webserver.OKMsg(c, "Cart cleared")
}

// touch timestamps the cart so stale-cart cleanup spares it
func touchCart(c echo.Context, cartID int64) {
	GetDB(c).Model(&domain.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now())
}
