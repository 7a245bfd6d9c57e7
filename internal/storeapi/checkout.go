package storeapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/notify"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

type checkoutPayload struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod card"`
	ShipName      string `json:"ship_name" validate:"required,min=1,max=200"`
	ShipPhone     string `json:"ship_phone" validate:"required,min=3,max=30"`
	ShipAddress   string `json:"ship_address" validate:"required,min=1,max=500"`
	ShipCity      string `json:"ship_city" validate:"required,min=1,max=100"`
	ShipCountry   string `json:"ship_country" validate:"required,min=1,max=100"`
	Remark        string `json:"remark" validate:"omitempty,max=1000"`
}

// registerCheckoutRoutes registers the checkout route
func registerCheckoutRoutes() {
	webserver.ApiPOST("/checkout", Checkout)
}

// Checkout turns the current cart into an order. Running flash deals
// price their product at the deal price and bump the sold counter. Stock
// is decremented per item; an oversold item fails the whole checkout.
func Checkout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	appCtx := GetAppContext(c)
	ctx := c.Request().Context()

	if payload.PaymentMethod == "cod" && !appCtx.GetSettingsBoolValue(app.SettingsPayment, "cod_enable") {
		return fail(c, http.StatusBadRequest, "PAYMENT_DISABLED", "Cash on delivery is disabled", nil)
	}
	if payload.PaymentMethod == "card" && !appCtx.GetSettingsBoolValue(app.SettingsPayment, "card_enable") {
		return fail(c, http.StatusBadRequest, "PAYMENT_DISABLED", "Card payments are disabled", nil)
	}

	cart, err := currentCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}
	items, err := appCtx.Carts().Items(ctx, cart.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart items", err.Error())
	}
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	}

	loc := locale(c)
	now := time.Now()

	// build order lines with the effective unit price per item
	type dealHit struct {
		dealID int64
		qty    int
	}
	var dealHits []dealHit
	orderItems := make([]store.NewOrderItem, 0, len(items))
	allFreeShipping := true
	for _, item := range items {
		p, err := appCtx.Products().GetByID(ctx, item.ProductId)
		if err != nil || !p.Active {
			return fail(c, http.StatusConflict, "PRODUCT_GONE", "A cart product is no longer available", nil)
		}
		if !p.FreeShipping {
			allFreeShipping = false
		}

		price := p.Price
		dealFilter := store.FlashDealFilter{
			ProductId:  &p.ID,
			RunningAt:  &now,
			Pagination: store.Pagination{Page: 1, PageSize: 1},
		}
		if deals, _, err := appCtx.FlashDeals().List(ctx, dealFilter); err == nil && len(deals) > 0 && deals[0].Running(now) {
			price = deals[0].DealPrice
			dealHits = append(dealHits, dealHit{dealID: deals[0].ID, qty: item.Quantity})
		}

		orderItems = append(orderItems, store.NewOrderItem{
			ProductId: p.ID,
			Name:      p.Name(loc),
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	order, err := appCtx.Orders().Create(ctx, store.NewOrder{
		UserId:        currentUserID(c),
		PaymentMethod: payload.PaymentMethod,
		ShipName:      payload.ShipName,
		ShipPhone:     payload.ShipPhone,
		ShipAddress:   payload.ShipAddress,
		ShipCity:      payload.ShipCity,
		ShipCountry:   payload.ShipCountry,
		Remark:        payload.Remark,
		Items:         orderItems,
	})
	if err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			return fail(c, http.StatusConflict, "OUT_OF_STOCK", "Not enough stock for a cart item", nil)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusConflict, "PRODUCT_GONE", "A cart product is no longer available", nil)
		}
		if errors.Is(err, store.ErrEmptyOrder) {
			return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
		}
		return fail(c, http.StatusInternalServerError, "CHECKOUT_FAILED", "Failed to create order", err.Error())
	}

	// shipping fee from settings, waived over the free shipping minimum or
	// when every item ships free
	shippingFee := 0.0
	freeMin := float64(appCtx.GetSettingsInt64Value(app.SettingsShipping, "free_shipping_min"))
	flatRate := float64(appCtx.GetSettingsInt64Value(app.SettingsShipping, "flat_rate"))
	if !allFreeShipping && (freeMin <= 0 || order.Total < freeMin) {
		shippingFee = flatRate
	}
	if shippingFee > 0 {
		order.Total += shippingFee
		order.UpdatedAt = time.Now()
		if err := GetDB(c).Model(&domain.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{"total": order.Total, "updated_at": order.UpdatedAt}).Error; err != nil {
			zap.L().Error("shipping fee update failed", zap.String("order_no", order.OrderNo), zap.Error(err))
		}
	}

	// bump deal counters; the cap is deliberately not enforced here
	for _, hit := range dealHits {
		if err := appCtx.FlashDeals().IncrementSold(ctx, hit.dealID, hit.qty); err != nil {
			zap.L().Error("deal counter bump failed", zap.Int64("deal_id", hit.dealID), zap.Error(err))
		}
	}

	if err := appCtx.Carts().Clear(ctx, cart.ID); err != nil {
		zap.L().Error("cart clear after checkout failed", zap.Int64("cart_id", cart.ID), zap.Error(err))
	}

	notify.PublishOrderCreated(order)

	return ok(c, map[string]interface{}{
		"order":        order,
		"shipping_fee": shippingFee,
	})
}
