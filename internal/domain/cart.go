package domain

import "time"

// Cart shopping cart, keyed by either a guest session id or a customer id.
// Exactly one of SessionId/UserId is expected to be set for guest/customer
// carts respectively.
type Cart struct {
	ID        int64     `json:"id,string" form:"id"`
	SessionId string    `gorm:"index;size:64" json:"session_id" form:"session_id"`
	UserId    *int64    `gorm:"index" json:"user_id,string" form:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Cart) TableName() string {
	return "mall_cart"
}

// CartItem one product row in a cart. A product appears at most once per
// cart; adding it again increments Quantity instead of inserting a row.
type CartItem struct {
	ID        int64     `json:"id,string" form:"id"`
	CartId    int64     `gorm:"index" json:"cart_id,string" form:"cart_id"`
	ProductId int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Quantity  int       `json:"quantity" form:"quantity"` // always >= 1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CartItem) TableName() string {
	return "mall_cart_item"
}
