package domain

import "time"

// Order status values. The data layer constrains no transition except the
// restock side effect on entering cancelled; the admin endpoint may set any
// valid status.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists all valid order status values
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Payment status values
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Order customer order with denormalized total and shipping snapshot
type Order struct {
	ID            int64     `json:"id,string" form:"id"`
	OrderNo       string    `gorm:"uniqueIndex;size:64" json:"order_no" form:"order_no"`
	UserId        int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	Status        string    `gorm:"index;size:32" json:"status" form:"status"`
	PaymentStatus string    `gorm:"size:32" json:"payment_status" form:"payment_status"`
	PaymentMethod string    `gorm:"size:32" json:"payment_method" form:"payment_method"`
	ShipName      string    `json:"ship_name" form:"ship_name"`
	ShipPhone     string    `json:"ship_phone" form:"ship_phone"`
	ShipAddress   string    `gorm:"size:1024" json:"ship_address" form:"ship_address"`
	ShipCity      string    `json:"ship_city" form:"ship_city"`
	ShipCountry   string    `json:"ship_country" form:"ship_country"`
	Total         float64   `json:"total" form:"total"` // denormalized sum of item price*qty
	Remark        string    `json:"remark" form:"remark"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "mall_order"
}

// OrderItem order line. Price is the unit price at purchase time and is
// intentionally decoupled from the current Product price.
type OrderItem struct {
	ID        int64     `json:"id,string" form:"id"`
	OrderId   int64     `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductId int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Name      string    `json:"name" form:"name"` // product name snapshot
	Quantity  int       `json:"quantity" form:"quantity"`
	Price     float64   `json:"price" form:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "mall_order_item"
}

// Subtotal returns quantity * unit price
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}
