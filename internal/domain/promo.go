package domain

import "time"

// Promotion module related models

// FlashDeal time-boxed promotion tying a stock cap and sold counter to one
// product. SoldCount exceeding TotalStock is not enforced at this layer.
type FlashDeal struct {
	ID         int64     `json:"id,string" form:"id"`
	ProductId  int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	DealPrice  float64   `json:"deal_price" form:"deal_price"`
	TotalStock int       `json:"total_stock" form:"total_stock"`
	SoldCount  int       `json:"sold_count" form:"sold_count"`
	StartAt    time.Time `gorm:"index" json:"start_at" form:"start_at"`
	EndAt      time.Time `gorm:"index" json:"end_at" form:"end_at"`
	Active     bool      `json:"active" form:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (FlashDeal) TableName() string {
	return "mall_flash_deal"
}

// Running reports whether the deal window covers now and the deal is active
func (d FlashDeal) Running(now time.Time) bool {
	return d.Active && !now.Before(d.StartAt) && now.Before(d.EndAt)
}

// Banner position-ordered promotional entry with an optional display window.
// Zero StartAt/EndAt means no bound on that side.
type Banner struct {
	ID        int64     `json:"id,string" form:"id"`
	Title     string    `json:"title" form:"title"`
	Image     string    `gorm:"size:1024" json:"image" form:"image"`
	Link      string    `gorm:"size:1024" json:"link" form:"link"`
	Position  int       `gorm:"index" json:"position" form:"position"`
	StartAt   time.Time `json:"start_at" form:"start_at"`
	EndAt     time.Time `json:"end_at" form:"end_at"`
	Active    bool      `json:"active" form:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Banner) TableName() string {
	return "mall_banner"
}

// Visible reports whether the banner should display at now
func (b Banner) Visible(now time.Time) bool {
	if !b.Active {
		return false
	}
	if !b.StartAt.IsZero() && now.Before(b.StartAt) {
		return false
	}
	if !b.EndAt.IsZero() && !now.Before(b.EndAt) {
		return false
	}
	return true
}

// Campaign marketing promotion with a validity window
type Campaign struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Type      string    `gorm:"size:32" json:"type" form:"type"` // discount / coupon / free_shipping
	Content   string    `gorm:"size:4000" json:"content" form:"content"`
	StartAt   time.Time `json:"start_at" form:"start_at"`
	EndAt     time.Time `json:"end_at" form:"end_at"`
	Active    bool      `json:"active" form:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Campaign) TableName() string {
	return "mall_campaign"
}
