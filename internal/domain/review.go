package domain

import "time"

// Review product review. Aggregate stats (average, per-star distribution)
// are computed from review rows; the copies on Product are denormalized and
// refreshed out-of-band.
type Review struct {
	ID        int64     `json:"id,string" form:"id"`
	ProductId int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	UserId    int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	Rating    int       `json:"rating" form:"rating"` // 1..5
	Content   string    `gorm:"size:4000" json:"content" form:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Review) TableName() string {
	return "mall_review"
}

// ReviewStats aggregate review statistics for one product
type ReviewStats struct {
	Average      float64       `json:"average"`
	Total        int64         `json:"total"`
	Distribution map[int]int64 `json:"distribution"` // star -> count, keys 1..5 always present
}
