package domain

import "time"

// Catalog module related models

// Product catalog item. Localized name/description columns exist per
// supported locale (en/fr/es); the storefront picks one, the admin API
// returns all of them.
type Product struct {
	ID              int64     `json:"id,string" form:"id"`
	Slug            string    `gorm:"uniqueIndex;size:200" json:"slug" form:"slug"` // URL-safe unique key
	NameEn          string    `gorm:"index" json:"name_en" form:"name_en"`
	NameFr          string    `json:"name_fr" form:"name_fr"`
	NameEs          string    `json:"name_es" form:"name_es"`
	DescriptionEn   string    `gorm:"size:4000" json:"description_en" form:"description_en"`
	DescriptionFr   string    `gorm:"size:4000" json:"description_fr" form:"description_fr"`
	DescriptionEs   string    `gorm:"size:4000" json:"description_es" form:"description_es"`
	Price           float64   `json:"price" form:"price"`
	OriginalPrice   float64   `json:"original_price" form:"original_price"`     // 0 when never discounted
	DiscountPercent int       `json:"discount_percent" form:"discount_percent"` // stored redundantly, not reconciled with prices
	Stock           int       `json:"stock" form:"stock"`
	Rating          float64   `json:"rating"`       // denormalized from reviews
	ReviewCount     int       `json:"review_count"` // denormalized from reviews
	Image           string    `gorm:"size:1024" json:"image" form:"image"`
	Featured        bool      `json:"featured" form:"featured"`
	HotDeal         bool      `json:"hot_deal" form:"hot_deal"`
	BestSeller      bool      `json:"best_seller" form:"best_seller"`
	NewArrival      bool      `json:"new_arrival" form:"new_arrival"`
	FreeShipping    bool      `json:"free_shipping" form:"free_shipping"`
	Active          bool      `json:"active" form:"active"`
	CategoryId      *int64    `gorm:"index" json:"category_id,string" form:"category_id"` // nullable, product may be uncategorized
	BrandId         *int64    `gorm:"index" json:"brand_id,string" form:"brand_id"`       // nullable, product may be unbranded
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "mall_product"
}

// Name returns the product name for a locale, falling back to English
func (p Product) Name(locale string) string {
	switch locale {
	case "fr":
		if p.NameFr != "" {
			return p.NameFr
		}
	case "es":
		if p.NameEs != "" {
			return p.NameEs
		}
	}
	return p.NameEn
}

// Description returns the product description for a locale, falling back to English
func (p Product) Description(locale string) string {
	switch locale {
	case "fr":
		if p.DescriptionFr != "" {
			return p.DescriptionFr
		}
	case "es":
		if p.DescriptionEs != "" {
			return p.DescriptionEs
		}
	}
	return p.DescriptionEn
}

// Category product category, optionally nested under a parent to form a
// shallow tree. No depth limit is enforced.
type Category struct {
	ID        int64     `json:"id,string" form:"id"`
	Slug      string    `gorm:"uniqueIndex;size:200" json:"slug" form:"slug"`
	NameEn    string    `gorm:"index" json:"name_en" form:"name_en"`
	NameFr    string    `json:"name_fr" form:"name_fr"`
	NameEs    string    `json:"name_es" form:"name_es"`
	Image     string    `gorm:"size:1024" json:"image" form:"image"`
	ParentId  *int64    `gorm:"index" json:"parent_id,string" form:"parent_id"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "mall_category"
}

// Name returns the category name for a locale, falling back to English
func (c Category) Name(locale string) string {
	switch locale {
	case "fr":
		if c.NameFr != "" {
			return c.NameFr
		}
	case "es":
		if c.NameEs != "" {
			return c.NameEs
		}
	}
	return c.NameEn
}

// Brand product brand
type Brand struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Logo      string    `gorm:"size:1024" json:"logo" form:"logo"`
	Featured  bool      `json:"featured" form:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Brand) TableName() string {
	return "mall_brand"
}
