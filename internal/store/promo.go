package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
)

// FlashDealFilter flash deal list predicates
type FlashDealFilter struct {
	ProductId *int64
	Active    *bool
	// RunningAt keeps only deals whose window covers the given instant
	RunningAt *time.Time
	Pagination
}

// FlashDealRepository handles database operations for flash deals
type FlashDealRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FlashDeal, error)
	List(ctx context.Context, filter FlashDealFilter) ([]domain.FlashDeal, int64, error)
	Create(ctx context.Context, d *domain.FlashDeal) error
	Update(ctx context.Context, d *domain.FlashDeal) error
	Delete(ctx context.Context, id int64) error
	// IncrementSold adds qty to sold_count. The total_stock cap is NOT
	// enforced here; sold_count may exceed it.
	IncrementSold(ctx context.Context, id int64, qty int) error
	// DeactivateExpired flips active off for deals past their end time
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// GormFlashDealRepository is the GORM implementation of FlashDealRepository
type GormFlashDealRepository struct {
	db *gorm.DB
}

// NewGormFlashDealRepository creates a new GORM-based flash deal repository
func NewGormFlashDealRepository(db *gorm.DB) *GormFlashDealRepository {
	return &GormFlashDealRepository{db: db}
}

func (r *GormFlashDealRepository) GetByID(ctx context.Context, id int64) (*domain.FlashDeal, error) {
	var d domain.FlashDeal
	err := r.db.WithContext(ctx).First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormFlashDealRepository) List(ctx context.Context, filter FlashDealFilter) ([]domain.FlashDeal, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&domain.FlashDeal{})
	if filter.ProductId != nil {
		query = query.Where("product_id = ?", *filter.ProductId)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.RunningAt != nil {
		query = query.Where("start_at <= ? AND end_at > ?", *filter.RunningAt, *filter.RunningAt)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.FlashDeal
	err := query.Order("end_at ASC").Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error
	return rows, total, err
}

func (r *GormFlashDealRepository) Create(ctx context.Context, d *domain.FlashDeal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *GormFlashDealRepository) Update(ctx context.Context, d *domain.FlashDeal) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *GormFlashDealRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.FlashDeal{}, id).Error
}

func (r *GormFlashDealRepository) IncrementSold(ctx context.Context, id int64, qty int) error {
	return r.db.WithContext(ctx).
		Model(&domain.FlashDeal{}).
		Where("id = ?", id).
		Update("sold_count", gorm.Expr("sold_count + ?", qty)).Error
}

func (r *GormFlashDealRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.FlashDeal{}).
		Where("active = ? AND end_at <= ?", true, now).
		Update("active", false)
	return res.RowsAffected, res.Error
}

// BannerRepository handles database operations for banners
type BannerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Banner, error)
	ListAll(ctx context.Context) ([]domain.Banner, error)
	// ListVisible returns active banners whose display window covers now,
	// ordered by position
	ListVisible(ctx context.Context, now time.Time) ([]domain.Banner, error)
	Create(ctx context.Context, b *domain.Banner) error
	Update(ctx context.Context, b *domain.Banner) error
	Delete(ctx context.Context, id int64) error
}

// GormBannerRepository is the GORM implementation of BannerRepository
type GormBannerRepository struct {
	db *gorm.DB
}

// NewGormBannerRepository creates a new GORM-based banner repository
func NewGormBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

func (r *GormBannerRepository) GetByID(ctx context.Context, id int64) (*domain.Banner, error) {
	var b domain.Banner
	err := r.db.WithContext(ctx).First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBannerRepository) ListAll(ctx context.Context) ([]domain.Banner, error) {
	var rows []domain.Banner
	err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormBannerRepository) ListVisible(ctx context.Context, now time.Time) ([]domain.Banner, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	// window filtering in code: zero start/end means unbounded, which is
	// awkward to express portably in SQL against a NOT NULL column
	visible := make([]domain.Banner, 0, len(all))
	for _, b := range all {
		if b.Visible(now) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

func (r *GormBannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *GormBannerRepository) Update(ctx context.Context, b *domain.Banner) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *GormBannerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Banner{}, id).Error
}

// CampaignFilter campaign list predicates
type CampaignFilter struct {
	Type     string
	Active   *bool
	LiveAt   *time.Time
	Keyword  string
	Pagination
}

// CampaignRepository handles database operations for marketing campaigns
type CampaignRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	List(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, int64, error)
	Create(ctx context.Context, c *domain.Campaign) error
	Update(ctx context.Context, c *domain.Campaign) error
	Delete(ctx context.Context, id int64) error
}

// GormCampaignRepository is the GORM implementation of CampaignRepository
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GORM-based campaign repository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

func (r *GormCampaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCampaignRepository) List(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&domain.Campaign{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.LiveAt != nil {
		query = query.Where("start_at <= ? AND end_at > ?", *filter.LiveAt, *filter.LiveAt)
	}
	query = likeClause(query, filter.Keyword, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Campaign
	err := query.Order("id DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error
	return rows, total, err
}

func (r *GormCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormCampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *GormCampaignRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Campaign{}, id).Error
}
