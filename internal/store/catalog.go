package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
)

// ProductFilter flat set of optional list predicates
type ProductFilter struct {
	Keyword    string
	CategoryId *int64
	BrandId    *int64
	Featured   *bool
	HotDeal    *bool
	BestSeller *bool
	NewArrival *bool
	Active     *bool
	PriceMin   *float64
	PriceMax   *float64
	Sort       string
	Order      string
	Pagination
}

// ProductRepository handles database operations for catalog products
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	CountBySlug(ctx context.Context, slug string, excludeID int64) (int64, error)
	AdjustStock(ctx context.Context, id int64, delta int) error
	UpdateRating(ctx context.Context, id int64, rating float64, reviewCount int) error
}

var productSortColumns = map[string]string{
	"id":         "id",
	"price":      "price",
	"stock":      "stock",
	"rating":     "rating",
	"name":       "name_en",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&domain.Product{})
	query = likeClause(query, filter.Keyword, "name_en", "name_fr", "name_es", "slug")
	if filter.CategoryId != nil {
		query = query.Where("category_id = ?", *filter.CategoryId)
	}
	if filter.BrandId != nil {
		query = query.Where("brand_id = ?", *filter.BrandId)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.HotDeal != nil {
		query = query.Where("hot_deal = ?", *filter.HotDeal)
	}
	if filter.BestSeller != nil {
		query = query.Where("best_seller = ?", *filter.BestSeller)
	}
	if filter.NewArrival != nil {
		query = query.Where("new_arrival = ?", *filter.NewArrival)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Product
	err := query.
		Order(SortClause(filter.Sort, filter.Order, "id", productSortColumns)).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (r *GormProductRepository) CountBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// AdjustStock adds delta to the product stock, never driving it below zero.
// Returns ErrInsufficientStock when the product exists but its stock cannot
// absorb a negative delta, gorm.ErrRecordNotFound when the product is gone.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id)
	if delta < 0 {
		// refuse to underflow; the caller checks stock beforehand and
		// this guards concurrent checkouts
		query = query.Where("stock >= ?", -delta)
	}
	res := query.Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			var count int64
			if err := r.db.WithContext(ctx).Model(&domain.Product{}).
				Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrInsufficientStock
			}
		}
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormProductRepository) UpdateRating(ctx context.Context, id int64, rating float64, reviewCount int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error
}

// CategoryRepository handles database operations for categories
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int64, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
}

// GormCategoryRepository is the GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GORM-based category repository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	var rows []domain.Category
	err := r.db.WithContext(ctx).Order("sort ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Category{}, id).Error
}

func (r *GormCategoryRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *GormCategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// BrandFilter brand list predicates
type BrandFilter struct {
	Keyword  string
	Featured *bool
	Pagination
}

// BrandRepository handles database operations for brands
type BrandRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Brand, error)
	List(ctx context.Context, filter BrandFilter) ([]domain.Brand, int64, error)
	Create(ctx context.Context, b *domain.Brand) error
	Update(ctx context.Context, b *domain.Brand) error
	Delete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int64, error)
}

// GormBrandRepository is the GORM implementation of BrandRepository
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GORM-based brand repository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

func (r *GormBrandRepository) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	var b domain.Brand
	err := r.db.WithContext(ctx).First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBrandRepository) List(ctx context.Context, filter BrandFilter) ([]domain.Brand, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&domain.Brand{})
	query = likeClause(query, filter.Keyword, "name")
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Brand
	err := query.Order("id DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error
	return rows, total, err
}

func (r *GormBrandRepository) Create(ctx context.Context, b *domain.Brand) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *GormBrandRepository) Update(ctx context.Context, b *domain.Brand) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *GormBrandRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Brand{}, id).Error
}

func (r *GormBrandRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("brand_id = ?", id).Count(&count).Error
	return count, err
}
