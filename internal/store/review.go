package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
)

// ReviewFilter review list predicates
type ReviewFilter struct {
	ProductId *int64
	UserId    *int64
	Rating    *int
	Pagination
}

// ReviewRepository handles database operations for product reviews
type ReviewRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, int64, error)
	Create(ctx context.Context, rv *domain.Review) error
	Delete(ctx context.Context, id int64) error
	// Stats computes the aggregate rating for a product from review rows.
	// The per-star distribution always carries keys 1..5.
	Stats(ctx context.Context, productID int64) (*domain.ReviewStats, error)
}

// GormReviewRepository is the GORM implementation of ReviewRepository
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GORM-based review repository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.WithContext(ctx).First(&rv, id).Error
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]domain.Review, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&domain.Review{})
	if filter.ProductId != nil {
		query = query.Where("product_id = ?", *filter.ProductId)
	}
	if filter.UserId != nil {
		query = query.Where("user_id = ?", *filter.UserId)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Review
	err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error
	return rows, total, err
}

func (r *GormReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *GormReviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Review{}, id).Error
}

func (r *GormReviewRepository) Stats(ctx context.Context, productID int64) (*domain.ReviewStats, error) {
	type ratingRow struct {
		Rating int
		Count  int64
	}
	var rows []ratingRow
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("rating, COUNT(*) as count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &domain.ReviewStats{Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum int64
	for _, row := range rows {
		if row.Rating < 1 || row.Rating > 5 {
			continue
		}
		stats.Distribution[row.Rating] = row.Count
		stats.Total += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}
	return stats, nil
}
