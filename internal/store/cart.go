package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

// CartRepository handles database operations for carts and cart items
type CartRepository interface {
	// GetOrCreateBySession returns the cart bound to a guest session,
	// creating it on first use
	GetOrCreateBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	// GetOrCreateByUser returns the cart bound to a customer, creating it
	// on first use
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	Items(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	// AddItem merges a product into the cart: an existing row for the same
	// product has its quantity incremented, otherwise one row is inserted.
	AddItem(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
	// DeleteStale removes guest carts (and their items) untouched since the cutoff
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// GormCartRepository is the GORM implementation of CartRepository
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM-based cart repository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) GetOrCreateBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = domain.Cart{ID: common.UUIDint64(), SessionId: sessionID}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormCartRepository) GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = domain.Cart{ID: common.UUIDint64(), UserId: &userID}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormCartRepository) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *GormCartRepository) AddItem(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	var item domain.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = domain.CartItem{
			ID:        common.UUIDint64(),
			CartId:    cartID,
			ProductId: productID,
			Quantity:  quantity,
		}
		if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	case err != nil:
		return nil, err
	}

	// merge: same product never produces a second row
	item.Quantity += quantity
	item.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	res := r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCartRepository) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&domain.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCartRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
}

func (r *GormCartRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var stale []domain.Cart
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL AND updated_at < ?", cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}
	for _, cart := range stale {
		r.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{})
		r.db.WithContext(ctx).Delete(&domain.Cart{}, cart.ID)
	}
	return int64(len(stale)), nil
}

// ErrQuantityTooLow rejects cart quantities below one
var ErrQuantityTooLow = errors.New("cart item quantity must be at least 1")
