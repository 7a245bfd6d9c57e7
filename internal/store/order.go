package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

// OrderFilter flat set of optional order list predicates
type OrderFilter struct {
	UserId        *int64
	Status        string
	PaymentStatus string
	Keyword       string // matches order_no
	From          *time.Time
	To            *time.Time
	Sort          string
	Order         string
	Pagination
}

// NewOrder input for creating an order from cart content
type NewOrder struct {
	UserId        int64
	PaymentMethod string
	ShipName      string
	ShipPhone     string
	ShipAddress   string
	ShipCity      string
	ShipCountry   string
	Remark        string
	Items         []NewOrderItem
}

// NewOrderItem one line of a new order; Price is the unit price snapshot
type NewOrderItem struct {
	ProductId int64
	Name      string
	Quantity  int
	Price     float64
}

// OrderRepository handles database operations for orders and order items
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error)
	// Create persists the order and its item snapshots and decrements
	// product stock per item
	Create(ctx context.Context, in NewOrder) (*domain.Order, error)
	// UpdateStatus sets the order status. A transition into cancelled from
	// any other status restores each item's quantity onto product stock,
	// one best-effort update per item.
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id int64, paymentStatus string) error
	Delete(ctx context.Context, id int64) error
}

var orderSortColumns = map[string]string{
	"id":         "id",
	"total":      "total",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db       *gorm.DB
	products ProductRepository
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB, products ProductRepository) *GormOrderRepository {
	return &GormOrderRepository{db: db, products: products}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.UserId != nil {
		query = query.Where("user_id = ?", *filter.UserId)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	query = likeClause(query, filter.Keyword, "order_no")
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Order
	err := query.
		Order(SortClause(filter.Sort, filter.Order, "id", orderSortColumns)).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormOrderRepository) Create(ctx context.Context, in NewOrder) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var total float64
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, ErrQuantityTooLow
		}
		total += float64(item.Quantity) * item.Price
	}

	now := time.Now()
	order := domain.Order{
		ID:            common.UUIDint64(),
		OrderNo:       fmt.Sprintf("OM%s%06d", now.Format("20060102150405"), common.UUIDint64()%1000000),
		UserId:        in.UserId,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		PaymentMethod: in.PaymentMethod,
		ShipName:      in.ShipName,
		ShipPhone:     in.ShipPhone,
		ShipAddress:   in.ShipAddress,
		ShipCity:      in.ShipCity,
		ShipCountry:   in.ShipCountry,
		Total:         total,
		Remark:        in.Remark,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// decrement stock first so an oversell fails the order before any row
	// is written
	for _, item := range in.Items {
		if err := r.products.AdjustStock(ctx, item.ProductId, -item.Quantity); err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				return nil, errors.Wrapf(ErrInsufficientStock, "product %d", item.ProductId)
			}
			// missing product or plain database failure; not a stock problem
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		row := domain.OrderItem{
			ID:        common.UUIDint64(),
			OrderId:   order.ID,
			ProductId: item.ProductId,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: now,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
	}
	return &order, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if !common.InSlice(status, domain.OrderStatuses) {
		return nil, ErrInvalidStatus
	}

	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// restock exactly once, on the transition into cancelled
	if status == domain.OrderStatusCancelled && order.Status != domain.OrderStatusCancelled {
		items, err := r.Items(ctx, id)
		if err != nil {
			return nil, err
		}
		// best-effort loop, no surrounding transaction: a failure mid-way
		// leaves earlier items restored and is logged, not rolled back
		for _, item := range items {
			if err := r.products.AdjustStock(ctx, item.ProductId, item.Quantity); err != nil {
				zap.L().Error("restock on cancel failed",
					zap.Int64("order_id", id),
					zap.Int64("product_id", item.ProductId),
					zap.Int("quantity", item.Quantity),
					zap.Error(err))
			}
		}
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormOrderRepository) UpdatePayment(ctx context.Context, id int64, paymentStatus string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": paymentStatus,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&domain.Order{}, id).Error
}

var (
	// ErrEmptyOrder rejects checkout with no items
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidStatus rejects unknown order status values
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInsufficientStock signals a checkout that would drive stock negative
	ErrInsufficientStock = errors.New("insufficient product stock")
)
