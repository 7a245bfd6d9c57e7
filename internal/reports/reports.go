package reports

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/domain"
)

// Read-only reporting queries for the admin dashboard. Orders are grouped
// by time bucket or foreign key and summed; every bucketed series is
// backfilled over the full requested range so charts never show gaps.

// Bucket granularity for time series
const (
	BucketDay   = "day"
	BucketMonth = "month"
	BucketYear  = "year"
)

// Point one {label, value} row of a time series
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TopProduct aggregated sales for one product
type TopProduct struct {
	ProductId     int64   `json:"product_id,string"`
	Name          string  `json:"name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// TopCustomer aggregated orders for one customer
type TopCustomer struct {
	UserId        int64   `json:"user_id,string"`
	Username      string  `json:"username"`
	OrderCount    int64   `json:"order_count"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// Summary dashboard counters
type Summary struct {
	Products      int64   `json:"products"`
	Orders        int64   `json:"orders"`
	Customers     int64   `json:"customers"`
	Reviews       int64   `json:"reviews"`
	PendingOrders int64   `json:"pending_orders"`
	Revenue       float64 `json:"revenue"` // delivered + shipping + processing, cancelled excluded
}

// Service reporting query service
type Service struct {
	db *gorm.DB
}

// NewService creates a reporting service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// bucketKey formats a time into its bucket label
func bucketKey(t time.Time, bucket string) string {
	switch bucket {
	case BucketMonth:
		return t.Format("2006-01")
	case BucketYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// nextBucket advances t by one bucket
func nextBucket(t time.Time, bucket string) time.Time {
	switch bucket {
	case BucketMonth:
		return t.AddDate(0, 1, 0)
	case BucketYear:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// truncateBucket floors t to its bucket start
func truncateBucket(t time.Time, bucket string) time.Time {
	switch bucket {
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case BucketYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// Backfill expands sparse bucket sums over [from, to] into a dense series
// with zero-valued points for empty buckets.
func Backfill(sums map[string]float64, from, to time.Time, bucket string) []Point {
	series := make([]Point, 0, 8)
	for t := truncateBucket(from, bucket); !t.After(to); t = nextBucket(t, bucket) {
		key := bucketKey(t, bucket)
		series = append(series, Point{Label: key, Value: sums[key]})
	}
	return series
}

// SalesByPeriod sums non-cancelled order totals per bucket over [from, to],
// zero-backfilled across the whole range.
func (s *Service) SalesByPeriod(ctx context.Context, from, to time.Time, bucket string) ([]Point, error) {
	type row struct {
		CreatedAt time.Time
		Total     float64
	}
	var orders []row
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("created_at, total").
		Where("created_at >= ? AND created_at < ? AND status != ?", from, to.AddDate(0, 0, 1), domain.OrderStatusCancelled).
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(orders))
	for _, o := range orders {
		sums[bucketKey(o.CreatedAt, bucket)] += o.Total
	}
	return Backfill(sums, from, to, bucket), nil
}

// OrdersByPeriod counts non-cancelled orders per bucket, zero-backfilled.
func (s *Service) OrdersByPeriod(ctx context.Context, from, to time.Time, bucket string) ([]Point, error) {
	type row struct {
		CreatedAt time.Time
	}
	var orders []row
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("created_at").
		Where("created_at >= ? AND created_at < ? AND status != ?", from, to.AddDate(0, 0, 1), domain.OrderStatusCancelled).
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(orders))
	for _, o := range orders {
		sums[bucketKey(o.CreatedAt, bucket)]++
	}
	return Backfill(sums, from, to, bucket), nil
}

// TopProducts returns the best selling products by quantity over [from, to]
func (s *Service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []TopProduct
	err := s.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Select("mall_order_item.product_id as product_id, mall_order_item.name as name, "+
			"SUM(mall_order_item.quantity) as total_quantity, "+
			"SUM(mall_order_item.quantity * mall_order_item.price) as total_revenue").
		Joins("JOIN mall_order ON mall_order.id = mall_order_item.order_id").
		Where("mall_order.created_at >= ? AND mall_order.created_at < ? AND mall_order.status != ?",
			from, to.AddDate(0, 0, 1), domain.OrderStatusCancelled).
		Group("mall_order_item.product_id, mall_order_item.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopCustomers returns the highest revenue customers over [from, to].
// Average order value falls back to zero for customers without orders.
func (s *Service) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]TopCustomer, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []TopCustomer
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("mall_order.user_id as user_id, COALESCE(sys_opr.username, '') as username, "+
			"COUNT(*) as order_count, SUM(mall_order.total) as total_revenue").
		Joins("LEFT JOIN sys_opr ON sys_opr.id = mall_order.user_id").
		Where("mall_order.created_at >= ? AND mall_order.created_at < ? AND mall_order.status != ?",
			from, to.AddDate(0, 0, 1), domain.OrderStatusCancelled).
		Group("mall_order.user_id, sys_opr.username").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AvgOrderValue = AvgOrderValue(rows[i].TotalRevenue, rows[i].OrderCount)
	}
	return rows, nil
}

// AvgOrderValue divides revenue by order count, guarding zero orders
func AvgOrderValue(revenue float64, orders int64) float64 {
	if orders <= 0 {
		return 0
	}
	return revenue / float64(orders)
}

// RevenueStats distribution of order totals over a range
type RevenueStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// RevenueQuartiles computes the quartile distribution of non-cancelled
// order totals over [from, to], for the dashboard distribution widget.
// An empty range yields an all-zero result.
func (s *Service) RevenueQuartiles(ctx context.Context, from, to time.Time) (RevenueStats, error) {
	var out RevenueStats
	var totals []float64
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("created_at >= ? AND created_at < ? AND status != ?", from, to.AddDate(0, 0, 1), domain.OrderStatusCancelled).
		Pluck("total", &totals).Error
	if err != nil || len(totals) == 0 {
		return out, err
	}
	out.Min, _ = stats.Min(totals)
	out.Max, _ = stats.Max(totals)
	out.Median, _ = stats.Median(totals)
	if q, err := stats.Quartile(totals); err == nil {
		out.Q1 = q.Q1
		out.Median = q.Q2
		out.Q3 = q.Q3
	}
	return out, nil
}

// DashboardSummary fans out the counter queries concurrently
func (s *Service) DashboardSummary(ctx context.Context) (*Summary, error) {
	var sum Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.Product{}).Count(&sum.Products).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.Order{}).Count(&sum.Orders).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.SysOpr{}).
			Where("level = ?", domain.OprLevelCustomer).Count(&sum.Customers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.Review{}).Count(&sum.Reviews).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&domain.Order{}).
			Where("status = ?", domain.OrderStatusPending).Count(&sum.PendingOrders).Error
	})
	g.Go(func() error {
		var revenue *float64
		err := s.db.WithContext(gctx).Model(&domain.Order{}).
			Where("status != ?", domain.OrderStatusCancelled).
			Select("SUM(total)").Scan(&revenue).Error
		if err == nil && revenue != nil {
			sum.Revenue = *revenue
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}
