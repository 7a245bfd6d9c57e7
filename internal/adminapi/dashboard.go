package adminapi

import (
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/openmallhq/openmall/internal/reports"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/metrics"
)

// registerDashboardRoutes registers reporting routes
func registerDashboardRoutes() {
	webserver.AdminGET("/dashboard/summary", DashboardSummary)
	webserver.AdminGET("/dashboard/sales", SalesReport)
	webserver.AdminGET("/dashboard/orders", OrdersReport)
	webserver.AdminGET("/dashboard/top-products", TopProductsReport)
	webserver.AdminGET("/dashboard/top-customers", TopCustomersReport)
	webserver.AdminGET("/dashboard/revenue-stats", RevenueStatsReport)
	webserver.AdminGET("/dashboard/system", SystemMetricsReport)
}

// reportRange reads from/to/bucket query params. The default window is the
// last 30 days, bucketed by day. from/to accept any format dateparse
// understands.
func reportRange(c echo.Context) (from, to time.Time, bucket string) {
	now := time.Now()
	from = now.AddDate(0, 0, -29)
	to = now
	if v := c.QueryParam("from"); v != "" {
		if t, err := dateparse.ParseAny(v); err == nil {
			from = t
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if t, err := dateparse.ParseAny(v); err == nil {
			to = t
		}
	}
	bucket = c.QueryParam("bucket")
	switch bucket {
	case reports.BucketMonth, reports.BucketYear:
	default:
		bucket = reports.BucketDay
	}
	return from, to, bucket
}

// DashboardSummary returns the headline counters
func DashboardSummary(c echo.Context) error {
	svc := reports.NewService(GetDB(c))
	sum, err := svc.DashboardSummary(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute summary", err.Error())
	}
	return ok(c, sum)
}

// SalesReport returns revenue per bucket over the requested range. Empty
// buckets carry a zero point so charts render the full range.
func SalesReport(c echo.Context) error {
	from, to, bucket := reportRange(c)
	if to.Before(from) {
		return fail(c, http.StatusBadRequest, "INVALID_RANGE", "End of range precedes start", nil)
	}
	svc := reports.NewService(GetDB(c))
	series, err := svc.SalesByPeriod(c.Request().Context(), from, to, bucket)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute sales report", err.Error())
	}
	return ok(c, series)
}

// OrdersReport returns order counts per bucket over the requested range
func OrdersReport(c echo.Context) error {
	from, to, bucket := reportRange(c)
	if to.Before(from) {
		return fail(c, http.StatusBadRequest, "INVALID_RANGE", "End of range precedes start", nil)
	}
	svc := reports.NewService(GetDB(c))
	series, err := svc.OrdersByPeriod(c.Request().Context(), from, to, bucket)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute orders report", err.Error())
	}
	return ok(c, series)
}

// TopProductsReport returns the best selling products over the range
func TopProductsReport(c echo.Context) error {
	from, to, _ := reportRange(c)
	limit := cast.ToInt(c.QueryParam("limit"))
	svc := reports.NewService(GetDB(c))
	rows, err := svc.TopProducts(c.Request().Context(), from, to, limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute top products", err.Error())
	}
	return ok(c, rows)
}

// TopCustomersReport returns the highest revenue customers over the range
func TopCustomersReport(c echo.Context) error {
	from, to, _ := reportRange(c)
	limit := cast.ToInt(c.QueryParam("limit"))
	svc := reports.NewService(GetDB(c))
	rows, err := svc.TopCustomers(c.Request().Context(), from, to, limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute top customers", err.Error())
	}
	return ok(c, rows)
}

// RevenueStatsReport returns the order total distribution over the range
func RevenueStatsReport(c echo.Context) error {
	from, to, _ := reportRange(c)
	svc := reports.NewService(GetDB(c))
	dist, err := svc.RevenueQuartiles(c.Request().Context(), from, to)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute revenue stats", err.Error())
	}
	return ok(c, dist)
}

// system gauges written by the monitor jobs
var systemGauges = []string{"system_cpuuse", "system_memuse", "openmall_cpuuse", "openmall_memuse"}

// SystemMetricsReport returns the recent system and process gauge series.
// The window defaults to the last hour, capped at 24.
func SystemMetricsReport(c echo.Context) error {
	hours := cast.ToInt(c.QueryParam("hours"))
	if hours < 1 || hours > 24 {
		hours = 1
	}
	end := time.Now()
	start := end.Add(-time.Duration(hours) * time.Hour)

	type sample struct {
		Timestamp int64   `json:"timestamp"`
		Value     float64 `json:"value"`
	}
	out := make(map[string][]sample, len(systemGauges))
	for _, name := range systemGauges {
		points, err := metrics.Range(name, start, end)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metrics", err.Error())
		}
		samples := make([]sample, 0, len(points))
		for _, p := range points {
			samples = append(samples, sample{Timestamp: p.Timestamp, Value: p.Value})
		}
		out[name] = samples
	}
	return ok(c, out)
}
