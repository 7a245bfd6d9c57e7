package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
)

// registerExportRoutes registers data export routes
func registerExportRoutes() {
	webserver.AdminGET("/export/orders", ExportOrders)
	webserver.AdminGET("/export/customers", ExportCustomers)
}

// ExportOrders streams the filtered order list as an XLSX workbook
func ExportOrders(c echo.Context) error {
	filter := orderFilterFromQuery(c)
	filter.Page = 1
	filter.PageSize = 100

	repo := GetAppContext(c).Orders()
	ctx := c.Request().Context()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to build workbook", err.Error())
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Order No", "Status", "Payment Status", "Payment Method",
		"Customer", "Phone", "City", "Country", "Total", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for {
		rows, _, err := repo.List(ctx, filter)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
		}
		for _, o := range rows {
			values := []interface{}{o.OrderNo, o.Status, o.PaymentStatus, o.PaymentMethod,
				o.ShipName, o.ShipPhone, o.ShipCity, o.ShipCountry, o.Total,
				o.CreatedAt.Format(time.RFC3339)}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
				_ = f.SetCellValue(sheet, cell, v)
			}
			rowIdx++
		}
		if len(rows) < filter.PageSize {
			break
		}
		filter.Page++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to write workbook", err.Error())
	}

	webserver.OprLog(c, "export_orders", "Exported orders")
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// customerCSVRow flat CSV projection of a customer account
type customerCSVRow struct {
	ID        string `csv:"id"`
	Username  string `csv:"username"`
	Realname  string `csv:"realname"`
	Email     string `csv:"email"`
	Mobile    string `csv:"mobile"`
	Status    string `csv:"status"`
	LastLogin string `csv:"last_login"`
	CreatedAt string `csv:"created_at"`
}

// ExportCustomers streams all customer accounts as CSV
func ExportCustomers(c echo.Context) error {
	var accounts []domain.SysOpr
	if err := GetDB(c).
		Where("level = ?", domain.OprLevelCustomer).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	rows := make([]customerCSVRow, 0, len(accounts))
	for _, a := range accounts {
		lastLogin := ""
		if !a.LastLogin.IsZero() {
			lastLogin = a.LastLogin.Format(time.RFC3339)
		}
		rows = append(rows, customerCSVRow{
			ID:        fmt.Sprintf("%d", a.ID),
			Username:  a.Username,
			Realname:  a.Realname,
			Email:     a.Email,
			Mobile:    a.Mobile,
			Status:    a.Status,
			LastLogin: lastLogin,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to write CSV", err.Error())
	}

	webserver.OprLog(c, "export_customers", "Exported customers")
	filename := fmt.Sprintf("customers-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
