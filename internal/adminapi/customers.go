package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type operatorPayload struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"omitempty,min=6,max=128"`
	Realname string `json:"realname" validate:"omitempty,max=100"`
	Mobile   string `json:"mobile" validate:"omitempty,max=30"`
	Email    string `json:"email" validate:"omitempty,email,max=200"`
	Level    string `json:"level" validate:"omitempty,oneof=super admin customer"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=500"`
}

// registerCustomerRoutes registers account management routes. The same
// table holds back-office operators and storefront customers, separated
// by level.
func registerCustomerRoutes() {
	webserver.AdminGET("/accounts", ListAccounts)
	webserver.AdminGET("/accounts/:id", GetAccount)
	webserver.AdminPOST("/accounts", CreateAccount)
	webserver.AdminPUT("/accounts/:id", UpdateAccount)
	webserver.AdminDELETE("/accounts/:id", DeleteAccount)
	webserver.AdminGET("/oprlogs", ListOprLogs)
}

// ListAccounts retrieves accounts filtered by level, status and keyword
func ListAccounts(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysOpr{})

	if level := strings.TrimSpace(c.QueryParam("level")); level != "" {
		db = db.Where("level = ?", level)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("username ILIKE ? OR email ILIKE ? OR realname ILIKE ?",
				"%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(realname) LIKE ?", lq, lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounts", err.Error())
	}

	pager := parsePagination(c)
	var rows []domain.SysOpr
	if err := db.Order("id DESC").Offset(pager.Offset()).Limit(pager.PageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounts", err.Error())
	}
	return paged(c, rows, total, pager)
}

// GetAccount fetches a single account
func GetAccount(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}
	var opr domain.SysOpr
	if err := GetDB(c).First(&opr, id).Error; err != nil {
		return notFound(c, "Account not found")
	}
	return ok(c, opr)
}

// CreateAccount creates an operator or customer account
func CreateAccount(c echo.Context) error {
	var payload operatorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password is required", nil)
	}

	var count int64
	GetDB(c).Model(&domain.SysOpr{}).Where("username = ?", payload.Username).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "USERNAME_EXISTS", "Username already exists", nil)
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_FAILED", "Failed to hash password", nil)
	}

	if payload.Level == "" {
		payload.Level = domain.OprLevelCustomer
	}
	if payload.Status == "" {
		payload.Status = common.ENABLED
	}

	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Username:  payload.Username,
		Password:  hashed,
		Realname:  payload.Realname,
		Mobile:    payload.Mobile,
		Email:     payload.Email,
		Level:     payload.Level,
		Status:    payload.Status,
		Remark:    payload.Remark,
		LastLogin: time.Time{},
	}
	if err := GetDB(c).Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}

	webserver.OprLog(c, "create_account", "Created account "+opr.Username)
	return ok(c, opr)
}

// UpdateAccount updates an account. Level and password change only when
// provided; the super account cannot be demoted.
func UpdateAccount(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}

	var opr domain.SysOpr
	if err := GetDB(c).First(&opr, id).Error; err != nil {
		return notFound(c, "Account not found")
	}

	var payload operatorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	if opr.Level == domain.OprLevelSuper && payload.Level != "" && payload.Level != domain.OprLevelSuper {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "The super account cannot be demoted", nil)
	}

	updates := map[string]interface{}{
		"realname":   payload.Realname,
		"mobile":     payload.Mobile,
		"email":      payload.Email,
		"remark":     payload.Remark,
		"updated_at": time.Now(),
	}
	if payload.Level != "" {
		updates["level"] = payload.Level
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Password != "" {
		hashed, err := common.HashPassword(payload.Password)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "HASH_FAILED", "Failed to hash password", nil)
		}
		updates["password"] = hashed
	}

	if err := GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update account", err.Error())
	}

	GetDB(c).First(&opr, id)
	webserver.OprLog(c, "update_account", "Updated account "+opr.Username)
	return ok(c, opr)
}

// DeleteAccount removes an account except the super account
func DeleteAccount(c echo.Context) error {
	id := parseIDParam(c)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}

	var opr domain.SysOpr
	if err := GetDB(c).First(&opr, id).Error; err != nil {
		return notFound(c, "Account not found")
	}
	if opr.Level == domain.OprLevelSuper {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "The super account cannot be deleted", nil)
	}

	if err := GetDB(c).Delete(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete account", err.Error())
	}

	webserver.OprLog(c, "delete_account", "Deleted account "+opr.Username)
	return c.NoContent(http.StatusNoContent)
}

// ListOprLogs retrieves the audit trail, newest first
func ListOprLogs(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysOprLog{})
	if name := strings.TrimSpace(c.QueryParam("opr_name")); name != "" {
		db = db.Where("opr_name = ?", name)
	}
	if action := strings.TrimSpace(c.QueryParam("action")); action != "" {
		db = db.Where("opt_action = ?", action)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query logs", err.Error())
	}

	pager := parsePagination(c)
	var rows []domain.SysOprLog
	if err := db.Order("opt_time DESC").Offset(pager.Offset()).Limit(pager.PageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query logs", err.Error())
	}
	return paged(c, rows, total, pager)
}
