package storeapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Realname string `json:"realname" validate:"omitempty,max=100"`
	Mobile   string `json:"mobile" validate:"omitempty,max=30"`
}

// registerAuthRoutes registers the customer signup route. Login is shared
// with the back office under /api/auth/login; the issued token carries
// the account level.
func registerAuthRoutes() {
	webserver.ApiPOST("/auth/register", Register)
}

// Register creates a customer account and issues a token right away
func Register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
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

	now := time.Now()
	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Username:  payload.Username,
		Password:  hashed,
		Email:     payload.Email,
		Realname:  payload.Realname,
		Mobile:    payload.Mobile,
		Level:     domain.OprLevelCustomer,
		Status:    common.ENABLED,
		LastLogin: now,
	}
	if err := GetDB(c).Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}

	cfg := GetAppContext(c).Config().Web
	token, err := webserver.SignToken(cfg.Secret, &opr, time.Duration(cfg.JwtExpire)*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_FAILED", "Failed to issue token", nil)
	}

	return ok(c, map[string]interface{}{
		"token":    token,
		"username": opr.Username,
		"level":    opr.Level,
	})
}
