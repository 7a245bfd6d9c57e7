package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/webserver"
	"github.com/openmallhq/openmall/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// registerAuthRoutes registers the operator login route. Login is public;
// everything else under /api/admin requires the issued token.
func registerAuthRoutes() {
	webserver.ApiPOST("/auth/login", Login)
	webserver.AdminGET("/auth/me", CurrentOperator)
}

// Login verifies operator credentials and issues a JWT
func Login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	if err := GetDB(c).Where("username = ?", payload.Username).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid username or password", nil)
	}
	if opr.Status != common.ENABLED {
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Account is disabled", nil)
	}
	if !common.CheckPassword(opr.Password, payload.Password) {
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid username or password", nil)
	}

	cfg := GetAppContext(c).Config().Web
	token, err := webserver.SignToken(cfg.Secret, &opr, time.Duration(cfg.JwtExpire)*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_FAILED", "Failed to issue token", nil)
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token":    token,
		"username": opr.Username,
		"level":    opr.Level,
		"expires":  cfg.JwtExpire * 3600,
	})
}

// CurrentOperator returns the operator bound to the current token
func CurrentOperator(c echo.Context) error {
	claims := webserver.GetClaims(c)
	var opr domain.SysOpr
	if err := GetDB(c).First(&opr, claims.OprId).Error; err != nil {
		return notFound(c, "Operator not found")
	}
	return ok(c, opr)
}
