package webserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

const (
	appContextKey = "openmall_app"
	jwtClaimsKey  = "openmall_jwt"
)

// WebServer wraps echo with the public and admin API groups
type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	my     *echo.Group
	admin  *echo.Group
	appCtx app.AppContext
}

var server *WebServer

// Init builds the web server around the application context. Route
// registration helpers below are package level, matching the handler files
// which register themselves per module.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsoniterSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			_ = Fail(c, he.Code, "HTTP_ERROR", fmt.Sprintf("%v", he.Message), nil)
			return
		}
		_ = InternalError(c, err)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true, LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(appCtx.Config().Web.Secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})

	api := e.Group("/api")

	// authenticated customer routes; any valid token passes, no level gate
	my := e.Group("/api/my")
	my.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(appCtx.Config().Web.Secret),
		ContextKey:    jwtClaimsKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return new(OperatorClaims) },
	}))

	admin := e.Group("/api/admin")
	admin.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(appCtx.Config().Web.Secret),
		ContextKey:    jwtClaimsKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return new(OperatorClaims) },
	}))
	admin.Use(requireAdmin)

	server = &WebServer{root: e, api: api, my: my, admin: admin, appCtx: appCtx}
	return server
}

// Start runs the HTTP listener (blocking)
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("webserver starting", zap.String("addr", addr))
	return s.root.Start(addr)
}

// Shutdown stops the HTTP listener
func (s *WebServer) Shutdown() {
	_ = s.root.Close()
}

// OperatorClaims JWT claims for operators and customers
type OperatorClaims struct {
	OprId    int64  `json:"oid,string"`
	Username string `json:"usr"`
	Level    string `json:"lvl"`
	jwt.RegisteredClaims
}

// SignToken issues a JWT for an operator
func SignToken(secret string, opr *domain.SysOpr, expire time.Duration) (string, error) {
	claims := OperatorClaims{
		OprId:    opr.ID,
		Username: opr.Username,
		Level:    opr.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// requireAdmin gates the admin group on operator level
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetClaims(c)
		if claims == nil || (claims.Level != domain.OprLevelSuper && claims.Level != domain.OprLevelAdmin) {
			return Fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator privileges required", nil)
		}
		return next(c)
	}
}

// GetClaims returns the JWT claims of the current request, nil when
// unauthenticated
func GetClaims(c echo.Context) *OperatorClaims {
	token, ok := c.Get(jwtClaimsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	claims, ok := token.Claims.(*OperatorClaims)
	if !ok {
		return nil
	}
	return claims
}

// ParseBearer parses an optional Authorization bearer token on routes
// outside the JWT middleware, returning nil for absent or invalid tokens
func ParseBearer(c echo.Context) *OperatorClaims {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) < 8 || !strings.EqualFold(header[:7], "bearer ") {
		return nil
	}
	secret := GetApp(c).Config().Web.Secret
	claims := new(OperatorClaims)
	token, err := jwt.ParseWithClaims(header[7:], claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}

// GetApp returns the application context bound to the request
func GetApp(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// GetDB returns the request database handle
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

// SessionID returns the storefront session id, generating and persisting
// one in the cookie session on first use.
func SessionID(c echo.Context) string {
	sess, err := session.Get("openmall_session", c)
	if err != nil {
		return random.String(32)
	}
	if sid, ok := sess.Values["sid"].(string); ok && sid != "" {
		return sid
	}
	sid := random.String(32)
	sess.Values["sid"] = sid
	sess.Options = &sessions.Options{Path: "/", MaxAge: 86400 * 30, HttpOnly: true}
	_ = sess.Save(c.Request(), c.Response())
	return sid
}

// OprLog records an admin mutation into the audit log
func OprLog(c echo.Context, action, desc string) {
	claims := GetClaims(c)
	name := ""
	if claims != nil {
		name = claims.Username
	}
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   name,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}

// Route registration helpers, used by the handler packages

// ApiGET registers a public GET route under /api
func ApiGET(path string, h echo.HandlerFunc) { server.api.GET(path, h) }

// ApiPOST registers a public POST route under /api
func ApiPOST(path string, h echo.HandlerFunc) { server.api.POST(path, h) }

// ApiPUT registers a public PUT route under /api
func ApiPUT(path string, h echo.HandlerFunc) { server.api.PUT(path, h) }

// ApiDELETE registers a public DELETE route under /api
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }

// MyGET registers an authenticated customer GET route under /api/my
func MyGET(path string, h echo.HandlerFunc) { server.my.GET(path, h) }

// MyPOST registers an authenticated customer POST route under /api/my
func MyPOST(path string, h echo.HandlerFunc) { server.my.POST(path, h) }

// AdminGET registers an admin GET route under /api/admin
func AdminGET(path string, h echo.HandlerFunc) { server.admin.GET(path, h) }

// AdminPOST registers an admin POST route under /api/admin
func AdminPOST(path string, h echo.HandlerFunc) { server.admin.POST(path, h) }

// AdminPUT registers an admin PUT route under /api/admin
func AdminPUT(path string, h echo.HandlerFunc) { server.admin.PUT(path, h) }

// AdminDELETE registers an admin DELETE route under /api/admin
func AdminDELETE(path string, h echo.HandlerFunc) { server.admin.DELETE(path, h) }

// Validator wraps go-playground validator for echo
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the echo request validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
