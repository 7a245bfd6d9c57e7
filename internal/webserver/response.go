package webserver

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/openmallhq/openmall/internal/store"
)

// RestResult uniform response envelope
type RestResult struct {
	Code    int         `json:"code"`
	Msgtype string      `json:"msgtype"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResult paged list envelope
type PageResult struct {
	TotalCount int64       `json:"total_count"`
	TotalPages int64       `json:"total_pages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Data       interface{} `json:"data"`
}

// OK sends a success envelope with optional data
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, RestResult{Code: 0, Msgtype: "info", Msg: "Success", Data: data})
}

// OKMsg sends a success envelope with a message only
func OKMsg(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, RestResult{Code: 0, Msgtype: "info", Msg: msg})
}

// Fail sends an error envelope with HTTP status, machine code and message
func Fail(c echo.Context, status int, code, msg string, data interface{}) error {
	return c.JSON(status, RestResult{Code: 1, Msgtype: code, Msg: msg, Data: data})
}

// FailMsg sends a 400 error envelope with a message only
func FailMsg(c echo.Context, msg string) error {
	return Fail(c, http.StatusBadRequest, "BAD_REQUEST", msg, nil)
}

// NotFound sends a 404 error envelope
func NotFound(c echo.Context, msg string) error {
	return Fail(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
}

// Paged sends a paged list envelope. totalPages is derived from the
// normalized page size so short last pages report correctly.
func Paged(c echo.Context, data interface{}, total int64, pager store.Pagination) error {
	pager = pager.Normalize()
	return c.JSON(http.StatusOK, PageResult{
		TotalCount: total,
		TotalPages: pager.TotalPages(total),
		Page:       pager.Page,
		PageSize:   pager.PageSize,
		Data:       data,
	})
}

// ParsePagination reads page/limit query params with clamping defaults
func ParsePagination(c echo.Context) store.Pagination {
	p := store.Pagination{
		Page:     cast.ToInt(c.QueryParam("page")),
		PageSize: cast.ToInt(c.QueryParam("limit")),
	}
	return p.Normalize()
}

// ParseIDParam reads an int64 path param, zero on malformed input
func ParseIDParam(c echo.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// HandleValidationError converts validator errors into a field list response
func HandleValidationError(c echo.Context, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FailMsg(c, err.Error())
	}
	fields := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return Fail(c, http.StatusBadRequest, "VALIDATION", "Request validation failed", fields)
}

// InternalError logs the error and sends a 500 envelope
func InternalError(c echo.Context, err error) error {
	zap.L().Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return Fail(c, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
}
