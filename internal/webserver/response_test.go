package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmallhq/openmall/internal/store"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.JSONSerializer = jsoniterSerializer{}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParsePagination(t *testing.T) {
	c, _ := newTestContext(t, "/api/products?page=3&limit=25")
	p := ParsePagination(c)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.PageSize)

	// missing and out-of-range params clamp to defaults
	c, _ = newTestContext(t, "/api/products")
	p = ParsePagination(c)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)

	c, _ = newTestContext(t, "/api/products?page=-2&limit=9999")
	p = ParsePagination(c)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestParseIDParam(t *testing.T) {
	c, _ := newTestContext(t, "/api/products/42")
	c.SetParamNames("id")
	c.SetParamValues("42")
	assert.Equal(t, int64(42), ParseIDParam(c, "id"))

	c.SetParamValues("not-a-number")
	assert.Zero(t, ParseIDParam(c, "id"))
}

func TestPagedEnvelope(t *testing.T) {
	c, rec := newTestContext(t, "/api/products")

	// 15 rows at 10 per page: page 2 carries 5 rows and reports 2 pages
	rows := []string{"a", "b", "c", "d", "e"}
	err := Paged(c, rows, 15, store.Pagination{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		TotalCount int64           `json:"total_count"`
		TotalPages int64           `json:"total_pages"`
		Page       int             `json:"page"`
		PageSize   int             `json:"page_size"`
		Data       json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.Equal(t, int64(15), envelope.TotalCount)
	assert.Equal(t, int64(2), envelope.TotalPages)
	assert.Equal(t, 2, envelope.Page)
	assert.Equal(t, 10, envelope.PageSize)

	var data []string
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Len(t, data, 5)
}

func TestOKAndFailEnvelopes(t *testing.T) {
	c, rec := newTestContext(t, "/api/products")
	require.NoError(t, OK(c, map[string]string{"k": "v"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	var res RestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Zero(t, res.Code)
	assert.Equal(t, "Success", res.Msg)

	c, rec = newTestContext(t, "/api/products")
	require.NoError(t, Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Code)
	assert.Equal(t, "NOT_FOUND", res.Msgtype)
}

func TestValidatorRejectsBadPayload(t *testing.T) {
	type payload struct {
		Name   string `json:"name" validate:"required"`
		Rating int    `json:"rating" validate:"min=1,max=5"`
	}

	v := NewValidator()
	assert.Error(t, v.Validate(&payload{Rating: 9}))
	assert.NoError(t, v.Validate(&payload{Name: "ok", Rating: 3}))
}
