package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)

	p = Pagination{Page: -3, PageSize: 500}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)

	p = Pagination{Page: 4, PageSize: 25}.Normalize()
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 25, p.PageSize)
}

func TestPaginationOffset(t *testing.T) {
	p := Pagination{Page: 2, PageSize: 10}.Normalize()
	assert.Equal(t, 10, p.Offset())

	p = Pagination{Page: 1, PageSize: 50}.Normalize()
	assert.Equal(t, 0, p.Offset())
}

func TestPaginationTotalPages(t *testing.T) {
	p := Pagination{Page: 2, PageSize: 10}.Normalize()

	// 15 rows at 10 per page: page 2 holds the last 5, two pages in total
	assert.Equal(t, int64(2), p.TotalPages(15))

	assert.Equal(t, int64(1), p.TotalPages(10))
	assert.Equal(t, int64(2), p.TotalPages(11))
	assert.Equal(t, int64(0), p.TotalPages(0))
	assert.Equal(t, int64(0), p.TotalPages(-1))
}

func TestSortClause(t *testing.T) {
	allowed := map[string]string{
		"id":    "id",
		"price": "price",
		"name":  "name_en",
	}

	assert.Equal(t, "price ASC", SortClause("price", "asc", "id", allowed))
	assert.Equal(t, "name_en DESC", SortClause("name", "desc", "id", allowed))

	// unknown fields and directions fall back
	assert.Equal(t, "id DESC", SortClause("password", "asc; DROP TABLE", "id", allowed))
	assert.Equal(t, "id DESC", SortClause("", "", "id", allowed))
}

func TestOrderCreateRejectsBadInput(t *testing.T) {
	// input validation runs before any database or stock access
	repo := NewGormOrderRepository(nil, nil)

	_, err := repo.Create(context.Background(), NewOrder{})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = repo.Create(context.Background(), NewOrder{Items: []NewOrderItem{
		{ProductId: 1, Quantity: 0, Price: 10},
	}})
	assert.ErrorIs(t, err, ErrQuantityTooLow)
}
