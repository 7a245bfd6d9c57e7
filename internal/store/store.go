package store

import (
	"strings"

	"gorm.io/gorm"
)

// Repository layer: one interface + GORM implementation per entity. List
// methods take a flat filter of optional predicates plus pagination and
// return (rows, total).

// Pagination normalized page/page_size pair
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane bounds
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 10
	}
	return p
}

// Offset returns the row offset for the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the page count for total rows
func (p Pagination) TotalPages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	pages := total / int64(p.PageSize)
	if total%int64(p.PageSize) != 0 {
		pages++
	}
	return pages
}

// SortClause builds an ORDER BY clause from a whitelisted field and
// direction, falling back to the default column.
func SortClause(field, order, fallback string, allowed map[string]string) string {
	col, okField := allowed[strings.TrimSpace(field)]
	if !okField || col == "" {
		col = fallback
	}
	dir := strings.ToUpper(strings.TrimSpace(order))
	if dir != "ASC" && dir != "DESC" {
		dir = "DESC"
	}
	return col + " " + dir
}

// likeClause applies a case-insensitive LIKE across columns, using ILIKE on
// postgres and LOWER() elsewhere.
func likeClause(db *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return db
	}
	if strings.EqualFold(db.Name(), "postgres") {
		var conds []string
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			conds = append(conds, col+" ILIKE ?")
			args = append(args, "%"+keyword+"%")
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
	var conds []string
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, "%"+strings.ToLower(keyword)+"%")
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}
