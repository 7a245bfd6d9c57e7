package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/internal/store"
	"github.com/openmallhq/openmall/internal/webserver"
)

// CategoryNode localized category with its children
type CategoryNode struct {
	ID       int64          `json:"id,string"`
	Slug     string         `json:"slug"`
	Name     string         `json:"name"`
	Image    string         `json:"image"`
	Sort     int            `json:"sort"`
	Children []CategoryNode `json:"children,omitempty"`
}

// registerCatalogRoutes registers category and brand browsing routes
func registerCatalogRoutes() {
	webserver.ApiGET("/categories", BrowseCategories)
	webserver.ApiGET("/brands", BrowseBrands)
}

// BrowseCategories returns the category tree with localized names.
// Categories whose parent is missing surface as roots.
func BrowseCategories(c echo.Context) error {
	rows, err := GetAppContext(c).Categories().ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, buildCategoryTree(rows, locale(c)))
}

// buildCategoryTree assembles localized nodes from the flat row list
func buildCategoryTree(rows []domain.Category, loc string) []CategoryNode {
	children := make(map[int64][]domain.Category)
	index := make(map[int64]bool, len(rows))
	for _, row := range rows {
		index[row.ID] = true
	}

	var roots []domain.Category
	for _, row := range rows {
		if row.ParentId != nil && index[*row.ParentId] {
			children[*row.ParentId] = append(children[*row.ParentId], row)
		} else {
			roots = append(roots, row)
		}
	}

	var build func(cats []domain.Category) []CategoryNode
	build = func(cats []domain.Category) []CategoryNode {
		nodes := make([]CategoryNode, 0, len(cats))
		for _, cat := range cats {
			nodes = append(nodes, CategoryNode{
				ID:       cat.ID,
				Slug:     cat.Slug,
				Name:     cat.Name(loc),
				Image:    cat.Image,
				Sort:     cat.Sort,
				Children: build(children[cat.ID]),
			})
		}
		return nodes
	}
	return build(roots)
}

// BrowseBrands lists brands, optionally only featured ones
func BrowseBrands(c echo.Context) error {
	filter := store.BrandFilter{
		Keyword:    strings.TrimSpace(c.QueryParam("q")),
		Pagination: parsePagination(c),
	}
	if v := c.QueryParam("featured"); v != "" {
		b := cast.ToBool(v)
		filter.Featured = &b
	}
	rows, total, err := GetAppContext(c).Brands().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}
	return paged(c, rows, total, filter.Pagination)
}
