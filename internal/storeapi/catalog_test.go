package storeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmallhq/openmall/internal/domain"
)

func pid(v int64) *int64 { return &v }

func TestBuildCategoryTree(t *testing.T) {
	rows := []domain.Category{
		{ID: 1, Slug: "electronics", NameEn: "Electronics", NameFr: "Électronique"},
		{ID: 2, Slug: "phones", NameEn: "Phones", ParentId: pid(1)},
		{ID: 3, Slug: "laptops", NameEn: "Laptops", ParentId: pid(1)},
		{ID: 4, Slug: "android", NameEn: "Android", ParentId: pid(2)},
		{ID: 5, Slug: "books", NameEn: "Books"},
	}

	tree := buildCategoryTree(rows, "en")
	require.Len(t, tree, 2)

	assert.Equal(t, "Electronics", tree[0].Name)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Phones", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Android", tree[0].Children[0].Children[0].Name)

	assert.Equal(t, "Books", tree[1].Name)
	assert.Empty(t, tree[1].Children)
}

func TestBuildCategoryTreeLocalized(t *testing.T) {
	rows := []domain.Category{
		{ID: 1, Slug: "electronics", NameEn: "Electronics", NameFr: "Électronique"},
		{ID: 2, Slug: "phones", NameEn: "Phones", ParentId: pid(1)},
	}

	tree := buildCategoryTree(rows, "fr")
	require.Len(t, tree, 1)
	assert.Equal(t, "Électronique", tree[0].Name)
	// untranslated names fall back to English
	assert.Equal(t, "Phones", tree[0].Children[0].Name)
}

func TestBuildCategoryTreeOrphans(t *testing.T) {
	// a row whose parent was deleted surfaces as a root
	rows := []domain.Category{
		{ID: 7, Slug: "stray", NameEn: "Stray", ParentId: pid(999)},
	}

	tree := buildCategoryTree(rows, "en")
	require.Len(t, tree, 1)
	assert.Equal(t, "Stray", tree[0].Name)
}

func TestBuildCategoryTreeEmpty(t *testing.T) {
	assert.Empty(t, buildCategoryTree(nil, "en"))
}
