package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProductLocaleFallback(t *testing.T) {
	p := Product{NameEn: "Mug", NameFr: "Tasse", DescriptionEn: "A mug"}

	assert.Equal(t, "Mug", p.Name("en"))
	assert.Equal(t, "Tasse", p.Name("fr"))
	// missing translation falls back to English
	assert.Equal(t, "Mug", p.Name("es"))
	assert.Equal(t, "Mug", p.Name("de"))
	assert.Equal(t, "A mug", p.Description("fr"))
}

func TestCategoryLocaleFallback(t *testing.T) {
	c := Category{NameEn: "Books", NameEs: "Libros"}
	assert.Equal(t, "Libros", c.Name("es"))
	assert.Equal(t, "Books", c.Name("fr"))
}

func TestFlashDealRunning(t *testing.T) {
	now := time.Now()
	deal := FlashDeal{
		Active:  true,
		StartAt: now.Add(-time.Hour),
		EndAt:   now.Add(time.Hour),
	}
	assert.True(t, deal.Running(now))

	// inactive deals never run, whatever the window says
	deal.Active = false
	assert.False(t, deal.Running(now))

	deal.Active = true
	assert.False(t, deal.Running(now.Add(2*time.Hour)))
	assert.False(t, deal.Running(now.Add(-2*time.Hour)))
	// the window start is inclusive, the end exclusive
	assert.True(t, deal.Running(deal.StartAt))
	assert.False(t, deal.Running(deal.EndAt))

	// a sold counter past the stock cap does not stop the deal
	deal.TotalStock = 5
	deal.SoldCount = 9
	assert.True(t, deal.Running(now))
}

func TestBannerVisible(t *testing.T) {
	now := time.Now()

	// zero bounds mean always visible while active
	b := Banner{Active: true}
	assert.True(t, b.Visible(now))

	b.StartAt = now.Add(time.Hour)
	assert.False(t, b.Visible(now))

	b.StartAt = now.Add(-time.Hour)
	b.EndAt = now.Add(time.Hour)
	assert.True(t, b.Visible(now))
	assert.False(t, b.Visible(now.Add(2*time.Hour)))

	b.Active = false
	assert.False(t, b.Visible(now))
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: 19.99}
	assert.InDelta(t, 59.97, item.Subtotal(), 0.0001)

	assert.Zero(t, OrderItem{Quantity: 0, Price: 100}.Subtotal())
}

func TestSysOprIsAdmin(t *testing.T) {
	assert.True(t, SysOpr{Level: OprLevelSuper}.IsAdmin())
	assert.True(t, SysOpr{Level: OprLevelAdmin}.IsAdmin())
	assert.False(t, SysOpr{Level: OprLevelCustomer}.IsAdmin())
	assert.False(t, SysOpr{}.IsAdmin())
}

func TestOrderStatusesComplete(t *testing.T) {
	assert.Len(t, OrderStatuses, 5)
	assert.Contains(t, OrderStatuses, OrderStatusCancelled)
}
