package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch/internal/catalog"
)

func at(day, hour int) catalog.Timestamp {
	return catalog.NewTimestamp(time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC))
}

func TestRenderEmptyStates(t *testing.T) {
	snap := &Snapshot{}

	suppliers := RenderSuppliers(snap)
	require.True(t, suppliers.IsEmpty())
	assert.Equal(t, "No suppliers added yet", suppliers.Empty.Title)
	assert.Equal(t, "Add your first supplier to get started", suppliers.Empty.Hint)

	products := RenderProducts(snap)
	require.True(t, products.IsEmpty())
	assert.Equal(t, "No products added yet", products.Empty.Title)
	assert.Equal(t, "Add your first product to get started", products.Empty.Hint)

	prices := RenderRecentPrices(snap)
	require.True(t, prices.IsEmpty())
	assert.Equal(t, "No price entries yet", prices.Empty.Title)
	assert.Equal(t, "Add a price entry to start comparing suppliers", prices.Empty.Hint)
}

func TestRenderSuppliersFallbacks(t *testing.T) {
	snap := &Snapshot{Suppliers: []catalog.Supplier{
		{ID: 1, Name: "Acme", Contact: "a@x.com", Location: "NYC", CreatedAt: at(1, 9)},
		{ID: 2, Name: "Bolt"},
	}}

	view := RenderSuppliers(snap)
	require.False(t, view.IsEmpty())
	require.Len(t, view.Items, 2)
	assert.Equal(t, Item{
		Title:  "Acme",
		Fields: []Field{{Label: "Contact", Value: "a@x.com"}, {Label: "Location", Value: "NYC"}},
		Added:  "01 May 2024 09:00",
	}, view.Items[0])
	assert.Equal(t, []Field{{Label: "Contact", Value: "Not provided"}, {Label: "Location", Value: "Not provided"}}, view.Items[1].Fields)
	assert.Empty(t, view.Items[1].Added)
}

func TestRenderProductsFallbacks(t *testing.T) {
	snap := &Snapshot{Products: []catalog.Product{{ID: 1, Name: "Rice", Unit: "kg"}}}

	view := RenderProducts(snap)
	require.Len(t, view.Items, 1)
	assert.Equal(t, []Field{{Label: "Category", Value: "Not specified"}, {Label: "Unit", Value: "kg"}}, view.Items[0].Fields)
}

func TestRenderRecentPricesResolvesNames(t *testing.T) {
	snap := &Snapshot{
		Suppliers: []catalog.Supplier{{ID: 1, Name: "Acme"}},
		Products:  []catalog.Product{{ID: 1, Name: "Rice"}},
		Prices: []catalog.PriceEntry{
			{ID: 1, SupplierID: 1, ProductID: 1, Price: decimal.RequireFromString("9.5"), Date: at(1, 9)},
			{ID: 2, SupplierID: 7, ProductID: 8, Price: decimal.RequireFromString("3"), Notes: "promo", Date: at(2, 9)},
		},
	}

	view := RenderRecentPrices(snap)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Unknown Product - 3.00", view.Items[0].Title)
	assert.Equal(t, []Field{{Label: "Supplier", Value: "Unknown Supplier"}, {Label: "Notes", Value: "promo"}}, view.Items[0].Fields)
	assert.Equal(t, "Rice - 9.50", view.Items[1].Title)
	assert.Equal(t, []Field{{Label: "Supplier", Value: "Acme"}, {Label: "Notes", Value: "No notes"}}, view.Items[1].Fields)
}

func TestRenderRecentPricesKeepsNewestTen(t *testing.T) {
	snap := &Snapshot{}
	for i := 1; i <= 12; i++ {
		snap.Prices = append(snap.Prices, catalog.PriceEntry{
			ID:    int64(i),
			Price: decimal.NewFromInt(int64(i)),
			Date:  at(i, 0),
		})
	}

	view := RenderRecentPrices(snap)
	require.Len(t, view.Items, RecentPriceLimit)
	assert.Equal(t, "Unknown Product - 12.00", view.Items[0].Title)
	assert.Equal(t, "Unknown Product - 3.00", view.Items[9].Title)
}

func TestRenderStatsGroupsDigits(t *testing.T) {
	stats := RenderStats(&Snapshot{Stats: catalog.DashboardStats{
		TotalSuppliers:    3,
		TotalProducts:     1200,
		TotalPriceEntries: 1234567,
	}})
	assert.Equal(t, StatsView{Suppliers: "3", Products: "1,200", PriceEntries: "1,234,567", RecentUpdates: "0"}, stats)
}

func TestSelectOptions(t *testing.T) {
	snap := &Snapshot{
		Suppliers: []catalog.Supplier{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Bolt"}},
		Products:  []catalog.Product{{ID: 5, Name: "Rice"}},
	}

	sup := SupplierOptions(snap, "2")
	assert.Equal(t, "Select a supplier", sup.Placeholder)
	assert.Equal(t, []Option{{Value: "1", Label: "Acme"}, {Value: "2", Label: "Bolt", Selected: true}}, sup.Options)

	prod := ProductOptions(snap, "Choose a product", "")
	assert.Equal(t, "Choose a product", prod.Placeholder)
	assert.Equal(t, []Option{{Value: "5", Label: "Rice"}}, prod.Options)
}
