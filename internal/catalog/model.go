// Package catalog defines the records exchanged with the price API.
package catalog

import "github.com/shopspring/decimal"

// Supplier represents a supplier entity.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Location  string    `json:"location"`
	CreatedAt Timestamp `json:"created_at"`
}

// Product represents a tracked good.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	CreatedAt Timestamp `json:"created_at"`
}

// PriceEntry is a quote of a product's price from a single supplier.
type PriceEntry struct {
	ID         int64           `json:"id"`
	SupplierID int64           `json:"supplier_id"`
	ProductID  int64           `json:"product_id"`
	Price      decimal.Decimal `json:"price"`
	Notes      string          `json:"notes"`
	Date       Timestamp       `json:"date"`
}

// ComparisonEntry is one element of the price comparison response: the
// latest entry per supplier joined with the supplier name.
type ComparisonEntry struct {
	PriceEntry
	SupplierName string `json:"supplier_name"`
}

// DashboardStats summarises the backend collections.
type DashboardStats struct {
	TotalSuppliers    int `json:"total_suppliers"`
	TotalProducts     int `json:"total_products"`
	TotalPriceEntries int `json:"total_price_entries"`
	RecentUpdates     int `json:"recent_updates"`
}

// ComparisonRow is a ranked comparison line ready for display.
type ComparisonRow struct {
	SupplierName string
	Price        decimal.Decimal
	Notes        string
	Date         Timestamp
	Best         bool
}
