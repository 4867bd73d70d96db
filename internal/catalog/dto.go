package catalog

import "github.com/shopspring/decimal"

// SupplierInput is the body of a create supplier request.
type SupplierInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Contact  string `json:"contact" validate:"max=200"`
	Location string `json:"location" validate:"max=200"`
}

// ProductInput is the body of a create product request.
type ProductInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"max=100"`
	Unit     string `json:"unit" validate:"required,max=50"`
}

// PriceInput carries a parsed price entry submission.
type PriceInput struct {
	SupplierID int64           `json:"supplier_id" validate:"required,gt=0"`
	ProductID  int64           `json:"product_id" validate:"required,gt=0"`
	Price      decimal.Decimal `json:"price" validate:"price_positive,price_range"`
	Notes      string          `json:"notes" validate:"max=500"`
}
