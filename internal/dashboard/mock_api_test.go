package dashboard

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pricewatch/pricewatch/internal/catalog"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) DashboardStats(ctx context.Context) (catalog.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.DashboardStats), args.Error(1)
}

func (m *mockAPI) ListSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Supplier), args.Error(1)
}

func (m *mockAPI) CreateSupplier(ctx context.Context, in catalog.SupplierInput) (catalog.Supplier, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(catalog.Supplier), args.Error(1)
}

func (m *mockAPI) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockAPI) CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(catalog.Product), args.Error(1)
}

func (m *mockAPI) ListPrices(ctx context.Context) ([]catalog.PriceEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.PriceEntry), args.Error(1)
}

func (m *mockAPI) CreatePrice(ctx context.Context, in catalog.PriceInput) (catalog.PriceEntry, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(catalog.PriceEntry), args.Error(1)
}
