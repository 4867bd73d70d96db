package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pricewatch/pricewatch/internal/catalog"
)

// API is the subset of the price API client used by the dashboard.
type API interface {
	DashboardStats(ctx context.Context) (catalog.DashboardStats, error)
	ListSuppliers(ctx context.Context) ([]catalog.Supplier, error)
	CreateSupplier(ctx context.Context, in catalog.SupplierInput) (catalog.Supplier, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	ListPrices(ctx context.Context) ([]catalog.PriceEntry, error)
	CreatePrice(ctx context.Context, in catalog.PriceInput) (catalog.PriceEntry, error)
}

// Loader refreshes Store collections from the API. A failed reload leaves
// the previous snapshot in place.
type Loader struct {
	api    API
	store  *Store
	logger *slog.Logger
}

// NewLoader constructs a Loader.
func NewLoader(api API, store *Store, logger *slog.Logger) *Loader {
	return &Loader{api: api, store: store, logger: logger}
}

// ReloadSuppliers replaces the supplier collection.
func (l *Loader) ReloadSuppliers(ctx context.Context) error {
	list, err := l.api.ListSuppliers(ctx)
	if err != nil {
		return fmt.Errorf("reload suppliers: %w", err)
	}
	l.store.ReplaceSuppliers(list)
	return nil
}

// ReloadProducts replaces the product collection.
func (l *Loader) ReloadProducts(ctx context.Context) error {
	list, err := l.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("reload products: %w", err)
	}
	l.store.ReplaceProducts(list)
	return nil
}

// ReloadPrices replaces the price entry collection.
func (l *Loader) ReloadPrices(ctx context.Context) error {
	list, err := l.api.ListPrices(ctx)
	if err != nil {
		return fmt.Errorf("reload prices: %w", err)
	}
	l.store.ReplacePrices(list)
	return nil
}

// ReloadStats replaces the dashboard counters.
func (l *Loader) ReloadStats(ctx context.Context) error {
	stats, err := l.api.DashboardStats(ctx)
	if err != nil {
		return fmt.Errorf("reload stats: %w", err)
	}
	l.store.ReplaceStats(stats)
	return nil
}

// LoadAll performs the initial load. The four requests are independent: one
// failing does not cancel the others.
func (l *Loader) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	for _, reload := range []func(context.Context) error{
		l.ReloadStats,
		l.ReloadSuppliers,
		l.ReloadProducts,
		l.ReloadPrices,
	} {
		reload := reload
		g.Go(func() error {
			if err := reload(ctx); err != nil {
				l.logger.Error("initial load", slog.Any("error", err))
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
