// Package dashboard holds the collection snapshots, their projections into
// view models, and the entity forms.
package dashboard

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pricewatch/pricewatch/internal/catalog"
)

// Snapshot is an immutable copy of every collection as of its last reload.
type Snapshot struct {
	Suppliers []catalog.Supplier
	Products  []catalog.Product
	Prices    []catalog.PriceEntry
	Stats     catalog.DashboardStats
	LoadedAt  time.Time
}

// Supplier finds a supplier by id with a linear scan.
func (s *Snapshot) Supplier(id int64) (catalog.Supplier, bool) {
	for _, sup := range s.Suppliers {
		if sup.ID == id {
			return sup, true
		}
	}
	return catalog.Supplier{}, false
}

// Product finds a product by id with a linear scan.
func (s *Snapshot) Product(id int64) (catalog.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Store owns the current Snapshot. Readers never block; every replace swaps
// in a new Snapshot and leaves the previous one untouched.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

// NewStore returns a store holding empty collections.
func NewStore() *Store {
	s := &Store{now: time.Now}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// ReplaceSuppliers swaps in a new supplier collection.
func (s *Store) ReplaceSuppliers(list []catalog.Supplier) {
	s.update(func(next *Snapshot) { next.Suppliers = slices.Clone(list) })
}

// ReplaceProducts swaps in a new product collection.
func (s *Store) ReplaceProducts(list []catalog.Product) {
	s.update(func(next *Snapshot) { next.Products = slices.Clone(list) })
}

// ReplacePrices swaps in a new price entry collection.
func (s *Store) ReplacePrices(list []catalog.PriceEntry) {
	s.update(func(next *Snapshot) { next.Prices = slices.Clone(list) })
}

// ReplaceStats swaps in new summary counters.
func (s *Store) ReplaceStats(stats catalog.DashboardStats) {
	s.update(func(next *Snapshot) { next.Stats = stats })
}

func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.current.Load()
	fn(&next)
	next.LoadedAt = s.now()
	s.current.Store(&next)
}
