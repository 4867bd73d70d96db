// Package compare implements the per-session price comparison view.
package compare

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pricewatch/pricewatch/internal/catalog"
)

// ErrSuperseded is returned by Select when a newer selection replaced the
// one being loaded. Its response is dropped.
var ErrSuperseded = errors.New("compare: selection superseded")

// Phase is the display phase of a View.
type Phase string

const (
	// PhaseIdle means no product is selected.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a comparison fetch is in flight.
	PhaseLoading Phase = "loading"
	// PhaseDisplayed means rows, an empty result or a failure are shown.
	PhaseDisplayed Phase = "displayed"
)

// Fetcher loads comparison entries for a product.
type Fetcher interface {
	PriceComparison(ctx context.Context, productID int64) ([]catalog.ComparisonEntry, error)
}

// State is a copy of a View at one point in time.
type State struct {
	Phase      Phase
	ProductID  int64
	Rows       []catalog.ComparisonRow
	Failed     bool
	Generation uint64
}

// View holds the comparison for one browser session. Every Select or Clear
// takes a new generation; a response is applied only while its generation
// is still the latest.
type View struct {
	fetcher Fetcher
	gen     atomic.Uint64

	mu    sync.Mutex
	state State
}

// NewView returns an idle View.
func NewView(fetcher Fetcher) *View {
	return &View{fetcher: fetcher, state: State{Phase: PhaseIdle}}
}

// Begin starts a new selection: previous rows are discarded and the view
// moves to loading. The returned generation identifies the selection.
func (v *View) Begin(productID int64) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	token := v.gen.Add(1)
	v.state = State{Phase: PhaseLoading, ProductID: productID, Generation: token}
	return token
}

// Load fetches entries for the selection identified by token and applies
// them if no newer selection has started.
func (v *View) Load(ctx context.Context, token uint64, productID int64) (State, error) {
	entries, err := v.fetcher.PriceComparison(ctx, productID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.Load() != token {
		return v.copyState(), ErrSuperseded
	}
	if err != nil {
		v.state = State{Phase: PhaseDisplayed, ProductID: productID, Failed: true, Generation: token}
		return v.copyState(), err
	}
	v.state = State{Phase: PhaseDisplayed, ProductID: productID, Rows: Rank(entries), Generation: token}
	return v.copyState(), nil
}

// Select begins a selection and loads it.
func (v *View) Select(ctx context.Context, productID int64) (State, error) {
	token := v.Begin(productID)
	return v.Load(ctx, token, productID)
}

// Clear returns the view to idle and invalidates any load in flight.
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	token := v.gen.Add(1)
	v.state = State{Phase: PhaseIdle, Generation: token}
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copyState()
}

func (v *View) copyState() State {
	out := v.state
	out.Rows = slices.Clone(v.state.Rows)
	return out
}

// Rank orders entries by ascending price, keeping the response order among
// equal prices, and flags the first row as the best price.
func Rank(entries []catalog.ComparisonEntry) []catalog.ComparisonRow {
	rows := make([]catalog.ComparisonRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, catalog.ComparisonRow{
			SupplierName: e.SupplierName,
			Price:        e.Price,
			Notes:        e.Notes,
			Date:         e.Date,
		})
	}
	slices.SortStableFunc(rows, func(a, b catalog.ComparisonRow) int {
		return a.Price.Cmp(b.Price)
	})
	if len(rows) > 0 {
		rows[0].Best = true
	}
	return rows
}
