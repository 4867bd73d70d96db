package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch/internal/catalog"
	"github.com/pricewatch/pricewatch/internal/notify"
)

const sessionKey = "sess-1"

type formFixture struct {
	api   *mockAPI
	store *Store
	notes *notify.MemoryCenter
	forms *Forms
}

func newFormFixture() *formFixture {
	api := &mockAPI{}
	store := NewStore()
	notes := notify.NewMemoryCenter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &formFixture{
		api:   api,
		store: store,
		notes: notes,
		forms: NewForms(api, NewLoader(api, store, logger), notes, logger),
	}
}

func (f *formFixture) texts(t *testing.T) []string {
	t.Helper()
	msgs, err := f.notes.Active(context.Background(), sessionKey)
	require.NoError(t, err)
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestSupplierSubmitReloadsOnce(t *testing.T) {
	f := newFormFixture()
	in := catalog.SupplierInput{Name: "Acme", Contact: "a@x.com", Location: "NYC"}
	f.api.On("CreateSupplier", mock.Anything, in).Return(catalog.Supplier{ID: 1, Name: "Acme"}, nil).Once()
	f.api.On("ListSuppliers", mock.Anything).Return([]catalog.Supplier{{ID: 1, Name: "Acme"}}, nil).Once()
	f.api.On("DashboardStats", mock.Anything).Return(catalog.DashboardStats{TotalSuppliers: 1}, nil).Once()

	res := f.forms.Suppliers.Submit(context.Background(), sessionKey, url.Values{
		"name":     {"Acme"},
		"contact":  {"a@x.com"},
		"location": {"NYC"},
	})

	assert.True(t, res.OK)
	f.api.AssertExpectations(t)
	f.api.AssertNumberOfCalls(t, "ListSuppliers", 1)
	f.api.AssertNumberOfCalls(t, "DashboardStats", 1)
	f.api.AssertNotCalled(t, "ListProducts", mock.Anything)
	f.api.AssertNotCalled(t, "ListPrices", mock.Anything)

	snap := f.store.Snapshot()
	require.Len(t, snap.Suppliers, 1)
	assert.Equal(t, 1, snap.Stats.TotalSuppliers)
	assert.Equal(t, []string{"Supplier added successfully!"}, f.texts(t))
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	f := newFormFixture()
	f.api.On("CreateProduct", mock.Anything, mock.Anything).Return(catalog.Product{}, errors.New("status 500")).Once()

	values := url.Values{"name": {"Rice"}, "category": {"Grains"}, "unit": {"kg"}}
	res := f.forms.Products.Submit(context.Background(), sessionKey, values)

	assert.False(t, res.OK)
	assert.Equal(t, values, res.Values)
	f.api.AssertNotCalled(t, "ListProducts", mock.Anything)
	f.api.AssertNotCalled(t, "DashboardStats", mock.Anything)
	assert.Equal(t, []string{"Error adding product"}, f.texts(t))
}

func TestSubmitMissingRequiredFieldMakesNoCall(t *testing.T) {
	f := newFormFixture()

	res := f.forms.Suppliers.Submit(context.Background(), sessionKey, url.Values{"contact": {"a@x.com"}})

	assert.False(t, res.OK)
	assert.Equal(t, "This field is required", res.Errors["name"])
	f.api.AssertNotCalled(t, "CreateSupplier", mock.Anything, mock.Anything)
	assert.Equal(t, []string{"Error adding supplier"}, f.texts(t))
}

func TestPriceSubmitRejectsNonNumericPrice(t *testing.T) {
	f := newFormFixture()

	res := f.forms.Prices.Submit(context.Background(), sessionKey, url.Values{
		"supplier_id": {"1"},
		"product_id":  {"2"},
		"price":       {"abc"},
	})

	assert.False(t, res.OK)
	assert.Equal(t, "Enter a numeric price", res.Errors["price"])
	f.api.AssertNotCalled(t, "CreatePrice", mock.Anything, mock.Anything)
	assert.Equal(t, []string{"Error adding price"}, f.texts(t))
}

func TestPriceSubmitRequiresSelections(t *testing.T) {
	f := newFormFixture()

	res := f.forms.Prices.Submit(context.Background(), sessionKey, url.Values{"price": {"4.20"}})

	assert.False(t, res.OK)
	assert.Equal(t, "Select a supplier", res.Errors["supplier_id"])
	assert.Equal(t, "Select a product", res.Errors["product_id"])
	f.api.AssertNotCalled(t, "CreatePrice", mock.Anything, mock.Anything)
}

func TestPriceSubmitRejectsNonPositivePrice(t *testing.T) {
	f := newFormFixture()

	res := f.forms.Prices.Submit(context.Background(), sessionKey, url.Values{
		"supplier_id": {"1"},
		"product_id":  {"2"},
		"price":       {"0"},
	})

	assert.False(t, res.OK)
	assert.Equal(t, "Must be greater than zero", res.Errors["price"])
	f.api.AssertNotCalled(t, "CreatePrice", mock.Anything, mock.Anything)
}

func TestPriceSubmitRejectsOutOfRangePrice(t *testing.T) {
	for _, price := range []string{"1e400", "1e-400"} {
		f := newFormFixture()

		res := f.forms.Prices.Submit(context.Background(), sessionKey, url.Values{
			"supplier_id": {"1"},
			"product_id":  {"2"},
			"price":       {price},
		})

		assert.False(t, res.OK, price)
		assert.Equal(t, "Must be between 0.01 and 1000000000000", res.Errors["price"], price)
		f.api.AssertNotCalled(t, "CreatePrice", mock.Anything, mock.Anything)
	}
}

func TestPriceSubmitSendsParsedRecord(t *testing.T) {
	f := newFormFixture()
	f.api.On("CreatePrice", mock.Anything, mock.MatchedBy(func(in catalog.PriceInput) bool {
		return in.SupplierID == 1 && in.ProductID == 2 && in.Price.Equal(decimal.RequireFromString("12.5")) && in.Notes == "bulk"
	})).Return(catalog.PriceEntry{ID: 1}, nil).Once()
	f.api.On("ListPrices", mock.Anything).Return([]catalog.PriceEntry{{ID: 1}}, nil).Once()
	f.api.On("DashboardStats", mock.Anything).Return(catalog.DashboardStats{TotalPriceEntries: 1}, nil).Once()

	res := f.forms.Prices.Submit(context.Background(), sessionKey, url.Values{
		"supplier_id": {"1"},
		"product_id":  {"2"},
		"price":       {"12.50"},
		"notes":       {"bulk"},
	})

	assert.True(t, res.OK)
	f.api.AssertExpectations(t)
	assert.Equal(t, []string{"Price added successfully!"}, f.texts(t))
}

func TestFailedReloadSurfacesLoadError(t *testing.T) {
	f := newFormFixture()
	f.store.ReplaceSuppliers([]catalog.Supplier{{ID: 1, Name: "Old"}})
	f.api.On("CreateSupplier", mock.Anything, mock.Anything).Return(catalog.Supplier{ID: 2}, nil).Once()
	f.api.On("ListSuppliers", mock.Anything).Return([]catalog.Supplier(nil), errors.New("down")).Once()
	f.api.On("DashboardStats", mock.Anything).Return(catalog.DashboardStats{}, errors.New("down")).Once()

	res := f.forms.Suppliers.Submit(context.Background(), sessionKey, url.Values{"name": {"New"}})

	assert.True(t, res.OK)
	assert.ElementsMatch(t, []string{"Supplier added successfully!", "Error loading suppliers"}, f.texts(t))
	assert.Equal(t, "Old", f.store.Snapshot().Suppliers[0].Name, "previous snapshot is kept")
}
