package dashboard

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch/internal/backend"
	"github.com/pricewatch/pricewatch/internal/backend/fakeapi"
	"github.com/pricewatch/pricewatch/internal/notify"
	"github.com/pricewatch/pricewatch/internal/shared"
	"github.com/pricewatch/pricewatch/internal/view"
)

type handlerFixture struct {
	api     *fakeapi.Server
	store   *Store
	notes   notify.Center
	handler *Handler
	router  http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	api := fakeapi.New()
	t.Cleanup(api.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine, err := view.NewEngine()
	require.NoError(t, err)

	client := backend.NewClient(api.URL, backend.WithLogger(logger))
	store := NewStore()
	loader := NewLoader(client, store, logger)
	require.NoError(t, loader.LoadAll(context.Background()))

	notes := notify.NewRedisCenter(rdb)
	h := NewHandler(logger, store, NewForms(client, loader, notes, logger), notes, engine, shared.NewCSRFManager("secret"))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return &handlerFixture{api: api, store: store, notes: notes, handler: h, router: r}
}

func (f *handlerFixture) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateSupplierEndToEnd(t *testing.T) {
	f := newHandlerFixture(t)
	assert.Equal(t, 0, f.store.Snapshot().Stats.TotalSuppliers)

	rec := f.do(t, http.MethodPost, "/suppliers", url.Values{
		"name":     {"Acme"},
		"contact":  {"a@x.com"},
		"location": {"NYC"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/suppliers", rec.Header().Get("Location"))

	assert.Equal(t, 1, f.api.Calls(http.MethodPost, "/api/suppliers"))
	assert.Equal(t, 2, f.api.Calls(http.MethodGet, "/api/suppliers"), "initial load plus one reload")
	assert.Equal(t, 2, f.api.Calls(http.MethodGet, "/api/dashboard-stats"))
	assert.Equal(t, 1, f.api.Calls(http.MethodGet, "/api/products"))

	snap := f.store.Snapshot()
	assert.Equal(t, 1, snap.Stats.TotalSuppliers)
	require.Len(t, snap.Suppliers, 1)
	assert.Equal(t, "Acme", snap.Suppliers[0].Name)

	page := f.do(t, http.MethodGet, "/suppliers", nil)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "a@x.com")
	assert.Contains(t, body, "Supplier added successfully!")
	assert.NotContains(t, body, "No suppliers added yet")
	assert.NotContains(t, body, `id="supplier-form"`)
}

func TestCreateSupplierBackendFailure(t *testing.T) {
	f := newHandlerFixture(t)
	f.api.FailWith(http.MethodPost, "/api/suppliers", http.StatusInternalServerError)

	rec := f.do(t, http.MethodPost, "/suppliers", url.Values{"name": {"Acme"}, "contact": {"a@x.com"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="supplier-form"`)
	assert.Contains(t, body, `value="Acme"`)
	assert.Contains(t, body, `value="a@x.com"`)
	assert.Contains(t, body, "Error adding supplier")
	assert.Equal(t, 1, f.api.Calls(http.MethodGet, "/api/suppliers"), "no reload after a failed create")
}

func TestCreatePriceRejectsNonNumeric(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/prices", url.Values{"supplier_id": {"1"}, "product_id": {"1"}, "price": {"abc"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a numeric price")
	assert.Contains(t, rec.Body.String(), "Error adding price")
	assert.Equal(t, 0, f.api.Calls(http.MethodPost, "/api/prices"))
}

func TestEmptyStatesRender(t *testing.T) {
	f := newHandlerFixture(t)

	assert.Contains(t, f.do(t, http.MethodGet, "/suppliers", nil).Body.String(), "No suppliers added yet")
	assert.Contains(t, f.do(t, http.MethodGet, "/products", nil).Body.String(), "No products added yet")
	assert.Contains(t, f.do(t, http.MethodGet, "/prices", nil).Body.String(), "No price entries yet")
	assert.Contains(t, f.do(t, http.MethodGet, "/", nil).Body.String(), "No price entries yet")
}

func TestFormOpenQuery(t *testing.T) {
	f := newHandlerFixture(t)

	assert.NotContains(t, f.do(t, http.MethodGet, "/products", nil).Body.String(), `id="product-form"`)
	assert.Contains(t, f.do(t, http.MethodGet, "/products?form=open", nil).Body.String(), `id="product-form"`)
}

func TestCreatePriceReloadsPrices(t *testing.T) {
	f := newHandlerFixture(t)
	f.api.SeedSupplier("Acme", "", "")
	f.api.SeedProduct("Rice", "", "kg")

	rec := f.do(t, http.MethodPost, "/prices", url.Values{"supplier_id": {"1"}, "product_id": {"1"}, "price": {"4.5"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, f.store.Snapshot().Prices, 1)
	assert.Equal(t, 1, f.store.Snapshot().Stats.TotalPriceEntries)
}

func TestRenderFailureReturnsServerError(t *testing.T) {
	f := newHandlerFixture(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	f.handler.render(rec, req, "pages/missing.html", map[string]any{}, http.StatusOK)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<nav")
}
