package dashboard

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/pricewatch/pricewatch/internal/notify"
	"github.com/pricewatch/pricewatch/internal/shared"
	"github.com/pricewatch/pricewatch/internal/view"
)

// Handler serves the overview and the entity pages.
type Handler struct {
	logger    *slog.Logger
	store     *Store
	forms     *Forms
	notes     notify.Center
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, store *Store, forms *Forms, notes notify.Center, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, store: store, forms: forms, notes: notes, templates: templates, csrf: csrf}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showOverview)
	r.Get("/suppliers", h.showSuppliers)
	r.Post("/suppliers", h.createSupplier)
	r.Get("/products", h.showProducts)
	r.Post("/products", h.createProduct)
	r.Get("/prices", h.showPrices)
	r.Post("/prices", h.createPrice)
}

type formErrors map[string]string

func (h *Handler) showOverview(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	h.render(w, r, "pages/overview.html", map[string]any{
		"Stats":  RenderStats(snap),
		"Recent": RenderRecentPrices(snap),
	}, http.StatusOK)
}

func (h *Handler) showSuppliers(w http.ResponseWriter, r *http.Request) {
	h.renderSuppliers(w, r, formOpen(r), url.Values{}, formErrors{}, http.StatusOK)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.forms.Suppliers.Submit(r.Context(), shared.SessionKey(r.Context()), r.PostForm)
	if !res.OK {
		h.renderSuppliers(w, r, true, res.Values, res.Errors, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/suppliers", http.StatusSeeOther)
}

func (h *Handler) renderSuppliers(w http.ResponseWriter, r *http.Request, open bool, values url.Values, errs formErrors, status int) {
	snap := h.store.Snapshot()
	h.render(w, r, "pages/suppliers.html", map[string]any{
		"Stats":    RenderStats(snap),
		"List":     RenderSuppliers(snap),
		"FormOpen": open,
		"Values":   values,
		"Errors":   errs,
	}, status)
}

func (h *Handler) showProducts(w http.ResponseWriter, r *http.Request) {
	h.renderProducts(w, r, formOpen(r), url.Values{}, formErrors{}, http.StatusOK)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.forms.Products.Submit(r.Context(), shared.SessionKey(r.Context()), r.PostForm)
	if !res.OK {
		h.renderProducts(w, r, true, res.Values, res.Errors, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) renderProducts(w http.ResponseWriter, r *http.Request, open bool, values url.Values, errs formErrors, status int) {
	snap := h.store.Snapshot()
	h.render(w, r, "pages/products.html", map[string]any{
		"Stats":    RenderStats(snap),
		"List":     RenderProducts(snap),
		"FormOpen": open,
		"Values":   values,
		"Errors":   errs,
	}, status)
}

func (h *Handler) showPrices(w http.ResponseWriter, r *http.Request) {
	h.renderPrices(w, r, url.Values{}, formErrors{}, http.StatusOK)
}

func (h *Handler) createPrice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.forms.Prices.Submit(r.Context(), shared.SessionKey(r.Context()), r.PostForm)
	if !res.OK {
		h.renderPrices(w, r, res.Values, res.Errors, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/prices", http.StatusSeeOther)
}

// renderPrices shows the price form, which is always visible.
func (h *Handler) renderPrices(w http.ResponseWriter, r *http.Request, values url.Values, errs formErrors, status int) {
	snap := h.store.Snapshot()
	h.render(w, r, "pages/prices.html", map[string]any{
		"Stats":     RenderStats(snap),
		"Recent":    RenderRecentPrices(snap),
		"Suppliers": SupplierOptions(snap, values.Get("supplier_id")),
		"Products":  ProductOptions(snap, "Select a product", values.Get("product_id")),
		"Values":    values,
		"Errors":    errs,
	}, status)
}

func formOpen(r *http.Request) bool {
	return r.URL.Query().Get("form") == "open"
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	ctx := r.Context()
	csrfToken, _ := h.csrf.EnsureToken(shared.SessionFromContext(ctx))
	messages, err := h.notes.Active(ctx, shared.SessionKey(ctx))
	if err != nil {
		h.logger.Warn("load notifications", slog.Any("error", err))
	}
	viewData := view.TemplateData{
		Title:         "Price Comparison Dashboard",
		CSRFToken:     csrfToken,
		Notifications: messages,
		CurrentPath:   r.URL.Path,
		Data:          data,
	}
	var buf bytes.Buffer
	if err := h.templates.Render(&buf, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
