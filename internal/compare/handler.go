package compare

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pricewatch/pricewatch/internal/dashboard"
	"github.com/pricewatch/pricewatch/internal/notify"
	"github.com/pricewatch/pricewatch/internal/shared"
	"github.com/pricewatch/pricewatch/internal/view"
)

// Handler serves the comparison page and its polled results fragment.
type Handler struct {
	logger       *slog.Logger
	registry     *Registry
	store        *dashboard.Store
	notes        notify.Center
	templates    *view.Engine
	csrf         *shared.CSRFManager
	fetchTimeout time.Duration
	loads        sync.WaitGroup
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, registry *Registry, store *dashboard.Store, notes notify.Center, templates *view.Engine, csrf *shared.CSRFManager, fetchTimeout time.Duration) *Handler {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &Handler{logger: logger, registry: registry, store: store, notes: notes, templates: templates, csrf: csrf, fetchTimeout: fetchTimeout}
}

// MountRoutes registers comparison routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/compare", h.showCompare)
	r.Get("/compare/results", h.showResults)
}

// Wait blocks until background loads have finished.
func (h *Handler) Wait() {
	h.loads.Wait()
}

func (h *Handler) showCompare(w http.ResponseWriter, r *http.Request) {
	key := shared.SessionKey(r.Context())
	v := h.registry.View(key)

	raw := r.URL.Query().Get("product_id")
	if _, present := r.URL.Query()["product_id"]; present {
		if raw == "" {
			v.Clear()
		} else {
			productID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || productID <= 0 {
				http.Error(w, "invalid product id", http.StatusBadRequest)
				return
			}
			h.start(v, productID)
		}
	}

	state := v.Snapshot()
	snap := h.store.Snapshot()
	selected := ""
	if state.Phase != PhaseIdle {
		selected = strconv.FormatInt(state.ProductID, 10)
	}
	h.render(w, r, "pages/compare.html", map[string]any{
		"Products": dashboard.ProductOptions(snap, "Choose a product", selected),
		"Result":   Render(state, h.productName(state.ProductID)),
	}, http.StatusOK)
}

func (h *Handler) showResults(w http.ResponseWriter, r *http.Request) {
	state := h.registry.View(shared.SessionKey(r.Context())).Snapshot()
	h.render(w, r, "partials/compare_results.html", map[string]any{
		"Result": Render(state, h.productName(state.ProductID)),
	}, http.StatusOK)
}

// start moves the view to loading and fetches in the background so the page
// can show the loading state. The fetch outlives the request.
func (h *Handler) start(v *View, productID int64) {
	token := v.Begin(productID)
	h.loads.Add(1)
	go func() {
		defer h.loads.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.fetchTimeout)
		defer cancel()
		_, err := v.Load(ctx, token, productID)
		switch {
		case errors.Is(err, ErrSuperseded):
			h.logger.Debug("comparison superseded", slog.Int64("product_id", productID))
		case err != nil:
			h.logger.Error("load comparison", slog.Int64("product_id", productID), slog.Any("error", err))
		}
	}()
}

func (h *Handler) productName(id int64) string {
	if p, ok := h.store.Snapshot().Product(id); ok {
		return p.Name
	}
	return ""
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	ctx := r.Context()
	csrfToken, _ := h.csrf.EnsureToken(shared.SessionFromContext(ctx))
	messages, err := h.notes.Active(ctx, shared.SessionKey(ctx))
	if err != nil {
		h.logger.Warn("load notifications", slog.Any("error", err))
	}
	viewData := view.TemplateData{
		Title:         "Price Comparison",
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
