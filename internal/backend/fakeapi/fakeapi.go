// Package fakeapi serves an in-memory implementation of the price API for
// tests and local development.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const isoLayout = "2006-01-02T15:04:05.000000"

type supplier struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

type product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Unit      string `json:"unit"`
	CreatedAt string `json:"created_at"`
}

type price struct {
	ID         int64   `json:"id"`
	SupplierID int64   `json:"supplier_id"`
	ProductID  int64   `json:"product_id"`
	Price      float64 `json:"price"`
	Date       string  `json:"date"`
	Notes      string  `json:"notes"`
}

type comparison struct {
	price
	SupplierName string `json:"supplier_name"`
}

// Server is a fake price API backed by memory.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	now       func() time.Time
	suppliers []supplier
	products  []product
	prices    []price
	calls     map[string]int
	failures  map[string]int
	bodies    map[string][]byte
}

// New starts a fake API. Callers must Close it.
func New() *Server {
	s := &Server{
		now:      time.Now,
		calls:    make(map[string]int),
		failures: make(map[string]int),
		bodies:   make(map[string][]byte),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// SetClock overrides the clock used for created_at and date fields.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailWith makes every subsequent request to method+path answer with status.
// A zero status clears the failure.
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method+" "+path)
		return
	}
	s.failures[method+" "+path] = status
}

// Calls returns how many requests hit method+path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// LastBody returns the last request body received on method+path.
func (s *Server) LastBody(method, path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.bodies[method+" "+path]...)
}

// SeedSupplier stores a supplier directly and returns its id.
func (s *Server) SeedSupplier(name, contact, location string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSupplier(name, contact, location)
}

// SeedProduct stores a product directly and returns its id.
func (s *Server) SeedProduct(name, category, unit string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProduct(name, category, unit)
}

// SeedPrice stores a price entry directly and returns its id.
func (s *Server) SeedPrice(supplierID, productID int64, amount float64, notes string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPrice(supplierID, productID, amount, notes)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.track)
	r.Get("/api/dashboard-stats", s.stats)
	r.Get("/api/suppliers", s.listSuppliers)
	r.Post("/api/suppliers", s.createSupplier)
	r.Get("/api/products", s.listProducts)
	r.Post("/api/products", s.createProduct)
	r.Get("/api/prices", s.listPrices)
	r.Post("/api/prices", s.createPrice)
	r.Get("/api/price-comparison/{productID}", s.comparison)
	return r
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.calls[key]++
		s.bodies[key] = body
		status := s.failures[key]
		s.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	recent := 0
	for _, p := range s.prices {
		if at, err := time.Parse(isoLayout, p.Date); err == nil && now.Sub(at) < 8*24*time.Hour {
			recent++
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"total_suppliers":     len(s.suppliers),
		"total_products":      len(s.products),
		"total_price_entries": len(s.prices),
		"recent_updates":      recent,
	})
}

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]supplier{}, s.suppliers...))
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Contact  string `json:"contact"`
		Location string `json:"location"`
	}
	if !decode(r, &in) || in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.addSupplier(in.Name, in.Contact, in.Location)
	writeJSON(w, http.StatusCreated, s.suppliers[id-1])
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]product{}, s.products...))
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Unit     string `json:"unit"`
	}
	if !decode(r, &in) || in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.addProduct(in.Name, in.Category, in.Unit)
	writeJSON(w, http.StatusCreated, s.products[id-1])
}

func (s *Server) listPrices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]price{}, s.prices...))
}

func (s *Server) createPrice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SupplierID int64   `json:"supplier_id"`
		ProductID  int64   `json:"product_id"`
		Price      float64 `json:"price"`
		Notes      string  `json:"notes"`
	}
	if !decode(r, &in) || in.SupplierID <= 0 || in.ProductID <= 0 {
		http.Error(w, "supplier_id and product_id are required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.addPrice(in.SupplierID, in.ProductID, in.Price, in.Notes)
	writeJSON(w, http.StatusCreated, s.prices[id-1])
}

// comparison keeps the latest entry per supplier, joins the supplier name,
// and orders by price.
func (s *Server) comparison(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := make(map[int64]price)
	var order []int64
	for _, p := range s.prices {
		if p.ProductID != productID {
			continue
		}
		current, seen := latest[p.SupplierID]
		if !seen {
			order = append(order, p.SupplierID)
		}
		if !seen || p.Date > current.Date {
			latest[p.SupplierID] = p
		}
	}
	result := make([]comparison, 0, len(order))
	for _, supplierID := range order {
		for _, sup := range s.suppliers {
			if sup.ID == supplierID {
				result = append(result, comparison{price: latest[supplierID], SupplierName: sup.Name})
				break
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) addSupplier(name, contact, location string) int64 {
	id := int64(len(s.suppliers) + 1)
	s.suppliers = append(s.suppliers, supplier{ID: id, Name: name, Contact: contact, Location: location, CreatedAt: s.stamp()})
	return id
}

func (s *Server) addProduct(name, category, unit string) int64 {
	if unit == "" {
		unit = "piece"
	}
	id := int64(len(s.products) + 1)
	s.products = append(s.products, product{ID: id, Name: name, Category: category, Unit: unit, CreatedAt: s.stamp()})
	return id
}

func (s *Server) addPrice(supplierID, productID int64, amount float64, notes string) int64 {
	id := int64(len(s.prices) + 1)
	s.prices = append(s.prices, price{ID: id, SupplierID: supplierID, ProductID: productID, Price: amount, Date: s.stamp(), Notes: notes})
	return id
}

func (s *Server) stamp() string {
	return s.now().UTC().Format(isoLayout)
}

func decode(r *http.Request, target any) bool {
	return json.NewDecoder(r.Body).Decode(target) == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
