package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 1 << 20 // 1MB

// CatalogService is the gateway logic the product routes delegate to.
type CatalogService interface {
	Products(ctx context.Context, page, limit int, search string) (*domain.Page[domain.Product], error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error)
}

type ProductHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewProductHandler(catalog CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type UpdateStockRequestDTO struct {
	Stock *int `json:"stock"`
}

// GET /api/products?page&limit&search
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	page := parsePositiveInt(q.Get("page"), catalog.DefaultPage)
	limit := parsePositiveInt(q.Get("limit"), catalog.DefaultLimit)

	result, err := h.catalog.Products(ctx, page, limit, q.Get("search"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "upstream_error", "Error fetching products")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GET /api/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Product(ctx, productID)
	if err != nil {
		handleCatalogError(w, r, err, "Error fetching product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// PATCH /api/products/{product_id}
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStockRequestDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Stock == nil || *req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must be a non-negative integer")
		return
	}

	product, err := h.catalog.UpdateStock(ctx, productID, *req.Stock)
	if err != nil {
		handleCatalogError(w, r, err, "Error updating stock")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func handleCatalogError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	logger.Printf(r.Context(), "%s: %v", message, err)
	respondError(w, http.StatusInternalServerError, "upstream_error", message)
}

// parsePositiveInt falls back to def for missing, malformed, or non-positive values.
func parsePositiveInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
