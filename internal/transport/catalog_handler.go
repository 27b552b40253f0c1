package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/middleware"
	"pos-till/internal/service"
)

// ProductRequest is the payload for adding or updating a product.
type ProductRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Category string          `json:"category" validate:"required"`
}

// RenameCategoryRequest is the payload for renaming a category.
type RenameCategoryRequest struct {
	NewName string `json:"new_name" validate:"required"`
}

// CategoryEmojiRequest is the payload for assigning a display emoji.
type CategoryEmojiRequest struct {
	Emoji string `json:"emoji"`
}

// CategoryChangeResponse reports how many products a category edit moved.
type CategoryChangeResponse struct {
	ProductsAffected int64 `json:"products_affected"`
}

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.AddProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/emojis", h.CategoryEmojis)
		r.Get("/{name}/products", h.ProductsByCategory)
		r.Put("/{name}", h.RenameCategory)
		r.Put("/{name}/emoji", h.SetCategoryEmoji)
		r.Delete("/{name}", h.DeleteCategory)
	})
}

// ListProducts returns the catalog; with ?q= it becomes a name search.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var err error
	var products interface{}
	if query != "" {
		products, err = h.catalog.SearchProducts(r.Context(), query)
	} else {
		products, err = h.catalog.ListProducts(r.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product or 404.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}
	if product == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// AddProduct creates a product.
func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeProductRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), req.Name, req.Price, req.Category)
	if err != nil {
		h.logger.Error("Failed to add product", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct updates a product in place; unknown ids yield 404.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeProductRequest(w, r, &req, h.logger) {
		return
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), id, req.Name, req.Price, req.Category)
	if err != nil {
		h.logger.Error("Failed to update product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}
	if !updated {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteProduct removes a product; unknown ids yield 404.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListCategories returns the derived category set.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ProductsByCategory returns the products under one category.
func (h *CatalogHandler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	products, err := h.catalog.ProductsByCategory(r.Context(), name)
	if err != nil {
		h.logger.Error("Failed to list products by category", zap.String("category", name), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// RenameCategory moves every product under the category to a new name.
func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req RenameCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	affected, err := h.catalog.RenameCategory(r.Context(), name, req.NewName)
	if err != nil {
		h.logger.Error("Failed to rename category", zap.String("category", name), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryChangeResponse{ProductsAffected: affected})
}

// DeleteCategory reassigns the category's products to the fallback category.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	affected, err := h.catalog.DeleteCategory(r.Context(), name)
	if err != nil {
		h.logger.Error("Failed to delete category", zap.String("category", name), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryChangeResponse{ProductsAffected: affected})
}

// CategoryEmojis returns the display emoji mapping.
func (h *CatalogHandler) CategoryEmojis(w http.ResponseWriter, r *http.Request) {
	emojis, err := h.catalog.CategoryEmojis(r.Context())
	if err != nil {
		h.logger.Error("Failed to list category emojis", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, emojis)
}

// SetCategoryEmoji stores the display emoji for a category.
func (h *CatalogHandler) SetCategoryEmoji(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req CategoryEmojiRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.SetCategoryEmoji(r.Context(), name, req.Emoji); err != nil {
		h.logger.Error("Failed to set category emoji", zap.String("category", name), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request, req *ProductRequest, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, req); err != nil {
		logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} route parameter, responding 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
