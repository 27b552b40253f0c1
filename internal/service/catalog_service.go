package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/domain"
	"pos-till/internal/repository"
)

// CatalogService defines the business logic over the product catalog and its
// derived categories. Lookups that find nothing return explicit absent
// results rather than errors.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
	AddProduct(ctx context.Context, name string, price decimal.Decimal, category string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, name string, price decimal.Decimal, category string) (bool, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	ListCategories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)
	DeleteCategory(ctx context.Context, name string) (int64, error)

	CategoryEmojis(ctx context.Context) (map[string]string, error)
	SetCategoryEmoji(ctx context.Context, category, emoji string) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	emojis     repository.EmojiRepository
	fallback   string
	logger     *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService. fallback is
// the category products are moved to when theirs is deleted.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	emojis repository.EmojiRepository,
	fallback string,
	logger *zap.Logger,
) CatalogService {
	if fallback == "" {
		fallback = domain.FallbackCategory
	}
	return &catalogService{
		products:   products,
		categories: categories,
		emojis:     emojis,
		fallback:   fallback,
		logger:     logger,
	}
}

// ListProducts returns the whole catalog ordered by category, then name.
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

// GetProduct returns the product, or (nil, nil) when the id is unknown.
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// SearchProducts matches the query as a case-insensitive substring of the
// product name. No match returns an empty slice.
func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.products.Search(ctx, query)
}

// AddProduct validates and persists a new product, returning it with its
// assigned identifier. The product is immediately visible to listings.
func (s *catalogService) AddProduct(ctx context.Context, name string, price decimal.Decimal, category string) (*domain.Product, error) {
	if err := validateProduct(name, price, category); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:     strings.TrimSpace(name),
		Price:    price.Round(2),
		Category: strings.TrimSpace(category),
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Info("Product added",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("category", product.Category),
	)
	return product, nil
}

// UpdateProduct validates and applies an in-place update. Returns false,
// not an error, when no product with that id exists.
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, name string, price decimal.Decimal, category string) (bool, error) {
	if err := validateProduct(name, price, category); err != nil {
		return false, err
	}

	product := &domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Price:    price.Round(2),
		Category: strings.TrimSpace(category),
	}

	err := s.products.Update(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return true, nil
}

// DeleteProduct removes a product from the catalog. Historical receipt
// lines survive untouched. Returns false when the id is unknown.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	err := s.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return true, nil
}

// ListCategories returns the derived, sorted category set.
func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.categories.List(ctx)
}

// ProductsByCategory returns the products in a category, sorted by name.
func (s *catalogService) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.categories.Products(ctx, category)
}

// RenameCategory moves every product under oldName to newName atomically
// and carries the display emoji along. Renaming a category nothing uses
// succeeds with zero rows affected.
func (s *catalogService) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	if strings.TrimSpace(newName) == "" {
		return 0, &ValidationError{Field: "category", Message: "must not be empty"}
	}

	affected, err := s.categories.Rename(ctx, oldName, strings.TrimSpace(newName))
	if err != nil {
		return 0, fmt.Errorf("failed to rename category: %w", err)
	}

	// The emoji mapping is display-only; a redis hiccup must not undo the
	// committed bulk update.
	if err := s.emojis.Rename(ctx, oldName, strings.TrimSpace(newName)); err != nil {
		s.logger.Warn("Failed to move category emoji", zap.String("category", oldName), zap.Error(err))
	}

	s.logger.Info("Category renamed",
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int64("products_moved", affected),
	)
	return affected, nil
}

// DeleteCategory reassigns every product in the category to the fallback
// category. No product is ever deleted with its category.
func (s *catalogService) DeleteCategory(ctx context.Context, name string) (int64, error) {
	affected, err := s.categories.Reassign(ctx, name, s.fallback)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}

	if err := s.emojis.Delete(ctx, name); err != nil {
		s.logger.Warn("Failed to delete category emoji", zap.String("category", name), zap.Error(err))
	}

	s.logger.Info("Category deleted",
		zap.String("category", name),
		zap.String("fallback", s.fallback),
		zap.Int64("products_moved", affected),
	)
	return affected, nil
}

// CategoryEmojis returns the display emoji mapping.
func (s *catalogService) CategoryEmojis(ctx context.Context) (map[string]string, error) {
	return s.emojis.All(ctx)
}

// SetCategoryEmoji stores the display emoji for a category.
func (s *catalogService) SetCategoryEmoji(ctx context.Context, category, emoji string) error {
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Message: "must not be empty"}
	}
	return s.emojis.Set(ctx, category, emoji)
}

func validateProduct(name string, price decimal.Decimal, category string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Message: "must be greater than zero"}
	}
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Message: "must not be empty"}
	}
	return nil
}
