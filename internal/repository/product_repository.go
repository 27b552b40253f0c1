package repository

import (
	"context"
	"database/sql"
	"errors"

	"pos-till/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and assigns its identifier. The products
// table rejects empty names and negative prices, so a bad row that slipped
// past caller validation surfaces as a constraint StorageError.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Category,
	).Scan(&product.ID)

	if err != nil {
		return storageErr("create product", err)
	}

	return nil
}

// Update replaces a product's name, price and category in place. Returns
// ErrProductNotFound if no product with that id exists.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, category = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.Category,
	)

	if err != nil {
		return storageErr("update product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr("update product", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the catalog. Historical receipt lines keep
// their denormalized copy of the product; their product_id becomes NULL via
// the foreign key's ON DELETE SET NULL.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storageErr("delete product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr("delete product", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by id, or ErrProductNotFound.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price, category
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Category,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, storageErr("find product by id", err)
	}

	return product, nil
}

// List retrieves the whole catalog ordered by category, then name.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, price, category
		FROM products
		ORDER BY category, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Search performs a case-insensitive substring match on product names.
// No match is an empty slice, never an error.
func (r *productRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	searchPattern := "%" + query + "%"

	searchQuery := `
		SELECT id, name, price, category
		FROM products
		WHERE name ILIKE $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern)
	if err != nil {
		return nil, storageErr("search products", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Category,
		)
		if err != nil {
			return nil, storageErr("scan product", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate products", err)
	}

	return products, nil
}
