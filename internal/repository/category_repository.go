package repository

import (
	"context"
	"database/sql"

	"pos-till/internal/domain"
)

// CategoryRepository defines the interface for category data access.
// Categories are not rows of their own; they are the derived set of distinct
// category strings on current products, so every operation here is expressed
// over the products table.
type CategoryRepository interface {
	List(ctx context.Context) ([]string, error)
	Products(ctx context.Context, category string) ([]*domain.Product, error)
	Rename(ctx context.Context, oldName, newName string) (int64, error)
	Reassign(ctx context.Context, name, fallback string) (int64, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List retrieves the distinct category strings across all current products,
// sorted. A category with no remaining products simply does not appear.
func (r *categoryRepository) List(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM products
		ORDER BY category
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, storageErr("scan category", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}

	return categories, nil
}

// Products retrieves all products in the given category, sorted by name.
func (r *categoryRepository) Products(ctx context.Context, category string) ([]*domain.Product, error) {
	query := `
		SELECT id, name, price, category
		FROM products
		WHERE category = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, storageErr("list products by category", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Rename moves every product from oldName to newName in one transaction and
// returns the number of affected rows. Matching nothing is not an error.
func (r *categoryRepository) Rename(ctx context.Context, oldName, newName string) (int64, error) {
	if oldName == newName {
		return 0, nil
	}

	return r.bulkRecategorize(ctx, "rename category", oldName, newName)
}

// Reassign moves every product in the named category to the fallback
// category. Products are never deleted with their category.
func (r *categoryRepository) Reassign(ctx context.Context, name, fallback string) (int64, error) {
	if fallback == "" {
		fallback = domain.FallbackCategory
	}
	if name == fallback {
		return 0, nil
	}

	return r.bulkRecategorize(ctx, "reassign category", name, fallback)
}

// bulkRecategorize runs the category bulk update inside an explicit
// transaction so a failure partway leaves no product half-moved.
func (r *categoryRepository) bulkRecategorize(ctx context.Context, op, from, to string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr(op, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE products SET category = $2 WHERE category = $1`, from, to)
	if err != nil {
		return 0, storageErr(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr(op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr(op, err)
	}

	return rowsAffected, nil
}
