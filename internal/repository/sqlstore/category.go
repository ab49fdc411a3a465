package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.CategoryRepository = (*DB)(nil)

func (db *DB) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = xid.New().String()
	}

	_, err := db.exec(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?)`, category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", category.ID)
		}
		return fmt.Errorf("sqlstore: creating category %q: %w", category.Name, err)
	}
	return nil
}

func (db *DB) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := db.queryRow(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlstore: getting category %s: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.query(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category; its articles keep existing with a NULL
// category_id.
func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	result, err := db.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting category %s: %w", id, err)
	}
	return affected(result, apperror.NotFound("category", id))
}
