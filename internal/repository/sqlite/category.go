package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.CategoryRepository = (*CategoryDB)(nil)

// CategoryDB reads and writes the categories table.
type CategoryDB struct {
	conn *sql.DB
}

func (c *CategoryDB) Create(ctx context.Context, cat *model.Category) error {
	cat.ID = xid.New().String()

	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, count, image_path)
		 VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.Count, cat.ImagePath,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", cat.Name)
		}
		return fmt.Errorf("sqlite: creating category %q: %w", cat.Name, err)
	}
	return nil
}

func (c *CategoryDB) List(ctx context.Context) ([]model.Category, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT id, name, description, count, image_path FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Count, &cat.ImagePath); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}
	return categories, nil
}

func (c *CategoryDB) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var cat model.Category
	err := c.conn.QueryRowContext(ctx,
		`SELECT id, name, description, count, image_path FROM categories WHERE name = ?`, name,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Count, &cat.ImagePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category", name)
		}
		return nil, fmt.Errorf("sqlite: getting category %q: %w", name, err)
	}
	return &cat, nil
}

func (c *CategoryDB) RefreshCounts(ctx context.Context) error {
	_, err := c.conn.ExecContext(ctx,
		`UPDATE categories
		 SET count = (SELECT COUNT(*) FROM affirmations a WHERE a.category = categories.name)`)
	if err != nil {
		return fmt.Errorf("sqlite: refreshing category counts: %w", err)
	}
	return nil
}
