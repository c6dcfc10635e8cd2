package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.CategoryRepository = (*CategoryDB)(nil)

type CategoryDB struct {
	pool *pgxpool.Pool
}

func (c *CategoryDB) Create(ctx context.Context, cat *model.Category) error {
	cat.ID = xid.New().String()
	_, err := c.pool.Exec(ctx,
		`INSERT INTO categories (id, name, description, count, image_path)
		 VALUES ($1, $2, $3, $4, $5)`,
		cat.ID, cat.Name, cat.Description, cat.Count, cat.ImagePath,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", cat.Name)
		}
		return fmt.Errorf("postgres: creating category %q: %w", cat.Name, err)
	}
	return nil
}

func (c *CategoryDB) List(ctx context.Context) ([]model.Category, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, name, description, count, image_path FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		var cat model.Category
		err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Count, &cat.ImagePath)
		return cat, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (c *CategoryDB) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var cat model.Category
	err := c.pool.QueryRow(ctx,
		`SELECT id, name, description, count, image_path FROM categories WHERE name = $1`, name,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Count, &cat.ImagePath)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("category", name)
		}
		return nil, fmt.Errorf("postgres: getting category %q: %w", name, err)
	}
	return &cat, nil
}

func (c *CategoryDB) RefreshCounts(ctx context.Context) error {
	_, err := c.pool.Exec(ctx,
		`UPDATE categories c
		 SET count = (SELECT COUNT(*) FROM affirmations a WHERE a.category = c.name)`)
	if err != nil {
		return fmt.Errorf("postgres: refreshing category counts: %w", err)
	}
	return nil
}
