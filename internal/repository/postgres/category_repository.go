package postgres

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

type categoryRepository struct {
	db       *dbpg.DB
	writer   execer
	strategy retry.Strategy
}

func NewCategoryRepository(db *dbpg.DB, strategy retry.Strategy) domain.CategoryRepository {
	return &categoryRepository{
		db:       db,
		writer:   db.Master,
		strategy: strategy,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.writer.ExecContext(ctx, query, category.ID, category.Name, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryExists
		}
		zlog.Logger.Error().Err(err).Str("category", category.Name).Msg("failed to create category")
		return fmt.Errorf("create category: %w", err)
	}

	zlog.Logger.Info().Str("category", category.Name).Msg("category created successfully")
	return nil
}

func (r *categoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	var found bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`
	if err := r.db.Master.QueryRowContext(ctx, query, name).Scan(&found); err != nil {
		zlog.Logger.Error().Err(err).Str("category", name).Msg("failed to look up category")
		return false, fmt.Errorf("look up category: %w", err)
	}
	return found, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, created_at FROM categories ORDER BY name ASC`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return categories, nil
}
