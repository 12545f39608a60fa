package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type CatalogUsecase struct {
	images     domain.ImageRepository
	categories domain.CategoryRepository
	cache      domain.Cache
}

func NewCatalogUsecase(images domain.ImageRepository, categories domain.CategoryRepository, cache domain.Cache) *CatalogUsecase {
	return &CatalogUsecase{
		images:     images,
		categories: categories,
		cache:      cache,
	}
}

// ListImages always reads the store. Limit has no upper bound.
func (u *CatalogUsecase) ListImages(ctx context.Context, q domain.ImageQuery) ([]*domain.Image, error) {
	page := q.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	filter := domain.ImageFilter{
		Category: domain.NormalizeName(q.Category),
		Search:   q.Search,
		Limit:    limit,
		Offset:   pageOffset(page, limit),
	}

	images, err := u.images.List(ctx, filter)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list images")
		return nil, domain.Upstream("list images", err)
	}
	return images, nil
}

// pageOffset saturates instead of wrapping, so a page past the end of any
// real catalog reads as empty.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if cached, ok := u.cache.Get(domain.CacheKeyCategories); ok {
		if categories, ok := cached.([]domain.Category); ok {
			return categories, nil
		}
	}

	categories, err := u.categories.List(ctx)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list categories")
		return nil, domain.Upstream("list categories", err)
	}

	u.cache.Set(domain.CacheKeyCategories, categories)
	return categories, nil
}

// CreateCategory registers a normalized category name. The categories cache
// entry is left to expire on its own.
func (u *CatalogUsecase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	normalized := domain.NormalizeName(name)
	if normalized == "" {
		return nil, domain.NewValidationError(domain.FieldIssue{Field: "name", Msg: "Name is required"})
	}

	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      normalized,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.categories.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, domain.ErrCategoryExists
		}
		return nil, domain.Upstream("create category", err)
	}

	return category, nil
}
