package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/raffreitas/blog/internal/cache"
	"github.com/raffreitas/blog/internal/domain"
	"github.com/raffreitas/blog/internal/repository"
)

const categoriesCacheKey = "categories"

var ErrCategoryNotFound = errors.New("category not found")

// CategoryService expone el CRUD de categorias; el listado pasa por la
// cache de lectura porque es el dato de referencia caliente.
type CategoryService struct {
	logger     *zap.Logger
	categories repository.CategoryRepository
	listCache  cache.Cache[[]domain.Category]
}

func NewCategoryService(logger *zap.Logger, categories repository.CategoryRepository, listCache cache.Cache[[]domain.Category]) *CategoryService {
	return &CategoryService{
		logger:     logger,
		categories: categories,
		listCache:  listCache,
	}
}

// List devuelve todas las categorias, sirviendo desde cache mientras la
// entrada siga vigente.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	if s.listCache == nil {
		return s.categories.List(ctx)
	}
	return s.listCache.GetOrLoad(ctx, categoriesCacheKey, func(ctx context.Context) ([]domain.Category, error) {
		return s.categories.List(ctx)
	})
}

func (s *CategoryService) Get(ctx context.Context, id int64) (domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Category{}, ErrCategoryNotFound
	}
	return category, err
}

func (s *CategoryService) Create(ctx context.Context, name, slug string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" || slug == "" {
		return domain.Category{}, ErrInvalidInput
	}

	created, err := s.categories.Create(ctx, domain.Category{Name: name, Slug: slug})
	if err != nil {
		return domain.Category{}, err
	}
	s.invalidateList(ctx)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name, slug string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" || slug == "" {
		return domain.Category{}, ErrInvalidInput
	}

	updated, err := s.categories.Update(ctx, domain.Category{ID: id, Name: name, Slug: slug})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, ErrCategoryNotFound
		}
		return domain.Category{}, err
	}
	s.invalidateList(ctx)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) (domain.Category, error) {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, ErrCategoryNotFound
		}
		return domain.Category{}, err
	}
	s.invalidateList(ctx)
	return deleted, nil
}

func (s *CategoryService) invalidateList(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Invalidate(ctx, categoriesCacheKey); err != nil && s.logger != nil {
		s.logger.Warn("invalidate categories cache failed", zap.Error(err))
	}
}
