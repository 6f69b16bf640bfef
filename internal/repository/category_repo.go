package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raffreitas/blog/internal/domain"
)

// CategoryRepository define el contrato de persistencia para categorias.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id int64) (domain.Category, error)
}

// PgCategoryRepository implementa CategoryRepository usando pgxpool.
type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

func (r *PgCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `
		SELECT id, name, slug
		FROM categories
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *PgCategoryRepository) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	const query = `
		SELECT id, name, slug
		FROM categories
		WHERE id = $1
	`
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, ErrNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *PgCategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	const query = `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, category.Name, category.Slug).Scan(&category.ID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

func (r *PgCategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	const query = `
		UPDATE categories
		SET name = $2, slug = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Slug)
	if err != nil {
		return domain.Category{}, fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Category{}, ErrNotFound
	}
	return category, nil
}

func (r *PgCategoryRepository) Delete(ctx context.Context, id int64) (domain.Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	const query = `
		DELETE FROM categories
		WHERE id = $1
	`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return domain.Category{}, fmt.Errorf("delete category: %w", err)
	}
	return category, nil
}
