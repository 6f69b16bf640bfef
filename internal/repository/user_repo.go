package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raffreitas/blog/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByEmailWithRoles(ctx context.Context, email string) (domain.User, error)
	UpdateImage(ctx context.Context, userID int64, imageURL string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

// Create inserta el usuario y confia en el indice unico de email de la
// base para detectar duplicados, sin pre-chequeo.
func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (name, email, slug, password_hash, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Slug,
		user.PasswordHash,
		user.Image,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, name, email, slug, password_hash, COALESCE(image, '')
		FROM users
		WHERE email = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Slug,
		&u.PasswordHash,
		&u.Image,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// GetByEmailWithRoles carga ademas los roles del usuario; el login lo
// necesita porque los nombres de rol viajan en el token.
func (r *PgUserRepository) GetByEmailWithRoles(ctx context.Context, email string) (domain.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}

	const query = `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id
	`
	rows, err := r.pool.Query(ctx, query, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("select roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return domain.User{}, fmt.Errorf("scan role: %w", err)
		}
		user.Roles = append(user.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return domain.User{}, fmt.Errorf("iterate roles: %w", err)
	}
	return user, nil
}

func (r *PgUserRepository) UpdateImage(ctx context.Context, userID int64, imageURL string) error {
	const query = `
		UPDATE users
		SET image = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, userID, imageURL)
	if err != nil {
		return fmt.Errorf("update user image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reporta si err es una violacion de constraint unico
// de PostgreSQL (codigo 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
