package repository

import (
	"context"

	"quiz_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, image, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.Image,
		string(u.Role),
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(image, ''), COALESCE(role, ''), created_at
		 FROM users
		 WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(image, ''), COALESCE(role, ''), created_at
		 FROM users
		 WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

// SetRole changes the role of a user. Unknown roles are stored as empty.
func (r *UserRepository) SetRole(ctx context.Context, id int64, role domain.Role) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(domain.ParseRole(string(role))))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Image,
		&role,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.ParseRole(role)
	return &u, nil
}
