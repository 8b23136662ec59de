package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/staybook/internal/domain"
)

type UserRepository interface {
	// Ensure provisions the user on first sight and returns the stored record.
	Ensure(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	UpdateRecentCities(ctx context.Context, id string, cities []string) error
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, username, email, image, role, recent_searched_cities, created_at, updated_at`

func (r *PGUserRepository) Ensure(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, username, email, image, role, recent_searched_cities)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		user.ID, user.Username, user.Email, user.Image, user.Role, user.RecentSearchedCities)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, user.ID)
}

func (r *PGUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Image, &u.Role, &u.RecentSearchedCities, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET role=$2, updated_at=now() WHERE id=$1`, id, role)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("User not found")
	}
	return nil
}

func (r *PGUserRepository) UpdateRecentCities(ctx context.Context, id string, cities []string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET recent_searched_cities=$2, updated_at=now() WHERE id=$1`, id, cities)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("User not found")
	}
	return nil
}

var _ UserRepository = (*PGUserRepository)(nil)
