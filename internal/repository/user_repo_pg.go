package repository

import (
	"context"
	"errors"

	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpsertGuest returns the user with this email, creating a USER account
	// without a password when none exists.
	UpsertGuest(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpsertAdmin creates or promotes the account and resets its password.
	UpsertAdmin(ctx context.Context, user *domain.User) (*domain.User, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, email, name, role, password_hash, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
}

func (r *PGUserRepository) UpsertGuest(ctx context.Context, user *domain.User) (*domain.User, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	return scanUser(r.db.QueryRow(ctx, `INSERT INTO users (id, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING `+userColumns,
		user.ID, user.Email, user.Name, domain.RoleUser))
}

func (r *PGUserRepository) UpsertAdmin(ctx context.Context, user *domain.User) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `INSERT INTO users (id, email, name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, password_hash = EXCLUDED.password_hash
		RETURNING `+userColumns,
		user.ID, user.Email, user.Name, domain.RoleAdmin, user.PasswordHash))
}

var _ UserRepository = (*PGUserRepository)(nil)
