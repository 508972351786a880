package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"connect/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID            uuid.UUID
	Email         string
	Name          string
	PasswordHash  string
	Bio           string
	AvatarURL     string
	VenmoHandle   string
	CashAppHandle string
	PaypalHandle  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserSummary is the public identity slice exposed to other users.
type UserSummary struct {
	ID            uuid.UUID
	Name          string
	Bio           string
	AvatarURL     string
	VenmoHandle   string
	CashAppHandle string
	PaypalHandle  string
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:            u.ID,
		Name:          u.Name,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		VenmoHandle:   u.VenmoHandle,
		CashAppHandle: u.CashAppHandle,
		PaypalHandle:  u.PaypalHandle,
	}
}

type UserRepository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, u User) (User, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, bio, avatar_url, venmo_handle, cashapp_handle, paypal_handle, created_at, updated_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, bio, avatar_url, venmo_handle, cashapp_handle, paypal_handle)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Bio, u.AvatarURL, u.VenmoHandle, u.CashAppHandle, u.PaypalHandle,
	)
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, u User) (User, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE users
		 SET name = $1, bio = $2, avatar_url = $3, venmo_handle = $4, cashapp_handle = $5, paypal_handle = $6, updated_at = now()
		 WHERE id = $7`,
		u.Name, u.Bio, u.AvatarURL, u.VenmoHandle, u.CashAppHandle, u.PaypalHandle, u.ID,
	)
	if err != nil {
		return User{}, err
	}
	if rowsAffected == 0 {
		return User{}, ErrUserNotFound
	}
	return r.GetByID(ctx, u.ID)
}

func scanUser(row database.Row) (User, error) {
	var u User
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Bio, &u.AvatarURL,
		&u.VenmoHandle, &u.CashAppHandle, &u.PaypalHandle, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}
