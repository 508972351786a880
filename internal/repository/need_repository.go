package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"connect/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNeedNotFound = errors.New("need not found")

type Need struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Budget      *int64
	Category    string
	IsFulfilled bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NeedWithOwner struct {
	Need
	Owner UserSummary
}

type NeedListFilter struct {
	Category string
	Search   string
	UserID   uuid.UUID
	OpenOnly bool
	Limit    int
	Offset   int
}

type NeedRepository interface {
	Create(ctx context.Context, n Need) (Need, error)
	GetByID(ctx context.Context, id uuid.UUID) (NeedWithOwner, error)
	List(ctx context.Context, f NeedListFilter) ([]NeedWithOwner, error)
	Count(ctx context.Context, f NeedListFilter) (int64, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]Need, error)
	Update(ctx context.Context, n Need) (Need, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresNeedRepository struct {
	db database.DB
}

func NewPostgresNeedRepository(db database.DB) *PostgresNeedRepository {
	return &PostgresNeedRepository{db: db}
}

const needColumns = `n.id, n.user_id, n.title, n.description, n.budget, n.category, n.is_fulfilled, n.created_at, n.updated_at`

func (r *PostgresNeedRepository) Create(ctx context.Context, n Need) (Need, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO needs (id, user_id, title, description, budget, category, is_fulfilled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Title, n.Description, n.Budget, n.Category, n.IsFulfilled,
	)
	if err != nil {
		return Need{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+needColumns+` FROM needs n WHERE n.id = $1`, n.ID)
	return scanNeed(row)
}

func (r *PostgresNeedRepository) GetByID(ctx context.Context, id uuid.UUID) (NeedWithOwner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+needColumns+`, u.name, u.bio, u.avatar_url
		 FROM needs n
		 JOIN users u ON u.id = n.user_id
		 WHERE n.id = $1`,
		id,
	)
	return scanNeedWithOwner(row)
}

func (r *PostgresNeedRepository) List(ctx context.Context, f NeedListFilter) ([]NeedWithOwner, error) {
	where, args := needFilterClauses(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT `+needColumns+`, u.name, u.bio, u.avatar_url
		 FROM needs n
		 JOIN users u ON u.id = n.user_id
		 %s
		 ORDER BY n.created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]NeedWithOwner, 0)
	for rows.Next() {
		nw, err := scanNeedWithOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, nw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNeedRepository) Count(ctx context.Context, f NeedListFilter) (int64, error) {
	where, args := needFilterClauses(f)
	var total int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM needs n `+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresNeedRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]Need, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+needColumns+` FROM needs n WHERE n.user_id = $1 ORDER BY n.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Need, 0)
	for rows.Next() {
		n, err := scanNeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNeedRepository) Update(ctx context.Context, n Need) (Need, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE needs
		 SET title = $1, description = $2, budget = $3, category = $4, is_fulfilled = $5, updated_at = now()
		 WHERE id = $6`,
		n.Title, n.Description, n.Budget, n.Category, n.IsFulfilled, n.ID,
	)
	if err != nil {
		return Need{}, err
	}
	if rowsAffected == 0 {
		return Need{}, ErrNeedNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+needColumns+` FROM needs n WHERE n.id = $1`, n.ID)
	return scanNeed(row)
}

func (r *PostgresNeedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx, `DELETE FROM needs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNeedNotFound
	}
	return nil
}

func needFilterClauses(f NeedListFilter) (string, []any) {
	where := ""
	args := make([]any, 0, 4)
	and := func(clause string, vals ...any) {
		if where == "" {
			where = "WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, vals...)
	}

	if f.OpenOnly {
		and("NOT n.is_fulfilled")
	}
	if f.Category != "" {
		and(fmt.Sprintf("n.category = $%d", len(args)+1), f.Category)
	}
	if f.UserID != uuid.Nil {
		and(fmt.Sprintf("n.user_id = $%d", len(args)+1), f.UserID)
	}
	if f.Search != "" {
		n := len(args) + 1
		and(fmt.Sprintf("(n.title ILIKE $%d OR n.description ILIKE $%d)", n, n), "%"+f.Search+"%")
	}

	return where, args
}

func scanNeed(row database.Row) (Need, error) {
	var n Need
	if err := row.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Description, &n.Budget,
		&n.Category, &n.IsFulfilled, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Need{}, ErrNeedNotFound
		}
		return Need{}, err
	}
	return n, nil
}

func scanNeedWithOwner(row database.Row) (NeedWithOwner, error) {
	var nw NeedWithOwner
	if err := row.Scan(
		&nw.ID, &nw.UserID, &nw.Title, &nw.Description, &nw.Budget,
		&nw.Category, &nw.IsFulfilled, &nw.CreatedAt, &nw.UpdatedAt,
		&nw.Owner.Name, &nw.Owner.Bio, &nw.Owner.AvatarURL,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return NeedWithOwner{}, ErrNeedNotFound
		}
		return NeedWithOwner{}, err
	}
	nw.Owner.ID = nw.UserID
	return nw, nil
}
