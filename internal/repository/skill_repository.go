package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"connect/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

const (
	PriceTypeHourly  = "HOURLY"
	PriceTypeSession = "SESSION"
	PriceTypeFlat    = "FLAT"
)

type Skill struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Price       int
	PriceType   string
	Category    string
	Tags        []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SkillWithOwner struct {
	Skill
	Owner UserSummary
}

type SkillListFilter struct {
	Category   string
	Search     string
	UserID     uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

type SkillRepository interface {
	Create(ctx context.Context, s Skill) (Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (SkillWithOwner, error)
	List(ctx context.Context, f SkillListFilter) ([]SkillWithOwner, error)
	Count(ctx context.Context, f SkillListFilter) (int64, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]Skill, error)
	Update(ctx context.Context, s Skill) (Skill, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `s.id, s.user_id, s.title, s.description, s.price, s.price_type, s.category, s.tags, s.is_active, s.created_at, s.updated_at`

const skillOwnerColumns = skillColumns + `, u.name, u.bio, u.avatar_url, u.venmo_handle, u.cashapp_handle, u.paypal_handle`

func (r *PostgresSkillRepository) Create(ctx context.Context, s Skill) (Skill, error) {
	tags, err := marshalTags(s.Tags)
	if err != nil {
		return Skill{}, err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO skills (id, user_id, title, description, price, price_type, category, tags, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)`,
		s.ID, s.UserID, s.Title, s.Description, s.Price, s.PriceType, s.Category, tags, s.IsActive,
	)
	if err != nil {
		return Skill{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills s WHERE s.id = $1`, s.ID)
	return scanSkill(row)
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (SkillWithOwner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+skillOwnerColumns+`
		 FROM skills s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1`,
		id,
	)
	return scanSkillWithOwner(row)
}

func (r *PostgresSkillRepository) List(ctx context.Context, f SkillListFilter) ([]SkillWithOwner, error) {
	where, args := skillFilterClauses(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT `+skillOwnerColumns+`
		 FROM skills s
		 JOIN users u ON u.id = s.user_id
		 %s
		 ORDER BY s.created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillWithOwner, 0)
	for rows.Next() {
		sw, err := scanSkillWithOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) Count(ctx context.Context, f SkillListFilter) (int64, error) {
	where, args := skillFilterClauses(f)
	var total int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills s `+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresSkillRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+` FROM skills s WHERE s.user_id = $1 ORDER BY s.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) Update(ctx context.Context, s Skill) (Skill, error) {
	tags, err := marshalTags(s.Tags)
	if err != nil {
		return Skill{}, err
	}
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE skills
		 SET title = $1, description = $2, price = $3, price_type = $4, category = $5, tags = $6::jsonb, is_active = $7, updated_at = now()
		 WHERE id = $8`,
		s.Title, s.Description, s.Price, s.PriceType, s.Category, tags, s.IsActive, s.ID,
	)
	if err != nil {
		return Skill{}, err
	}
	if rowsAffected == 0 {
		return Skill{}, ErrSkillNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills s WHERE s.id = $1`, s.ID)
	return scanSkill(row)
}

func (r *PostgresSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func skillFilterClauses(f SkillListFilter) (string, []any) {
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

	if f.ActiveOnly {
		and("s.is_active")
	}
	if f.Category != "" {
		and(fmt.Sprintf("s.category = $%d", len(args)+1), f.Category)
	}
	if f.UserID != uuid.Nil {
		and(fmt.Sprintf("s.user_id = $%d", len(args)+1), f.UserID)
	}
	if f.Search != "" {
		n := len(args) + 1
		and(fmt.Sprintf("(s.title ILIKE $%d OR s.description ILIKE $%d)", n, n), "%"+f.Search+"%")
	}

	return where, args
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanSkill(row database.Row) (Skill, error) {
	var s Skill
	var tags []byte
	if err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.Price, &s.PriceType,
		&s.Category, &tags, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	if err := unmarshalTags(tags, &s.Tags); err != nil {
		return Skill{}, err
	}
	return s, nil
}

func scanSkillWithOwner(row database.Row) (SkillWithOwner, error) {
	var sw SkillWithOwner
	var tags []byte
	if err := row.Scan(
		&sw.ID, &sw.UserID, &sw.Title, &sw.Description, &sw.Price, &sw.PriceType,
		&sw.Category, &tags, &sw.IsActive, &sw.CreatedAt, &sw.UpdatedAt,
		&sw.Owner.Name, &sw.Owner.Bio, &sw.Owner.AvatarURL,
		&sw.Owner.VenmoHandle, &sw.Owner.CashAppHandle, &sw.Owner.PaypalHandle,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return SkillWithOwner{}, ErrSkillNotFound
		}
		return SkillWithOwner{}, err
	}
	sw.Owner.ID = sw.UserID
	if err := unmarshalTags(tags, &sw.Tags); err != nil {
		return SkillWithOwner{}, err
	}
	return sw, nil
}

func unmarshalTags(raw []byte, out *[]string) error {
	if len(raw) == 0 {
		*out = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return err
	}
	if *out == nil {
		*out = []string{}
	}
	return nil
}
