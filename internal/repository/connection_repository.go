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

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrInviteNotFound     = errors.New("invite not found")
	ErrInviteUsed         = errors.New("invite already used")
)

const ConnectionStatusAccepted = "ACCEPTED"

// Connection is an unordered pair; either user may occupy either slot.
// A unique index on (LEAST, GREATEST) of the two ids enforces at most one
// row per pair regardless of slot order.
type Connection struct {
	ID        uuid.UUID
	User1ID   uuid.UUID
	User2ID   uuid.UUID
	Status    string
	CreatedAt time.Time
}

type Invite struct {
	ID        uuid.UUID
	Code      string
	InviterID uuid.UUID
	UsedByID  *uuid.UUID
	UsedAt    *time.Time
	CreatedAt time.Time
}

type ConnectionRepository interface {
	CreateInvite(ctx context.Context, inv Invite) error
	GetInviteByCode(ctx context.Context, code string) (Invite, error)
	ListInvitesByInviter(ctx context.Context, inviterID uuid.UUID) ([]Invite, error)
	ExistsBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	Redeem(ctx context.Context, conn Connection, inviteID, usedByID uuid.UUID, usedAt time.Time) error
	ListPeers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error)
	DeleteBetween(ctx context.Context, userA, userB uuid.UUID) error
}

type PostgresConnectionRepository struct {
	db database.DB
}

func NewPostgresConnectionRepository(db database.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) CreateInvite(ctx context.Context, inv Invite) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO invites (id, code, inviter_id) VALUES ($1, $2, $3)`,
		inv.ID, inv.Code, inv.InviterID,
	)
	return err
}

func (r *PostgresConnectionRepository) GetInviteByCode(ctx context.Context, code string) (Invite, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, code, inviter_id, used_by_id, used_at, created_at FROM invites WHERE code = $1`,
		code,
	)
	return scanInvite(row)
}

func (r *PostgresConnectionRepository) ListInvitesByInviter(ctx context.Context, inviterID uuid.UUID) ([]Invite, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, inviter_id, used_by_id, used_at, created_at
		 FROM invites
		 WHERE inviter_id = $1
		 ORDER BY created_at DESC`,
		inviterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Invite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConnectionRepository) ExistsBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM connections
			WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		)`,
		userA, userB,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Redeem applies the two redemption writes as one atomic unit: the
// connection insert and the invite mark-used either both land or neither
// does. The mark-used update is guarded by `used_by_id IS NULL`, so a
// concurrent redeem of the same code loses cleanly and rolls back.
func (r *PostgresConnectionRepository) Redeem(ctx context.Context, conn Connection, inviteID, usedByID uuid.UUID, usedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO connections (id, user1_id, user2_id, status) VALUES ($1, $2, $3, $4)`,
		conn.ID, conn.User1ID, conn.User2ID, conn.Status,
	); err != nil {
		return err
	}

	rowsAffected, err := tx.Exec(ctx,
		`UPDATE invites SET used_by_id = $1, used_at = $2 WHERE id = $3 AND used_by_id IS NULL`,
		usedByID, usedAt, inviteID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInviteUsed
	}

	return tx.Commit(ctx)
}

func (r *PostgresConnectionRepository) ListPeers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.bio, u.avatar_url
		 FROM connections c
		 JOIN users u ON u.id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
		 WHERE (c.user1_id = $1 OR c.user2_id = $1) AND c.status = $2`,
		userID, ConnectionStatusAccepted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserSummary, 0)
	for rows.Next() {
		var s UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Bio, &s.AvatarURL); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConnectionRepository) DeleteBetween(ctx context.Context, userA, userB uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx,
		`DELETE FROM connections
		 WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)`,
		userA, userB,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

func scanInvite(row database.Row) (Invite, error) {
	var inv Invite
	if err := row.Scan(&inv.ID, &inv.Code, &inv.InviterID, &inv.UsedByID, &inv.UsedAt, &inv.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Invite{}, ErrInviteNotFound
		}
		return Invite{}, err
	}
	return inv, nil
}
