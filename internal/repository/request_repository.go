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
	ErrRequestNotFound      = errors.New("service request not found")
	ErrRequestStatusChanged = errors.New("service request status changed")
)

const (
	RequestStatusPending   = "PENDING"
	RequestStatusApproved  = "APPROVED"
	RequestStatusDeclined  = "DECLINED"
	RequestStatusCancelled = "CANCELLED"
	RequestStatusCompleted = "COMPLETED"
)

// ServiceRequest links a skill, its requester and the provider. ProviderID
// is captured from the skill's owner at creation time and never re-resolved,
// so historical requests keep their original provider.
type ServiceRequest struct {
	ID          uuid.UUID
	SkillID     uuid.UUID
	RequesterID uuid.UUID
	ProviderID  uuid.UUID
	Status      string
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ServiceRequestDetail struct {
	ServiceRequest
	SkillTitle     string
	SkillPrice     int
	SkillPriceType string
	Requester      UserSummary
	Provider       UserSummary
}

type RequestRepository interface {
	Create(ctx context.Context, sr ServiceRequest) (ServiceRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (ServiceRequest, error)
	HasPending(ctx context.Context, skillID, requesterID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (ServiceRequest, error)
	ListForUser(ctx context.Context, userID uuid.UUID, sent, received bool) ([]ServiceRequestDetail, error)
}

type PostgresRequestRepository struct {
	db database.DB
}

func NewPostgresRequestRepository(db database.DB) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db}
}

const requestColumns = `r.id, r.skill_id, r.requester_id, r.provider_id, r.status, r.message, r.created_at, r.updated_at`

func (r *PostgresRequestRepository) Create(ctx context.Context, sr ServiceRequest) (ServiceRequest, error) {
	// A unique partial index on (skill_id, requester_id) WHERE status =
	// 'PENDING' backs this insert; violations bubble up as pgconn errors
	// for the caller to translate.
	_, err := r.db.Exec(ctx,
		`INSERT INTO service_requests (id, skill_id, requester_id, provider_id, status, message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sr.ID, sr.SkillID, sr.RequesterID, sr.ProviderID, sr.Status, sr.Message,
	)
	if err != nil {
		return ServiceRequest{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM service_requests r WHERE r.id = $1`, sr.ID)
	return scanRequest(row)
}

func (r *PostgresRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (ServiceRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM service_requests r WHERE r.id = $1`, id)
	return scanRequest(row)
}

func (r *PostgresRequestRepository) HasPending(ctx context.Context, skillID, requesterID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM service_requests WHERE skill_id = $1 AND requester_id = $2 AND status = $3)`,
		skillID, requesterID, RequestStatusPending,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (ServiceRequest, error) {
	// The status guard makes the transition atomic: a concurrent writer
	// that moved the row off fromStatus leaves zero rows affected. Rows are
	// never deleted, so zero rows means the guard failed, not a missing id.
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE service_requests SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return ServiceRequest{}, err
	}
	if rowsAffected == 0 {
		return ServiceRequest{}, ErrRequestStatusChanged
	}

	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM service_requests r WHERE r.id = $1`, id)
	return scanRequest(row)
}

func (r *PostgresRequestRepository) ListForUser(ctx context.Context, userID uuid.UUID, sent, received bool) ([]ServiceRequestDetail, error) {
	where := `r.requester_id = $1 OR r.provider_id = $1`
	switch {
	case sent && !received:
		where = `r.requester_id = $1`
	case received && !sent:
		where = `r.provider_id = $1`
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+`,
		        s.title, s.price, s.price_type,
		        rq.name, rq.avatar_url,
		        pv.name, pv.avatar_url, pv.venmo_handle, pv.cashapp_handle, pv.paypal_handle
		 FROM service_requests r
		 JOIN skills s ON s.id = r.skill_id
		 JOIN users rq ON rq.id = r.requester_id
		 JOIN users pv ON pv.id = r.provider_id
		 WHERE `+where+`
		 ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ServiceRequestDetail, 0)
	for rows.Next() {
		var d ServiceRequestDetail
		if err := rows.Scan(
			&d.ID, &d.SkillID, &d.RequesterID, &d.ProviderID, &d.Status, &d.Message, &d.CreatedAt, &d.UpdatedAt,
			&d.SkillTitle, &d.SkillPrice, &d.SkillPriceType,
			&d.Requester.Name, &d.Requester.AvatarURL,
			&d.Provider.Name, &d.Provider.AvatarURL,
			&d.Provider.VenmoHandle, &d.Provider.CashAppHandle, &d.Provider.PaypalHandle,
		); err != nil {
			return nil, err
		}
		d.Requester.ID = d.RequesterID
		d.Provider.ID = d.ProviderID
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRequest(row database.Row) (ServiceRequest, error) {
	var sr ServiceRequest
	if err := row.Scan(
		&sr.ID, &sr.SkillID, &sr.RequesterID, &sr.ProviderID,
		&sr.Status, &sr.Message, &sr.CreatedAt, &sr.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return ServiceRequest{}, ErrRequestNotFound
		}
		return ServiceRequest{}, err
	}
	return sr, nil
}
