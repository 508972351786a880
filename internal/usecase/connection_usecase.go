package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInviteNotFound     = errors.New("invite not found")
	ErrInviteUsed         = errors.New("invite already used")
	ErrOwnInvite          = errors.New("cannot use own invite")
	ErrAlreadyConnected   = errors.New("already connected")
	ErrConnectionNotFound = errors.New("connection not found")
)

const (
	inviteCodeBytes      = 8
	inviteCreateAttempts = 3
)

type ConnectionUsecase interface {
	IssueInvite(ctx context.Context, inviterID uuid.UUID) (repository.Invite, error)
	ListInvites(ctx context.Context, inviterID uuid.UUID) ([]repository.Invite, error)
	Redeem(ctx context.Context, code string, redeemerID uuid.UUID) (repository.UserSummary, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]repository.UserSummary, error)
	RemoveConnection(ctx context.Context, userID, otherUserID uuid.UUID) error
}

// Connection maintains the symmetric friend graph through one-time invite
// codes. Redemption writes (connection insert + invite mark-used) are a
// single atomic unit in the repository.
type Connection struct {
	connections repository.ConnectionRepository
	users       repository.UserRepository

	now func() time.Time
}

func NewConnectionUsecase(connections repository.ConnectionRepository, users repository.UserRepository) *Connection {
	return &Connection{connections: connections, users: users, now: time.Now}
}

func (u *Connection) IssueInvite(ctx context.Context, inviterID uuid.UUID) (repository.Invite, error) {
	// Codes are random enough that collisions are theoretical, but the
	// unique constraint on invites.code is authoritative; retry generation
	// rather than ever overwriting an existing code.
	for attempt := 0; attempt < inviteCreateAttempts; attempt++ {
		code, err := newInviteCode()
		if err != nil {
			return repository.Invite{}, ErrInternal
		}

		inv := repository.Invite{
			ID:        uuid.New(),
			Code:      code,
			InviterID: inviterID,
		}
		err = u.connections.CreateInvite(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !isUniqueViolation(err) {
			return repository.Invite{}, ErrInternal
		}
	}
	return repository.Invite{}, ErrInternal
}

func (u *Connection) ListInvites(ctx context.Context, inviterID uuid.UUID) ([]repository.Invite, error) {
	items, err := u.connections.ListInvitesByInviter(ctx, inviterID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Connection) Redeem(ctx context.Context, code string, redeemerID uuid.UUID) (repository.UserSummary, error) {
	if code == "" {
		return repository.UserSummary{}, ErrInviteNotFound
	}

	inv, err := u.connections.GetInviteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return repository.UserSummary{}, ErrInviteNotFound
		}
		return repository.UserSummary{}, ErrInternal
	}
	if inv.UsedByID != nil {
		return repository.UserSummary{}, ErrInviteUsed
	}
	if inv.InviterID == redeemerID {
		return repository.UserSummary{}, ErrOwnInvite
	}

	connected, err := u.connections.ExistsBetween(ctx, inv.InviterID, redeemerID)
	if err != nil {
		return repository.UserSummary{}, ErrInternal
	}
	if connected {
		return repository.UserSummary{}, ErrAlreadyConnected
	}

	// Resolve the inviter before writing anything so a failed lookup can
	// never leave a committed connection behind a 500.
	inviter, err := u.users.GetByID(ctx, inv.InviterID)
	if err != nil {
		return repository.UserSummary{}, ErrInternal
	}

	err = u.connections.Redeem(ctx, repository.Connection{
		ID:      uuid.New(),
		User1ID: inv.InviterID,
		User2ID: redeemerID,
		Status:  repository.ConnectionStatusAccepted,
	}, inv.ID, redeemerID, u.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteUsed):
			return repository.UserSummary{}, ErrInviteUsed
		case isUniqueViolation(err):
			// Concurrent redemption of a second invite between the same
			// pair; the pair index rejects it and the tx rolls back whole.
			return repository.UserSummary{}, ErrAlreadyConnected
		default:
			return repository.UserSummary{}, ErrInternal
		}
	}

	return inviter.Summary(), nil
}

func (u *Connection) ListConnections(ctx context.Context, userID uuid.UUID) ([]repository.UserSummary, error) {
	peers, err := u.connections.ListPeers(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return peers, nil
}

func (u *Connection) RemoveConnection(ctx context.Context, userID, otherUserID uuid.UUID) error {
	if err := u.connections.DeleteBetween(ctx, userID, otherUserID); err != nil {
		if errors.Is(err, repository.ErrConnectionNotFound) {
			return ErrConnectionNotFound
		}
		return ErrInternal
	}
	return nil
}

func newInviteCode() (string, error) {
	b := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
