package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type mockConnectionRepo struct {
	invite    repository.Invite
	inviteErr error

	createInviteErrs []error
	createdInvites   []repository.Invite

	existsBetween bool
	existsErr     error

	redeemErr  error
	redeemed   *repository.Connection
	deletedErr error
}

func (m *mockConnectionRepo) CreateInvite(_ context.Context, inv repository.Invite) error {
	m.createdInvites = append(m.createdInvites, inv)
	if len(m.createInviteErrs) > 0 {
		err := m.createInviteErrs[0]
		m.createInviteErrs = m.createInviteErrs[1:]
		return err
	}
	return nil
}
func (m *mockConnectionRepo) GetInviteByCode(context.Context, string) (repository.Invite, error) {
	return m.invite, m.inviteErr
}
func (m *mockConnectionRepo) ListInvitesByInviter(context.Context, uuid.UUID) ([]repository.Invite, error) {
	return nil, nil
}
func (m *mockConnectionRepo) ExistsBetween(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return m.existsBetween, m.existsErr
}
func (m *mockConnectionRepo) Redeem(_ context.Context, conn repository.Connection, _, _ uuid.UUID, _ time.Time) error {
	if m.redeemErr != nil {
		return m.redeemErr
	}
	m.redeemed = &conn
	return nil
}
func (m *mockConnectionRepo) ListPeers(context.Context, uuid.UUID) ([]repository.UserSummary, error) {
	return nil, nil
}
func (m *mockConnectionRepo) DeleteBetween(context.Context, uuid.UUID, uuid.UUID) error {
	return m.deletedErr
}

type mockUserRepo struct {
	user repository.User
	err  error
}

func (m mockUserRepo) Create(context.Context, repository.User) error { return nil }
func (m mockUserRepo) GetByID(context.Context, uuid.UUID) (repository.User, error) {
	return m.user, m.err
}
func (m mockUserRepo) GetByEmail(context.Context, string) (repository.User, error) {
	return m.user, m.err
}
func (m mockUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (m mockUserRepo) ExistsByID(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (m mockUserRepo) UpdateProfile(context.Context, repository.User) (repository.User, error) {
	return m.user, m.err
}

func unusedInvite(inviterID uuid.UUID) repository.Invite {
	return repository.Invite{
		ID:        uuid.New(),
		Code:      "a1b2c3d4e5f60718",
		InviterID: inviterID,
	}
}

func TestIssueInvite_CodeShape(t *testing.T) {
	repo := &mockConnectionRepo{}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	inv, err := uc.IssueInvite(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(inv.Code) != inviteCodeBytes*2 {
		t.Fatalf("expected %d hex chars, got %d", inviteCodeBytes*2, len(inv.Code))
	}
	for _, r := range inv.Code {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("non-hex character %q in code %s", r, inv.Code)
		}
	}
}

func TestIssueInvite_RetriesOnCodeCollision(t *testing.T) {
	repo := &mockConnectionRepo{createInviteErrs: []error{&pgconn.PgError{Code: "23505"}}}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	inv, err := uc.IssueInvite(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.createdInvites) != 2 {
		t.Fatalf("expected 2 create attempts, got %d", len(repo.createdInvites))
	}
	if repo.createdInvites[0].Code == inv.Code {
		t.Fatalf("colliding code must be regenerated, not reused")
	}
}

func TestIssueInvite_GivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &mockConnectionRepo{createInviteErrs: []error{
		&pgconn.PgError{Code: "23505"},
		&pgconn.PgError{Code: "23505"},
		&pgconn.PgError{Code: "23505"},
	}}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	if _, err := uc.IssueInvite(context.Background(), uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestRedeem_Success(t *testing.T) {
	inviter := repository.User{ID: uuid.New(), Name: "Ana"}
	redeemer := uuid.New()
	repo := &mockConnectionRepo{invite: unusedInvite(inviter.ID)}

	uc := NewConnectionUsecase(repo, mockUserRepo{user: inviter})
	got, err := uc.Redeem(context.Background(), repo.invite.Code, redeemer)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != inviter.ID || got.Name != "Ana" {
		t.Fatalf("expected inviter summary, got %+v", got)
	}
	if repo.redeemed == nil {
		t.Fatalf("expected connection write")
	}
	if repo.redeemed.User1ID != inviter.ID || repo.redeemed.User2ID != redeemer {
		t.Fatalf("unexpected connection pair: %+v", repo.redeemed)
	}
	if repo.redeemed.Status != repository.ConnectionStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", repo.redeemed.Status)
	}
}

func TestRedeem_UnknownCode(t *testing.T) {
	repo := &mockConnectionRepo{inviteErr: repository.ErrInviteNotFound}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	if _, err := uc.Redeem(context.Background(), "nope", uuid.New()); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestRedeem_EmptyCode(t *testing.T) {
	uc := NewConnectionUsecase(&mockConnectionRepo{}, mockUserRepo{})
	if _, err := uc.Redeem(context.Background(), "", uuid.New()); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestRedeem_AlreadyUsed(t *testing.T) {
	inviter := uuid.New()
	usedBy := uuid.New()
	usedAt := time.Now().UTC()
	inv := unusedInvite(inviter)
	inv.UsedByID = &usedBy
	inv.UsedAt = &usedAt

	uc := NewConnectionUsecase(&mockConnectionRepo{invite: inv}, mockUserRepo{})
	if _, err := uc.Redeem(context.Background(), inv.Code, uuid.New()); !errors.Is(err, ErrInviteUsed) {
		t.Fatalf("expected ErrInviteUsed, got %v", err)
	}
}

// A used invite reports used even to its own issuer; the used check runs
// before the self check.
func TestRedeem_UsedBeatsOwn(t *testing.T) {
	inviter := uuid.New()
	usedBy := uuid.New()
	inv := unusedInvite(inviter)
	inv.UsedByID = &usedBy

	uc := NewConnectionUsecase(&mockConnectionRepo{invite: inv}, mockUserRepo{})
	if _, err := uc.Redeem(context.Background(), inv.Code, inviter); !errors.Is(err, ErrInviteUsed) {
		t.Fatalf("expected ErrInviteUsed, got %v", err)
	}
}

func TestRedeem_OwnInvite(t *testing.T) {
	inviter := uuid.New()
	uc := NewConnectionUsecase(&mockConnectionRepo{invite: unusedInvite(inviter)}, mockUserRepo{})

	if _, err := uc.Redeem(context.Background(), "a1b2c3d4e5f60718", inviter); !errors.Is(err, ErrOwnInvite) {
		t.Fatalf("expected ErrOwnInvite, got %v", err)
	}
}

func TestRedeem_AlreadyConnected(t *testing.T) {
	repo := &mockConnectionRepo{invite: unusedInvite(uuid.New()), existsBetween: true}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	if _, err := uc.Redeem(context.Background(), repo.invite.Code, uuid.New()); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}
}

func TestRedeem_LostRaceOnInvite(t *testing.T) {
	repo := &mockConnectionRepo{invite: unusedInvite(uuid.New()), redeemErr: repository.ErrInviteUsed}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	if _, err := uc.Redeem(context.Background(), repo.invite.Code, uuid.New()); !errors.Is(err, ErrInviteUsed) {
		t.Fatalf("expected ErrInviteUsed, got %v", err)
	}
}

func TestRedeem_LostRaceOnPair(t *testing.T) {
	repo := &mockConnectionRepo{invite: unusedInvite(uuid.New()), redeemErr: &pgconn.PgError{Code: "23505"}}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	if _, err := uc.Redeem(context.Background(), repo.invite.Code, uuid.New()); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}
}

// The inviter lookup happens before the redemption writes; when it fails
// nothing is committed, so the caller can simply retry.
func TestRedeem_InviterLookupFailureWritesNothing(t *testing.T) {
	repo := &mockConnectionRepo{invite: unusedInvite(uuid.New())}
	uc := NewConnectionUsecase(repo, mockUserRepo{err: errors.New("connection reset")})

	if _, err := uc.Redeem(context.Background(), repo.invite.Code, uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if repo.redeemed != nil {
		t.Fatalf("redemption must not be written when the inviter cannot be resolved")
	}
}

func TestRemoveConnection_NotFound(t *testing.T) {
	repo := &mockConnectionRepo{deletedErr: repository.ErrConnectionNotFound}
	uc := NewConnectionUsecase(repo, mockUserRepo{})

	if err := uc.RemoveConnection(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}
