package usecase

import (
	"context"
	"errors"
	"testing"

	"connect/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type mockSkillRepo struct {
	skill repository.SkillWithOwner
	err   error
}

func (m mockSkillRepo) Create(context.Context, repository.Skill) (repository.Skill, error) {
	return repository.Skill{}, nil
}
func (m mockSkillRepo) GetByID(context.Context, uuid.UUID) (repository.SkillWithOwner, error) {
	return m.skill, m.err
}
func (m mockSkillRepo) List(context.Context, repository.SkillListFilter) ([]repository.SkillWithOwner, error) {
	return nil, nil
}
func (m mockSkillRepo) Count(context.Context, repository.SkillListFilter) (int64, error) {
	return 0, nil
}
func (m mockSkillRepo) ListByOwner(context.Context, uuid.UUID) ([]repository.Skill, error) {
	return nil, nil
}
func (m mockSkillRepo) Update(context.Context, repository.Skill) (repository.Skill, error) {
	return repository.Skill{}, nil
}
func (m mockSkillRepo) Delete(context.Context, uuid.UUID) error { return nil }

type mockRequestRepo struct {
	stored     repository.ServiceRequest
	getErr     error
	hasPending bool
	pendingErr error
	createErr  error
	updateErr  error

	updatedFrom   string
	updatedStatus string
	listedSent    bool
	listedRecv    bool
}

func (m *mockRequestRepo) Create(_ context.Context, sr repository.ServiceRequest) (repository.ServiceRequest, error) {
	if m.createErr != nil {
		return repository.ServiceRequest{}, m.createErr
	}
	return sr, nil
}
func (m *mockRequestRepo) GetByID(context.Context, uuid.UUID) (repository.ServiceRequest, error) {
	return m.stored, m.getErr
}
func (m *mockRequestRepo) HasPending(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return m.hasPending, m.pendingErr
}
func (m *mockRequestRepo) UpdateStatus(_ context.Context, _ uuid.UUID, from, to string) (repository.ServiceRequest, error) {
	if m.updateErr != nil {
		return repository.ServiceRequest{}, m.updateErr
	}
	m.updatedFrom = from
	m.updatedStatus = to
	out := m.stored
	out.Status = to
	return out, nil
}
func (m *mockRequestRepo) ListForUser(_ context.Context, _ uuid.UUID, sent, received bool) ([]repository.ServiceRequestDetail, error) {
	m.listedSent = sent
	m.listedRecv = received
	return nil, nil
}

func activeSkill(ownerID uuid.UUID) repository.SkillWithOwner {
	return repository.SkillWithOwner{Skill: repository.Skill{
		ID:       uuid.New(),
		UserID:   ownerID,
		Title:    "Bike repair",
		IsActive: true,
	}}
}

func TestRequestCreate_Success(t *testing.T) {
	provider := uuid.New()
	requester := uuid.New()
	skill := activeSkill(provider)

	uc := NewRequestUsecase(&mockRequestRepo{}, mockSkillRepo{skill: skill})
	sr, err := uc.Create(context.Background(), requester, CreateRequestInput{SkillID: skill.ID, Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sr.Status != repository.RequestStatusPending {
		t.Fatalf("expected PENDING, got %s", sr.Status)
	}
	if sr.ProviderID != provider {
		t.Fatalf("provider id not captured from skill owner")
	}
	if sr.RequesterID != requester {
		t.Fatalf("unexpected requester id")
	}
}

func TestRequestCreate_SkillNotFound(t *testing.T) {
	uc := NewRequestUsecase(&mockRequestRepo{}, mockSkillRepo{err: repository.ErrSkillNotFound})
	_, err := uc.Create(context.Background(), uuid.New(), CreateRequestInput{SkillID: uuid.New()})
	if !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}

func TestRequestCreate_InactiveSkill(t *testing.T) {
	skill := activeSkill(uuid.New())
	skill.IsActive = false

	uc := NewRequestUsecase(&mockRequestRepo{}, mockSkillRepo{skill: skill})
	_, err := uc.Create(context.Background(), uuid.New(), CreateRequestInput{SkillID: skill.ID})
	if !errors.Is(err, ErrSkillInactive) {
		t.Fatalf("expected ErrSkillInactive, got %v", err)
	}
}

func TestRequestCreate_OwnSkill(t *testing.T) {
	owner := uuid.New()
	skill := activeSkill(owner)

	uc := NewRequestUsecase(&mockRequestRepo{}, mockSkillRepo{skill: skill})
	_, err := uc.Create(context.Background(), owner, CreateRequestInput{SkillID: skill.ID})
	if !errors.Is(err, ErrOwnSkill) {
		t.Fatalf("expected ErrOwnSkill, got %v", err)
	}
}

func TestRequestCreate_DuplicatePending(t *testing.T) {
	skill := activeSkill(uuid.New())

	uc := NewRequestUsecase(&mockRequestRepo{hasPending: true}, mockSkillRepo{skill: skill})
	_, err := uc.Create(context.Background(), uuid.New(), CreateRequestInput{SkillID: skill.ID})
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestRequestCreate_ConcurrentDuplicateMapsUniqueViolation(t *testing.T) {
	skill := activeSkill(uuid.New())
	repo := &mockRequestRepo{createErr: &pgconn.PgError{Code: "23505"}}

	uc := NewRequestUsecase(repo, mockSkillRepo{skill: skill})
	_, err := uc.Create(context.Background(), uuid.New(), CreateRequestInput{SkillID: skill.ID})
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestRequestCreate_MessageTooLong(t *testing.T) {
	skill := activeSkill(uuid.New())
	msg := make([]byte, maxRequestMessageLen+1)
	for i := range msg {
		msg[i] = 'a'
	}

	uc := NewRequestUsecase(&mockRequestRepo{}, mockSkillRepo{skill: skill})
	_, err := uc.Create(context.Background(), uuid.New(), CreateRequestInput{SkillID: skill.ID, Message: string(msg)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRequestTransition(t *testing.T) {
	requester := uuid.New()
	provider := uuid.New()
	outsider := uuid.New()

	cases := []struct {
		name    string
		status  string
		target  string
		caller  uuid.UUID
		wantErr error
	}{
		{"provider approves pending", repository.RequestStatusPending, repository.RequestStatusApproved, provider, nil},
		{"provider declines pending", repository.RequestStatusPending, repository.RequestStatusDeclined, provider, nil},
		{"requester cancels pending", repository.RequestStatusPending, repository.RequestStatusCancelled, requester, nil},
		{"requester completes approved", repository.RequestStatusApproved, repository.RequestStatusCompleted, requester, nil},
		{"provider completes approved", repository.RequestStatusApproved, repository.RequestStatusCompleted, provider, nil},

		{"requester cannot approve", repository.RequestStatusPending, repository.RequestStatusApproved, requester, ErrForbidden},
		{"requester cannot decline", repository.RequestStatusPending, repository.RequestStatusDeclined, requester, ErrForbidden},
		{"provider cannot cancel", repository.RequestStatusPending, repository.RequestStatusCancelled, provider, ErrForbidden},
		{"outsider cannot complete", repository.RequestStatusApproved, repository.RequestStatusCompleted, outsider, ErrForbidden},

		{"approve non-pending", repository.RequestStatusApproved, repository.RequestStatusApproved, provider, ErrInvalidTransition},
		{"decline completed", repository.RequestStatusCompleted, repository.RequestStatusDeclined, provider, ErrInvalidTransition},
		{"cancel approved", repository.RequestStatusApproved, repository.RequestStatusCancelled, requester, ErrInvalidTransition},
		{"complete pending", repository.RequestStatusPending, repository.RequestStatusCompleted, provider, ErrInvalidTransition},
		{"complete cancelled", repository.RequestStatusCancelled, repository.RequestStatusCompleted, requester, ErrInvalidTransition},
		{"approve declined", repository.RequestStatusDeclined, repository.RequestStatusApproved, provider, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRequestRepo{stored: repository.ServiceRequest{
				ID:          uuid.New(),
				RequesterID: requester,
				ProviderID:  provider,
				Status:      tc.status,
			}}
			uc := NewRequestUsecase(repo, mockSkillRepo{})

			sr, err := uc.Transition(context.Background(), repo.stored.ID, tc.caller, tc.target)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if repo.updatedStatus != "" {
					t.Fatalf("status must not be written on rejected transition")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if sr.Status != tc.target {
				t.Fatalf("expected status %s, got %s", tc.target, sr.Status)
			}
			if repo.updatedFrom != tc.status {
				t.Fatalf("update must be guarded by the validated status %s, got %s", tc.status, repo.updatedFrom)
			}
		})
	}
}

// Two racing PATCHes can both validate against the same stored status; the
// guarded update lets only the first through.
func TestRequestTransition_ConcurrentStatusChange(t *testing.T) {
	requester := uuid.New()
	repo := &mockRequestRepo{
		stored: repository.ServiceRequest{
			ID:          uuid.New(),
			RequesterID: requester,
			ProviderID:  uuid.New(),
			Status:      repository.RequestStatusPending,
		},
		updateErr: repository.ErrRequestStatusChanged,
	}
	uc := NewRequestUsecase(repo, mockSkillRepo{})

	_, err := uc.Transition(context.Background(), repo.stored.ID, requester, repository.RequestStatusCancelled)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRequestTransition_UnknownTarget(t *testing.T) {
	uc := NewRequestUsecase(&mockRequestRepo{}, mockSkillRepo{})
	_, err := uc.Transition(context.Background(), uuid.New(), uuid.New(), "SHIPPED")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRequestTransition_NotFound(t *testing.T) {
	repo := &mockRequestRepo{getErr: repository.ErrRequestNotFound}
	uc := NewRequestUsecase(repo, mockSkillRepo{})
	_, err := uc.Transition(context.Background(), uuid.New(), uuid.New(), repository.RequestStatusApproved)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestList_ScopeSelection(t *testing.T) {
	cases := []struct {
		name  string
		scope string
		sent  bool
		recv  bool
	}{
		{"sent", RequestScopeSent, true, false},
		{"received", RequestScopeReceived, false, true},
		{"all", RequestScopeAll, true, true},
		{"empty defaults to all", "", true, true},
		{"unrecognized defaults to all", "everything", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRequestRepo{}
			uc := NewRequestUsecase(repo, mockSkillRepo{})
			if _, err := uc.List(context.Background(), uuid.New(), tc.scope); err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if repo.listedSent != tc.sent || repo.listedRecv != tc.recv {
				t.Fatalf("scope %q listed sent=%v received=%v", tc.scope, repo.listedSent, repo.listedRecv)
			}
		})
	}
}
