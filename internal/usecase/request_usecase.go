package usecase

import (
	"context"
	"errors"

	"connect/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRequestNotFound   = errors.New("service request not found")
	ErrSkillInactive     = errors.New("skill is not available")
	ErrOwnSkill          = errors.New("cannot request own skill")
	ErrDuplicateRequest  = errors.New("pending request already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const maxRequestMessageLen = 1000

const (
	RequestScopeSent     = "sent"
	RequestScopeReceived = "received"
	RequestScopeAll      = "all"
)

type CreateRequestInput struct {
	SkillID uuid.UUID
	Message string
}

type RequestUsecase interface {
	Create(ctx context.Context, requesterID uuid.UUID, in CreateRequestInput) (repository.ServiceRequest, error)
	Transition(ctx context.Context, requestID, callerID uuid.UUID, targetStatus string) (repository.ServiceRequest, error)
	List(ctx context.Context, callerID uuid.UUID, scope string) ([]repository.ServiceRequestDetail, error)
}

// Request enforces the service-request state machine:
//
//	PENDING -> APPROVED | DECLINED (provider)
//	PENDING -> CANCELLED           (requester)
//	APPROVED -> COMPLETED          (either party)
//
// DECLINED, CANCELLED and COMPLETED are terminal.
type Request struct {
	requests repository.RequestRepository
	skills   repository.SkillRepository
}

func NewRequestUsecase(requests repository.RequestRepository, skills repository.SkillRepository) *Request {
	return &Request{requests: requests, skills: skills}
}

func (u *Request) Create(ctx context.Context, requesterID uuid.UUID, in CreateRequestInput) (repository.ServiceRequest, error) {
	if in.SkillID == uuid.Nil {
		return repository.ServiceRequest{}, ErrInvalidInput
	}
	if len(in.Message) > maxRequestMessageLen {
		return repository.ServiceRequest{}, ErrInvalidInput
	}

	skill, err := u.skills.GetByID(ctx, in.SkillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return repository.ServiceRequest{}, ErrSkillNotFound
		}
		return repository.ServiceRequest{}, ErrInternal
	}
	if !skill.IsActive {
		return repository.ServiceRequest{}, ErrSkillInactive
	}
	if skill.UserID == requesterID {
		return repository.ServiceRequest{}, ErrOwnSkill
	}

	pending, err := u.requests.HasPending(ctx, in.SkillID, requesterID)
	if err != nil {
		return repository.ServiceRequest{}, ErrInternal
	}
	if pending {
		return repository.ServiceRequest{}, ErrDuplicateRequest
	}

	created, err := u.requests.Create(ctx, repository.ServiceRequest{
		ID:          uuid.New(),
		SkillID:     in.SkillID,
		RequesterID: requesterID,
		ProviderID:  skill.UserID,
		Status:      repository.RequestStatusPending,
		Message:     in.Message,
	})
	if err != nil {
		// Two concurrent creates can both pass the pre-check; the partial
		// unique index then rejects the loser, which is the same business
		// outcome as the pre-check failing.
		if isUniqueViolation(err) {
			return repository.ServiceRequest{}, ErrDuplicateRequest
		}
		if isForeignKeyViolation(err) {
			return repository.ServiceRequest{}, ErrSkillNotFound
		}
		return repository.ServiceRequest{}, ErrInternal
	}
	return created, nil
}

func (u *Request) Transition(ctx context.Context, requestID, callerID uuid.UUID, targetStatus string) (repository.ServiceRequest, error) {
	switch targetStatus {
	case repository.RequestStatusApproved,
		repository.RequestStatusDeclined,
		repository.RequestStatusCancelled,
		repository.RequestStatusCompleted:
	default:
		return repository.ServiceRequest{}, ErrInvalidInput
	}

	// Always validate against the current stored status, never a copy the
	// caller may have loaded earlier.
	sr, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return repository.ServiceRequest{}, ErrRequestNotFound
		}
		return repository.ServiceRequest{}, ErrInternal
	}

	isRequester := sr.RequesterID == callerID
	isProvider := sr.ProviderID == callerID
	if !isRequester && !isProvider {
		return repository.ServiceRequest{}, ErrForbidden
	}

	switch targetStatus {
	case repository.RequestStatusCancelled:
		if !isRequester {
			return repository.ServiceRequest{}, ErrForbidden
		}
		if sr.Status != repository.RequestStatusPending {
			return repository.ServiceRequest{}, ErrInvalidTransition
		}
	case repository.RequestStatusApproved, repository.RequestStatusDeclined:
		if !isProvider {
			return repository.ServiceRequest{}, ErrForbidden
		}
		if sr.Status != repository.RequestStatusPending {
			return repository.ServiceRequest{}, ErrInvalidTransition
		}
	case repository.RequestStatusCompleted:
		if sr.Status != repository.RequestStatusApproved {
			return repository.ServiceRequest{}, ErrInvalidTransition
		}
	}

	updated, err := u.requests.UpdateStatus(ctx, requestID, sr.Status, targetStatus)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestStatusChanged):
			// A concurrent transition won; the status this caller validated
			// against no longer holds.
			return repository.ServiceRequest{}, ErrInvalidTransition
		case errors.Is(err, repository.ErrRequestNotFound):
			return repository.ServiceRequest{}, ErrRequestNotFound
		default:
			return repository.ServiceRequest{}, ErrInternal
		}
	}
	return updated, nil
}

func (u *Request) List(ctx context.Context, callerID uuid.UUID, scope string) ([]repository.ServiceRequestDetail, error) {
	// Anything other than an explicit direction lists both, so an absent
	// or unrecognized filter degrades to the widest view.
	var sent, received bool
	switch scope {
	case RequestScopeSent:
		sent = true
	case RequestScopeReceived:
		received = true
	default:
		sent, received = true, true
	}

	items, err := u.requests.ListForUser(ctx, callerID, sent, received)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}
