package usecase

import (
	"context"
	"errors"

	"connect/internal/repository"

	"github.com/google/uuid"
)

var ErrNeedNotFound = errors.New("need not found")

type CreateNeedInput struct {
	Title       string
	Description string
	Budget      *int64
	Category    string
}

type UpdateNeedInput struct {
	Title       *string
	Description *string
	Budget      *int64
	ClearBudget bool
	Category    *string
	IsFulfilled *bool
}

type NeedListParams struct {
	Category string
	Search   string
	UserID   uuid.UUID
	Limit    int
	Offset   int
}

type NeedUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateNeedInput) (repository.Need, error)
	Get(ctx context.Context, id uuid.UUID) (repository.NeedWithOwner, error)
	List(ctx context.Context, p NeedListParams) ([]repository.NeedWithOwner, int64, error)
	Mine(ctx context.Context, userID uuid.UUID) ([]repository.Need, error)
	Update(ctx context.Context, userID, id uuid.UUID, in UpdateNeedInput) (repository.Need, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Need struct {
	needs repository.NeedRepository
}

func NewNeedUsecase(needs repository.NeedRepository) *Need {
	return &Need{needs: needs}
}

func (u *Need) Create(ctx context.Context, userID uuid.UUID, in CreateNeedInput) (repository.Need, error) {
	if err := validateNeedFields(in.Title, in.Description, in.Budget, in.Category); err != nil {
		return repository.Need{}, err
	}

	created, err := u.needs.Create(ctx, repository.Need{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Category:    in.Category,
	})
	if err != nil {
		return repository.Need{}, ErrInternal
	}
	return created, nil
}

func (u *Need) Get(ctx context.Context, id uuid.UUID) (repository.NeedWithOwner, error) {
	nw, err := u.needs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNeedNotFound) {
			return repository.NeedWithOwner{}, ErrNeedNotFound
		}
		return repository.NeedWithOwner{}, ErrInternal
	}
	return nw, nil
}

func (u *Need) List(ctx context.Context, p NeedListParams) ([]repository.NeedWithOwner, int64, error) {
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit > maxListLimit {
		p.Limit = maxListLimit
	}
	if p.Offset < 0 {
		return nil, 0, ErrInvalidInput
	}

	f := repository.NeedListFilter{
		Category: p.Category,
		Search:   p.Search,
		UserID:   p.UserID,
		OpenOnly: true,
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	items, err := u.needs.List(ctx, f)
	if err != nil {
		return nil, 0, ErrInternal
	}
	total, err := u.needs.Count(ctx, f)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return items, total, nil
}

func (u *Need) Mine(ctx context.Context, userID uuid.UUID) ([]repository.Need, error) {
	items, err := u.needs.ListByOwner(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Need) Update(ctx context.Context, userID, id uuid.UUID, in UpdateNeedInput) (repository.Need, error) {
	nw, err := u.needs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNeedNotFound) {
			return repository.Need{}, ErrNeedNotFound
		}
		return repository.Need{}, ErrInternal
	}
	if nw.UserID != userID {
		return repository.Need{}, ErrForbidden
	}

	n := nw.Need
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Description != nil {
		n.Description = *in.Description
	}
	if in.Budget != nil {
		n.Budget = in.Budget
	}
	if in.ClearBudget {
		n.Budget = nil
	}
	if in.Category != nil {
		n.Category = *in.Category
	}
	if in.IsFulfilled != nil {
		n.IsFulfilled = *in.IsFulfilled
	}

	if err := validateNeedFields(n.Title, n.Description, n.Budget, n.Category); err != nil {
		return repository.Need{}, err
	}

	updated, err := u.needs.Update(ctx, n)
	if err != nil {
		if errors.Is(err, repository.ErrNeedNotFound) {
			return repository.Need{}, ErrNeedNotFound
		}
		return repository.Need{}, ErrInternal
	}
	return updated, nil
}

func (u *Need) Delete(ctx context.Context, userID, id uuid.UUID) error {
	nw, err := u.needs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNeedNotFound) {
			return ErrNeedNotFound
		}
		return ErrInternal
	}
	if nw.UserID != userID {
		return ErrForbidden
	}

	if err := u.needs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNeedNotFound) {
			return ErrNeedNotFound
		}
		return ErrInternal
	}
	return nil
}

func validateNeedFields(title, description string, budget *int64, category string) error {
	if title == "" || len(title) > maxTitleLen {
		return ErrInvalidInput
	}
	if description == "" || len(description) > maxDescriptionLen {
		return ErrInvalidInput
	}
	if budget != nil && *budget <= 0 {
		return ErrInvalidInput
	}
	if category == "" || len(category) > maxCategoryLen {
		return ErrInvalidInput
	}
	return nil
}
