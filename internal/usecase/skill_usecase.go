package usecase

import (
	"context"
	"errors"
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

var ErrSkillNotFound = errors.New("skill not found")

const (
	maxTitleLen       = 100
	maxDescriptionLen = 2000
	maxCategoryLen    = 50
	maxTagLen         = 30
	maxTags           = 10

	defaultListLimit = 20
	maxListLimit     = 50
)

type CreateSkillInput struct {
	Title       string
	Description string
	Price       int
	PriceType   string
	Category    string
	Tags        []string
}

type UpdateSkillInput struct {
	Title       *string
	Description *string
	Price       *int
	PriceType   *string
	Category    *string
	Tags        []string
	IsActive    *bool
}

type SkillListParams struct {
	Category string
	Search   string
	UserID   uuid.UUID
	Limit    int
	Offset   int
}

type SkillUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateSkillInput) (repository.Skill, error)
	Get(ctx context.Context, id uuid.UUID) (repository.SkillWithOwner, error)
	List(ctx context.Context, p SkillListParams) ([]repository.SkillWithOwner, int64, error)
	Mine(ctx context.Context, userID uuid.UUID) ([]repository.Skill, error)
	Update(ctx context.Context, userID, id uuid.UUID, in UpdateSkillInput) (repository.Skill, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Skill struct {
	skills repository.SkillRepository

	cache    Cache
	cacheTTL time.Duration
}

func NewSkillUsecase(skills repository.SkillRepository, cache Cache, cacheTTL time.Duration) *Skill {
	return &Skill{skills: skills, cache: cache, cacheTTL: cacheTTL}
}

func (u *Skill) Create(ctx context.Context, userID uuid.UUID, in CreateSkillInput) (repository.Skill, error) {
	if err := validateSkillFields(in.Title, in.Description, in.Price, in.PriceType, in.Category, in.Tags); err != nil {
		return repository.Skill{}, err
	}

	created, err := u.skills.Create(ctx, repository.Skill{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		PriceType:   in.PriceType,
		Category:    in.Category,
		Tags:        in.Tags,
		IsActive:    true,
	})
	if err != nil {
		return repository.Skill{}, ErrInternal
	}
	return created, nil
}

func (u *Skill) Get(ctx context.Context, id uuid.UUID) (repository.SkillWithOwner, error) {
	sw, err := u.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return repository.SkillWithOwner{}, ErrSkillNotFound
		}
		return repository.SkillWithOwner{}, ErrInternal
	}
	return sw, nil
}

type skillListPage struct {
	Items []repository.SkillWithOwner `json:"items"`
	Total int64                       `json:"total"`
}

func (u *Skill) List(ctx context.Context, p SkillListParams) ([]repository.SkillWithOwner, int64, error) {
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit > maxListLimit {
		p.Limit = maxListLimit
	}
	if p.Offset < 0 {
		return nil, 0, ErrInvalidInput
	}

	key := skillsSearchCacheKey(p)
	if u.cache != nil {
		var page skillListPage
		if hit, err := u.cache.GetJSON(ctx, key, &page); err == nil && hit {
			return page.Items, page.Total, nil
		}
	}

	f := repository.SkillListFilter{
		Category:   p.Category,
		Search:     p.Search,
		UserID:     p.UserID,
		ActiveOnly: true,
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
	items, err := u.skills.List(ctx, f)
	if err != nil {
		return nil, 0, ErrInternal
	}
	total, err := u.skills.Count(ctx, f)
	if err != nil {
		return nil, 0, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, skillListPage{Items: items, Total: total}, u.cacheTTL)
	}
	return items, total, nil
}

func (u *Skill) Mine(ctx context.Context, userID uuid.UUID) ([]repository.Skill, error) {
	items, err := u.skills.ListByOwner(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Skill) Update(ctx context.Context, userID, id uuid.UUID, in UpdateSkillInput) (repository.Skill, error) {
	sw, err := u.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return repository.Skill{}, ErrSkillNotFound
		}
		return repository.Skill{}, ErrInternal
	}
	if sw.UserID != userID {
		return repository.Skill{}, ErrForbidden
	}

	s := sw.Skill
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.PriceType != nil {
		s.PriceType = *in.PriceType
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Tags != nil {
		s.Tags = in.Tags
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}

	if err := validateSkillFields(s.Title, s.Description, s.Price, s.PriceType, s.Category, s.Tags); err != nil {
		return repository.Skill{}, err
	}

	updated, err := u.skills.Update(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return repository.Skill{}, ErrSkillNotFound
		}
		return repository.Skill{}, ErrInternal
	}
	return updated, nil
}

func (u *Skill) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sw, err := u.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		return ErrInternal
	}
	if sw.UserID != userID {
		return ErrForbidden
	}

	if err := u.skills.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		return ErrInternal
	}
	return nil
}

func validateSkillFields(title, description string, price int, priceType, category string, tags []string) error {
	if title == "" || len(title) > maxTitleLen {
		return ErrInvalidInput
	}
	if description == "" || len(description) > maxDescriptionLen {
		return ErrInvalidInput
	}
	if price <= 0 {
		return ErrInvalidInput
	}
	switch priceType {
	case repository.PriceTypeHourly, repository.PriceTypeSession, repository.PriceTypeFlat:
	default:
		return ErrInvalidInput
	}
	if category == "" || len(category) > maxCategoryLen {
		return ErrInvalidInput
	}
	if len(tags) > maxTags {
		return ErrInvalidInput
	}
	for _, t := range tags {
		if len(t) > maxTagLen {
			return ErrInvalidInput
		}
	}
	return nil
}
