package usecase

import (
	"context"
	"errors"
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

const (
	maxBioLen           = 500
	maxPaymentHandleLen = 100
)

type UpdateProfileInput struct {
	Name          *string
	Bio           *string
	AvatarURL     *string
	VenmoHandle   *string
	CashAppHandle *string
	PaypalHandle  *string
}

// PublicProfile is what any visitor sees on a user page: identity summary,
// currently active skills and activity counts.
type PublicProfile struct {
	User         repository.UserSummary
	CreatedAt    time.Time
	ActiveSkills []repository.Skill
	SkillCount   int64
	OpenNeeds    int64
}

type UserUsecase interface {
	Me(ctx context.Context, userID uuid.UUID) (repository.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (repository.User, error)
	PublicProfile(ctx context.Context, userID uuid.UUID) (PublicProfile, error)
}

type User struct {
	users  repository.UserRepository
	skills repository.SkillRepository
	needs  repository.NeedRepository
}

func NewUserUsecase(users repository.UserRepository, skills repository.SkillRepository, needs repository.NeedRepository) *User {
	return &User{users: users, skills: skills, needs: needs}
}

func (u *User) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.User{}, ErrUserNotFound
		}
		return repository.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (repository.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.User{}, ErrUserNotFound
		}
		return repository.User{}, ErrInternal
	}

	if in.Name != nil {
		if *in.Name == "" || len(*in.Name) > maxNameLen {
			return repository.User{}, ErrInvalidInput
		}
		usr.Name = *in.Name
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return repository.User{}, ErrInvalidInput
		}
		usr.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		usr.AvatarURL = *in.AvatarURL
	}
	if in.VenmoHandle != nil {
		if len(*in.VenmoHandle) > maxPaymentHandleLen {
			return repository.User{}, ErrInvalidInput
		}
		usr.VenmoHandle = *in.VenmoHandle
	}
	if in.CashAppHandle != nil {
		if len(*in.CashAppHandle) > maxPaymentHandleLen {
			return repository.User{}, ErrInvalidInput
		}
		usr.CashAppHandle = *in.CashAppHandle
	}
	if in.PaypalHandle != nil {
		if len(*in.PaypalHandle) > maxPaymentHandleLen {
			return repository.User{}, ErrInvalidInput
		}
		usr.PaypalHandle = *in.PaypalHandle
	}

	updated, err := u.users.UpdateProfile(ctx, usr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.User{}, ErrUserNotFound
		}
		return repository.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

func (u *User) PublicProfile(ctx context.Context, userID uuid.UUID) (PublicProfile, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return PublicProfile{}, ErrUserNotFound
		}
		return PublicProfile{}, ErrInternal
	}

	active, err := u.skills.List(ctx, repository.SkillListFilter{
		UserID:     userID,
		ActiveOnly: true,
		Limit:      50,
	})
	if err != nil {
		return PublicProfile{}, ErrInternal
	}
	skills := make([]repository.Skill, 0, len(active))
	for _, sw := range active {
		skills = append(skills, sw.Skill)
	}

	skillCount, err := u.skills.Count(ctx, repository.SkillListFilter{UserID: userID, ActiveOnly: true})
	if err != nil {
		return PublicProfile{}, ErrInternal
	}
	openNeeds, err := u.needs.Count(ctx, repository.NeedListFilter{UserID: userID, OpenOnly: true})
	if err != nil {
		return PublicProfile{}, ErrInternal
	}

	return PublicProfile{
		User:         usr.Summary(),
		CreatedAt:    usr.CreatedAt,
		ActiveSkills: skills,
		SkillCount:   skillCount,
		OpenNeeds:    openNeeds,
	}, nil
}
