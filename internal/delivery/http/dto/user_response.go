package dto

import (
	"time"

	"connect/internal/repository"
	"connect/internal/usecase"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatar_url"`
	VenmoHandle   string    `json:"venmo_handle"`
	CashAppHandle string    `json:"cashapp_handle"`
	PaypalHandle  string    `json:"paypal_handle"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewUserResponse(u repository.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		VenmoHandle:   u.VenmoHandle,
		CashAppHandle: u.CashAppHandle,
		PaypalHandle:  u.PaypalHandle,
		CreatedAt:     u.CreatedAt,
	}
}

type UserSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

func NewUserSummaryResponse(s repository.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{ID: s.ID, Name: s.Name, Bio: s.Bio, AvatarURL: s.AvatarURL}
}

type PublicProfileResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Bio           string          `json:"bio"`
	AvatarURL     string          `json:"avatar_url"`
	VenmoHandle   string          `json:"venmo_handle"`
	CashAppHandle string          `json:"cashapp_handle"`
	PaypalHandle  string          `json:"paypal_handle"`
	CreatedAt     time.Time       `json:"created_at"`
	Skills        []SkillResponse `json:"skills"`
	SkillCount    int64           `json:"skill_count"`
	OpenNeedCount int64           `json:"open_need_count"`
}

func NewPublicProfileResponse(p usecase.PublicProfile) PublicProfileResponse {
	skills := make([]SkillResponse, 0, len(p.ActiveSkills))
	for _, s := range p.ActiveSkills {
		skills = append(skills, NewSkillResponse(s))
	}
	return PublicProfileResponse{
		ID:            p.User.ID,
		Name:          p.User.Name,
		Bio:           p.User.Bio,
		AvatarURL:     p.User.AvatarURL,
		VenmoHandle:   p.User.VenmoHandle,
		CashAppHandle: p.User.CashAppHandle,
		PaypalHandle:  p.User.PaypalHandle,
		CreatedAt:     p.CreatedAt,
		Skills:        skills,
		SkillCount:    p.SkillCount,
		OpenNeedCount: p.OpenNeeds,
	}
}
