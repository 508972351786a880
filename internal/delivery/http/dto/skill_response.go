package dto

import (
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	PriceType   string    `json:"price_type"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSkillResponse(s repository.Skill) SkillResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return SkillResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		PriceType:   s.PriceType,
		Category:    s.Category,
		Tags:        tags,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type SkillWithOwnerResponse struct {
	SkillResponse
	Owner UserSummaryResponse `json:"owner"`
}

func NewSkillWithOwnerResponse(sw repository.SkillWithOwner) SkillWithOwnerResponse {
	return SkillWithOwnerResponse{
		SkillResponse: NewSkillResponse(sw.Skill),
		Owner:         NewUserSummaryResponse(sw.Owner),
	}
}

type SkillListResponse struct {
	Skills []SkillWithOwnerResponse `json:"skills"`
	Total  int64                    `json:"total"`
}

func NewSkillListResponse(items []repository.SkillWithOwner, total int64) SkillListResponse {
	out := make([]SkillWithOwnerResponse, 0, len(items))
	for _, sw := range items {
		out = append(out, NewSkillWithOwnerResponse(sw))
	}
	return SkillListResponse{Skills: out, Total: total}
}
