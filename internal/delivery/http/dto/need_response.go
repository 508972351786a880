package dto

import (
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

type NeedResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      *int64    `json:"budget"`
	Category    string    `json:"category"`
	IsFulfilled bool      `json:"is_fulfilled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewNeedResponse(n repository.Need) NeedResponse {
	return NeedResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Description: n.Description,
		Budget:      n.Budget,
		Category:    n.Category,
		IsFulfilled: n.IsFulfilled,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

type NeedWithOwnerResponse struct {
	NeedResponse
	Owner UserSummaryResponse `json:"owner"`
}

func NewNeedWithOwnerResponse(nw repository.NeedWithOwner) NeedWithOwnerResponse {
	return NeedWithOwnerResponse{
		NeedResponse: NewNeedResponse(nw.Need),
		Owner:        NewUserSummaryResponse(nw.Owner),
	}
}

type NeedListResponse struct {
	Needs []NeedWithOwnerResponse `json:"needs"`
	Total int64                   `json:"total"`
}

func NewNeedListResponse(items []repository.NeedWithOwner, total int64) NeedListResponse {
	out := make([]NeedWithOwnerResponse, 0, len(items))
	for _, nw := range items {
		out = append(out, NewNeedWithOwnerResponse(nw))
	}
	return NeedListResponse{Needs: out, Total: total}
}
