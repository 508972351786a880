package dto

import (
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

type InviteResponse struct {
	Code      string     `json:"code"`
	UsedByID  *uuid.UUID `json:"used_by_id,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewInviteResponse(inv repository.Invite) InviteResponse {
	return InviteResponse{
		Code:      inv.Code,
		UsedByID:  inv.UsedByID,
		UsedAt:    inv.UsedAt,
		CreatedAt: inv.CreatedAt,
	}
}

type RedeemInviteResponse struct {
	Success       bool                `json:"success"`
	ConnectedWith UserSummaryResponse `json:"connected_with"`
}
