package dto

import (
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

type ServiceRequestResponse struct {
	ID          uuid.UUID `json:"id"`
	SkillID     uuid.UUID `json:"skill_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewServiceRequestResponse(sr repository.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:          sr.ID,
		SkillID:     sr.SkillID,
		RequesterID: sr.RequesterID,
		ProviderID:  sr.ProviderID,
		Status:      sr.Status,
		Message:     sr.Message,
		CreatedAt:   sr.CreatedAt,
		UpdatedAt:   sr.UpdatedAt,
	}
}

type RequestSkillSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Price     int       `json:"price"`
	PriceType string    `json:"price_type"`
}

type RequestProviderSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	VenmoHandle   string    `json:"venmo_handle,omitempty"`
	CashAppHandle string    `json:"cashapp_handle,omitempty"`
	PaypalHandle  string    `json:"paypal_handle,omitempty"`
}

type ServiceRequestDetailResponse struct {
	ServiceRequestResponse
	Skill     RequestSkillSummary    `json:"skill"`
	Requester UserSummaryResponse    `json:"requester"`
	Provider  RequestProviderSummary `json:"provider"`
}

func NewServiceRequestDetailResponse(d repository.ServiceRequestDetail) ServiceRequestDetailResponse {
	return ServiceRequestDetailResponse{
		ServiceRequestResponse: NewServiceRequestResponse(d.ServiceRequest),
		Skill: RequestSkillSummary{
			ID:        d.SkillID,
			Title:     d.SkillTitle,
			Price:     d.SkillPrice,
			PriceType: d.SkillPriceType,
		},
		Requester: NewUserSummaryResponse(d.Requester),
		Provider: RequestProviderSummary{
			ID:            d.Provider.ID,
			Name:          d.Provider.Name,
			AvatarURL:     d.Provider.AvatarURL,
			VenmoHandle:   d.Provider.VenmoHandle,
			CashAppHandle: d.Provider.CashAppHandle,
			PaypalHandle:  d.Provider.PaypalHandle,
		},
	}
}
