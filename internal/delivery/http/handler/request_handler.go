package handler

import (
	"errors"

	"connect/internal/delivery/http/dto"
	"connect/internal/delivery/http/middleware"
	"connect/internal/pkg/response"
	"connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RequestHandler struct {
	uc usecase.RequestUsecase
}

type createServiceRequestRequest struct {
	SkillID uuid.UUID `json:"skill_id"`
	Message string    `json:"message"`
}

type transitionServiceRequestRequest struct {
	Status string `json:"status"`
}

func NewRequestHandler(uc usecase.RequestUsecase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

func (h *RequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/:id", h.Transition)
}

func (h *RequestHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID, c.Query("type"))
	if err != nil {
		return mapRequestUsecaseError(err)
	}

	out := make([]dto.ServiceRequestDetailResponse, 0, len(items))
	for _, d := range items {
		out = append(out, dto.NewServiceRequestDetailResponse(d))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *RequestHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createServiceRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), userID, usecase.CreateRequestInput{
		SkillID: req.SkillID,
		Message: req.Message,
	})
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewServiceRequestResponse(created))
}

func (h *RequestHandler) Transition(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req transitionServiceRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.Transition(c.Context(), id, userID, req.Status)
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewServiceRequestResponse(updated))
}

func mapRequestUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Service request not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrSkillInactive):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill is not available", middleware.ErrorData(CodeSkillInactive), err)
	case errors.Is(err, usecase.ErrOwnSkill):
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot request your own skill", middleware.ErrorData(CodeOwnSkill), err)
	case errors.Is(err, usecase.ErrDuplicateRequest):
		return middleware.NewAppError(fiber.StatusBadRequest, "A pending request for this skill already exists", middleware.ErrorData(CodeDuplicateRequest), err)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status transition", middleware.ErrorData(CodeInvalidTransition), err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Not authorized", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
