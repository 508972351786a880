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

type ConnectionHandler struct {
	uc usecase.ConnectionUsecase
}

func NewConnectionHandler(uc usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{uc: uc}
}

func (h *ConnectionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Post("/invite", h.IssueInvite)
	r.Get("/invites", h.ListInvites)
	r.Post("/accept/:code", h.Redeem)
	r.Delete("/:userId", h.Remove)
}

func (h *ConnectionHandler) IssueInvite(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	inv, err := h.uc.IssueInvite(c.Context(), userID)
	if err != nil {
		return mapConnectionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInviteResponse(inv))
}

func (h *ConnectionHandler) ListInvites(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListInvites(c.Context(), userID)
	if err != nil {
		return mapConnectionUsecaseError(err)
	}

	out := make([]dto.InviteResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, dto.NewInviteResponse(inv))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ConnectionHandler) Redeem(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	connectedWith, err := h.uc.Redeem(c.Context(), c.Params("code"), userID)
	if err != nil {
		return mapConnectionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RedeemInviteResponse{
		Success:       true,
		ConnectedWith: dto.NewUserSummaryResponse(connectedWith),
	})
}

func (h *ConnectionHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	peers, err := h.uc.ListConnections(c.Context(), userID)
	if err != nil {
		return mapConnectionUsecaseError(err)
	}

	out := make([]dto.UserSummaryResponse, 0, len(peers))
	for _, p := range peers {
		out = append(out, dto.NewUserSummaryResponse(p))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ConnectionHandler) Remove(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	otherID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RemoveConnection(c.Context(), userID, otherID); err != nil {
		return mapConnectionUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"success": true})
}

func mapConnectionUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInviteNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Invite not found", nil, err)
	case errors.Is(err, usecase.ErrInviteUsed):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invite has already been used", middleware.ErrorData(CodeInviteUsed), err)
	case errors.Is(err, usecase.ErrOwnInvite):
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot redeem your own invite", middleware.ErrorData(CodeOwnInvite), err)
	case errors.Is(err, usecase.ErrAlreadyConnected):
		return middleware.NewAppError(fiber.StatusBadRequest, "Already connected with this user", middleware.ErrorData(CodeAlreadyConnected), err)
	case errors.Is(err, usecase.ErrConnectionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Connection not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
