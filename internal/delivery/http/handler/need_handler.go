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

type NeedHandler struct {
	uc usecase.NeedUsecase
}

type createNeedRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      *int64 `json:"budget"`
	Category    string `json:"category"`
}

type updateNeedRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Budget      *int64  `json:"budget"`
	ClearBudget bool    `json:"clear_budget"`
	Category    *string `json:"category"`
	IsFulfilled *bool   `json:"is_fulfilled"`
}

func NewNeedHandler(uc usecase.NeedUsecase) *NeedHandler {
	return &NeedHandler{uc: uc}
}

func (h *NeedHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

func (h *NeedHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.Create)
	r.Get("/mine", h.Mine)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *NeedHandler) List(c fiber.Ctx) error {
	p := usecase.NeedListParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    fiber.Query[int](c, "limit"),
		Offset:   fiber.Query[int](c, "offset"),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		p.UserID = id
	}

	items, total, err := h.uc.List(c.Context(), p)
	if err != nil {
		return mapNeedUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewNeedListResponse(items, total))
}

func (h *NeedHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	nw, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapNeedUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewNeedWithOwnerResponse(nw))
}

func (h *NeedHandler) Mine(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.Mine(c.Context(), userID)
	if err != nil {
		return mapNeedUsecaseError(err)
	}

	out := make([]dto.NeedResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NewNeedResponse(n))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *NeedHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createNeedRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), userID, usecase.CreateNeedInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Category:    req.Category,
	})
	if err != nil {
		return mapNeedUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewNeedResponse(created))
}

func (h *NeedHandler) Update(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req updateNeedRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.Update(c.Context(), userID, id, usecase.UpdateNeedInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		ClearBudget: req.ClearBudget,
		Category:    req.Category,
		IsFulfilled: req.IsFulfilled,
	})
	if err != nil {
		return mapNeedUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewNeedResponse(updated))
}

func (h *NeedHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapNeedUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"success": true})
}

func mapNeedUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrNeedNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Need not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Not authorized", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
