package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"connect/internal/delivery/http/middleware"
	"connect/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type stubConnectionUsecase struct {
	invite repository.Invite
}

func (s stubConnectionUsecase) IssueInvite(context.Context, uuid.UUID) (repository.Invite, error) {
	return s.invite, nil
}
func (s stubConnectionUsecase) ListInvites(context.Context, uuid.UUID) ([]repository.Invite, error) {
	return nil, nil
}
func (s stubConnectionUsecase) Redeem(context.Context, string, uuid.UUID) (repository.UserSummary, error) {
	return repository.UserSummary{}, nil
}
func (s stubConnectionUsecase) ListConnections(context.Context, uuid.UUID) ([]repository.UserSummary, error) {
	return nil, nil
}
func (s stubConnectionUsecase) RemoveConnection(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func TestIssueInvite_RespondsOKWithCode(t *testing.T) {
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, uuid.New())
		return c.Next()
	})

	h := NewConnectionHandler(stubConnectionUsecase{invite: repository.Invite{
		ID:   uuid.New(),
		Code: "a1b2c3d4e5f60718",
	}})
	h.RegisterRoutes(app.Group("/connections"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/connections/invite", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status int `json:"status"`
		Data   struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if body.Status != fiber.StatusOK {
		t.Fatalf("envelope status %d", body.Status)
	}
	if body.Data.Code != "a1b2c3d4e5f60718" {
		t.Fatalf("expected invite code in data, got %q", body.Data.Code)
	}
}
