package handler

import (
	"connect/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Stable error codes clients branch on instead of matching message text.
const (
	CodeSkillInactive     = "skill_inactive"
	CodeOwnSkill          = "own_skill"
	CodeDuplicateRequest  = "duplicate_request"
	CodeInvalidTransition = "invalid_transition"
	CodeInviteUsed        = "invite_used"
	CodeOwnInvite         = "own_invite"
	CodeAlreadyConnected  = "already_connected"
)

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return userID, nil
}
