package middleware

import (
	"errors"
	"strings"

	"connect/internal/pkg/jwt"
	"connect/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxUserIDKey = "user_id"

type AuthMiddleware struct {
	jwt   jwt.Service
	users repository.UserRepository
}

func NewAuthMiddleware(jwtSvc jwt.Service, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, users: users}
}

// Middleware requires a bearer access token that resolves to an existing
// user; everything else is 401 before any business logic runs.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, err := m.resolve(c)
		if err != nil {
			return err
		}

		c.Locals(CtxUserIDKey, userID)
		return c.Next()
	}
}

// Optional resolves the caller when a valid token is present but lets
// anonymous requests through untouched.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if userID, err := m.resolve(c); err == nil {
			c.Locals(CtxUserIDKey, userID)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) resolve(c fiber.Ctx) (uuid.UUID, error) {
	token, ok := bearerTokenFromHeader(c.Get("Authorization"))
	if !ok {
		return uuid.Nil, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return uuid.Nil, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}
	if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
		return uuid.Nil, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
	}

	exists, err := m.users.ExistsByID(c.Context(), claims.UserID)
	if err != nil {
		return uuid.Nil, NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	if !exists {
		return uuid.Nil, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	return claims.UserID, nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
