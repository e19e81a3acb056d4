package serverutils

import (
	"strings"

	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/authtoken"

	"github.com/gofiber/fiber/v2"
)

const LocalUserID = "user_id"

// NewJwtMiddleware verifies the bearer token and stores the user id in locals.
func NewJwtMiddleware(tokens *authtoken.Service) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.ErrUnauthorized
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return err
		}

		ctx.Locals(LocalUserID, claims.UserID)
		return ctx.Next()
	}
}

// UserID reads what NewJwtMiddleware stored.
func UserID(ctx *fiber.Ctx) (int64, bool) {
	id, ok := ctx.Locals(LocalUserID).(int64)
	return id, ok
}
