package serverutils

import (
	"errors"

	"p2p-chat-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders errors returned by later handlers as the
// standard JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"code":    fe.Code,
				"message": fe.Message,
			})
		}

		return ctx.Status(StatusFor(err)).JSON(fiber.Map{
			"success": false,
			"code":    apperror.GetCode(err),
			"message": apperror.GetMessage(err),
		})
	}
}

func StatusFor(err error) int {
	switch apperror.GetCode(err) {
	case apperror.CodeUnauthorized, apperror.CodeTokenExpired:
		return fiber.StatusUnauthorized
	case apperror.CodeEmailExists:
		return fiber.StatusConflict
	case apperror.CodeUserNotFound:
		return fiber.StatusNotFound
	case apperror.CodeInvalidParams:
		return fiber.StatusBadRequest
	case apperror.CodeStorage, apperror.CodeDeliveryFailed:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// OK writes the success envelope.
func OK(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	})
}
