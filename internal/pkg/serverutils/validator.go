package serverutils

import (
	"fmt"
	"strings"

	"p2p-chat-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BindAndValidate parses the JSON body into req and checks its validate tags.
func BindAndValidate(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.ErrInvalidParams.Wrap(err)
	}
	return Validate(req)
}

func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.ErrInvalidParams.Wrap(err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return &apperror.AppError{
		Code:    apperror.CodeInvalidParams,
		Message: strings.Join(fields, "; "),
		Err:     err,
	}
}
