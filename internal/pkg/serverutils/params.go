package serverutils

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid " + name)
	}
	return id, nil
}

// ParseBody decodes the JSON body and runs the validate tags.
func ParseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return ValidateRequest(out)
}
