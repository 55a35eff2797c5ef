package serverutils

import (
	"errors"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders any error returned further down the chain as a BaseResponse.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err, log)
	}
}

// ErrorHandler is the fiber.Config hook for errors that never reach the middleware, like unknown routes.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return WriteError(ctx, err, log)
	}
}

func WriteError(ctx *fiber.Ctx, err error, log logger.ILogger) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		res := ErrorResponse(fiber.StatusUnprocessableEntity, "Validation failed")
		res.Errors = verr.Fields
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}

	if apperror.KindOf(err) != "" {
		code := apperror.HTTPStatus(err)
		if code >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, apperror.PublicMessage(err)))
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
	}

	if log != nil {
		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
