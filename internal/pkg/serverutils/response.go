package serverutils

import "github.com/gofiber/fiber/v2"

type BaseResponse[T any] struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func CreatedResponse[T any](message string, data T) BaseResponse[T] {
	res := SuccessResponse(message, data)
	res.Code = fiber.StatusCreated
	return res
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}
