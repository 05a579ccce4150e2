package serverutils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) *Response {
	return &Response{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *Response {
	return &Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorHandlerMiddleware maps residual internal errors to a structured JSON
// envelope. Users never see a raw error string or stack trace.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if vErr, ok := err.(*ValidationError); ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(&Response{
				Success: false,
				Code:    fiber.StatusBadRequest,
				Message: "Validation failed",
				Data:    vErr.Fields,
			})
		}

		if fErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fErr.Code).JSON(ErrorResponse(fErr.Code, fErr.Message))
		}

		log.Printf("[ERROR] Unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "Internal server error occurred while processing your request"),
		)
	}
}
