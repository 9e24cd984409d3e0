package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// genericFailureMessage is what clients see for any unexpected error.
// Internal error text stays in the logs.
const genericFailureMessage = "Something went wrong while processing your request. Please try again."

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// the standard response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Code).JSON(ErrorResponse(apiErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Printf("[ERROR] Unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(genericFailureMessage))
	}
}
