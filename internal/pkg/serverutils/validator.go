package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks struct tags on a request payload and turns
// violations into a 400 ApiError.
func ValidateRequest(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
		}
		return NewApiError(fiber.StatusBadRequest, strings.Join(messages, "; "))
	}

	return NewApiError(fiber.StatusBadRequest, err.Error())
}
