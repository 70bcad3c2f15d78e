package presenters

import (
	"errors"

	"Go-Recipe-Backend/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}

	var fieldErr domain.ValidationError
	var structErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErr):
		res.Errors = map[string]string{fieldErr.Field: fieldErr.Message}
	case errors.As(err, &structErrs):
		fields := make(map[string]string, len(structErrs))
		for _, fe := range structErrs {
			fields[fe.Field()] = fe.Tag()
		}
		res.Errors = fields
	case err != nil:
		res.Errors = err.Error()
	}

	return c.Status(code).JSON(res)
}

// StatusCode maps domain errors to the HTTP status the handlers report.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}
