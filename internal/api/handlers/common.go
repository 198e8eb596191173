package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/piqadolf/foodgram-project-react/domain"
)

// statusForError maps domain errors to HTTP status codes. Everything in the
// domain taxonomy is a client condition, not a system fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAuthorized),
		errors.Is(err, domain.ErrUnauthorizedRecipeAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRelationNotFound),
		errors.Is(err, domain.ErrRelationTargetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRelationAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
