package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"squadup/services"
	"squadup/utils"
)

// serviceError maps engine sentinels onto HTTP statuses. Anything unmapped
// is a storage failure and surfaces as a 500 without details.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", nil)
	case errors.Is(err, services.ErrNotTeamCreator),
		errors.Is(err, services.ErrNotYourInvitation),
		errors.Is(err, services.ErrNotAdmin):
		return utils.ErrorResponse(c, fiber.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrDuplicateInvitation),
		errors.Is(err, services.ErrAlreadyResolved):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrAlreadyInTeam),
		errors.Is(err, services.ErrTeamFull),
		errors.Is(err, services.ErrCreatorCannotLeave),
		errors.Is(err, services.ErrCreatorCannotBeKicked):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, err.Error(), nil)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Operation failed", nil)
}
