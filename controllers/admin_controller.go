package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"squadup/models"
	"squadup/services"
	"squadup/utils"
)

type AdminController struct {
	Service *services.MembershipService
	Logger  *log.Logger
}

func NewAdminController(service *services.MembershipService, logger *log.Logger) *AdminController {
	return &AdminController{
		Service: service,
		Logger:  logger,
	}
}

// DeleteUser removes a user and cascades to their memberships, queue rows,
// refresh tokens, and any teams they created.
func (ac *AdminController) DeleteUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	userID := utils.ParseUint(c.Params("id"))
	if userID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", nil)
	}

	if err := ac.Service.AdminDeleteUser(user.ID, userID); err != nil {
		return serviceError(c, err)
	}

	ac.Logger.Printf("user %d deleted by admin %d", userID, user.ID)
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}

// DeleteTeam removes a team and cascades to its memberships and queues.
// This is the only path that frees a team's creator.
func (ac *AdminController) DeleteTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID := utils.ParseUint(c.Params("id"))
	if teamID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", nil)
	}

	if err := ac.Service.AdminDeleteTeam(user.ID, teamID); err != nil {
		return serviceError(c, err)
	}

	ac.Logger.Printf("team %d deleted by admin %d", teamID, user.ID)
	return c.JSON(fiber.Map{
		"message": "Team deleted",
	})
}
