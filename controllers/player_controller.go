package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"squadup/models"
	"squadup/services"
	"squadup/utils"
)

type PlayerController struct {
	Service *services.MembershipService
	Logger  *log.Logger
}

func NewPlayerController(service *services.MembershipService, logger *log.Logger) *PlayerController {
	return &PlayerController{
		Service: service,
		Logger:  logger,
	}
}

// SetLooking flips the caller's looking-for-team flag.
func (pc *PlayerController) SetLooking(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Looking *bool `json:"looking" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := pc.Service.SetLookingForTeam(user.ID, *input.Looking); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"looking_for_team": *input.Looking,
	})
}

// GetLookingPlayers lists the candidate pool for team leaders.
func (pc *PlayerController) GetLookingPlayers(c *fiber.Ctx) error {
	players, err := pc.Service.LookingPlayers()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(players))
}

// GetPlayersInTeams lists every accepted (player, team) pair.
func (pc *PlayerController) GetPlayersInTeams(c *fiber.Ctx) error {
	entries, err := pc.Service.PlayersInTeams()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(entries))
}
