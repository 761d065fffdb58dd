package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"squadup/models"
	"squadup/services"
	"squadup/utils"
)

type TeamController struct {
	Service *services.MembershipService
	Logger  *log.Logger
}

func NewTeamController(service *services.MembershipService, logger *log.Logger) *TeamController {
	return &TeamController{
		Service: service,
		Logger:  logger,
	}
}

// CreateTeam creates a team owned by the caller; the caller becomes its
// first accepted member in the same transaction.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name string `json:"name" validate:"required,min=1,max=100"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	team, err := tc.Service.CreateTeam(user.ID, input.Name)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

// GetTeams lists all teams with live member counts.
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	teams, err := tc.Service.ListTeams()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(teams))
}

// GetTeamMembers returns the accepted roster of a team.
func (tc *TeamController) GetTeamMembers(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("id"))
	if teamID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", nil)
	}

	roster, err := tc.Service.TeamRoster(teamID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(roster))
}

// LeaveTeam removes the caller's membership. Creators are rejected.
func (tc *TeamController) LeaveTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := tc.Service.Leave(user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Left team",
	})
}

// KickPlayer removes another player from the caller's team.
func (tc *TeamController) KickPlayer(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID := utils.ParseUint(c.Params("id"))
	if teamID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", nil)
	}

	var input struct {
		PlayerID uint `json:"player_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := tc.Service.Kick(user.ID, teamID, input.PlayerID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Player removed",
	})
}
