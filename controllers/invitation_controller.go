package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"squadup/models"
	"squadup/services"
	"squadup/utils"
)

type InvitationController struct {
	Service *services.MembershipService
	Logger  *log.Logger
}

func NewInvitationController(service *services.MembershipService, logger *log.Logger) *InvitationController {
	return &InvitationController{
		Service: service,
		Logger:  logger,
	}
}

// InvitePlayer files a pending invitation from the caller's team to a
// player; team creator only.
func (ic *InvitationController) InvitePlayer(c *fiber.Ctx) error {
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

	invitation, err := ic.Service.InvitePlayer(user.ID, teamID, input.PlayerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invitation))
}

// GetMyInvitations lists the caller's pending invitations.
func (ic *InvitationController) GetMyInvitations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	invitations, err := ic.Service.InvitationsFor(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(invitations))
}

// HandleInvitation accepts or declines an invitation addressed to the caller.
func (ic *InvitationController) HandleInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	invitationID := utils.ParseUint(c.Params("id"))
	if invitationID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid invitation id", nil)
	}

	var input struct {
		Action string `json:"action" validate:"required,oneof=accept decline"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	invitation, err := ic.Service.ResolveInvitation(user.ID, invitationID, input.Action == "accept")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(invitation))
}
