package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"squadup/models"
	"squadup/services"
	"squadup/utils"
)

type RequestController struct {
	Service *services.MembershipService
	Logger  *log.Logger
}

func NewRequestController(service *services.MembershipService, logger *log.Logger) *RequestController {
	return &RequestController{
		Service: service,
		Logger:  logger,
	}
}

// SubmitRequest files a pending join-request from the caller to a team.
func (rc *RequestController) SubmitRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID := utils.ParseUint(c.Params("id"))
	if teamID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", nil)
	}

	request, err := rc.Service.SubmitRequest(user.ID, teamID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(request))
}

// GetRequests lists requests visible to the caller: requests for teams they
// created plus their own submissions.
func (rc *RequestController) GetRequests(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	requests, err := rc.Service.RequestsFor(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(requests))
}

// HandleRequest accepts or declines a pending request; team creator only.
func (rc *RequestController) HandleRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	requestID := utils.ParseUint(c.Params("id"))
	if requestID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request id", nil)
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

	request, err := rc.Service.ResolveRequest(user.ID, requestID, input.Action == "accept")
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(utils.SuccessResponse(request))
}
