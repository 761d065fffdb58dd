package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "squadup/controllers"
	"squadup/middleware"
	"squadup/services"
)

func SetupAuthRoutes(app *fiber.App) {
	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	public := auth.Group("", middleware.AuthRateLimiter())
	public.Post("/register", controller.Register)
	public.Post("/login", controller.Login)
	public.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, appLogger *logrus.Logger) {
	membershipService := services.NewMembershipService(db, appLogger)

	teamController := controller.NewTeamController(membershipService, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	requestController := controller.NewRequestController(membershipService, log.New(os.Stdout, "REQUEST: ", log.LstdFlags))
	invitationController := controller.NewInvitationController(membershipService, log.New(os.Stdout, "INVITE: ", log.LstdFlags))
	playerController := controller.NewPlayerController(membershipService, log.New(os.Stdout, "PLAYER: ", log.LstdFlags))
	adminController := controller.NewAdminController(membershipService, log.New(os.Stdout, "ADMIN: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Team routes
	team := api.Group("/teams")
	team.Post("/", teamController.CreateTeam)
	team.Get("/", teamController.GetTeams)
	team.Get("/:id/members", teamController.GetTeamMembers)
	team.Post("/leave", teamController.LeaveTeam)
	team.Post("/:id/kick", teamController.KickPlayer)

	// Join-request routes; submissions are rate limited per user
	team.Post("/:id/requests", middleware.RequestRateLimiter(), requestController.SubmitRequest)
	api.Get("/requests", requestController.GetRequests)
	api.Post("/requests/:id/resolve", requestController.HandleRequest)

	// Invitation routes
	team.Post("/:id/invitations", invitationController.InvitePlayer)
	api.Get("/invitations", invitationController.GetMyInvitations)
	api.Post("/invitations/:id/resolve", invitationController.HandleInvitation)

	// Player directory routes
	player := api.Group("/players")
	player.Put("/me/looking", playerController.SetLooking)
	player.Get("/looking", playerController.GetLookingPlayers)
	player.Get("/in-teams", playerController.GetPlayersInTeams)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminOnly())
	admin.Delete("/users/:id", adminController.DeleteUser)
	admin.Delete("/teams/:id", adminController.DeleteTeam)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB, appLogger *logrus.Logger) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app)

	// Setup API routes
	SetupAPIRoutes(app, db, appLogger)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
