package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/fitrekhq/fitrek/app/controllers"
	"github.com/fitrekhq/fitrek/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1", middleware.RequireAuth)

	// Profile and settings
	v1.Get("/user/profile", controllers.HandleGetProfile)
	v1.Patch("/user/settings", controllers.HandleUpdateSettings)

	// Referrals
	v1.Post("/user/referral-code", controllers.HandleIssueReferralCode)
	v1.Get("/user/referrals", controllers.HandleListReferrals)

	// Workout programs
	v1.Post("/workouts/programs", controllers.HandleCreateProgram)
	v1.Get("/workouts/programs", controllers.HandleListPrograms)
	v1.Put("/workouts/programs/:id", controllers.HandleUpdateProgram)
	v1.Delete("/workouts/programs/:id", controllers.HandleDeleteProgram)
	v1.Post("/workouts/templates/:id/apply", controllers.HandleApplyTemplate)

	// Workout logs
	v1.Post("/workouts/logs", controllers.HandleCreateLog)
	v1.Get("/workouts/logs", controllers.HandleListLogs)
	v1.Delete("/workouts/logs/:id", controllers.HandleDeleteLog)

	// Exercise catalog and custom exercises
	v1.Get("/exercises", controllers.HandleListExercises)
	v1.Get("/exercises/templates", controllers.HandleListTemplates)
	v1.Post("/exercises/custom", controllers.HandleCreateCustomExercise)
	v1.Delete("/exercises/custom/:id", controllers.HandleDeleteCustomExercise)

	// Goals
	v1.Post("/goals", controllers.HandleCreateGoal)
	v1.Get("/goals", controllers.HandleListGoals)
	v1.Patch("/goals/:id/progress", controllers.HandleUpdateGoalProgress)
	v1.Patch("/goals/:id/status", controllers.HandleUpdateGoalStatus)
	v1.Delete("/goals/:id", controllers.HandleDeleteGoal)

	// Notifications
	v1.Get("/notifications", controllers.HandleListNotifications)
	v1.Post("/notifications/:id/read", controllers.HandleMarkNotificationRead)
	v1.Post("/notifications/read-all", controllers.HandleMarkAllNotificationsRead)

	// Billing
	v1.Post("/billing/checkout", controllers.HandleCreateCheckout)
	v1.Get("/billing/subscription", controllers.HandleGetSubscription)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
