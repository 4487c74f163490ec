package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitrekhq/fitrek/app/controllers"
	"github.com/fitrekhq/fitrek/internal/pkg/middleware"
	"github.com/fitrekhq/fitrek/internal/pkg/oauth"
	"github.com/fitrekhq/fitrek/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Account lifecycle
	app.Post("/register", controllers.HandleRegister)
	app.Get("/activate", controllers.HandleActivate)
	app.Post("/login", controllers.HandleLogin)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
	app.Post("/resend-activation", controllers.HandleResendActivation)
	app.Post("/password-reset/request", controllers.HandlePasswordResetRequest)
	app.Post("/password-reset", controllers.HandlePasswordReset)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthStart)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Billing provider webhooks (no auth, signature-verified in controller)
	app.All("/webhooks/stripe", controllers.HandleStripeWebhook)
}
