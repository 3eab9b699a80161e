package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/recibo/receipts-server/internal/api/http/handler"
	"github.com/recibo/receipts-server/internal/api/http/middleware"
)

// Router assembles the fiber application from handlers and middleware.
type Router struct {
	session *handler.Session
	user    *handler.User
	receipt *handler.Receipt
	auth    *middleware.Authenticate
	logging *middleware.Logging
}

func New(
	session *handler.Session,
	user *handler.User,
	receipt *handler.Receipt,
	auth *middleware.Authenticate,
	logging *middleware.Logging,
) *Router {
	return &Router{
		session: session,
		user:    user,
		receipt: receipt,
		auth:    auth,
		logging: logging,
	}
}

// App builds the fiber application with every route mounted.
func (r *Router) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "receipts-server",
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(r.logging.Handle)
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	app.Post("/log-in", r.session.Login)
	app.Post("/refresh-token", r.session.Refresh)
	app.Post("/sign-out", r.auth.Handle, r.session.SignOut)

	app.Post("/user", r.user.Create)
	app.Get("/user", r.auth.Handle, r.user.Get)
	app.Put("/user", r.auth.Handle, r.user.Update)
	app.Patch("/user-update-password", r.auth.Handle, r.user.UpdatePassword)
	app.Delete("/user", r.auth.Handle, r.user.Delete)

	app.Get("/receipts", r.auth.Handle, r.receipt.List)
	app.Get("/receipt", r.auth.Handle, r.receipt.Get)
	app.Post("/receipt", r.auth.Handle, r.receipt.Create)
	app.Put("/receipt", r.auth.Handle, r.receipt.Update)
	app.Delete("/receipt", r.auth.Handle, r.receipt.Delete)

	return app
}
