package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sefazor/photoview-backend/internal/middleware"
)

// SetupRoutes registers the full HTTP surface on app.
func SetupRoutes(app *fiber.App, authHandler *AuthHandler, photoHandler *PhotoHandler, users middleware.UserLoader, jwtSecret []byte) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "healthy"})
	})

	app.Post("/signup", authHandler.Signup)
	app.Post("/signin", authHandler.Signin)

	photos := app.Group("/photos", middleware.Auth(jwtSecret))
	photos.Get("/", photoHandler.List)
	photos.Get("/pendent", middleware.RequireAdmin(users), photoHandler.Pendent)
	photos.Post("/", middleware.RequireAdmin(users), photoHandler.Upload)
	photos.Put("/:id/authorized", middleware.RequireAdmin(users), photoHandler.Authorize)
	photos.Post("/:id/liked", photoHandler.Like)
	photos.Post("/:id/comment", photoHandler.Comment)
}
