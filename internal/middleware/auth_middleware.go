package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sefazor/photoview-backend/internal/models"
	jwtPkg "github.com/sefazor/photoview-backend/pkg/jwt"
)

// UserIDKey is the request-local key the authenticated user id is stored
// under.
const UserIDKey = "userID"

// Auth resolves the bearer credential to a user identifier and stores it in
// the request locals.
func Auth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtPkg.ValidateToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid user ID in token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserLoader loads a user for capability checks.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAdmin re-loads the authenticated user and gates on the admin flag.
// A missing user is not found; a present non-admin user is forbidden.
func RequireAdmin(users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals(UserIDKey).(primitive.ObjectID)

		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"detail": "not found",
			})
		}
		if !user.Admin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "forbidden",
			})
		}

		return c.Next()
	}
}
