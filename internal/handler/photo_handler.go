package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sefazor/photoview-backend/internal/middleware"
	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/service"
	"github.com/sefazor/photoview-backend/internal/storage"
	"github.com/sefazor/photoview-backend/pkg/utils"
)

type PhotoHandler struct {
	photoService *service.PhotoService
	validator    *utils.Validator
}

func NewPhotoHandler(photoService *service.PhotoService, validator *utils.Validator) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		validator:    validator,
	}
}

func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil || file.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file in request"})
	}

	userID := c.Locals(middleware.UserIDKey).(primitive.ObjectID)

	photoID, err := h.photoService.Upload(c.Context(), userID, file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "success",
		"body":    fiber.Map{"photo_id": photoID},
	})
}

func (h *PhotoHandler) List(c *fiber.Ctx) error {
	offset := int64(c.QueryInt("offset", 0))
	perPage := int64(c.QueryInt("per_page", 10))

	total, photos, err := h.photoService.ListVisible(c.Context(), offset, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"total":    total,
		"offset":   offset,
		"per_page": perPage,
		"photos":   photos,
	})
}

func (h *PhotoHandler) Pendent(c *fiber.Ctx) error {
	photos, err := h.photoService.ListPendent(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"photos": photos})
}

func (h *PhotoHandler) Authorize(c *fiber.Ctx) error {
	photoID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
	}

	if err := h.photoService.Authorize(c.Context(), photoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"photo_id": photoID.Hex(),
		"status":   "authorized",
	})
}

func (h *PhotoHandler) Like(c *fiber.Ctx) error {
	photoID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
	}

	userID := c.Locals(middleware.UserIDKey).(primitive.ObjectID)

	like, err := h.photoService.Like(c.Context(), photoID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(like)
}

func (h *PhotoHandler) Comment(c *fiber.Ctx) error {
	photoID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
	}

	var req models.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	userID := c.Locals(middleware.UserIDKey).(primitive.ObjectID)

	comment, err := h.photoService.Comment(c.Context(), photoID, userID, req.Text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(comment)
}
