package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sefazor/photoview-backend/internal/config"
	"github.com/sefazor/photoview-backend/internal/handler"
	"github.com/sefazor/photoview-backend/internal/repository"
	"github.com/sefazor/photoview-backend/internal/service"
	"github.com/sefazor/photoview-backend/pkg/database"
	"github.com/sefazor/photoview-backend/pkg/logger"
	"github.com/sefazor/photoview-backend/pkg/storage"
	"github.com/sefazor/photoview-backend/pkg/utils"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.L().Info("no .env file loaded")
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := database.NewMongoDatabase(ctx, cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to document store", zap.Error(err))
	}

	blobStorage, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		logger.L().Fatal("failed to initialize blob storage", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// Services
	jwtSecret := []byte(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtSecret)
	photoService := service.NewPhotoService(photoRepo, commentRepo, likeRepo, blobStorage)

	// Handlers
	validator := utils.NewValidator()
	authHandler := handler.NewAuthHandler(authService, validator)
	photoHandler := handler.NewPhotoHandler(photoService, validator)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	handler.SetupRoutes(app, authHandler, photoHandler, userRepo, jwtSecret)

	logger.L().Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
