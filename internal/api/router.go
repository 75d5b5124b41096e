package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	config "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/api/handlers"
	"github.com/maheshrc27/threads-gateway/internal/api/middleware"
	"github.com/maheshrc27/threads-gateway/internal/models"
	"github.com/maheshrc27/threads-gateway/internal/service"
)

// Multipart overhead allowance on top of the largest accepted image.
const bodySlack = 1 << 20

type Services struct {
	Auth       service.AuthService
	Credential service.CredentialService
	Profile    service.ProfileService
	Publish    service.PublishService
}

// NewApp builds the fiber application with every route mounted.
func NewApp(cfg config.Config, s Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "threads-gateway",
		BodyLimit:             models.MaxImageSize + bodySlack,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		// Multipart bodies are parsed by the post handler so a broken body is a validation error.
		DisablePreParseMultipartForm: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimRight(cfg.FrontendURL, "/"),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderAccessToken,
		MaxAge:       3600,
	}))

	app.Get("/healthz", handlers.Health)

	authMiddleware := middleware.NewAuthMiddleware(s.Credential)
	auth := handlers.NewAuthHandler(cfg, s.Auth)
	profile := handlers.NewProfileHandler(s.Profile)
	post := handlers.NewPostHandler(s.Publish)

	group := app.Group("/api/auth")
	group.Post("/instagram", auth.Exchange)
	group.Get("/refresh-token", auth.RefreshToken)
	group.Get("/callback", auth.Callback)
	group.Get("/login", auth.Login)
	group.Get("/profile", authMiddleware.AuthMiddleware(), profile.GetProfile)
	group.Post("/post", authMiddleware.AuthMiddleware(), post.CreatePost)

	return app
}
