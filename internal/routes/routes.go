package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/config"
	"github.com/example/zylm/internal/handlers"
	"github.com/example/zylm/internal/middleware"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/notify"
	"github.com/example/zylm/internal/services"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	DB          *gorm.DB
	Config      *config.Config
	Log         *zap.Logger
	Ledger      *services.OTPLedger
	Users       *services.UserService
	Submissions *services.SubmissionStore
	Intake      *services.FormIntakeService
	Gateway     *notify.Gateway
}

// NewApp builds the Fiber application with the shared middleware stack and
// every route registered.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Zylm Energy Backend",
		ErrorHandler: handlers.ErrorHandler(d.Log),
		BodyLimit:    6 << 20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Log))

	Register(app, d)
	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, d Deps) {
	cfg := d.Config

	otpHandler := handlers.NewOTPHandler(d.Ledger, d.Gateway, cfg.OTPDevMode)
	formHandler := handlers.NewFormHandler(d.Intake, d.Submissions)
	authHandler := handlers.NewAuthHandler(d.Users, cfg.JWTSecret, cfg.TokenExpires)
	userHandler := handlers.NewUserHandler(d.Users)
	productHandler := handlers.NewProductHandler(d.DB)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir, d.Log)
	healthHandler := handlers.NewHealthHandler(d.Gateway)
	notificationHandler := handlers.NewNotificationHandler(d.Gateway)
	adminHandler := handlers.NewAdminHandler(d.DB)

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	api.Get("/health", healthHandler.Health)
	api.Get("/status", healthHandler.Status)

	// Public form flow
	api.Post("/send-otp", limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many OTP requests, please try again later")
		},
	}), otpHandler.SendOTP)
	api.Post("/verify-otp", otpHandler.VerifyOTP)
	api.Post("/submit-form", formHandler.Submit)
	api.Post("/upload-cv", uploadHandler.UploadCV)
	api.Post("/login", authHandler.Login)

	// Catalog
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret, d.Users))
	admin := middleware.RequireRole(models.RoleAdmin)

	protected.Get("/me", authHandler.Me)
	protected.Get("/dashboard", adminHandler.DashboardStats)
	protected.Get("/dashboard/recent", adminHandler.RecentSubmissions)

	protected.Post("/products", admin, productHandler.CreateProduct)
	protected.Put("/products/:id", admin, productHandler.UpdateProduct)
	protected.Delete("/products/:id", admin, productHandler.DeleteProduct)

	protected.Get("/forms", formHandler.ListSubmissions)
	protected.Get("/forms/:id", formHandler.GetSubmission)
	protected.Put("/forms/:id/status", admin, formHandler.UpdateSubmissionStatus)
	protected.Delete("/forms/:id", admin, formHandler.DeleteSubmission)

	protected.Get("/users", admin, userHandler.ListUsers)
	protected.Post("/users", admin, userHandler.CreateUser)
	protected.Put("/users/:id", admin, userHandler.UpdateUser)
	protected.Delete("/users/:id", admin, userHandler.DeleteUser)

	protected.Get("/notifications", notificationHandler.ListNotifications)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}
