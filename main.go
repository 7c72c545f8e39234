package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"socialnet/internal/config"
	"socialnet/internal/handlers"
	"socialnet/internal/middleware"
	"socialnet/internal/models"
	"socialnet/internal/repositories"
	"socialnet/internal/services"
	"socialnet/pkg/blobstore"
	"socialnet/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Loaded once; everything downstream receives the struct, nothing
	// reads the environment after this point.
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Blob store for post and profile images ---
	blobs, err := blobstore.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// --- RabbitMQ client for welcome notifications ---
	// The notification path is best effort end to end, so a broker
	// that is down must not keep the service from starting.
	var publisher services.Publisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, services.NotificationQueue)
	if err != nil {
		log.Printf("RabbitMQ unavailable, registration notifications disabled: %v", err)
	} else {
		publisher = mqClient
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	// --- Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokenService, publisher)
	ledgerService := services.NewLedgerService(userRepo, postRepo)
	postService := services.NewPostService(postRepo, userRepo, ledgerService)
	profileService := services.NewProfileService(userRepo, postRepo, ledgerService)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService, blobs)
	profileHandler := handlers.NewProfileHandler(profileService, blobs)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	// Public routes
	authHandler.RegisterRoutes(app)

	// Protected routes: everything behind the auth guard
	protected := app.Group("", middleware.AuthRequired(tokenService))
	postHandler.RegisterRoutes(protected)
	profileHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Notification consumer ---
	// Drains the welcome-notification queue; this is the "mailer"
	// collaborator. Failures here never reach the API.
	if mqClient != nil {
		log.Println("Starting notification consumer...")
		if consumerErr := mqClient.Consume(services.NotificationQueue, handleNotification); consumerErr != nil {
			log.Printf("Failed to start notification consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured database. Unique-index violations
// are translated to gorm.ErrDuplicatedKey so the repositories can
// detect registration conflicts without a pre-check read.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DatabaseDSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// handleNotification delivers a welcome notification. Sending real
// mail lives behind this handler; here it is logged.
func handleNotification(msg amqp.Delivery) error {
	var event struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Template string `json:"template"`
	}
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("malformed notification event: %w", err)
	}
	log.Printf("Sending %s notification to %s <%s>", event.Template, event.Name, event.Email)
	return nil
}
