package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tunestream/internal/handlers"
	"tunestream/internal/middleware"
	"tunestream/internal/models"
	"tunestream/internal/repositories"
	"tunestream/internal/services"
	"tunestream/pkg/events"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "tunestream.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables activity events
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Song{},
		&models.Like{},
		&models.Playlist{},
		&models.PlaylistSong{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Activity event client (optional) ---
	var mqClient *events.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize event client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	songRepo := repositories.NewGORMSongRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret, mqClient)
	catalogService := services.NewCatalogService(songRepo)
	libraryService := services.NewLibraryService(likeRepo, playlistRepo, mqClient)

	// Seed the sample catalog on first boot only.
	if err := catalogService.SeedSongs(sampleSongs()); err != nil {
		log.Fatalf("Failed to seed songs: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	libraryHandler := handlers.NewLibraryHandler(libraryService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api")

	// Public routes
	authHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)

	// Protected routes (require a valid bearer token)
	protected := api.Group("", middleware.AuthRequired(authService))
	libraryHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Activity event consumer ---
	if mqClient != nil {
		log.Println("Starting activity event consumer...")
		err := mqClient.Consume(func(msg amqp.Delivery) error {
			log.Printf("Activity event %s: %s", msg.Type, string(msg.Body))
			return nil
		})
		if err != nil {
			log.Printf("Failed to start activity event consumer: %v", err)
		}
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
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

// openDatabase opens the configured relational store. TranslateError
// maps driver-specific unique-constraint violations to
// gorm.ErrDuplicatedKey so the repositories can report conflicts
// uniformly across sqlite and postgres.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// sampleSongs is the eight-track demo catalog inserted on first boot.
func sampleSongs() []models.Song {
	return []models.Song{
		{Title: "Mountain Echo", Artist: "The Helix", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", ImageURL: "https://picsum.photos/seed/mountain-echo/300/300"},
		{Title: "Valley Breeze", Artist: "Lunar Drift", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3", ImageURL: "https://picsum.photos/seed/valley-breeze/300/300"},
		{Title: "Neon Rivers", Artist: "Glass Parade", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3", ImageURL: "https://picsum.photos/seed/neon-rivers/300/300"},
		{Title: "Paper Lanterns", Artist: "Aurora Vale", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3", ImageURL: "https://picsum.photos/seed/paper-lanterns/300/300"},
		{Title: "Static Bloom", Artist: "The Helix", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3", ImageURL: "https://picsum.photos/seed/static-bloom/300/300"},
		{Title: "Midnight Harbor", Artist: "Cobalt Skies", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-6.mp3", ImageURL: "https://picsum.photos/seed/midnight-harbor/300/300"},
		{Title: "Ember Trails", Artist: "Lunar Drift", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-7.mp3", ImageURL: "https://picsum.photos/seed/ember-trails/300/300"},
		{Title: "Glass Horizon", Artist: "Aurora Vale", AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-8.mp3", ImageURL: "https://picsum.photos/seed/glass-horizon/300/300"},
	}
}
