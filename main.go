package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/priyalorha/shopping-cart/config"
	"github.com/priyalorha/shopping-cart/events"
	"github.com/priyalorha/shopping-cart/models"
	"github.com/priyalorha/shopping-cart/pricing"
	"github.com/priyalorha/shopping-cart/repository"
	"github.com/priyalorha/shopping-cart/routes"
	cartService "github.com/priyalorha/shopping-cart/services/cart"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("Starting shopping cart service...")

	// Load environment variables
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Pricing service client
	oracle := initPricingClient(cfg)

	// Cart closed events (optional: unset RABBITMQ_URL disables publication)
	var publisher cartService.EventPublisher
	if cfg.RabbitMQURL != "" {
		pool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.Fatalf("Failed to create event channel pool: %v", err)
		}
		defer pool.Close()
		publisher = events.NewPublisher(pool, cfg.RabbitMQQueue)
	}

	svc := cartService.NewService(repository.NewGormStore(db), oracle, publisher)

	// Gin setup
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, svc)

	log.Printf("Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = cfg.DSN()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db
}

// initPricingClient picks the configured transport binding. Both bindings
// honor the same contract, so the engine never knows which one is in play.
func initPricingClient(cfg *config.Config) pricing.Client {
	switch cfg.PricingTransport {
	case "grpc":
		client, err := pricing.NewGRPCClient(cfg.PricingGRPCAddr, cfg.PricingTimeout)
		if err != nil {
			log.Fatalf("Failed to create pricing client: %v", err)
		}
		return client
	default:
		return pricing.NewRESTClient(cfg.PricingAPIURL, cfg.PricingTimeout)
	}
}
