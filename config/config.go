package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	PricingTransport string // "rest" or "grpc"
	PricingAPIURL    string
	PricingGRPCAddr  string
	PricingTimeout   time.Duration

	RabbitMQURL     string // empty disables event publication
	RabbitMQQueue   string
	ChannelPoolSize int

	GinMode string
}

func LoadConfig() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "shopping_cart"),

		PricingTransport: getEnv("PRICING_TRANSPORT", "rest"),
		PricingAPIURL:    getEnv("PRICING_API_URL", "http://localhost:8081"),
		PricingGRPCAddr:  getEnv("PRICING_GRPC_ADDR", "localhost:50051"),
		PricingTimeout:   time.Duration(getEnvAsInt("PRICING_TIMEOUT_SECONDS", 10)) * time.Second,

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:   getEnv("RABBITMQ_QUEUE", "cart_closed"),
		ChannelPoolSize: getEnvAsInt("CHANNEL_POOL_SIZE", 10),

		GinMode: getEnv("GIN_MODE", "debug"),
	}
}

// DSN builds the postgres connection string from the discrete DB_* variables.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
