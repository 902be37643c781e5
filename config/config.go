package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type Config struct {
	ServerPort string
	BaseURL    string

	StoreDriver string
	DatabaseDSN string
	MongoURI    string
	MongoDB     string

	AccessSecret   string
	AccessTokenTTL time.Duration

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	CloudinaryUrl   string
	StripeSecretKey string
	PaymentCurrency string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	return Config{
		ServerPort: getEnv("SERVER_PORT", ":5000"),
		BaseURL:    getEnv("BASE_URL", "*"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getEnv("MONGO_DB", "laptopZone"),

		AccessSecret:   os.Getenv("ACCESS_TOKEN"),
		AccessTokenTTL: getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "laptop-zone.events"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "laptop-zone-settlement"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryUrl:   os.Getenv("CLOUDINARY_URL"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PaymentCurrency: strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
	}
}

// Validate reports the settings the server cannot start without.
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("ACCESS_TOKEN is required")
	}
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres store")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	case StoreMemory:
	default:
		return errors.New("unknown STORE_DRIVER " + c.StoreDriver)
	}
	return nil
}

func (c Config) KafkaEnabled() bool {
	return c.KafkaBroker != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
