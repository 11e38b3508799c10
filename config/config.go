package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	EmailSender    string
	SendGridAPIKey string

	PaymentApiURL string // Payment processor verification endpoint
	PaymentApiKey string

	// Course ids granted to legacy users carrying the global-access flag.
	GrandfatheredCourseIDs []uint
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "academy"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender:    getEnv("EMAIL_SENDER", "noreply@academy.example.com"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		PaymentApiURL: getEnv("PAYMENT_API_URL", "https://api.payments.example.com/v1/"),
		PaymentApiKey: getEnv("PAYMENT_API_KEY", ""),

		GrandfatheredCourseIDs: getEnvUintList("GRANDFATHERED_COURSE_IDS", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Outgoing emails will be skipped.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvUintList parses a comma-separated id list from the environment
func getEnvUintList(key, defaultValue string) []uint {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	var ids []uint
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			log.Printf("Error parsing %s entry %q: %v", key, part, err)
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
