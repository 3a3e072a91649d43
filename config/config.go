// Package config provides configuration for the chat mediator.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultWelcomeMessage greets a session whose log is read for the first time.
const DefaultWelcomeMessage = "**Hi!** I'm your clinical assistant. I can help you to:\n\n" +
	"- Formulate and clarify clinical problems\n" +
	"- Analyze your vital data \n" +
	"- Contextualize symptoms and measurements\n\n" +
	"**Note:** You can use the **green button** with the chart icon to enable or disable the analysis of your biological data for each query."

// Config holds the mediator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Session lifecycle
	SessionTTL time.Duration
	DeviceID   string

	// Remote backend
	BackendBaseURL     string
	APIKey             string
	BackendInsecureTLS bool
	RequestTimeout     time.Duration

	// Store
	StoreBackend string // "sqlite" or "redis"
	RedisAddr    string
	SQLitePath   string

	// Domain classifier
	IntentDetectionEnabled bool
	ClassifierBaseURL      string
	ClassifierModel        string
	ClassifierTemperature  float64

	// Conversation
	WelcomeMessage string
}

// Load loads configuration from environment variables. A device identifier is
// generated when DEVICE_ID is unset so a fresh install can start without one.
func Load() *Config {
	deviceID := getEnv("DEVICE_ID", "")
	if deviceID == "" {
		deviceID = uuid.New().String()
	}

	return &Config{
		HTTPPort:               getEnvInt("HTTP_PORT", 8080),
		SessionTTL:             time.Duration(getEnvInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
		DeviceID:               deviceID,
		BackendBaseURL:         getEnv("BACKEND_BASE_URL", "https://localhost:8443"),
		APIKey:                 getEnv("API_KEY", ""),
		BackendInsecureTLS:     getEnvBool("BACKEND_INSECURE_TLS", false),
		RequestTimeout:         time.Duration(getEnvInt("REQUEST_TIMEOUT_MS", 30000)) * time.Millisecond,
		StoreBackend:           getEnv("STORE_BACKEND", "sqlite"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:             getEnv("SQLITE_PATH", "file:edgechat.db?cache=shared&mode=rwc"),
		IntentDetectionEnabled: getEnvBool("INTENT_DETECTION_ENABLED", false),
		ClassifierBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		ClassifierModel:        getEnv("CLASSIFICATION_MODEL", "llama3.2"),
		ClassifierTemperature:  getEnvFloat("CLASSIFICATION_MODEL_TEMPERATURE", 0),
		WelcomeMessage:         getEnv("WELCOME_MESSAGE", DefaultWelcomeMessage),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
