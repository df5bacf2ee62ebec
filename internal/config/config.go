package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var AppEnv Config

type Config struct {
	MongoURI  string
	DBName    string
	JWTSecret string

	BaseCurrency string
	BDTPerUSD    float64

	GatewayBaseURL    string
	GatewayStoreID    string
	GatewayStorePass  string
	GatewayCurrency   string
	GatewayTimeout    time.Duration
	SuccessURL        string
	FailURL           string
	ManualPayMethods  []string
	GatewayPayMethods []string
	NotifyWebhookURL  string
	NotifyQueueSize   int
	NotifyRetries     int
	NotifyRetryDelay  time.Duration
	NotifySendTimeout time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Info(".env not loaded: ", err)
	}
	AppEnv = Config{
		MongoURI:  getEnvOrDefault("MONGO_URI", ""),
		DBName:    getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),

		BaseCurrency: getEnvOrDefault("BASE_CURRENCY", "BDT"),
		BDTPerUSD:    getFloatEnv("BDT_PER_USD", 110),

		GatewayBaseURL:    getEnvOrDefault("GATEWAY_BASE_URL", ""),
		GatewayStoreID:    getEnvOrDefault("GATEWAY_STORE_ID", ""),
		GatewayStorePass:  getEnvOrDefault("GATEWAY_STORE_PASS", ""),
		GatewayCurrency:   getEnvOrDefault("GATEWAY_CURRENCY", "BDT"),
		GatewayTimeout:    getDurationEnv("GATEWAY_TIMEOUT_SECONDS", 10, time.Second),
		SuccessURL:        getEnvOrDefault("CHECKOUT_SUCCESS_URL", "/checkout/success"),
		FailURL:           getEnvOrDefault("CHECKOUT_FAIL_URL", "/checkout/fail"),
		ManualPayMethods:  getListEnv("MANUAL_PAYMENT_METHODS", []string{"bkash", "nagad", "bank-transfer"}),
		GatewayPayMethods: getListEnv("GATEWAY_PAYMENT_METHODS", []string{"gateway", "card"}),
		NotifyWebhookURL:  getEnvOrDefault("NOTIFY_WEBHOOK_URL", ""),
		NotifyQueueSize:   getIntEnv("NOTIFY_QUEUE_SIZE", 256),
		NotifyRetries:     getIntEnv("NOTIFY_RETRIES", 2),
		NotifyRetryDelay:  getDurationEnv("NOTIFY_RETRY_DELAY_SECONDS", 2, time.Second),
		NotifySendTimeout: getDurationEnv("NOTIFY_SEND_TIMEOUT_SECONDS", 5, time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
