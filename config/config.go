package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Estimation configuration
	RefreshInterval     time.Duration
	EstimateTTL         time.Duration
	VarianceServiceTime float64
	TravelSpeedKmh      float64

	// Leave-time buffer policy
	BufferFraction float64
	MinBufferTime  time.Duration
	MaxBufferTime  time.Duration

	// Notification configuration
	TurnSoonLeadTime time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Estimation
		RefreshInterval:     getEnvAsDuration("REFRESH_INTERVAL", "30s"),
		EstimateTTL:         getEnvAsDuration("ESTIMATE_TTL", "2m"),
		VarianceServiceTime: getEnvAsFloat("VARIANCE_SERVICE_TIME", 0.2),
		TravelSpeedKmh:      getEnvAsFloat("TRAVEL_SPEED_KMH", 30),

		// Buffer policy
		BufferFraction: getEnvAsFloat("BUFFER_FRACTION", 0.2),
		MinBufferTime:  getEnvAsDuration("MIN_BUFFER_TIME", "5m"),
		MaxBufferTime:  getEnvAsDuration("MAX_BUFFER_TIME", "30m"),

		// Notifications
		TurnSoonLeadTime: getEnvAsDuration("TURN_SOON_LEAD_TIME", "5m"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
