package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting broker lists
	"time"    // For token and cache lifetimes

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	JWTSecret     string        // JWT secret key
	JWTTTL        time.Duration // Token lifetime
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	CacheTTL      time.Duration // Lifetime of cached alerts and stats
	KafkaBrokers  []string      // Kafka brokers, empty disables event publishing
	KafkaTopic    string        // Topic for bet lifecycle events
	AdminEmail    string        // Seeded admin login
	AdminPassword string        // Seeded admin password
	LogLevel      string        // Logrus level name
	IsProd        bool          // Is production environment
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),               // Application port
		DBUser:        getEnv("DB_USER", "root"),                // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                 // Database password
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),           // Database host
		DBPort:        getEnv("DB_PORT", "3306"),                // Database port
		DBName:        getEnv("DB_NAME", "consciousbet"),        // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),                  // JWT secret key
		JWTTTL:        getDuration("JWT_TTL", 5*time.Hour),      // Token lifetime
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),   // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                  // Redis password
		RedisDB:       redisDB,                                  // Redis database number
		CacheTTL:      getDuration("CACHE_TTL", 60*time.Second), // Cache lifetime
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),    // Kafka brokers
		KafkaTopic:    getEnv("KAFKA_TOPIC_BETS", "bet_events"), // Bet events topic
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@email.com"), // Seeded admin login
		AdminPassword: getEnv("ADMIN_PASSWORD", "123456"),       // Seeded admin password
		LogLevel:      getEnv("LOG_LEVEL", "info"),              // Log level
		IsProd:        os.Getenv("IS_PROD") == "true",           // Is production environment
	}
}

// getEnv returns the environment value or def when unset
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// getDuration parses a Go duration ("90s", "5h") and falls back to def
func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// splitList turns "a:9092, b:9092" into a trimmed slice
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
