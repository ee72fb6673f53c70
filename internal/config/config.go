package config

import (
	"errors"  // For validation errors
	"fmt"     // For formatted output
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For token lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort     string        // Application port
	DBDriver    string        // Database driver: mysql, postgres or sqlite
	DatabaseURL string        // Full DSN, overrides the DB_* parts when set
	DBUser      string        // Database user
	DBPassword  string        // Database password
	DBHost      string        // Database host
	DBPort      string        // Database port
	DBName      string        // Database name (file path for sqlite)
	JWTSecret   string        // JWT secret key
	JWTTTL      time.Duration // Session token lifetime
	RedisAddr   string        // Redis server address
	RedisPass   string        // Redis password
	RedisDB     int           // Redis database number
	CORSOrigins []string      // Allowed CORS origins
	LogLevel    string        // Logrus level name
	IsProd      bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour // Fall back to one day
	}
	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),                    // Application port
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "mysql")), // Database driver
		DatabaseURL: os.Getenv("DATABASE_URL"),                     // Full DSN
		DBUser:      os.Getenv("DB_USER"),                          // Database user
		DBPassword:  os.Getenv("DB_PASSWORD"),                      // Database password
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),                // Database host
		DBPort:      os.Getenv("DB_PORT"),                          // Database port
		DBName:      getEnv("DB_NAME", "storefront"),               // Database name
		JWTSecret:   os.Getenv("JWT_SECRET"),                       // JWT secret key
		JWTTTL:      ttl,                                           // Token lifetime
		RedisAddr:   getEnv("REDIS_ADDR", "127.0.0.1:6379"),        // Redis server address
		RedisPass:   os.Getenv("REDIS_PASS"),                       // Redis password
		RedisDB:     redisDB,                                       // Redis database number
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),        // Allowed origins
		LogLevel:    getEnv("LOG_LEVEL", "info"),                   // Log level
		IsProd:      os.Getenv("IS_PROD") == "true",                // Is production environment
	}
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL // Explicit DSN wins
	}
	switch c.DBDriver {
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	case DriverSQLite:
		return c.DBName + ".db" // Local file next to the binary
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&clientFoundRows=true" // Matched rows count as affected
	}
}

// String returns a representation safe for logs (secrets masked)
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s@%s/%s, Redis: %s, JWT: *** (masked) ***, Prod: %t}",
		c.AppPort, c.DBDriver, c.DBHost, c.DBName, c.RedisAddr, c.IsProd)
}

// getEnv retrieves an environment variable with a default fallback
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// splitList turns "a, b,c" into []string{"a", "b", "c"}
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
