package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token formats
const (
	TokenFormatJWT    = "jwt"
	TokenFormatPaseto = "paseto"
)

// Password hashers
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// SessionLifetime is how long an issued token stays valid
const SessionLifetime = time.Hour

// Scorer modes
const (
	ScorerModeProcess = "process"
	ScorerModeLexicon = "lexicon"
)

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required when TOKEN_FORMAT=jwt")
	ErrInvalidPasetoKey   = errors.New("PASETO_KEY must be exactly 32 bytes when TOKEN_FORMAT=paseto")
	ErrUnknownTokenFormat = errors.New("unknown TOKEN_FORMAT")
	ErrUnknownHasher      = errors.New("unknown PASSWORD_HASHER")
	ErrUnknownScorerMode  = errors.New("unknown SCORER_MODE")
	ErrMissingScorerCmd   = errors.New("SCORER_COMMAND is required when SCORER_MODE=process")
	ErrInvalidScorerTime  = errors.New("SCORER_TIMEOUT must be a positive number of seconds")
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Scorer    ScorerConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins for the web front-end
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	TokenFormat   string
	JWTSecret     []byte
	PasetoKey     []byte // must be 32 bytes for v4.local
	TokenDuration time.Duration
	Hasher        string
	BcryptCost    int
}

type ScorerConfig struct {
	Mode    string
	Command string
	Args    []string // review text is appended after these
	Timeout time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "sentiment"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			AutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenFormat:   strings.ToLower(getEnv("TOKEN_FORMAT", TokenFormatJWT)),
			JWTSecret:     []byte(getEnv("JWT_SECRET", "")),
			PasetoKey:     []byte(getEnv("PASETO_KEY", "")),
			TokenDuration: SessionLifetime,
			Hasher:        strings.ToLower(getEnv("PASSWORD_HASHER", HasherBcrypt)),
			BcryptCost:    getIntEnv("BCRYPT_COST", 10),
		},
		Scorer: ScorerConfig{
			Mode:    strings.ToLower(getEnv("SCORER_MODE", ScorerModeProcess)),
			Command: getEnv("SCORER_COMMAND", "python3"),
			Args:    getSliceEnv("SCORER_ARGS", []string{"ml/sentiment_model.py"}),
			Timeout: getDurationEnv("SCORER_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 20),
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that cannot be expressed as defaults
func (c *Config) Validate() error {
	switch c.Auth.TokenFormat {
	case TokenFormatJWT:
		if len(c.Auth.JWTSecret) == 0 {
			return ErrMissingJWTSecret
		}
	case TokenFormatPaseto:
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("%w, got %d", ErrInvalidPasetoKey, len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTokenFormat, c.Auth.TokenFormat)
	}

	switch c.Auth.Hasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHasher, c.Auth.Hasher)
	}

	switch c.Scorer.Mode {
	case ScorerModeProcess:
		if c.Scorer.Command == "" {
			return ErrMissingScorerCmd
		}
		if c.Scorer.Timeout <= 0 {
			return fmt.Errorf("%w, got %s", ErrInvalidScorerTime, c.Scorer.Timeout)
		}
	case ScorerModeLexicon:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScorerMode, c.Scorer.Mode)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getDurationEnv reads an integer number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
