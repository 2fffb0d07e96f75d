package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Transaction sources
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the service.
type Config struct {
	Port          string        `mapstructure:"PORT"`
	Env           string        `mapstructure:"ENV"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	DefaultLocale string        `mapstructure:"DEFAULT_LOCALE"`
	CORSOrigins   string        `mapstructure:"CORS_ORIGINS"`
	Source        string        `mapstructure:"TRANSACTION_SOURCE"`
	BackendURL    string        `mapstructure:"BACKEND_URL"`
	BackendToken  string        `mapstructure:"BACKEND_TOKEN"`
	BackendRPS    float64       `mapstructure:"BACKEND_RPS"`
	BackendBurst  int           `mapstructure:"BACKEND_BURST"`
	DBHost        string        `mapstructure:"DB_HOST"`
	DBPort        string        `mapstructure:"DB_PORT"`
	DBUser        string        `mapstructure:"DB_USER"`
	DBPassword    string        `mapstructure:"DB_PASSWORD"`
	DBName        string        `mapstructure:"DB_NAME"`
	DBMaxIdle     int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpen     int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	RedisHost     string        `mapstructure:"REDIS_HOST"`
	RedisPort     string        `mapstructure:"REDIS_PORT"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	RabbitMQURL   string        `mapstructure:"RABBITMQ_URL"`
	RabbitMQExch  string        `mapstructure:"RABBITMQ_EXCHANGE"`
	RabbitMQQueue string        `mapstructure:"RABBITMQ_QUEUE"`
}

var boundKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "JWT_SECRET", "DEFAULT_LOCALE", "CORS_ORIGINS",
	"TRANSACTION_SOURCE", "BACKEND_URL", "BACKEND_TOKEN", "BACKEND_RPS", "BACKEND_BURST",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	"RABBITMQ_URL", "RABBITMQ_EXCHANGE", "RABBITMQ_QUEUE",
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found", "error", err)
	}
}

// LoadConfig reads configuration from the environment (and .env) and validates it.
func LoadConfig() (Config, error) {
	LoadEnv()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DEFAULT_LOCALE", "es-CL")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("TRANSACTION_SOURCE", SourceREST)
	viper.SetDefault("BACKEND_RPS", 20)
	viper.SetDefault("BACKEND_BURST", 40)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "payments")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 50)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("CACHE_TTL", "2m")
	viper.SetDefault("RABBITMQ_EXCHANGE", "transactions")
	viper.SetDefault("RABBITMQ_QUEUE", "feeview.cache-invalidation")
	viper.AutomaticEnv()

	for _, key := range boundKeys {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Source {
	case SourceREST:
		if c.BackendURL == "" {
			errs = append(errs, errors.New("BACKEND_URL is required when TRANSACTION_SOURCE=rest"))
		}
	case SourcePostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required when TRANSACTION_SOURCE=postgres"))
		}
	default:
		errs = append(errs, errors.New("TRANSACTION_SOURCE must be rest or postgres"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

// IsProduction checks if the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresDSN builds the read-replica DSN.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}
