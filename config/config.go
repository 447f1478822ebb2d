package config

import (
	"PinguinGuard/logger"
	"PinguinGuard/repositories/impl"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT" env-default:"8000"`
	Storage  string `env:"STORAGE" env-default:"postgres"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	TimeZone string `env:"TIMEZONE" env-default:"Asia/Almaty"`

	PollInterval time.Duration `env:"POLL_INTERVAL" env-default:"30s"`

	JWTSecret               string `env:"JWT_SECRET"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" env-default:"pinguin.restrictions"`

	DB DBConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	SSLMode  string `env:"DB_SSLMODE"`
	TimeZone string `env:"DB_TIMEZONE" env-default:"Asia/Almaty"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the family time zone used for windows and calendar days.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c DBConfig) DSN() string {
	// Render требует sslmode=require
	sslmode := c.SSLMode
	if sslmode == "" {
		if strings.Contains(c.Host, "render.com") {
			sslmode = "require"
		} else {
			sslmode = "disable"
		}
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, sslmode, c.TimeZone)
}

var DB *gorm.DB

// InitDatabase opens postgres and migrates the restriction tables. Driver
// errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func InitDatabase(cfg DBConfig) (*gorm.DB, error) {
	logger.Info("connecting to database", "host", cfg.Host, "user", cfg.User, "db", cfg.Name, "port", cfg.Port)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(impl.Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger.Info("successfully connected to database")
	DB = db
	return db, nil
}
