package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища, блокировок и почты
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	LockLocal = "local"
	LockRedis = "redis"

	MailLog = "log"
	MailSES = "ses"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Database DatabaseConfig // Настройки подключения к БД
	Storage  StorageConfig  // Выбор хранилища
	JWT      JWTConfig      // Настройки JWT авторизации
	Lock     LockConfig     // Настройки блокировок claim'ов
	Mail     MailConfig     // Настройки отправки писем
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"claims_engine"`
	Password string `envconfig:"DB_PASSWORD" default:"claims_engine_pass"`
	Name     string `envconfig:"DB_NAME" default:"claims_engine"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// StorageConfig выбирает реализацию репозиториев
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

// JWTConfig содержит настройки JWT авторизации
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// LockConfig содержит настройки критической секции claim'а
type LockConfig struct {
	Driver        string        `envconfig:"LOCK_DRIVER" default:"local"`
	WaitTimeout   time.Duration `envconfig:"LOCK_WAIT_TIMEOUT" default:"5s"`
	TTL           time.Duration `envconfig:"LOCK_TTL" default:"10s"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
}

// MailConfig содержит настройки отправки писем claimant'у
type MailConfig struct {
	Driver    string        `envconfig:"MAIL_DRIVER" default:"log"`
	From      string        `envconfig:"MAIL_FROM" default:"noreply@claims-engine.local"`
	AWSRegion string        `envconfig:"MAIL_AWS_REGION" default:"us-east-1"`
	Timeout   time.Duration `envconfig:"MAIL_TIMEOUT" default:"10s"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Validate проверяет значения драйверов
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Lock.Driver {
	case LockLocal, LockRedis:
	default:
		return fmt.Errorf("unknown LOCK_DRIVER %q", c.Lock.Driver)
	}
	switch c.Mail.Driver {
	case MailLog, MailSES:
	default:
		return fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver)
	}
	return nil
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
