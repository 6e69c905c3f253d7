package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Redis      RedisConfig      `toml:"redis"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Policy     PolicyConfig     `toml:"policy"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки блокировок записи к терапевту.
// При Enabled = false используется блокировка-заглушка, защиту обеспечивают транзакция и уникальный индекс.
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	LockTTL  int    `toml:"lock_ttl"` // секунды
}

// LockTTLDuration время жизни блокировки
func (c RedisConfig) LockTTLDuration() time.Duration {
	return time.Duration(c.LockTTL) * time.Second
}

// RabbitMQConfig настройки публикации событий о записях
type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// SchedulingConfig настройки расписания
type SchedulingConfig struct {
	Timezone string `toml:"timezone"` // IANA, например "Europe/Moscow"
}

// Location загружает часовой пояс расписания
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// PolicyConfig настройки политики переноса и валюты
type PolicyConfig struct {
	RescheduleFee string `toml:"reschedule_fee"` // десятичная строка, например "500.00"
	Currency      string `toml:"currency"`
}

// RescheduleFeeAmount фиксированная плата за перенос
func (c PolicyConfig) RescheduleFeeAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(c.RescheduleFee)
}

// Load читает конфигурацию из TOML файла и применяет переопределения из окружения (.env поддерживается)
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "therapy-booking",
		},
		Redis: RedisConfig{
			Addr:    "127.0.0.1:6379",
			LockTTL: 5,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "scheduling.events",
		},
		Scheduling: SchedulingConfig{Timezone: "UTC"},
		Policy: PolicyConfig{
			RescheduleFee: "0",
			Currency:      "RUB",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		cfg.RabbitMQ.URL = v
	}
}

func (c *Config) validate() error {
	if c.Database.DBName == "" {
		return errors.New("config: database.dbname is required")
	}
	if c.Server.HTTPPort <= 0 {
		return errors.New("config: server.http_port must be positive")
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("config: invalid scheduling.timezone %q: %w", c.Scheduling.Timezone, err)
	}
	fee, err := c.Policy.RescheduleFeeAmount()
	if err != nil {
		return fmt.Errorf("config: invalid policy.reschedule_fee %q: %w", c.Policy.RescheduleFee, err)
	}
	if fee.IsNegative() {
		return errors.New("config: policy.reschedule_fee must not be negative")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return errors.New("config: rabbitmq.url is required when rabbitmq is enabled")
	}
	if c.Redis.Enabled && c.Redis.LockTTL <= 0 {
		return errors.New("config: redis.lock_ttl must be positive")
	}
	return nil
}
