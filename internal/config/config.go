package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Driver         string `env:"DRIVER" envDefault:"postgres"` // postgres 或 sqlite
		DSN            string `env:"DSN"`
		SQLitePath     string `env:"SQLITE_PATH" envDefault:"employees.db"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MinConns       int    `env:"MIN_CONNS" envDefault:"2"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		DB             int    `env:"DB" envDefault:"0"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Flash struct {
		CookieName string `env:"COOKIE_NAME" envDefault:"__employee_manager_flash"`
		Expiration int    `env:"EXPIRATION" envDefault:"60"` // 秒
	} `envPrefix:"FLASH_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required,notEmpty"`
		Queue          string `env:"QUEUE" envDefault:"employee_events"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		Domain string `env:"DOMAIN" envDefault:"example.com"`
		SMTP   struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
}

var ErrMissingDSN = errors.New(`environment variable "DATABASE_DSN" should not be empty when DATABASE_DRIVER is postgres`)

var ErrUnknownDriver = errors.New(`environment variable "DATABASE_DRIVER" must be postgres or sqlite`)

func LoadConfig() (*Config, error) {
	// .env 文件是可选的，只在本地开发时使用
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.DSN == "" {
			return nil, ErrMissingDSN
		}
	case "sqlite":
	default:
		return nil, ErrUnknownDriver
	}

	return cfg, nil
}
