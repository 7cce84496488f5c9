package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"UTC"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Platform struct {
		URL      string `env:"PLATFORM_URL"`
		Username string `env:"PLATFORM_USERNAME"`
		Password string `env:"PLATFORM_PASSWORD"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"slots_generator:slots_generator"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled              bool   `env:"RABBITMQ_ENABLED"`
		AmqpURI              string `env:"RABBITMQ_URL"`
		AvailabilityQueue    string `env:"RABBITMQ_AVAILABILITY_QUEUE" envDefault:"availability.events"`
		BookingQueue         string `env:"RABBITMQ_BOOKING_QUEUE" envDefault:"booking.events"`
		NotificationExchange string `env:"RABBITMQ_NOTIFICATION_EXCHANGE" envDefault:"notifications"`
	}

	Cache struct {
		Enabled       bool `env:"CACHE_ENABLED"`
		SchedulesSize int  `env:"CACHE_SCHEDULES_SIZE" envDefault:"1000"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Разбор пар логин:пароль клиентов сервиса
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Без RabbitMQ некому инвалидировать кэш, поэтому выключаем и его
	if !cfg.RabbitMQ.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
