// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	AppURL                  string `yaml:"app_url" env:"APP_URL" env-default:"http://localhost:8080"`
	CronAPIKey              string `yaml:"cron_api_key" env:"CRON_API_KEY"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Payment                 `yaml:"payment"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RabbitMQ структура для настройки подключения к очереди уведомлений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries" env-default:"10"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	Host     string `yaml:"smtp_host" env:"SMTP_HOST"`
	Port     string `yaml:"smtp_port" env-default:"587"`
	User     string `yaml:"smtp_user" env:"SMTP_USER"`
	Pass     string `yaml:"smtp_pass" env:"SMTP_PASS"`
	FromName string `yaml:"smtp_from_name" env-default:"InvoiceFacil"`
	// TestRecipient перенаправляет всю исходящую почту на один адрес.
	// Используется в тестовых окружениях, в продакшене остаётся пустым.
	TestRecipient string `yaml:"smtp_test_recipient" env:"SMTP_TEST_RECIPIENT"`
}

// Payment структура для настройки платёжного провайдера
type Payment struct {
	PaymentSecretKey string `yaml:"payment_secret_key" env:"PAYMENT_SECRET_KEY"`
	PaymentAPIURL    string `yaml:"payment_api_url" env-default:"https://api.checkout.example.com/v1"`
}

// MustLoad функция для загрузки конфига: путь к файлу берётся из CONFIG_PATH,
// при отсутствии обязательных настроек процесс завершается сразу.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
