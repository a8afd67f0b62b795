package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/joho/godotenv"
)

// Config representa la configuración del gateway y del sandbox
type Config struct {
	Server   ServerConfig
	Kassa    KassaConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Inngest  InngestConfig
	Logging  LoggingConfig
	Email    EmailConfig
	Storage  StorageConfig
	Sandbox  SandboxConfig
}

// ServerConfig representa la configuración del servidor HTTP
type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string
	APIKey  string
}

// KassaConfig representa las credenciales de la tienda en KOMTET Kassa
type KassaConfig struct {
	Host         string
	ShopID       string
	SecretKey    string
	APIVersion   string
	DefaultQueue string
	NamedQueues  client.NamedQueues
	Timeout      time.Duration
	PollInterval time.Duration
	MaxPolls     int
}

// DatabaseConfig representa la configuración de la base de datos
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig representa la configuración de Redis. Host vacío usa la caché en memoria.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	LockTTL  time.Duration
	StateTTL time.Duration
}

// InngestConfig representa la configuración de Inngest
type InngestConfig struct {
	EventKey   string
	SigningKey string
	AppID      string
	Dev        bool
}

// LoggingConfig representa la configuración de logging
type LoggingConfig struct {
	Level  string
	Format string
}

// EmailConfig representa la configuración de las notificaciones
type EmailConfig struct {
	ResendAPIKey string
	From         string
	NotifyTo     string
}

// StorageConfig representa el archivo de documentos en S3
type StorageConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SandboxConfig representa la tienda emulada por kassa-sandbox
type SandboxConfig struct {
	Port    string
	BaseURL string
	Queues  []string
}

// Load carga la configuración desde variables de entorno
func Load() (*Config, error) {
	// Cargar archivo .env si existe
	_ = godotenv.Load()

	queues, err := client.ParseNamedQueues(getEnv("KASSA_NAMED_QUEUES", ""))
	if err != nil {
		return nil, fmt.Errorf("error loading KASSA_NAMED_QUEUES: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8081"),
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Env:     getEnv("SERVER_ENV", "development"),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8081"),
			APIKey:  getEnv("GATEWAY_API_KEY", ""),
		},
		Kassa: KassaConfig{
			Host:         getEnv("KASSA_HOST", client.DefaultHost),
			ShopID:       getEnv("KASSA_SHOP_ID", ""),
			SecretKey:    getEnv("KASSA_SECRET_KEY", ""),
			APIVersion:   getEnv("KASSA_API_VERSION", "v2"),
			DefaultQueue: getEnv("KASSA_QUEUE_ID", ""),
			NamedQueues:  queues,
			Timeout:      getEnvAsDuration("KASSA_TIMEOUT", 30*time.Second),
			PollInterval: getEnvAsDuration("KASSA_POLL_INTERVAL", 10*time.Second),
			MaxPolls:     getEnvAsInt("KASSA_MAX_POLLS", 30),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PGHOST", "localhost"),
			Port:     getEnv("PGPORT", "5432"),
			User:     getEnv("PGUSER", "postgres"),
			Password: getEnv("PGPASSWORD", "postgres"),
			Name:     getEnv("PGDATABASE", "kassa"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			LockTTL:  getEnvAsDuration("REDIS_LOCK_TTL", 30*time.Second),
			StateTTL: getEnvAsDuration("REDIS_STATE_TTL", 24*time.Hour),
		},
		Inngest: InngestConfig{
			EventKey:   getEnv("INNGEST_EVENT_KEY", ""),
			SigningKey: getEnv("INNGEST_SIGNING_KEY", ""),
			AppID:      getEnv("INNGEST_APP_ID", "kassa-gateway"),
			Dev:        getEnvAsBool("INNGEST_DEV", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "kassa@example.com"),
			NotifyTo:     getEnv("EMAIL_NOTIFY_TO", ""),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("STORAGE_BUCKET", ""),
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
		},
		Sandbox: SandboxConfig{
			Port:    getEnv("SANDBOX_PORT", "8090"),
			BaseURL: getEnv("SANDBOX_BASE_URL", ""),
			Queues:  getEnvAsList("SANDBOX_QUEUES", []string{"1"}),
		},
	}

	return config, nil
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt obtiene una variable de entorno como entero
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool obtiene una variable de entorno como booleano
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration obtiene una variable de entorno como duración
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList obtiene una lista separada por comas
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// IsDevelopment retorna true si el entorno es de desarrollo
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction retorna true si el entorno es de producción
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// HasRedis indica si hay un servidor Redis configurado
func (c *Config) HasRedis() bool {
	return c.Redis.Host != ""
}

// HasStorage indica si el archivo S3 está configurado
func (c *Config) HasStorage() bool {
	return c.Storage.Bucket != ""
}

// GetDSN retorna la cadena de conexión a la base de datos
func (c *Config) GetDSN() string {
	return "host=" + c.Database.Host +
		" port=" + c.Database.Port +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" sslmode=" + c.Database.SSLMode
}

// GetRedisAddr retorna la dirección de Redis
func (c *Config) GetRedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
