package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Redis      RedisConfig
	AMQP       AMQPConfig
	Stripe     StripeConfig
	Redemption RedemptionConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// StoreConfig selects the persistence backend. "memory" keeps everything in process and is
// meant for local runs only.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-ID,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// JWTConfig holds the secret and audience shared with the auth provider for bearer tokens, and a
// separate secret for sealing QR payloads. Duration only applies to tokens minted locally.
type JWTConfig struct {
	Secret        string `envconfig:"JWT_SECRET" required:"true"`
	Audience      string `envconfig:"JWT_AUDIENCE" default:"authenticated"`
	Duration      string `envconfig:"JWT_DURATION" default:"1h"`
	PayloadSecret string `envconfig:"QR_PAYLOAD_SECRET" required:"true"`
}

// RedisConfig backs the start-redemption rate limiter. An empty Addr disables limiting.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AMQPConfig points the notification relay at RabbitMQ. An empty URL logs events instead.
type AMQPConfig struct {
	URL   string `envconfig:"AMQP_URL" default:""`
	Queue string `envconfig:"AMQP_QUEUE" default:"saverly.redemptions"`
}

type StripeConfig struct {
	WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
}

type RedemptionConfig struct {
	SweepInterval   time.Duration `envconfig:"REDEMPTION_SWEEP_INTERVAL" default:"30s"`
	SweepBatch      int           `envconfig:"REDEMPTION_SWEEP_BATCH" default:"500"`
	RelayInterval   time.Duration `envconfig:"NOTIFICATION_RELAY_INTERVAL" default:"5s"`
	RelayBatch      int           `envconfig:"NOTIFICATION_RELAY_BATCH" default:"100"`
	StartRateLimit  int           `envconfig:"REDEMPTION_START_RATE_LIMIT" default:"10"`
	StartRateWindow time.Duration `envconfig:"REDEMPTION_START_RATE_WINDOW" default:"1m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// LoadConfig reads an optional .env file, then the process environment. Variables already set
// in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{
			Driver: "postgres",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:        "test-secret",
			Audience:      "authenticated",
			Duration:      "1h",
			PayloadSecret: "test-payload-secret",
		},
		AMQP: AMQPConfig{
			Queue: "saverly.redemptions.test",
		},
		Stripe: StripeConfig{
			WebhookSecret: "whsec_test",
		},
		Redemption: RedemptionConfig{
			SweepInterval:   time.Hour,
			SweepBatch:      100,
			RelayInterval:   time.Hour,
			RelayBatch:      10,
			StartRateLimit:  100,
			StartRateWindow: time.Minute,
		},
	}
}
