package config

import (
	"fmt"
	"time"

	"houseboat-booking/internal/pkg/jwt"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - Booking policy may additionally be overlaid from a TOML file (BOOKING_POLICY_FILE)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Redis   RedisConfig
	MQ      MQConfig
	Metrics MetricsConfig
	Booking BookingConfig
	Payment PaymentConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
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
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	ConnectTimeout  time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// LockTimeout bounds how long an admission waits for the boat row lock.
	LockTimeout  time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"5s"`
	TxMaxRetries int           `envconfig:"DB_TX_MAX_RETRIES" default:"3"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Dhaka"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"21600"` // 6*60*60
}

// JWT tokens are issued by the identity provider; the service only verifies them.
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer string        `envconfig:"JWT_ISSUER" default:""`
	Leeway time.Duration `envconfig:"JWT_LEEWAY" default:"30s"`
	// TokenTTL is only used when minting tokens locally.
	TokenTTL time.Duration `envconfig:"JWT_TOKEN_TTL" default:"1h"`
}

func (c JWTConfig) Options() jwt.Options {
	return jwt.Options{Issuer: c.Issuer, Leeway: c.Leeway, TTL: c.TokenTTL}
}

// Empty Addr disables the availability cache.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Empty URL routes notifications to the log instead of RabbitMQ.
type MQConfig struct {
	URL      string `envconfig:"RABBIT_URL" default:""`
	Exchange string `envconfig:"RABBIT_EXCHANGE" default:"booking.events"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

type BookingConfig struct {
	PolicyFile       string        `envconfig:"BOOKING_POLICY_FILE" default:""`
	FallbackPrice    float64       `envconfig:"BOOKING_FALLBACK_ROOM_PRICE" default:"5000" toml:"fallback_room_price"`
	DefaultMinNights int           `envconfig:"BOOKING_DEFAULT_MIN_NIGHTS" default:"1" toml:"default_min_nights"`
	SweepInterval    Duration      `envconfig:"BOOKING_SWEEP_INTERVAL" default:"1h" toml:"sweep_interval"`
	CacheTTL         Duration      `envconfig:"BOOKING_AVAILABILITY_CACHE_TTL" default:"30s" toml:"availability_cache_ttl"`
	NotifyTimeout    time.Duration `envconfig:"BOOKING_NOTIFY_TIMEOUT" default:"10s" toml:"-"`
}

// Empty CallbackSecret accepts unsigned callbacks (local development only).
type PaymentConfig struct {
	CallbackSecret string `envconfig:"PAYMENT_CALLBACK_SECRET" default:""`
}

// Duration decodes from both envconfig and TOML strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) Decode(value string) error {
	return d.UnmarshalText([]byte(value))
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.Booking.PolicyFile != "" {
		if err := cfg.Booking.overlay(cfg.Booking.PolicyFile); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Booking.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlay reads the [booking] table of a TOML policy file; keys that are
// absent keep their environment values.
func (b *BookingConfig) overlay(path string) error {
	file := struct {
		Booking *BookingConfig `toml:"booking"`
	}{Booking: b}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("failed to decode booking policy file %s: %w", path, err)
	}
	return nil
}

func (b *BookingConfig) validate() error {
	if b.FallbackPrice < 0 {
		return fmt.Errorf("fallback room price must not be negative: %v", b.FallbackPrice)
	}
	if b.DefaultMinNights < 1 {
		return fmt.Errorf("default min nights must be at least 1: %d", b.DefaultMinNights)
	}
	if b.SweepInterval.Duration <= 0 {
		return fmt.Errorf("sweep interval must be positive: %s", b.SweepInterval)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,

			ConnectTimeout:  5 * time.Second,
			MaxConnLifetime: time.Hour,
			LockTimeout:     5 * time.Second,
			TxMaxRetries:    3,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Issuer:   "identity.test",
			TokenTTL: time.Hour,
		},
		MQ: MQConfig{
			Exchange: "booking.events",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Booking: BookingConfig{
			FallbackPrice:    5000,
			DefaultMinNights: 1,
			SweepInterval:    Duration{Duration: time.Hour},
			CacheTTL:         Duration{Duration: 30 * time.Second},
			NotifyTimeout:    time.Second,
		},
		Payment: PaymentConfig{
			CallbackSecret: "test-callback-secret",
		},
	}
}
