package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the whole application configuration tree.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Clock      ClockConfig      `mapstructure:"clock"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Mail       MailConfig       `mapstructure:"mail"`
	WhatsApp   WhatsAppConfig   `mapstructure:"whatsapp"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig HTTP server.
type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	BaseURL      string          `mapstructure:"base_url"`
	CORS         CORSConfig      `mapstructure:"cors"`
	MaxBodyBytes int64           `mapstructure:"max_body_bytes"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig applies to the login endpoint.
type RateLimitConfig struct {
	LoginLimit  int           `mapstructure:"login_limit"`
	LoginWindow time.Duration `mapstructure:"login_window"`
}

// DatabaseConfig PostgreSQL.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig token blacklist and rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces every key so the instance can be shared.
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// AuthConfig JWT.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
}

// ClockConfig business time zone. Every "today" and every cutoff is
// evaluated in this zone.
type ClockConfig struct {
	TimeZone string `mapstructure:"time_zone"`
}

// AttendanceConfig official working window and location policy.
type AttendanceConfig struct {
	MorningCutoff   string `mapstructure:"morning_cutoff"` // HH:MM
	EveningCutoff   string `mapstructure:"evening_cutoff"` // HH:MM
	RequireLocation bool   `mapstructure:"require_location"`
}

// MailConfig SMTP.
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	StartTLS bool   `mapstructure:"starttls"`
}

// WhatsAppConfig HTTP messaging gateway.
type WhatsAppConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIURL  string        `mapstructure:"api_url"`
	Token   string        `mapstructure:"token"`
	Sender  string        `mapstructure:"sender"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig minio / S3 bucket for job-card images.
type StorageConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	MaxImageSize int64  `mapstructure:"max_image_size"`
}

// SchedulerConfig cron jobs. Specs use the six-field form with seconds.
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ScoreBackfillSpec string `mapstructure:"score_backfill_spec"`
	VerifyMinutesSpec string `mapstructure:"verify_minutes_spec"`
}

// MetricsConfig prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig zap.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Outputs are zap sink URLs or file paths; empty means stderr.
	Outputs []string `mapstructure:"outputs"`
}

// Load reads configuration. Precedence: environment > config file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("EMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.rate_limit.login_limit", 10)
	v.SetDefault("server.rate_limit.login_window", "1m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "ems")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "ems:")
	v.SetDefault("redis.dial_timeout", "3s")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "12h")
	v.SetDefault("auth.issuer", "metropolitan-ems")

	v.SetDefault("clock.time_zone", "Asia/Colombo")

	v.SetDefault("attendance.morning_cutoff", "08:30")
	v.SetDefault("attendance.evening_cutoff", "17:30")
	v.SetDefault("attendance.require_location", true)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.starttls", true)

	v.SetDefault("whatsapp.enabled", false)
	v.SetDefault("whatsapp.timeout", "10s")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.bucket", "job-card-images")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.max_image_size", 5<<20)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.score_backfill_spec", "0 30 23 * * *")
	v.SetDefault("scheduler.verify_minutes_spec", "0 0 2 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if _, err := time.LoadLocation(c.Clock.TimeZone); err != nil {
		return fmt.Errorf("config: clock.time_zone: %w", err)
	}
	if _, err := c.Attendance.Window(); err != nil {
		return fmt.Errorf("config: attendance: %w", err)
	}
	if c.Storage.Enabled && (c.Storage.Endpoint == "" || c.Storage.Bucket == "") {
		return fmt.Errorf("config: storage.endpoint and storage.bucket are required when storage is enabled")
	}
	return nil
}
