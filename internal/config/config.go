package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all console configuration
type Config struct {
	App       AppConfig
	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Dashboard DashboardConfig
	Media     MediaConfig
	Metrics   MetricsConfig
	Swagger   SwaggerConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// APIConfig points the console at the storefront REST API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration // zero means no timeout
}

type SessionConfig struct {
	Backend     string // memory, file, redis
	CookieName  string
	FilePath    string
	RedisPrefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// RateLimitConfig throttles sign-in and sign-up attempts per client IP
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type DashboardConfig struct {
	IdleTimeout       time.Duration
	LookupConcurrency int
}

type MediaConfig struct {
	Provider      string // none, cloudinary, s3
	CloudinaryURL string
	Folder        string
	S3            S3Config
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
}

type MetricsConfig struct {
	Enabled bool
}

type SwaggerConfig struct {
	Enabled bool
}

const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"

	MediaNone       = "none"
	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
)

var (
	ErrInvalidBaseURL     = errors.New("config: api.base_url must be an absolute http(s) URL")
	ErrUnknownSession     = errors.New("config: unknown session backend")
	ErrUnknownMedia       = errors.New("config: unknown media provider")
	ErrMissingMediaConfig = errors.New("config: media provider is missing credentials")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront-console")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("api.base_url", "http://localhost:3000/api/v1")
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("session.backend", SessionMemory)
	v.SetDefault("session.cookie_name", "sid")
	v.SetDefault("session.file_path", "sessions.json")
	v.SetDefault("session.redis_prefix", "storefront:session:")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 3)

	v.SetDefault("dashboard.idle_timeout", "30m")
	v.SetDefault("dashboard.lookup_concurrency", 8)

	v.SetDefault("media.provider", MediaNone)
	v.SetDefault("media.cloudinary_url", "")
	v.SetDefault("media.folder", "storefront")
	v.SetDefault("media.s3.bucket", "")
	v.SetDefault("media.s3.region", "us-east-1")
	v.SetDefault("media.s3.endpoint", "")
	v.SetDefault("media.s3.access_key", "")
	v.SetDefault("media.s3.secret_key", "")
	v.SetDefault("media.s3.use_path_style", false)
	v.SetDefault("media.s3.public_base_url", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("swagger.enabled", true)
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/storefront")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Session: SessionConfig{
			Backend:     strings.ToLower(v.GetString("session.backend")),
			CookieName:  v.GetString("session.cookie_name"),
			FilePath:    v.GetString("session.file_path"),
			RedisPrefix: v.GetString("session.redis_prefix"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
		Dashboard: DashboardConfig{
			IdleTimeout:       v.GetDuration("dashboard.idle_timeout"),
			LookupConcurrency: v.GetInt("dashboard.lookup_concurrency"),
		},
		Media: MediaConfig{
			Provider:      strings.ToLower(v.GetString("media.provider")),
			CloudinaryURL: v.GetString("media.cloudinary_url"),
			Folder:        v.GetString("media.folder"),
			S3: S3Config{
				Bucket:        v.GetString("media.s3.bucket"),
				Region:        v.GetString("media.s3.region"),
				Endpoint:      v.GetString("media.s3.endpoint"),
				AccessKey:     v.GetString("media.s3.access_key"),
				SecretKey:     v.GetString("media.s3.secret_key"),
				UsePathStyle:  v.GetBool("media.s3.use_path_style"),
				PublicBaseURL: v.GetString("media.s3.public_base_url"),
			},
		},
		Metrics: MetricsConfig{Enabled: v.GetBool("metrics.enabled")},
		Swagger: SwaggerConfig{Enabled: v.GetBool("swagger.enabled")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the console cannot start without
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}

	switch c.Session.Backend {
	case SessionMemory, SessionFile, SessionRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSession, c.Session.Backend)
	}

	switch c.Media.Provider {
	case MediaNone:
	case MediaCloudinary:
		if c.Media.CloudinaryURL == "" {
			return fmt.Errorf("%w: media.cloudinary_url", ErrMissingMediaConfig)
		}
	case MediaS3:
		if c.Media.S3.Bucket == "" || c.Media.S3.AccessKey == "" || c.Media.S3.SecretKey == "" {
			return fmt.Errorf("%w: media.s3.bucket, access_key and secret_key", ErrMissingMediaConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMedia, c.Media.Provider)
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.App.Port, ":")
}

// IsProduction reports whether the console runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
