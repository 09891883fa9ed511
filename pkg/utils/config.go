package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Geocoder GeocoderConfig
	NATS     NATSConfig
	Outbox   OutboxConfig
	Nearby   NearbyConfig
	Limit    RateLimitConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GeocoderConfig struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type OutboxConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

type NearbyConfig struct {
	CandidateLimit int
	DefaultRadius  float64
}

// RateLimitConfig needs REDIS_ADDR; without Redis nothing is limited.
type RateLimitConfig struct {
	Enabled      bool
	Max          int
	Window       time.Duration
	CreateMax    int
	CreateWindow time.Duration
	SkipLoopback bool
}

// LoadConfig reads .env when present; environment variables always win.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	return configFrom(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "ride-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "RideBooking/1.0")
	v.SetDefault("GEOCODER_TIMEOUT", "5s")
	v.SetDefault("GEOCODER_CACHE_TTL", "24h")
	v.SetDefault("NATS_SUBJECT_PREFIX", "rides")
	v.SetDefault("OUTBOX_INTERVAL", "2s")
	v.SetDefault("OUTBOX_BATCH", 50)
	v.SetDefault("OUTBOX_MAX_ATTEMPTS", 10)
	v.SetDefault("NEARBY_CANDIDATE_LIMIT", 100)
	v.SetDefault("NEARBY_DEFAULT_RADIUS", 50)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_CREATE_MAX", 20)
	v.SetDefault("RATE_LIMIT_CREATE_WINDOW", "1h")
	v.SetDefault("RATE_LIMIT_SKIP_LOOPBACK", false)
}

func configFrom(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Geocoder: GeocoderConfig{
			URL:       v.GetString("GEOCODER_URL"),
			UserAgent: v.GetString("GEOCODER_USER_AGENT"),
			Timeout:   v.GetDuration("GEOCODER_TIMEOUT"),
			CacheTTL:  v.GetDuration("GEOCODER_CACHE_TTL"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("NATS_URL"),
			SubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
		},
		Outbox: OutboxConfig{
			Interval:    v.GetDuration("OUTBOX_INTERVAL"),
			BatchSize:   v.GetInt("OUTBOX_BATCH"),
			MaxAttempts: v.GetInt("OUTBOX_MAX_ATTEMPTS"),
		},
		Nearby: NearbyConfig{
			CandidateLimit: v.GetInt("NEARBY_CANDIDATE_LIMIT"),
			DefaultRadius:  v.GetFloat64("NEARBY_DEFAULT_RADIUS"),
		},
		Limit: RateLimitConfig{
			Enabled:      v.GetBool("RATE_LIMIT_ENABLED"),
			Max:          v.GetInt("RATE_LIMIT_MAX"),
			Window:       v.GetDuration("RATE_LIMIT_WINDOW"),
			CreateMax:    v.GetInt("RATE_LIMIT_CREATE_MAX"),
			CreateWindow: v.GetDuration("RATE_LIMIT_CREATE_WINDOW"),
			SkipLoopback: v.GetBool("RATE_LIMIT_SKIP_LOOPBACK"),
		},
	}
}
