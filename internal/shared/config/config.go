package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LogLevel        string
	LogFormat       string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	DatabaseURL string
	DB          DBPool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	SQSQueueURL              string
	WorkerConcurrency        int
	SQSVisibilityTimeoutSecs int
	ShutdownTimeout          time.Duration

	SNSTopicARN string

	RateLimits RateLimits
}

// DBPool overrides database pool defaults; zero values keep the default.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// RateLimits configures the per-principal token buckets.
type RateLimits struct {
	AnalyzeRPS   float64
	AnalyzeBurst int
	ReadRPS      float64
	ReadBurst    int
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads configuration from .env files, an optional config.yaml and
// environment variables, in increasing order of precedence.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:            v.GetString("port"),
		Env:             normalizeEnv(v.GetString("env")),
		CORSAllowOrigin: splitAndTrim(v.GetString("cors_allow_origins")),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),

		ObjectStoreType: strings.ToLower(strings.TrimSpace(v.GetString("object_store"))),
		LocalStoreDir:   v.GetString("local_store_dir"),
		AWSRegion:       v.GetString("aws_region"),
		S3Bucket:        v.GetString("s3_bucket"),
		S3Prefix:        v.GetString("s3_prefix"),
		SSEKMSKeyID:     v.GetString("sse_kms_key_id"),

		DatabaseURL: strings.TrimSpace(v.GetString("database_url")),
		DB: DBPool{
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("db_conn_max_idle_time"),
			PingTimeout:     v.GetDuration("db_ping_timeout"),
		},

		RedisAddr:     strings.TrimSpace(v.GetString("redis_addr")),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		CacheTTL:      v.GetDuration("cache_ttl"),

		SQSQueueURL:              strings.TrimSpace(v.GetString("sqs_queue_url")),
		WorkerConcurrency:        v.GetInt("worker_concurrency"),
		SQSVisibilityTimeoutSecs: v.GetInt("sqs_visibility_timeout_seconds"),
		ShutdownTimeout:          time.Duration(v.GetInt("shutdown_timeout_seconds")) * time.Second,

		SNSTopicARN: strings.TrimSpace(v.GetString("sns_topic_arn")),

		RateLimits: RateLimits{
			AnalyzeRPS:   v.GetFloat64("rate_limit_analyze_rps"),
			AnalyzeBurst: v.GetInt("rate_limit_analyze_burst"),
			ReadRPS:      v.GetFloat64("rate_limit_read_rps"),
			ReadBurst:    v.GetInt("rate_limit_read_burst"),
		},
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "dev")
	v.SetDefault("cors_allow_origins", "http://localhost:5173")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("object_store", "local")
	v.SetDefault("local_store_dir", "./data")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", "10m")
	v.SetDefault("worker_concurrency", 4)
	v.SetDefault("sqs_visibility_timeout_seconds", 60)
	v.SetDefault("shutdown_timeout_seconds", 20)
	v.SetDefault("rate_limit_analyze_rps", 0.5)
	v.SetDefault("rate_limit_analyze_burst", 5)
	v.SetDefault("rate_limit_read_rps", 5)
	v.SetDefault("rate_limit_read_burst", 20)
}

func (c Config) validate() error {
	switch c.ObjectStoreType {
	case "local", "s3":
	default:
		return fmt.Errorf("%w: unknown OBJECT_STORE %q", ErrInvalidConfig, c.ObjectStoreType)
	}
	if c.ObjectStoreType == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("%w: S3_BUCKET is required when OBJECT_STORE=s3", ErrInvalidConfig)
	}
	if c.Env == "production" && c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required in production", ErrInvalidConfig)
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("%w: WORKER_CONCURRENCY must be positive", ErrInvalidConfig)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL must be positive", ErrInvalidConfig)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// loadEnvFiles loads KEY=VALUE files for local development. Variables that
// are already set win, and missing files are ignored.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
