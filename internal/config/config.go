package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string
	Port        int

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`
	RunMigrations  bool   `toml:"run_migrations"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// rate limits
	LoginRateLimitAllowedPerMin   int `toml:"login_rate_limit_allowed_per_min"`
	AnalyzeRateLimitAllowedPerMin int `toml:"analyze_rate_limit_allowed_per_min"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// nutrition
	RecognitionBaseURL      string  `toml:"recognition_base_url"`
	RecognitionModelID      string  `toml:"recognition_model_id"`
	RecognitionMonthlyQuota int     `toml:"recognition_monthly_quota"`
	RecognitionCacheSizeMB  int     `toml:"recognition_cache_size_mb"`
	RecognitionCacheTTLSec  int     `toml:"recognition_cache_ttl_sec"`
	ImageMaxDimension       int     `toml:"image_max_dimension"`
	ImageJPEGQuality        int     `toml:"image_jpeg_quality"`
	DefaultPortionGrams     float64 `toml:"default_portion_grams"`
	NutritionTablePath      string  `toml:"nutrition_table_path"`

	// meal photos: disk | s3 | gcs
	PhotoStorage       string `toml:"photo_storage"`
	PhotosDiskRootPath string `toml:"photos_disk_root_path"`
	S3Bucket           string `toml:"s3_bucket"`
	S3Region           string `toml:"s3_region"`
	S3Endpoint         string `toml:"s3_endpoint"`
	GCSBucket          string `toml:"gcs_bucket"`
	GCSCredentialsFile string `toml:"gcs_credentials_file"`

	MCPEnabled bool `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found", env)
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()

	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml file [%s]: %w", path, err)
	}
	return tomlConfig.Get(env)
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 5
	}
	if c.AnalyzeRateLimitAllowedPerMin <= 0 {
		c.AnalyzeRateLimitAllowedPerMin = 10
	}
	if c.RecognitionBaseURL == "" {
		c.RecognitionBaseURL = "https://api.clarifai.com"
	}
	if c.RecognitionCacheTTLSec <= 0 {
		c.RecognitionCacheTTLSec = 60 * 60 * 24
	}
	if c.DefaultPortionGrams <= 0 {
		c.DefaultPortionGrams = 150
	}
	if c.PhotoStorage == "" {
		c.PhotoStorage = "disk"
	}
}
