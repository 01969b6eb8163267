package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/urbanops/dataqual/pkg/errors"
)

// Config is the full application configuration
type Config struct {
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment"`

	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Telegram TelegramConfig `json:"telegram" yaml:"telegram" mapstructure:"telegram"`
	InfluxDB InfluxDBConfig `json:"influxdb" yaml:"influxdb" mapstructure:"influxdb"`
	Postgres PostgresConfig `json:"postgres" yaml:"postgres" mapstructure:"postgres"`
	Weather  WeatherConfig  `json:"weather" yaml:"weather" mapstructure:"weather"`
	Data     DataConfig     `json:"data" yaml:"data" mapstructure:"data"`
	Export   ExportConfig   `json:"export" yaml:"export" mapstructure:"export"`
	Redis    RedisConfig    `json:"redis" yaml:"redis" mapstructure:"redis"`
}

// LogConfig controls structured logging output
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host         string        `json:"host" yaml:"host" mapstructure:"host"`
	Port         int           `json:"port" yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
}

// TelegramConfig contains bot notification settings
type TelegramConfig struct {
	BotToken string        `json:"bot_token" yaml:"bot_token" mapstructure:"bot_token"`
	ChatID   string        `json:"chat_id" yaml:"chat_id" mapstructure:"chat_id"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// InfluxDBConfig contains time series database settings for weather ingestion
type InfluxDBConfig struct {
	URL    string `json:"url" yaml:"url" mapstructure:"url"`
	Token  string `json:"token" yaml:"token" mapstructure:"token"`
	Org    string `json:"org" yaml:"org" mapstructure:"org"`
	Bucket string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
}

// PostgresConfig contains warehouse connection settings
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" mapstructure:"port"`
	Database string `json:"database" yaml:"database" mapstructure:"database"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode" mapstructure:"ssl_mode"`
	Table    string `json:"table" yaml:"table" mapstructure:"table"`
}

// WeatherConfig contains the weather ingestion settings
type WeatherConfig struct {
	APIBaseURL string        `json:"api_base_url" yaml:"api_base_url" mapstructure:"api_base_url"`
	City       string        `json:"city" yaml:"city" mapstructure:"city"`
	Latitude   float64       `json:"latitude" yaml:"latitude" mapstructure:"latitude"`
	Longitude  float64       `json:"longitude" yaml:"longitude" mapstructure:"longitude"`
	Interval   time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
}

// DataConfig points at local data files
type DataConfig struct {
	TripsCSV      string `json:"trips_csv" yaml:"trips_csv" mapstructure:"trips_csv"`
	AirQualityCSV string `json:"air_quality_csv" yaml:"air_quality_csv" mapstructure:"air_quality_csv"`
}

// ExportConfig controls JSON report export
type ExportConfig struct {
	OutputDir string   `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	SyncDir   string   `json:"sync_dir" yaml:"sync_dir" mapstructure:"sync_dir"`
	S3        S3Config `json:"s3" yaml:"s3" mapstructure:"s3"`
}

// S3Config contains optional S3 upload settings for exported reports
type S3Config struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Region  string `json:"region" yaml:"region" mapstructure:"region"`
	Bucket  string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Prefix  string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// RedisConfig contains optional report store settings
type RedisConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Address   string        `json:"address" yaml:"address" mapstructure:"address"`
	Password  string        `json:"password" yaml:"password" mapstructure:"password"`
	DB        int           `json:"db" yaml:"db" mapstructure:"db"`
	TTL       time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	KeyPrefix string        `json:"key_prefix" yaml:"key_prefix" mapstructure:"key_prefix"`
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables use the DATAQUAL prefix with underscores, e.g.
// DATAQUAL_TELEGRAM_BOT_TOKEN.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("DATAQUAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, errors.CodeInvalidSetting,
				fmt.Sprintf("failed to read config file %s", configFile))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, errors.CodeInvalidSetting,
			"failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("telegram.timeout", 10*time.Second)

	v.SetDefault("influxdb.url", "http://localhost:8086")
	v.SetDefault("influxdb.org", "urbanops")
	v.SetDefault("influxdb.bucket", "weather")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "warehouse")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.table", "fact_taxi_daily")

	v.SetDefault("weather.api_base_url", "https://api.open-meteo.com")
	v.SetDefault("weather.city", "New York")
	v.SetDefault("weather.latitude", 40.7128)
	v.SetDefault("weather.longitude", -74.0060)
	v.SetDefault("weather.interval", time.Hour)

	v.SetDefault("export.output_dir", "reports")
	v.SetDefault("export.sync_dir", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 7*24*time.Hour)
	v.SetDefault("redis.key_prefix", "dataqual")
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewConfigError(errors.CodeInvalidSetting,
			fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.NewConfigError(errors.CodeInvalidSetting, "server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.NewConfigError(errors.CodeInvalidSetting, "server write timeout must be positive")
	}
	if c.Weather.Interval <= 0 {
		return errors.NewConfigError(errors.CodeInvalidSetting, "weather interval must be positive")
	}
	if c.Export.S3.Enabled && c.Export.S3.Bucket == "" {
		return errors.NewConfigError(errors.CodeMissingSetting, "s3 bucket is required when s3 export is enabled")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.NewConfigError(errors.CodeMissingSetting, "redis address is required when redis is enabled")
	}
	return nil
}

// ServerAddress returns the host:port the HTTP server binds to
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
