// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Database() DatabaseConfig
	Report() ReportConfig
	Collectors() CollectorsConfig
	Notifications() NotificationsConfig
	Server() ServerConfig
	GeoIP() GeoIPConfig
	Archive() ArchiveConfig
}

// Config holds the entire application configuration.
// Fields carry a Cfg suffix so viper can populate them while the Interface getters keep the short names.
type Config struct {
	LoggerCfg        LoggerConfig        `mapstructure:"logger" yaml:"logger"`
	DatabaseCfg      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	ReportCfg        ReportConfig        `mapstructure:"report" yaml:"report"`
	CollectorsCfg    CollectorsConfig    `mapstructure:"collectors" yaml:"collectors"`
	NotificationsCfg NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	ServerCfg        ServerConfig        `mapstructure:"server" yaml:"server"`
	GeoIPCfg         GeoIPConfig         `mapstructure:"geoip" yaml:"geoip"`
	ArchiveCfg       ArchiveConfig       `mapstructure:"archive" yaml:"archive"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig               { return c.LoggerCfg }
func (c *Config) Database() DatabaseConfig           { return c.DatabaseCfg }
func (c *Config) Report() ReportConfig               { return c.ReportCfg }
func (c *Config) Collectors() CollectorsConfig       { return c.CollectorsCfg }
func (c *Config) Notifications() NotificationsConfig { return c.NotificationsCfg }
func (c *Config) Server() ServerConfig               { return c.ServerCfg }
func (c *Config) GeoIP() GeoIPConfig                 { return c.GeoIPCfg }
func (c *Config) Archive() ArchiveConfig             { return c.ArchiveCfg }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color settings for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// DatabaseConfig holds the connection string for the PostgreSQL audit/event store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// ReportConfig controls report assembly.
type ReportConfig struct {
	// Window is the length of the trailing reporting window.
	Window time.Duration `mapstructure:"window" yaml:"window"`
	// Timeout bounds a whole run: collection, persistence and notification.
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	TrendDeadband float64       `mapstructure:"trend_deadband" yaml:"trend_deadband"`
	// LinkBase is prefixed to the report id to build notification deep links.
	LinkBase string `mapstructure:"link_base" yaml:"link_base"`
}

// CollectorsConfig controls the metric collectors.
type CollectorsConfig struct {
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold" yaml:"slow_query_threshold"`
	// TrackedTables limits index usage statistics to these tables. Empty means all tables.
	TrackedTables []string `mapstructure:"tracked_tables" yaml:"tracked_tables"`
}

// Supported notification sinks.
const (
	SinkPostgres = "postgres"
	SinkKafka    = "kafka"
)

// NotificationsConfig controls notification fan-out.
type NotificationsConfig struct {
	Sink          string        `mapstructure:"sink" yaml:"sink"`
	Concurrency   int           `mapstructure:"concurrency" yaml:"concurrency"`
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Kafka         KafkaConfig   `mapstructure:"kafka" yaml:"kafka"`
	Breaker       BreakerConfig `mapstructure:"breaker" yaml:"breaker"`
}

// BreakerConfig trips the notification sink after consecutive delivery failures.
type BreakerConfig struct {
	// FailureThreshold of zero disables the breaker.
	FailureThreshold uint32        `mapstructure:"failure_threshold" yaml:"failure_threshold"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout" yaml:"open_timeout"`
}

// KafkaConfig holds the settings for the Kafka notification sink.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers" yaml:"brokers"`
	Topic        string        `mapstructure:"topic" yaml:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// ServerConfig holds the HTTP trigger server settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// AuthSecret is the HS256 key for bearer tokens on /api/v1. Empty disables authentication.
	AuthSecret string `mapstructure:"auth_secret" yaml:"auth_secret"`
}

// GeoIPConfig points at an optional MMDB database used to resolve threat source regions.
type GeoIPConfig struct {
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}

// ArchiveConfig controls the optional S3 copy of every published report.
type ArchiveConfig struct {
	// S3Bucket enables archiving when set.
	S3Bucket string `mapstructure:"s3_bucket" yaml:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix" yaml:"s3_prefix"`
	Region   string `mapstructure:"region" yaml:"region"`
}

// NewDefaultConfig creates a configuration populated only with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "secreport")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Report --
	v.SetDefault("report.window", "168h")
	v.SetDefault("report.timeout", "2m")
	v.SetDefault("report.trend_deadband", 5.0)
	v.SetDefault("report.link_base", "/admin/reports")

	// -- Collectors --
	v.SetDefault("collectors.slow_query_threshold", "1s")
	v.SetDefault("collectors.tracked_tables", []string{})

	// -- Notifications --
	v.SetDefault("notifications.sink", SinkPostgres)
	v.SetDefault("notifications.concurrency", 4)
	v.SetDefault("notifications.rate_per_second", 20.0)
	v.SetDefault("notifications.kafka.topic", "security-report-notifications")
	v.SetDefault("notifications.kafka.write_timeout", "10s")
	v.SetDefault("notifications.breaker.failure_threshold", 5)
	v.SetDefault("notifications.breaker.open_timeout", "30s")

	// -- Server --
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "3m")
	v.SetDefault("server.auth_secret", "")

	// -- Archive --
	v.SetDefault("archive.s3_bucket", "")
	v.SetDefault("archive.s3_prefix", "weekly-reports")
	v.SetDefault("archive.region", "us-east-1")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for connection strings that should not live in files.
	_ = v.BindEnv("database.url", "SECREPORT_DATABASE_URL")
	_ = v.BindEnv("geoip.database_path", "SECREPORT_GEOIP_DATABASE_PATH")
	_ = v.BindEnv("server.auth_secret", "SECREPORT_SERVER_AUTH_SECRET")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// database.url is not checked here because only commands that touch the store need it.
func (c *Config) Validate() error {
	if err := c.ReportCfg.Validate(); err != nil {
		return fmt.Errorf("report configuration invalid: %w", err)
	}
	if c.CollectorsCfg.SlowQueryThreshold <= 0 {
		return fmt.Errorf("collectors.slow_query_threshold must be a positive duration")
	}
	if err := c.NotificationsCfg.Validate(); err != nil {
		return fmt.Errorf("notifications configuration invalid: %w", err)
	}
	if c.ArchiveCfg.S3Bucket != "" && c.ArchiveCfg.Region == "" {
		return fmt.Errorf("archive.region is required when archive.s3_bucket is set")
	}
	return nil
}

// Validate checks the ReportConfig settings.
func (r *ReportConfig) Validate() error {
	if r.Window <= 0 {
		return fmt.Errorf("window must be a positive duration")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	if r.TrendDeadband < 0 {
		return fmt.Errorf("trend_deadband must not be negative")
	}
	return nil
}

// Validate checks the NotificationsConfig settings.
func (n *NotificationsConfig) Validate() error {
	if n.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be a positive integer")
	}
	if n.RatePerSecond <= 0 {
		return fmt.Errorf("rate_per_second must be positive")
	}
	switch strings.ToLower(n.Sink) {
	case SinkPostgres:
	case SinkKafka:
		if len(n.Kafka.Brokers) == 0 || n.Kafka.Topic == "" {
			return fmt.Errorf("kafka.brokers and kafka.topic are required when sink is kafka")
		}
	default:
		return fmt.Errorf("unsupported sink %q", n.Sink)
	}
	return nil
}
