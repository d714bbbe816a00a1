package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Sync      SyncConfig
	Providers ProvidersConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// SyncConfig holds sync orchestration settings
type SyncConfig struct {
	PageSize       int           // products per fetch page
	JobTimeout     time.Duration // hard cap per provider run
	DeltaOverlap   time.Duration // safety overlap subtracted from the delta window
	CacheTTL       time.Duration // provider/product cache entry lifetime
	MaxJobLogLines int           // cap on per-job structured log lines
}

// ProvidersConfig holds per-distributor feed credentials
type ProvidersConfig struct {
	NOD    NODConfig
	Elko   ElkoConfig
	Ingram IngramConfig
	ALSO   ALSOConfig
}

// NODConfig holds the signed REST feed settings
type NODConfig struct {
	BaseURL string
	APIUser string
	APIKey  string
	Timeout time.Duration
}

// ElkoConfig holds the URL-keyed JSON feed settings
type ElkoConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// IngramConfig holds the CSV-over-HTTP feed settings
type IngramConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ALSOConfig holds the SFTP feed settings
type ALSOConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	RemotePath string
	Timeout    time.Duration
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CATSYNC_ prefix (e.g., CATSYNC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CATSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Enabled:  v.GetBool("redis.enabled"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Sync: SyncConfig{
			PageSize:       v.GetInt("sync.page_size"),
			JobTimeout:     v.GetDuration("sync.job_timeout"),
			DeltaOverlap:   v.GetDuration("sync.delta_overlap"),
			CacheTTL:       v.GetDuration("sync.cache_ttl"),
			MaxJobLogLines: v.GetInt("sync.max_job_log_lines"),
		},
		Providers: ProvidersConfig{
			NOD: NODConfig{
				BaseURL: v.GetString("providers.nod.base_url"),
				APIUser: v.GetString("providers.nod.api_user"),
				APIKey:  v.GetString("providers.nod.api_key"),
				Timeout: v.GetDuration("providers.nod.timeout"),
			},
			Elko: ElkoConfig{
				BaseURL: v.GetString("providers.elko.base_url"),
				Token:   v.GetString("providers.elko.token"),
				Timeout: v.GetDuration("providers.elko.timeout"),
			},
			Ingram: IngramConfig{
				BaseURL: v.GetString("providers.ingram.base_url"),
				APIKey:  v.GetString("providers.ingram.api_key"),
				Timeout: v.GetDuration("providers.ingram.timeout"),
			},
			ALSO: ALSOConfig{
				Host:       v.GetString("providers.also.host"),
				Port:       v.GetInt("providers.also.port"),
				Username:   v.GetString("providers.also.username"),
				Password:   v.GetString("providers.also.password"),
				RemotePath: v.GetString("providers.also.remote_path"),
				Timeout:    v.GetDuration("providers.also.timeout"),
			},
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catsync-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "catsync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = 100
	}
	if cfg.Sync.JobTimeout == 0 {
		cfg.Sync.JobTimeout = 30 * time.Minute
	}
	if cfg.Sync.CacheTTL == 0 {
		cfg.Sync.CacheTTL = 5 * time.Minute
	}
	if cfg.Sync.MaxJobLogLines == 0 {
		cfg.Sync.MaxJobLogLines = 500
	}
	if cfg.Providers.NOD.Timeout == 0 {
		cfg.Providers.NOD.Timeout = 60 * time.Second
	}
	if cfg.Providers.Elko.Timeout == 0 {
		cfg.Providers.Elko.Timeout = 60 * time.Second
	}
	if cfg.Providers.Ingram.Timeout == 0 {
		cfg.Providers.Ingram.Timeout = 120 * time.Second
	}
	if cfg.Providers.ALSO.Port == 0 {
		cfg.Providers.ALSO.Port = 22
	}
	if cfg.Providers.ALSO.Timeout == 0 {
		cfg.Providers.ALSO.Timeout = 120 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Sync.PageSize < 0 {
		return fmt.Errorf("sync.page_size cannot be negative")
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the redis host:port address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
