package config

import (
	"fmt"
	"time"
	"watcher/pkg/serrors"

	"github.com/ilyakaznacheev/cleanenv"
)

// Registry drivers.
const (
	RegistryDriverFile     = "file"
	RegistryDriverPostgres = "postgres"
)

// Notifier drivers.
const (
	NotifierDriverLog  = "log"
	NotifierDriverSMTP = "smtp"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the metrics HTTP server, the
// watcher itself, the registry, notifications and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the level implied by Environment when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Watcher contains the traversal, classification and retry settings
	Watcher struct {
		// Seeds are the pages every traversal starts from
		Seeds []string `env:"WATCHER_SEEDS" env-separator:"," yaml:"seeds"`
		// ListingPattern selects pages that are expanded further
		ListingPattern string `env:"WATCHER_LISTING_PATTERN" env-default:"/page\\d+" yaml:"listingPattern"`
		// ItemPattern selects pages recorded as items
		ItemPattern string `env:"WATCHER_ITEM_PATTERN" env-default:"\\.html" yaml:"itemPattern"`
		// ExclusionPattern removes matching URLs from the recorded items
		ExclusionPattern string `env:"WATCHER_EXCLUSION_PATTERN" yaml:"exclusionPattern"`
		// RetryBudget is the number of extra traversals used to confirm a removal
		RetryBudget int `env:"WATCHER_RETRY_BUDGET" env-default:"3" yaml:"retryBudget"`
		// Schedule is a cron spec for periodic invocations
		Schedule string `env:"WATCHER_SCHEDULE" env-default:"@every 5m" yaml:"schedule"`
		// FetchTimeout bounds a single page fetch
		FetchTimeout time.Duration `env:"WATCHER_FETCH_TIMEOUT" env-default:"30s" yaml:"fetchTimeout"`
		// UserAgent is sent with every fetch
		UserAgent string `env:"WATCHER_USER_AGENT" env-default:"catalog-watcher/1.0" yaml:"userAgent"`
		// MaxBodyBytes caps the size of a fetched page
		MaxBodyBytes int64 `env:"WATCHER_MAX_BODY_BYTES" env-default:"8388608" yaml:"maxBodyBytes"`
	} `yaml:"watcher"`

	// Registry selects where confirmed items are persisted
	Registry struct {
		// Driver is either "file" or "postgres"
		Driver string `env:"REGISTRY_DRIVER" env-default:"file" yaml:"driver"`
		// Path is the registry file used by the file driver
		Path string `env:"REGISTRY_PATH" env-default:"db.txt" yaml:"path"`
	} `yaml:"registry"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"watcher" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"4" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"2" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Notifier selects how confirmed changes are delivered
	Notifier struct {
		// Driver is either "log" or "smtp"
		Driver string `env:"NOTIFIER_DRIVER" env-default:"log" yaml:"driver"`
		// Site names the catalog in messages
		Site string `env:"NOTIFIER_SITE" yaml:"site"`
		// SMTP holds the mail server settings used by the smtp driver
		SMTP struct {
			Host     string        `env:"SMTP_HOST" env-default:"smtp.gmail.com" yaml:"host"`
			Port     int           `env:"SMTP_PORT" env-default:"465" yaml:"port"`
			SSL      bool          `env:"SMTP_SSL" env-default:"true" yaml:"ssl"`
			Username string        `env:"SMTP_USERNAME" yaml:"username"`
			Password string        `env:"SMTP_PASSWORD" yaml:"password"`
			Timeout  time.Duration `env:"SMTP_TIMEOUT" env-default:"30s" yaml:"timeout"`
		} `yaml:"smtp"`
		// From is the sender address
		From string `env:"NOTIFIER_FROM" yaml:"from"`
		// SummaryTo receives the full list of changes
		SummaryTo []string `env:"NOTIFIER_SUMMARY_TO" env-separator:"," yaml:"summaryTo"`
		// AlertTo receives the short alert, typically an SMS gateway address
		AlertTo []string `env:"NOTIFIER_ALERT_TO" env-separator:"," yaml:"alertTo"`
	} `yaml:"notifier"`

	// GracefulShutdownTimeout is the maximum duration to wait for the running invocation and the HTTP server during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"1m" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Registry.Driver {
	case RegistryDriverFile, RegistryDriverPostgres:
	default:
		return serrors.With(serrors.ErrBadRequest, "unknown registry driver %q", c.Registry.Driver)
	}

	switch c.Notifier.Driver {
	case NotifierDriverLog, NotifierDriverSMTP:
	default:
		return serrors.With(serrors.ErrBadRequest, "unknown notifier driver %q", c.Notifier.Driver)
	}

	if len(c.Watcher.Seeds) == 0 {
		return serrors.With(serrors.ErrBadRequest, "at least one seed is required")
	}
	if c.Watcher.RetryBudget < 0 {
		return serrors.With(serrors.ErrBadRequest, "retry budget must not be negative")
	}

	return nil
}
