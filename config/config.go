package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tiger2021/httpcore/internal/address"
	"gopkg.in/yaml.v3"
)

type (
	Parser struct {
		// MaxRequestLine limits the request line. If that many bytes are buffered and there's
		// still no line terminator, the request is rejected.
		MaxRequestLine int `yaml:"max_request_line"`
		// MaxHeaderLine limits every single header line in the same manner.
		MaxHeaderLine int `yaml:"max_header_line"`
		// MaxHeaders is the maximal number of header lines in a single request.
		MaxHeaders int `yaml:"max_headers"`
		// MaxBodySize is the maximal acceptable Content-Length value.
		MaxBodySize int `yaml:"max_body_size"`
	}

	DB struct {
		// Driver is either mysql or sqlite3.
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password" test:"nullable"`
		Database string `yaml:"database"`
		// PoolSize is the exact number of connections kept by the pool. It never changes
		// after the pool is initialized.
		PoolSize int `yaml:"pool_size"`
	}

	HealthCheck struct {
		// Interval is the pause between two complete health-checking cycles.
		Interval time.Duration `yaml:"interval"`
		// EmptyRetry is the pause taken when there were no idle connections to check.
		EmptyRetry time.Duration `yaml:"empty_retry"`
		// ErrorBackoff is the pause taken after a cycle was interrupted by an unexpected failure.
		ErrorBackoff time.Duration `yaml:"error_backoff"`
	}

	NET struct {
		Addr string `yaml:"addr"`
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int `yaml:"read_buffer_size"`
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration `yaml:"read_timeout"`
	}

	Log struct {
		// Level is one of zerolog levels: trace, debug, info, warn, error, fatal, panic.
		Level string `yaml:"level"`
		// Format is either json or console.
		Format string `yaml:"format"`
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and the database credentials.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Parser      Parser      `yaml:"parser"`
	DB          DB          `yaml:"db"`
	HealthCheck HealthCheck `yaml:"health_check"`
	NET         NET         `yaml:"net"`
	Log         Log         `yaml:"log"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Parser: Parser{
			MaxRequestLine: 8 * 1024,
			MaxHeaderLine:  8 * 1024,
			MaxHeaders:     100,
			MaxBodySize:    64 * 1024 * 1024,
		},
		DB: DB{
			Driver:   "mysql",
			Host:     "127.0.0.1:3306",
			User:     "root",
			Database: "app",
			PoolSize: 10,
		},
		HealthCheck: HealthCheck{
			Interval:     60 * time.Second,
			EmptyRetry:   1 * time.Second,
			ErrorBackoff: 5 * time.Second,
		},
		NET: NET{
			Addr:           ":8080",
			ReadBufferSize: 4 * 1024,
			ReadTimeout:    90 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load returns defaults, overridden by the YAML file (if path isn't empty) and then by
// environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}

		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

const envPrefix = "HTTPCORE_"

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"ADDR":        &cfg.NET.Addr,
		"DB_DRIVER":   &cfg.DB.Driver,
		"DB_HOST":     &cfg.DB.Host,
		"DB_USER":     &cfg.DB.User,
		"DB_PASSWORD": &cfg.DB.Password,
		"DB_DATABASE": &cfg.DB.Database,
		"LOG_LEVEL":   &cfg.Log.Level,
		"LOG_FORMAT":  &cfg.Log.Format,
	}

	for name, field := range strs {
		if value, found := os.LookupEnv(envPrefix + name); found {
			*field = value
		}
	}

	if value, found := os.LookupEnv(envPrefix + "DB_POOL_SIZE"); found {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %sDB_POOL_SIZE: %w", envPrefix, err)
		}

		cfg.DB.PoolSize = size
	}

	return nil
}

// Validate reports the first setting that makes no sense.
func (c *Config) Validate() error {
	switch {
	case c.Parser.MaxRequestLine <= 0 || c.Parser.MaxHeaderLine <= 0:
		return errors.New("parser line limits must be positive")
	case c.Parser.MaxHeaders <= 0:
		return errors.New("parser.max_headers must be positive")
	case c.Parser.MaxBodySize < 0:
		return errors.New("parser.max_body_size cannot be negative")
	case c.DB.Driver != "mysql" && c.DB.Driver != "sqlite3":
		return fmt.Errorf("unsupported db driver: %q", c.DB.Driver)
	case c.DB.PoolSize <= 0:
		return errors.New("db.pool_size must be at least 1")
	case c.HealthCheck.Interval <= 0 || c.HealthCheck.EmptyRetry <= 0 || c.HealthCheck.ErrorBackoff <= 0:
		return errors.New("health check intervals must be positive")
	case c.NET.ReadBufferSize <= 0:
		return errors.New("net.read_buffer_size must be positive")
	}

	if _, err := address.Parse(c.NET.Addr); err != nil {
		return fmt.Errorf("net.addr: %w", err)
	}

	return nil
}
