// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Filename     string `yaml:"filename"`
	MaxOpenConns int    `yaml:"max_open_conns,omitempty"`
}

// BookingConfig holds the engine policy knobs. Durations use Go syntax ("15m").
type BookingConfig struct {
	PaymentHold        time.Duration `yaml:"payment_hold"`
	NoShowGrace        time.Duration `yaml:"no_show_grace"`
	CheckInOpensBefore time.Duration `yaml:"check_in_opens_before"`
	LockTimeout        time.Duration `yaml:"lock_timeout"`
	MaxRecurringWeeks  int           `yaml:"max_recurring_weeks"`
}

type ScannerConfig struct {
	Cron      string `yaml:"cron"`
	BatchSize int    `yaml:"batch_size"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
	Password string        `yaml:"-"` // Loaded from environment
}

type BrokerConfig struct {
	Driver string `yaml:"driver"` // none, rabbitmq or kafka

	RabbitMQ struct {
		URL           string `yaml:"-"` // Loaded from environment
		Exchange      string `yaml:"exchange"`
		PaymentsQueue string `yaml:"payments_queue"`
	} `yaml:"rabbitmq"`

	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		EventsTopic   string   `yaml:"events_topic"`
		PaymentsTopic string   `yaml:"payments_topic"`
		GroupID       string   `yaml:"group_id"`
	} `yaml:"kafka"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Booking  BookingConfig  `yaml:"booking"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Redis    RedisConfig    `yaml:"redis"`
	Broker   BrokerConfig   `yaml:"broker"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Broker.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML into a Config with defaults applied. It does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used for any key the YAML omits.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Environment = "development"
	cfg.App.ShutdownTimeout = 30 * time.Second
	cfg.Database.Driver = "sqlite"
	cfg.Booking = BookingConfig{
		PaymentHold:        15 * time.Minute,
		NoShowGrace:        15 * time.Minute,
		CheckInOpensBefore: 30 * time.Minute,
		LockTimeout:        3 * time.Second,
		MaxRecurringWeeks:  52,
	}
	cfg.Scanner = ScannerConfig{Cron: "* * * * *", BatchSize: 200}
	cfg.Redis.LockTTL = 10 * time.Second
	cfg.Broker.Driver = "none"
	cfg.Broker.RabbitMQ.Exchange = "courtbook"
	cfg.Broker.RabbitMQ.PaymentsQueue = "courtbook.payments"
	cfg.Broker.Kafka.EventsTopic = "courtbook.bookings"
	cfg.Broker.Kafka.PaymentsTopic = "courtbook.payments"
	cfg.Broker.Kafka.GroupID = "courtbook"
	return cfg
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Booking.PaymentHold <= 0 {
		return fmt.Errorf("booking payment_hold must be positive")
	}
	if c.Booking.NoShowGrace < 0 || c.Booking.CheckInOpensBefore < 0 {
		return fmt.Errorf("booking grace windows must not be negative")
	}
	if c.Booking.LockTimeout <= 0 {
		return fmt.Errorf("booking lock_timeout must be positive")
	}
	if c.Booking.MaxRecurringWeeks <= 0 {
		return fmt.Errorf("booking max_recurring_weeks must be positive")
	}

	if strings.TrimSpace(c.Scanner.Cron) == "" {
		return fmt.Errorf("scanner cron expression is required")
	}
	if _, err := cron.ParseStandard(c.Scanner.Cron); err != nil {
		return fmt.Errorf("invalid scanner cron %q: %w", c.Scanner.Cron, err)
	}
	if c.Scanner.BatchSize <= 0 {
		return fmt.Errorf("scanner batch_size must be positive")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required when redis is enabled")
		}
		if c.Redis.LockTTL <= c.Booking.LockTimeout {
			return fmt.Errorf("redis lock_ttl must exceed booking lock_timeout")
		}
	}

	switch c.Broker.Driver {
	case "", "none":
	case "rabbitmq":
		if c.Broker.RabbitMQ.URL == "" {
			return fmt.Errorf("RABBITMQ_URL is required for the rabbitmq broker")
		}
		if c.Broker.RabbitMQ.Exchange == "" {
			return fmt.Errorf("rabbitmq exchange is required")
		}
	case "kafka":
		if len(c.Broker.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required for the kafka broker")
		}
		if c.Broker.Kafka.EventsTopic == "" || c.Broker.Kafka.PaymentsTopic == "" {
			return fmt.Errorf("kafka topics are required")
		}
	default:
		return fmt.Errorf("unsupported broker driver: %s", c.Broker.Driver)
	}

	return nil
}
