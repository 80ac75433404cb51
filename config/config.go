package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ConfigPathEnv names the variable holding the optional YAML config file path
const ConfigPathEnv = "CLIPCONVERT_CONFIG_PATH"

type Config struct {
	Reference Reference `yaml:"reference"`
	Rates     Rates     `yaml:"rates"`
	Monitor   Monitor   `yaml:"monitor"`
	HTTP      HTTP      `yaml:"http"`
	Kafka     Kafka     `yaml:"kafka"`
	Log       Log       `yaml:"log"`
}

// Reference the currency amounts are converted into
type Reference struct {
	Code   string `yaml:"code" env:"CLIPCONVERT_REFERENCE_CODE" env-default:"KRW"`
	Suffix string `yaml:"suffix" env:"CLIPCONVERT_REFERENCE_SUFFIX" env-default:"원"`
}

type Rates struct {
	URL             string        `yaml:"url" env:"CLIPCONVERT_RATES_URL" env-default:"https://api.frankfurter.app"`
	Timeout         time.Duration `yaml:"timeout" env:"CLIPCONVERT_RATES_TIMEOUT" env-default:"5s"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"CLIPCONVERT_RATES_REFRESH_INTERVAL" env-default:"1h"`
}

type Monitor struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"CLIPCONVERT_POLL_INTERVAL" env-default:"500ms"`
	ResultBuffer int           `yaml:"result_buffer" env:"CLIPCONVERT_RESULT_BUFFER" env-default:"16"`
	// Quiet turns off printing results to stdout
	Quiet bool `yaml:"quiet" env:"CLIPCONVERT_QUIET"`
}

type HTTP struct {
	Enabled bool   `yaml:"enabled" env:"CLIPCONVERT_HTTP_ENABLED" env-default:"false"`
	Addr    string `yaml:"addr" env:"CLIPCONVERT_HTTP_ADDR" env-default:":8080"`
}

// Kafka publishing is disabled when Brokers is empty
type Kafka struct {
	Brokers []string      `yaml:"brokers" env:"CLIPCONVERT_KAFKA_BROKERS" env-separator:","`
	Topic   string        `yaml:"topic" env:"CLIPCONVERT_KAFKA_TOPIC" env-default:"clipboard-conversions"`
	Timeout time.Duration `yaml:"timeout" env:"CLIPCONVERT_KAFKA_TIMEOUT" env-default:"5s"`
}

type Log struct {
	Level  string `yaml:"level" env:"CLIPCONVERT_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"CLIPCONVERT_LOG_FORMAT" env-default:"logfmt"`
}

// Load reads the YAML file at path, if any, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("finding config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv loads the given .env files (".env" when none are named) if they exist, then calls Load
// with the path held by CLIPCONVERT_CONFIG_PATH.
func FromEnv(dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Load(os.Getenv(ConfigPathEnv))
}

// Validate rejects settings the monitor cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Reference.Code == "":
		return errors.New("config: reference.code is empty")
	case c.Rates.Timeout <= 0:
		return fmt.Errorf("config: rates.timeout must be positive, got %v", c.Rates.Timeout)
	case c.Rates.RefreshInterval <= 0:
		return fmt.Errorf("config: rates.refresh_interval must be positive, got %v", c.Rates.RefreshInterval)
	case c.Monitor.PollInterval <= 0:
		return fmt.Errorf("config: monitor.poll_interval must be positive, got %v", c.Monitor.PollInterval)
	case c.Monitor.ResultBuffer <= 0:
		return fmt.Errorf("config: monitor.result_buffer must be positive, got %v", c.Monitor.ResultBuffer)
	case len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "":
		return errors.New("config: kafka.topic is empty")
	}
	switch c.Log.Format {
	case "logfmt", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	return nil
}
