package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tradekit/matchtrade/pkg/db/queue"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		HTTPAddr     string  `yaml:"http_addr"`
		LogLevel     string  `yaml:"log_level"`
		LogFormat    string  `yaml:"log_format"`
		RateLimit    float64 `yaml:"rate_limit"`
		RateBurst    int     `yaml:"rate_burst"`
		AllowOrigins string  `yaml:"allow_origins"`
	} `yaml:"server"`

	Symbols []string `yaml:"symbols"`

	Kafka struct {
		Enabled    bool   `yaml:"enabled"`
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
	} `yaml:"kafka"`

	Redis struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
		Channel string `yaml:"channel"`
	} `yaml:"redis"`

	Otel struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"otel"`
}

// Default configuration values
var (
	configFile = flag.String("config", "", "Path to config file (YAML)")
	httpPort   = flag.Int("http_port", 8080, "The HTTP server port")
	logLevel   = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log_format", "pretty", "Log format: json, pretty")
)

// LoadConfig loads the configuration from command line flags, an
// optional YAML file, and MATCHTRADE_* environment overrides, in that
// order of increasing precedence.
func LoadConfig() (*Config, error) {
	flag.Parse()

	config := &Config{}
	config.Server.HTTPAddr = fmt.Sprintf(":%d", *httpPort)
	config.Server.LogLevel = *logLevel
	config.Server.LogFormat = *logFormat
	config.Server.RateLimit = 1000
	config.Server.RateBurst = 200
	config.Symbols = []string{"BTC/DOGE"}
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Kafka.Topic = "match-events"
	config.Redis.Addr = "localhost:6379"
	config.Redis.Channel = "match-feed"
	config.Otel.Endpoint = "localhost:4317"

	if *configFile != "" {
		yamlFile, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	// Propagate Kafka settings to the queue package
	queue.SetBrokerList(config.Kafka.BrokerAddr)
	queue.SetTopic(config.Kafka.Topic)

	return config, nil
}

// applyEnvOverrides lets deployment environments override the file
// and flag values without editing either.
func applyEnvOverrides(config *Config) {
	v := viper.New()
	v.SetEnvPrefix("MATCHTRADE")
	v.AutomaticEnv()

	if v.IsSet("HTTP_ADDR") {
		config.Server.HTTPAddr = v.GetString("HTTP_ADDR")
	}
	if v.IsSet("LOG_LEVEL") {
		config.Server.LogLevel = v.GetString("LOG_LEVEL")
	}
	if v.IsSet("KAFKA_BROKER_ADDR") {
		config.Kafka.Enabled = true
		config.Kafka.BrokerAddr = v.GetString("KAFKA_BROKER_ADDR")
	}
	if v.IsSet("KAFKA_TOPIC") {
		config.Kafka.Topic = v.GetString("KAFKA_TOPIC")
	}
	if v.IsSet("REDIS_ADDR") {
		config.Redis.Enabled = true
		config.Redis.Addr = v.GetString("REDIS_ADDR")
	}
	if v.IsSet("REDIS_CHANNEL") {
		config.Redis.Channel = v.GetString("REDIS_CHANNEL")
	}
	if v.IsSet("OTEL_ENDPOINT") {
		config.Otel.Enabled = true
		config.Otel.Endpoint = v.GetString("OTEL_ENDPOINT")
	}
}
