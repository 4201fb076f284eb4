// Package config resolves the configuration of a management server.
//
// Values are resolved in priority order: defaults, then a YAML document
// (JSON is valid YAML), then MBEAN_* environment variables:
//
//	server:
//	  grpc_address: ":9490"
//	  http_address: ":9491"
//	  shutdown_timeout: 10s
//	tls:
//	  key_file: /etc/mbean/tls.key
//	  cert_file: /etc/mbean/tls.crt
//	  client_ca_certs_file: /etc/mbean/ca.crt
//	telemetry:
//	  collector_endpoint: otel-collector:4318
//	  service_name: billing
//	logging:
//	  level: info
//	  format: json
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGRPCAddress     = ":9490"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultServiceName     = "mbean"
	DefaultLoggingLevel    = "warning"
	DefaultLoggingFormat   = "text"
)

var (
	ErrCfgBytesEmpty = errors.New("config bytes is empty")
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the resolved configuration of a management server.
type Config struct {
	Server    Server    `yaml:"server"`
	TLS       TLS       `yaml:"tls"`
	Telemetry Telemetry `yaml:"telemetry"`
	Logging   Logging   `yaml:"logging"`
}

// Server holds listener settings. An empty HTTPAddress disables the WebSocket endpoint.
type Server struct {
	GRPCAddress     string        `yaml:"grpc_address"`
	HTTPAddress     string        `yaml:"http_address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TLS holds PEM file locations. Key and certificate go together; client CA
// certificates additionally require clients to present a certificate.
type TLS struct {
	KeyFile           string `yaml:"key_file"`
	CertFile          string `yaml:"cert_file"`
	ClientCACertsFile string `yaml:"client_ca_certs_file"`
}

func (t TLS) Enabled() bool {
	return t.KeyFile != "" || t.CertFile != ""
}

// Telemetry holds trace export settings. An empty endpoint disables export.
type Telemetry struct {
	CollectorEndpoint string `yaml:"collector_endpoint"`
	CollectorCACerts  string `yaml:"collector_ca_certs"`
	ServiceName       string `yaml:"service_name"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{
			GRPCAddress:     DefaultGRPCAddress,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Telemetry: Telemetry{
			ServiceName: DefaultServiceName,
		},
		Logging: Logging{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
	}
}

// FromBytes overlays the YAML document cfgBytes on the defaults.
func FromBytes(cfgBytes []byte) (Config, error) {
	cfg := Default()
	if len(cfgBytes) == 0 {
		return cfg, ErrCfgBytesEmpty
	}

	if err := yaml.Unmarshal(cfgBytes, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Load resolves the configuration from the file at path, if any, and the
// environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		cfgBytes, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = FromBytes(cfgBytes); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// ApplyEnv overrides values with the MBEAN_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MBEAN_GRPC_ADDRESS":             &c.Server.GRPCAddress,
		"MBEAN_HTTP_ADDRESS":             &c.Server.HTTPAddress,
		"MBEAN_TLS_KEY_FILE":             &c.TLS.KeyFile,
		"MBEAN_TLS_CERT_FILE":            &c.TLS.CertFile,
		"MBEAN_TLS_CLIENT_CA_CERTS_FILE": &c.TLS.ClientCACertsFile,
		"MBEAN_COLLECTOR_ENDPOINT":       &c.Telemetry.CollectorEndpoint,
		"MBEAN_COLLECTOR_CA_CERTS":       &c.Telemetry.CollectorCACerts,
		"MBEAN_SERVICE_NAME":             &c.Telemetry.ServiceName,
		"MBEAN_LOGGING_LEVEL":            &c.Logging.Level,
		"MBEAN_LOGGING_FORMAT":           &c.Logging.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("MBEAN_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: MBEAN_SHUTDOWN_TIMEOUT: %w", ErrInvalidConfig, err)
		}
		c.Server.ShutdownTimeout = d
	}

	return nil
}

// Validate checks the configuration for values a server cannot start with.
func (c Config) Validate() error {
	if c.Server.GRPCAddress == "" && c.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: no listener address", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	if (c.TLS.KeyFile == "") != (c.TLS.CertFile == "") {
		return fmt.Errorf("%w: tls key and certificate must be set together", ErrInvalidConfig)
	}
	if c.TLS.ClientCACertsFile != "" && !c.TLS.Enabled() {
		return fmt.Errorf("%w: client CA certificates require tls", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging level: %w", ErrInvalidConfig, err)
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "text" {
		return fmt.Errorf("%w: logging format %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}
