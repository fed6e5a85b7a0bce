package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config describes where the clock server lives and how clockctl talks to it.
type Config struct {
	Host              string
	Port              int
	APIPath           string
	StreamPath        string
	PollInterval      time.Duration
	ReconnectInterval time.Duration
	LogFile           string
	LogLevel          string
}

const (
	defaultConfigPath       = "~/.config/clockctl/config.toml"
	defaultHost             = "127.0.0.1"
	defaultPort             = 4040
	defaultAPIPath          = "/api"
	defaultStreamPath       = "/"
	defaultPollSeconds      = 5
	defaultReconnectSeconds = 2
	defaultLogFile          = "~/.local/state/clockctl/clockctl.log"
	defaultLogLevel         = "info"
)

// fileConfig mirrors config.toml. Zero values mean "use the default".
type fileConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	APIPath             string `toml:"api_path"`
	StreamPath          string `toml:"stream_path"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	ReconnectSeconds    int    `toml:"reconnect_seconds"`
	LogFile             string `toml:"log_file"`
	LogLevel            string `toml:"log_level"`
}

// envConfig holds environment overrides applied on top of the file.
type envConfig struct {
	Host     string `envconfig:"CLOCKCTL_HOST"`
	Port     int    `envconfig:"CLOCKCTL_PORT"`
	LogLevel string `envconfig:"CLOCKCTL_LOG_LEVEL"`
	LogFile  string `envconfig:"CLOCKCTL_LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:              defaultHost,
		Port:              defaultPort,
		APIPath:           defaultAPIPath,
		StreamPath:        defaultStreamPath,
		PollInterval:      defaultPollSeconds * time.Second,
		ReconnectInterval: defaultReconnectSeconds * time.Second,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          defaultLogLevel,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing, then applies CLOCKCTL_* environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	cfg.applyFile(raw)

	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func (c *Config) applyFile(raw fileConfig) {
	if host := strings.TrimSpace(raw.Host); host != "" {
		c.Host = host
	}
	if raw.Port != 0 {
		c.Port = raw.Port
	}
	if p := strings.TrimSpace(raw.APIPath); p != "" {
		c.APIPath = p
	}
	if p := strings.TrimSpace(raw.StreamPath); p != "" {
		c.StreamPath = p
	}
	if raw.PollIntervalSeconds > 0 {
		c.PollInterval = time.Duration(raw.PollIntervalSeconds) * time.Second
	}
	if raw.ReconnectSeconds > 0 {
		c.ReconnectInterval = time.Duration(raw.ReconnectSeconds) * time.Second
	}
	if f := strings.TrimSpace(raw.LogFile); f != "" {
		c.LogFile = mustExpand(f)
	}
	if lvl := strings.TrimSpace(raw.LogLevel); lvl != "" {
		c.LogLevel = strings.ToLower(lvl)
	}
}

func (c *Config) applyEnv(env envConfig) {
	if host := strings.TrimSpace(env.Host); host != "" {
		c.Host = host
	}
	if env.Port != 0 {
		c.Port = env.Port
	}
	if lvl := strings.TrimSpace(env.LogLevel); lvl != "" {
		c.LogLevel = strings.ToLower(lvl)
	}
	if f := strings.TrimSpace(env.LogFile); f != "" {
		c.LogFile = mustExpand(f)
	}
}

// Validate reports settings that cannot produce a usable endpoint.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("host is empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// APIBaseURL returns the HTTP base for status and command requests, for
// example http://127.0.0.1:4040/api.
func (c Config) APIBaseURL() string {
	u := url.URL{Scheme: "http", Host: c.Address(), Path: cleanPath(c.APIPath)}
	return u.String()
}

// StreamURL returns the WebSocket endpoint, for example ws://127.0.0.1:4040/.
func (c Config) StreamURL() string {
	u := url.URL{Scheme: "ws", Host: c.Address(), Path: cleanPath(c.StreamPath)}
	return u.String()
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
