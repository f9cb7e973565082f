// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     config
// Description: Typed application configuration loaded from TOML or YAML
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
)

// EnvConfigPath names the environment variable pointing at the config file
const EnvConfigPath = "MAF_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	REPL    REPLConfig    `toml:"repl" yaml:"repl"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Server  ServerConfig  `toml:"server" yaml:"server"`

	// path of the file the configuration was read from, empty for defaults
	source string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
}

// LoggingConfig selects level, format and destination of log output
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"` // stderr, stdout or a file path
}

// REPLConfig holds settings of the interactive read loop
type REPLConfig struct {
	Prompt string `toml:"prompt" yaml:"prompt"`
	Mode   string `toml:"mode" yaml:"mode"` // tokens or parse
	User   string `toml:"user" yaml:"user"` // greeting name, defaults to $USER
}

// ParserConfig holds parser behavior switches
type ParserConfig struct {
	SkipValues     bool `toml:"skip_values" yaml:"skip_values"`
	MaxInputLength int  `toml:"max_input_length" yaml:"max_input_length"`
}

// HistoryConfig holds the SQLite history store settings
type HistoryConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	Path     string `toml:"path" yaml:"path"`
	Limit    int    `toml:"limit" yaml:"limit"`
}

// ServerConfig holds settings for `maf serve`
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	GRPCPort         int      `toml:"grpc_port" yaml:"grpc_port"`
	HTTPPort         int      `toml:"http_port" yaml:"http_port"`
	ReadTimeout      Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout     Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout  Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// Load loads configuration from a TOML (.toml) or YAML (.yaml, .yml) file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(content), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &cfg)
	default:
		return nil, mdwerror.New("unsupported config format").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path).
			WithDetail("extension", ext)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.source = path
	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadFromEnv loads the file named by MAF_CONFIG, else the first existing
// default location, else returns the defaults.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./configs/config.yaml",
		"./config.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "maf", "config.toml"))
	}
	return paths
}

// Source returns the file the configuration was loaded from
func (c *Config) Source() string {
	return c.source
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "meinAFFE"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}

	// REPL
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = ">> "
	}
	if c.REPL.Mode == "" {
		c.REPL.Mode = "tokens"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = 64 * 1024
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.Limit == 0 {
		c.History.Limit = 50
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9500
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 9501
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout = Duration{15 * time.Second}
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout = Duration{15 * time.Second}
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout = Duration{10 * time.Second}
	}
}

// expandEnvVars expands environment variables in path-like values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
	c.REPL.User = os.ExpandEnv(c.REPL.User)
	if c.Logging.Output != "stderr" && c.Logging.Output != "stdout" {
		c.Logging.Output = os.ExpandEnv(c.Logging.Output)
	}
}

// GRPCAddress returns host:port of the gRPC listener
func (c *Config) GRPCAddress() string {
	return address(c.Server.Host, c.Server.GRPCPort)
}

// HTTPAddress returns host:port of the HTTP/WebSocket listener
func (c *Config) HTTPAddress() string {
	return address(c.Server.Host, c.Server.HTTPPort)
}

func address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
