// Package config loads macpilot settings from the environment, dotenv files
// and an optional TOML file.
//
// Precedence, highest first: process environment, .env.local, .env,
// config.toml, built-in defaults. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Transport selects how the MCP server talks to its client.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "streamable-http"
)

const (
	DefaultPort          = 8080
	DefaultLogLevel      = "info"
	DefaultCaptureScale  = 0.5
	DefaultCaptureFormat = "png"
)

// DefaultAppSearchPaths are scanned for *.app bundles. A leading ~ is
// expanded to the user's home directory.
var DefaultAppSearchPaths = []string{"/Applications", "/System/Applications", "~/Applications"}

// Environment variable names.
const (
	EnvTransport     = "MACPILOT_TRANSPORT"
	EnvPort          = "MACPILOT_PORT"
	EnvLogLevel      = "MACPILOT_LOG_LEVEL"
	EnvCycleGuard    = "MACPILOT_CYCLE_GUARD"
	EnvShellEnabled  = "MACPILOT_SHELL_ENABLED"
	EnvAppPaths      = "MACPILOT_APP_PATHS"
	EnvCaptureScale  = "MACPILOT_CAPTURE_SCALE"
	EnvCaptureFormat = "MACPILOT_CAPTURE_FORMAT"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Walker  WalkerConfig  `toml:"walker"`
	Shell   ShellConfig   `toml:"shell"`
	Apps    AppsConfig    `toml:"apps"`
	Capture CaptureConfig `toml:"capture"`
}

type ServerConfig struct {
	Transport Transport `toml:"transport"`
	Port      int       `toml:"port"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type WalkerConfig struct {
	CycleGuard bool `toml:"cycle_guard"`
}

type ShellConfig struct {
	Enabled bool `toml:"enabled"`
}

type AppsConfig struct {
	SearchPaths []string `toml:"search_paths"`
}

type CaptureConfig struct {
	Scale  float64 `toml:"scale"`
	Format string  `toml:"format"`
}

func Default() Config {
	return Config{
		Server:  ServerConfig{Transport: TransportStdio, Port: DefaultPort},
		Log:     LogConfig{Level: DefaultLogLevel},
		Walker:  WalkerConfig{CycleGuard: true},
		Shell:   ShellConfig{Enabled: true},
		Apps:    AppsConfig{SearchPaths: append([]string(nil), DefaultAppSearchPaths...)},
		Capture: CaptureConfig{Scale: DefaultCaptureScale, Format: DefaultCaptureFormat},
	}
}

// Path returns the default config file location, ~/.config/macpilot/config.toml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "macpilot", "config.toml"), nil
}

// Load reads the configuration. An empty path means the default location,
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	return Loader{
		File:         path,
		FileRequired: explicit,
		DotEnvDir:    ".",
		LookupEnv:    os.LookupEnv,
	}.Load()
}

// Loader is the configurable form of Load.
type Loader struct {
	File         string
	FileRequired bool
	DotEnvDir    string
	LookupEnv    func(string) (string, bool)
}

func (l Loader) Load() (Config, error) {
	cfg := Default()
	if err := l.mergeFile(&cfg); err != nil {
		return Config{}, err
	}
	env, err := l.environment()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l Loader) mergeFile(cfg *Config) error {
	if l.File == "" {
		return nil
	}
	if _, err := os.Stat(l.File); err != nil {
		if errors.Is(err, os.ErrNotExist) && !l.FileRequired {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(l.File, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", l.File, err)
	}
	return nil
}

// environment layers the process environment over .env.local over .env.
func (l Loader) environment() (func(string) (string, bool), error) {
	var layers []map[string]string
	if l.DotEnvDir != "" {
		for _, name := range []string{".env.local", ".env"} {
			values, err := godotenv.Read(filepath.Join(l.DotEnvDir, name))
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			layers = append(layers, values)
		}
	}
	lookup := l.LookupEnv
	return func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		for _, layer := range layers {
			if v, ok := layer[key]; ok {
				return v, true
			}
		}
		return "", false
	}, nil
}

func mergeEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvTransport); ok {
		cfg.Server.Transport = Transport(v)
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q (expected integer)", EnvPort, v)
		}
		cfg.Server.Port = port
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := get(EnvCycleGuard); ok {
		b, err := parseBool(EnvCycleGuard, v)
		if err != nil {
			return err
		}
		cfg.Walker.CycleGuard = b
	}
	if v, ok := get(EnvShellEnabled); ok {
		b, err := parseBool(EnvShellEnabled, v)
		if err != nil {
			return err
		}
		cfg.Shell.Enabled = b
	}
	if v, ok := get(EnvAppPaths); ok {
		var paths []string
		for _, p := range filepath.SplitList(v) {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.Apps.SearchPaths = paths
	}
	if v, ok := get(EnvCaptureScale); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q (expected number)", EnvCaptureScale, v)
		}
		cfg.Capture.Scale = f
	}
	if v, ok := get(EnvCaptureFormat); ok {
		cfg.Capture.Format = strings.ToLower(v)
	}
	return nil
}

func parseBool(key, v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q (expected true or false)", key, v)
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport: %q (must be %q or %q)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (expected debug, info, warn, or error)", c.Log.Level)
	}
	if c.Capture.Scale <= 0 || c.Capture.Scale > 1 {
		return fmt.Errorf("invalid capture scale: %g (must be in (0, 1])", c.Capture.Scale)
	}
	switch c.Capture.Format {
	case "png", "jpg":
	default:
		return fmt.Errorf("invalid capture format: %q (expected png or jpg)", c.Capture.Format)
	}
	return nil
}

// AppSearchPaths returns the search paths with ~ expanded.
func (c Config) AppSearchPaths() []string {
	home, _ := os.UserHomeDir()
	out := make([]string, 0, len(c.Apps.SearchPaths))
	for _, p := range c.Apps.SearchPaths {
		if home != "" && (p == "~" || strings.HasPrefix(p, "~/")) {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
		out = append(out, p)
	}
	return out
}
