package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppDir      = "bydit"
	DefaultFile = "config.yaml"

	ModeAPI   = "api"
	ModeOAuth = "oauth"
	ModeMock  = "mock"
)

// Config carries the account credentials and client tuning
type Config struct {
	UserAgent    string `yaml:"user_agent"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`

	// Mode selects the session implementation: api, oauth or mock.
	Mode string `yaml:"mode"`
	// RequestsPerMinute paces remote calls; 0 leaves them unpaced.
	RequestsPerMinute int `yaml:"requests_per_minute"`
	// BaseURL and TokenURL override the Reddit endpoints.
	BaseURL  string `yaml:"base_url,omitempty"`
	TokenURL string `yaml:"token_url,omitempty"`

	// Source is the file the config was read from, empty when env-only.
	Source string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		UserAgent: "bydit/1.0",
		Mode:      ModeAPI,
	}
}

// Env lists the process environment the loader consults.
type Env struct {
	Getenv func(string) string
	Cwd    string
	Home   string
}

// ProcessEnv reads the real environment. A .env file in the working directory
// is loaded first without overriding variables already set.
func ProcessEnv() (Env, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Env{}, err
	}
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return Env{Getenv: os.Getenv, Cwd: cwd, Home: home}, nil
}

// loadDotEnv tolerates a missing file only.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves name against the search path, parses the first file found and
// applies environment overrides. Without any file, the environment alone must
// supply a valid configuration or the error lists every checked path.
func Load(name string) (*Config, error) {
	env, err := ProcessEnv()
	if err != nil {
		return nil, err
	}
	return LoadWithEnv(name, env)
}

func LoadWithEnv(name string, env Env) (*Config, error) {
	if name == "" {
		name = DefaultFile
	}
	cfg := DefaultConfig()

	var checked []string
	for _, path := range CandidatePaths(name, env) {
		b, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			checked = append(checked, path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Source = path
		break
	}

	if err := cfg.applyEnvOverrides(env.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		if cfg.Source == "" {
			return nil, fmt.Errorf("locate config file %q (checked: %s): %w", name, formatPaths(checked), err)
		}
		return nil, fmt.Errorf("config %s: %w", cfg.Source, err)
	}
	return cfg, nil
}

// CandidatePaths returns the search order for name: working directory, the
// XDG config home (or ~/.config), then the XDG data home (or ~/.local/share).
// Absolute names are returned unchanged.
func CandidatePaths(name string, env Env) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	base := env.Cwd
	if base == "" {
		base = "."
	}
	paths := []string{filepath.Join(base, name)}

	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, AppDir, name))
	} else if env.Home != "" {
		paths = append(paths, filepath.Join(env.Home, ".config", AppDir, name))
	}
	if dir := getenv("XDG_DATA_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, AppDir, name))
	} else if env.Home != "" {
		paths = append(paths, filepath.Join(env.Home, ".local", "share", AppDir, name))
	}
	return paths
}

func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	for key, dst := range map[string]*string{
		"REDDIT_USER_AGENT":    &c.UserAgent,
		"REDDIT_CLIENT_ID":     &c.ClientID,
		"REDDIT_CLIENT_SECRET": &c.ClientSecret,
		"REDDIT_USERNAME":      &c.Username,
		"REDDIT_PASSWORD":      &c.Password,
		"COLLECTOR_MODE":       &c.Mode,
	} {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("REDDIT_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDDIT_REQUESTS_PER_MINUTE: %w", err)
		}
		c.RequestsPerMinute = n
	}
	return nil
}

// Validate checks the mode and, for real sessions, that every credential is set.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = ModeAPI
	}
	if c.RequestsPerMinute < 0 {
		return errors.New("requests_per_minute must not be negative")
	}
	switch c.Mode {
	case ModeMock:
		return nil
	case ModeAPI, ModeOAuth:
	default:
		return fmt.Errorf("unknown mode %q (use %s, %s or %s)", c.Mode, ModeAPI, ModeOAuth, ModeMock)
	}

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"user_agent", c.UserAgent},
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
		{"username", c.Username},
		{"password", c.Password},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func formatPaths(paths []string) string {
	if len(paths) == 0 {
		return "none"
	}
	return strings.Join(paths, ", ")
}
