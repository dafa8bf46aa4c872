// ABOUTME: Configuration loader for the storefront client
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the storefront backend used when nothing else is configured
const DefaultAPIURL = "http://localhost:5000"

type Config struct {
	// Backend
	APIURL         string
	RequestTimeout time.Duration // per-request deadline (default 30s)

	// Local state
	ConfigDir string // where state.json and debug.log live
	Ephemeral bool   // keep session state in memory only

	// Admin session
	AdminIdleTimeout time.Duration // inactivity logout for admins (default 5m)

	// Terminal
	NerdFonts bool
}

// Load reads configuration from the environment.
// A .env file in the working directory is applied first; variables already
// set in the process environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Ignoring unreadable .env file", "error", err)
	}

	cfg := &Config{
		APIURL:           ensureScheme(getEnv("STOREFRONT_API_URL", DefaultAPIURL)),
		RequestTimeout:   time.Duration(getEnvInt("STOREFRONT_REQUEST_TIMEOUT", 30)) * time.Second,
		ConfigDir:        getEnv("STOREFRONT_CONFIG_DIR", DefaultConfigDir()),
		Ephemeral:        getEnvBool("STOREFRONT_EPHEMERAL", false),
		AdminIdleTimeout: time.Duration(getEnvInt("STOREFRONT_ADMIN_IDLE_TIMEOUT", 300)) * time.Second,
		NerdFonts:        getEnvBool("STOREFRONT_NERD_FONTS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetAPIURL overrides the backend URL, normalized the same way as the env var
func (c *Config) SetAPIURL(raw string) {
	c.APIURL = ensureScheme(raw)
}

// Validate checks value ranges after flags have been applied
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("STOREFRONT_API_URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.AdminIdleTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_ADMIN_IDLE_TIMEOUT must be positive, got %s", c.AdminIdleTimeout)
	}
	if c.ConfigDir == "" && !c.Ephemeral {
		return fmt.Errorf("no config directory available; set STOREFRONT_CONFIG_DIR or STOREFRONT_EPHEMERAL=true")
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "storefront")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "storefront")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	url = strings.TrimRight(url, "/")
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
