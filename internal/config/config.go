// Load envs from .env
// Load YAML config
// Apply env overrides
// Provide default values

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "configs/config.yaml"

const (
	TransportBrowser = "browser"
	TransportHTTP    = "http"
)

type Config struct {
	TelegramToken string `yaml:"telegram_token" env:"BOT_TOKEN"`
	//Identity
	Proxy       string `yaml:"proxy" env:"SCRAPER_PROXY"`
	ProxiesFile string `yaml:"proxies_file" env:"SCRAPER_PROXIES_FILE"`
	UserAgent   string `yaml:"user_agent" env:"SCRAPER_UA"`
	//Transport
	Transport      string  `yaml:"transport" env:"SCRAPER_TRANSPORT"`
	Headless       *bool   `yaml:"headless" env:"SCRAPER_HEADLESS"`
	ScreenshotDir  string  `yaml:"screenshot_dir" env:"SCRAPER_SCREENSHOT_DIR"`
	RequestsPerSec float64 `yaml:"requests_per_second" env:"SCRAPER_RPS"`
	//Front ends
	SearchLimit     int `yaml:"search_limit" env:"SCRAPER_SEARCH_LIMIT"`
	CacheTTLMinutes int `yaml:"cache_ttl_minutes" env:"SCRAPER_CACHE_TTL_MINUTES"`
	Port            int `yaml:"port" env:"PORT"`
}

// Load reads .env, the YAML file at path (DefaultPath when empty), then
// environment overrides, then fills defaults. A missing YAML file is only
// a warning.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if token := firstEnv("BOT_TOKEN", "TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if proxy := firstEnv("SCRAPER_PROXY", "HTTP_PROXY", "HTTPS_PROXY"); proxy != "" {
		c.Proxy = proxy
	}
	if v := firstEnv("SCRAPER_PROXIES_FILE"); v != "" {
		c.ProxiesFile = v
	}
	if v := firstEnv("SCRAPER_UA"); v != "" {
		c.UserAgent = v
	}
	if v := firstEnv("SCRAPER_TRANSPORT"); v != "" {
		c.Transport = strings.ToLower(v)
	}
	if v := firstEnv("SCRAPER_SCREENSHOT_DIR"); v != "" {
		c.ScreenshotDir = v
	}

	if v := firstEnv("SCRAPER_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_HEADLESS: %w", err)
		}
		c.Headless = &b
	}
	if v := firstEnv("SCRAPER_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_RPS: %w", err)
		}
		c.RequestsPerSec = f
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SCRAPER_SEARCH_LIMIT", &c.SearchLimit},
		{"SCRAPER_CACHE_TTL_MINUTES", &c.CacheTTLMinutes},
		{"PORT", &c.Port},
	}
	for _, it := range ints {
		v := firstEnv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", it.key, err)
		}
		*it.dst = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ProxiesFile == "" {
		c.ProxiesFile = "proxies.txt"
	}
	if c.Transport == "" {
		c.Transport = TransportBrowser
	}
	if c.Headless == nil {
		headless := true
		c.Headless = &headless
	}
	if c.RequestsPerSec == 0 {
		c.RequestsPerSec = 0.5
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 10
	}
	if c.CacheTTLMinutes == 0 {
		c.CacheTTLMinutes = 60
	}
	if c.Port == 0 {
		c.Port = 8080
	}
}

// Validate reports values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Transport != TransportBrowser && c.Transport != TransportHTTP {
		errs = append(errs, fmt.Errorf("transport must be %q or %q, got %q", TransportBrowser, TransportHTTP, c.Transport))
	}
	if c.RequestsPerSec < 0 {
		errs = append(errs, errors.New("requests_per_second must not be negative"))
	}
	if c.SearchLimit < 0 {
		errs = append(errs, errors.New("search_limit must not be negative"))
	}
	if c.CacheTTLMinutes < 0 {
		errs = append(errs, errors.New("cache_ttl_minutes must not be negative"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	return errors.Join(errs...)
}

// RequireTelegram is checked by the bot only; the CLI and the HTTP API run
// without a token.
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	return nil
}

func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
