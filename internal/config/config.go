// Package config provides configuration loading and validation for the CLI
// and the preview server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jonathan/resume-builder/internal/markdown"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/templates"
)

// Config is read from a YAML or JSON file. Every field can be overridden
// by its RESUME_* environment variable.
type Config struct {
	Storage Storage `yaml:"storage" json:"storage"`
	Server  Server  `yaml:"server" json:"server"`
	Style   Style   `yaml:"style" json:"style"`

	// Template is the template selected when a stored resume names none.
	Template string `yaml:"template" json:"template" env:"RESUME_TEMPLATE"`
	// LaTeXTemplate overrides the embedded LaTeX template.
	LaTeXTemplate string `yaml:"latex_template" json:"latex_template" env:"RESUME_LATEX_TEMPLATE"`
	// PDFTimeoutSeconds bounds a headless Chrome print.
	PDFTimeoutSeconds int  `yaml:"pdf_timeout_seconds" json:"pdf_timeout_seconds" env:"RESUME_PDF_TIMEOUT_SECONDS" env-default:"30"`
	Verbose           bool `yaml:"verbose" json:"verbose" env:"RESUME_VERBOSE"`
}

// Storage selects the persistence backend.
type Storage struct {
	Driver string `yaml:"driver" json:"driver" env:"RESUME_STORE_DRIVER" env-default:"file"`
	DSN    string `yaml:"dsn" json:"dsn" env:"RESUME_STORE_DSN" env-default:".resume-builder"`
}

// Server configures the preview server.
type Server struct {
	Addr           string   `yaml:"addr" json:"addr" env:"RESUME_ADDR" env-default:"127.0.0.1:8080"`
	RateLimit      float64  `yaml:"rate_limit" json:"rate_limit" env:"RESUME_RATE_LIMIT" env-default:"10"`
	RateBurst      int      `yaml:"rate_burst" json:"rate_burst" env:"RESUME_RATE_BURST" env-default:"20"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" env:"RESUME_ALLOWED_ORIGINS" env-separator:","`
}

// Style holds the Markdown preview and export styling defaults.
type Style struct {
	ThemeColor string `yaml:"theme_color" json:"theme_color" env:"RESUME_THEME_COLOR"`
	FontFamily string `yaml:"font_family" json:"font_family" env:"RESUME_FONT_FAMILY"`
	FontSize   int    `yaml:"font_size" json:"font_size" env:"RESUME_FONT_SIZE"`
	PaperSize  string `yaml:"paper_size" json:"paper_size" env:"RESUME_PAPER_SIZE"`
	CustomCSS  string `yaml:"custom_css" json:"custom_css" env:"RESUME_CUSTOM_CSS"`
}

// LoadConfig loads configuration from a YAML or JSON file and the
// environment. An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
		return &cfg, nil
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or variables are set.
func Default() Config {
	return Config{
		Storage:           Storage{Driver: storage.DriverFile, DSN: ".resume-builder"},
		Server:            Server{Addr: "127.0.0.1:8080", RateLimit: 10, RateBurst: 20},
		PDFTimeoutSeconds: 30,
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Storage.Driver != "" && !slices.Contains(storage.Drivers, c.Storage.Driver) {
		return fmt.Errorf("config error: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == storage.DriverPostgres && c.Storage.DSN == "" {
		return fmt.Errorf("config error: postgres storage needs a dsn")
	}
	if c.Template != "" {
		if _, ok := templates.Parse(c.Template); !ok {
			return fmt.Errorf("config error: unknown template %q", c.Template)
		}
	}
	if c.LaTeXTemplate != "" {
		if _, err := os.Stat(c.LaTeXTemplate); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.LaTeXTemplate)
		}
	}
	if c.PDFTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'pdf_timeout_seconds' must be non-negative")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("config error: rate limit values must be non-negative")
	}
	if err := c.MarkdownStyle().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Bools are never merged since unset and false look the same.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Storage.Driver == "" {
		result.Storage.Driver = defaults.Storage.Driver
	}
	if result.Storage.DSN == "" {
		result.Storage.DSN = defaults.Storage.DSN
	}
	if result.Server.Addr == "" {
		result.Server.Addr = defaults.Server.Addr
	}
	if result.Server.RateLimit == 0 {
		result.Server.RateLimit = defaults.Server.RateLimit
	}
	if result.Server.RateBurst == 0 {
		result.Server.RateBurst = defaults.Server.RateBurst
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.LaTeXTemplate == "" {
		result.LaTeXTemplate = defaults.LaTeXTemplate
	}
	if result.PDFTimeoutSeconds == 0 {
		result.PDFTimeoutSeconds = defaults.PDFTimeoutSeconds
	}
	if result.Style.ThemeColor == "" {
		result.Style.ThemeColor = defaults.Style.ThemeColor
	}
	if result.Style.FontFamily == "" {
		result.Style.FontFamily = defaults.Style.FontFamily
	}
	if result.Style.FontSize == 0 {
		result.Style.FontSize = defaults.Style.FontSize
	}
	if result.Style.PaperSize == "" {
		result.Style.PaperSize = defaults.Style.PaperSize
	}
	if result.Style.CustomCSS == "" {
		result.Style.CustomCSS = defaults.Style.CustomCSS
	}

	return result
}

// StorageOptions converts the storage section for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{Driver: c.Storage.Driver, DSN: c.Storage.DSN}
}

// DefaultTemplate is the configured fallback template.
func (c *Config) DefaultTemplate() templates.Kind {
	if k, ok := templates.Parse(c.Template); ok {
		return k
	}
	return templates.Default
}

// PDFTimeout is PDFTimeoutSeconds as a duration.
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDFTimeoutSeconds) * time.Second
}

// MarkdownStyle converts the style section, filling unset options from
// markdown.DefaultStyle.
func (c *Config) MarkdownStyle() markdown.Style {
	s := markdown.Style{
		ThemeColor: c.Style.ThemeColor,
		FontFamily: c.Style.FontFamily,
		FontSize:   c.Style.FontSize,
		PaperSize:  markdown.PaperSize(c.Style.PaperSize),
		CustomCSS:  c.Style.CustomCSS,
	}.WithDefaults()
	if c.Style.PaperSize != "" {
		if p, err := markdown.ParsePaperSize(c.Style.PaperSize); err == nil {
			s.PaperSize = p
		}
	}
	if s.CustomCSS == "" {
		s.CustomCSS = markdown.DefaultCSS
	}
	return s
}
