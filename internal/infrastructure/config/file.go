// Package config holds the audit profile: browser, conformance, report and
// server settings read from an optional YAML file and overridden by env.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Audit   AuditConfig   `yaml:"audit"`
	Report  ReportConfig  `yaml:"report"`
	Server  ServerConfig  `yaml:"server"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

type BrowserConfig struct {
	Headless          bool          `yaml:"headless"`
	NoSandbox         bool          `yaml:"no_sandbox"`
	Stealth           bool          `yaml:"stealth"`
	Remote            string        `yaml:"remote"`
	Timeout           time.Duration `yaml:"timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
}

type AuditConfig struct {
	Axe           bool     `yaml:"axe"`
	AxeScriptPath string   `yaml:"axe_script_path"`
	AxeScriptURL  string   `yaml:"axe_script_url"`
	AxeTags       []string `yaml:"axe_tags"`
	Screenshot    bool     `yaml:"screenshot"`
	Suggest       bool     `yaml:"suggest"`
}

type ReportConfig struct {
	Format string `yaml:"format"` // html | pdf | md | json | yaml
	OutDir string `yaml:"out_dir"`
}

type ServerConfig struct {
	Listen       string        `yaml:"listen"`
	AuditTimeout time.Duration `yaml:"audit_timeout"`
}

type AdvisorConfig struct {
	APIKey      string  `yaml:"-"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

func Default() *Config {
	cfg := &Config{
		Browser: BrowserConfig{Headless: true},
		Audit:   AuditConfig{Axe: true},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML profile. Keys left out of the file keep their
// defaults, including booleans that default to true.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Load uses the file named by A11Y_CONFIG when set, then applies env.
func Load(src output.ConfigPort) (*Config, error) {
	cfg := Default()
	if path := src.Get("A11Y_CONFIG"); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(src)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values with the A11Y_* variables that are present.
func (c *Config) ApplyEnv(src output.ConfigPort) {
	c.Browser.Headless = src.GetBool("A11Y_HEADLESS", c.Browser.Headless)
	c.Browser.NoSandbox = src.GetBool("A11Y_NO_SANDBOX", c.Browser.NoSandbox)
	c.Browser.Stealth = src.GetBool("A11Y_STEALTH", c.Browser.Stealth)
	c.Browser.Remote = src.GetDefault("A11Y_BROWSER_REMOTE", c.Browser.Remote)
	c.Browser.Timeout = src.GetDuration("A11Y_TIMEOUT", c.Browser.Timeout)
	c.Browser.NavigationTimeout = src.GetDuration("A11Y_NAVIGATION_TIMEOUT", c.Browser.NavigationTimeout)

	c.Audit.Axe = src.GetBool("A11Y_AXE", c.Audit.Axe)
	c.Audit.AxeScriptPath = src.GetDefault("A11Y_AXE_SCRIPT", c.Audit.AxeScriptPath)
	c.Audit.Screenshot = src.GetBool("A11Y_SCREENSHOT", c.Audit.Screenshot)
	c.Audit.Suggest = src.GetBool("A11Y_SUGGEST", c.Audit.Suggest)

	c.Report.Format = src.GetDefault("A11Y_FORMAT", c.Report.Format)
	c.Report.OutDir = src.GetDefault("A11Y_OUT_DIR", c.Report.OutDir)

	c.Server.Listen = src.GetDefault("A11Y_LISTEN", c.Server.Listen)
	c.Server.AuditTimeout = src.GetDuration("A11Y_AUDIT_TIMEOUT", c.Server.AuditTimeout)

	c.Advisor.APIKey = src.GetDefault("OPENROUTER_API_KEY", c.Advisor.APIKey)
	c.Advisor.Model = src.GetDefault("OPENROUTER_MODEL_NAME", c.Advisor.Model)
	c.Advisor.Temperature = src.GetFloat("OPENROUTER_TEMPERATURE", c.Advisor.Temperature)

	c.applyDefaults()
}

func (c *Config) applyDefaults() {
	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = 10 * time.Second
	}
	if c.Browser.NavigationTimeout <= 0 {
		c.Browser.NavigationTimeout = 60 * time.Second
	}
	if c.Report.Format == "" {
		c.Report.Format = entity.ReportFormatPDF.String()
	}
	if c.Report.OutDir == "" {
		c.Report.OutDir = "."
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.AuditTimeout <= 0 {
		c.Server.AuditTimeout = 2 * time.Minute
	}
	if c.Advisor.BaseURL == "" {
		c.Advisor.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "openai/gpt-4o-mini"
	}
	if c.Advisor.Temperature <= 0 {
		c.Advisor.Temperature = 0.2
	}
}

func (c *Config) Validate() error {
	if _, err := entity.ParseReportFormat(c.Report.Format); err != nil {
		return fmt.Errorf("%w: report.format: %v", ErrInvalidConfig, err)
	}
	if c.Audit.Suggest && c.Advisor.APIKey == "" {
		return fmt.Errorf("%w: suggestions need OPENROUTER_API_KEY", ErrInvalidConfig)
	}
	return nil
}

// AdvisorEnabled reports whether remediation suggestions can be requested.
func (c *Config) AdvisorEnabled() bool {
	return c.Advisor.APIKey != ""
}
