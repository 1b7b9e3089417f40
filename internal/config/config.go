// Package config resolves server settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig      = "PALETTE_MCP_CONFIG"
	EnvLogLevel    = "PALETTE_MCP_LOG_LEVEL"
	EnvAuthority   = "PALETTE_MCP_AUTHORITY"
	EnvCSSNames    = "PALETTE_MCP_CSS_NAMES"
	EnvCMYKProfile = "PALETTE_MCP_CMYK_PROFILE"
	EnvLocale      = "PALETTE_MCP_LOCALE"
)

// Config holds the server settings.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Authority Authority `yaml:"authority"`

	// CMYKProfile is the path of an ICC output profile used for CMYK
	// display colors. Empty means the analytic conversion.
	CMYKProfile string `yaml:"cmyk_profile"`

	// Locale is the BCP 47 tag used to collate group names.
	Locale string `yaml:"locale"`
}

// Authority selects the reference tables merged on top of the built-in one.
type Authority struct {
	File     string `yaml:"file"`
	CSSNames bool   `yaml:"css_names"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel: "info",
		Locale:   "en",
	}
}

// Load resolves the configuration. path names a YAML file; when empty the
// file named by PALETTE_MCP_CONFIG is used, if any. getenv is normally
// os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Authority.File, EnvAuthority)
	set(&c.CMYKProfile, EnvCMYKProfile)
	set(&c.Locale, EnvLocale)

	if v := strings.TrimSpace(getenv(EnvCSSNames)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCSSNames, err)
		}
		c.Authority.CSSNames = b
	}
	return nil
}

// Validate checks the log level and locale.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}
	return errors.Join(errs...)
}

// Language returns the collation language, English if Locale does not parse.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
