// Package config loads the command-line configuration from a JSON, YAML or
// TOML file, applies LFB_* environment overrides and validates the result.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/wdm0006/lfbclean/pkg/io/pgio"
	"github.com/wdm0006/lfbclean/pkg/lfb"
)

// Input types.
const (
	InputCSV      = "csv"
	InputXLSX     = "xlsx"
	InputParquet  = "parquet"
	InputPostgres = "postgres"
)

type Input struct {
	Type      string `json:"type" yaml:"type" toml:"type" validate:"oneof=csv xlsx parquet postgres"`
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required_unless=Type postgres"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"max=1"`
	Sheet     string `json:"sheet" yaml:"sheet" toml:"sheet"`
	// Query and Args are passed to the warehouse unchanged.
	Query  string      `json:"query" yaml:"query" toml:"query" validate:"required_if=Type postgres"`
	Args   []any       `json:"args" yaml:"args" toml:"args"`
	Source pgio.Source `json:"source" yaml:"source" toml:"source"`
}

type Output struct {
	Type      string `json:"type" yaml:"type" toml:"type" validate:"oneof=csv jsonl parquet"`
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"max=1"`
}

type Log struct {
	Level  string `json:"level" yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" toml:"format" validate:"oneof=text json"`
}

type Config struct {
	Input  Input      `json:"input" yaml:"input" toml:"input"`
	Output Output     `json:"output" yaml:"output" toml:"output"`
	Clean  lfb.Config `json:"clean" yaml:"clean" toml:"clean"`
	Log    Log        `json:"log" yaml:"log" toml:"log"`
}

// env holds the overrides read from the environment; unset variables leave
// the file values alone.
type env struct {
	DSN       string `envconfig:"DSN"`
	Location  string `envconfig:"LOCATION"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() Config {
	return Config{
		Input:  Input{Type: InputCSV},
		Output: Output{Type: "csv"},
		Clean:  lfb.DefaultConfig(),
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads path, choosing the decoder by extension (.json, .yaml/.yml,
// .toml). When the file selects the extended variant, cleaning toggles it
// leaves out default to the extended set.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(b, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes b in the format named by ext, then applies the environment
// and validates.
func Parse(b []byte, ext string) (*Config, error) {
	cfg := Default()
	if err := decode(b, ext, &cfg); err != nil {
		return nil, err
	}
	if cfg.Clean.Variant == lfb.Extended {
		cfg = Default()
		cfg.Clean = lfb.ExtendedConfig()
		if err := decode(b, ext, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(b []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		return dec.Decode(cfg)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func applyEnv(cfg *Config) error {
	var e env
	if err := envconfig.Process("LFB", &e); err != nil {
		return err
	}
	if e.DSN != "" {
		cfg.Input.Source.DSN = e.DSN
	}
	if e.Location != "" {
		cfg.Input.Source.Location = e.Location
	}
	if e.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(e.LogLevel)
	}
	if e.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(e.LogFormat)
	}
	return nil
}

var validate = validator.New()

// Validate checks the field constraints and the cleaning toggles.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Input.Type == InputPostgres && c.Input.Source.DSN == "" {
		return fmt.Errorf("input: postgres needs a DSN (source.dsn or LFB_DSN)")
	}
	return c.Clean.Validate()
}

// Delim returns the first rune of s, or 0 when s is empty.
func Delim(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
