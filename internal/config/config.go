package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/schema"
)

// Config represents the top-level bank2ynab.yaml configuration.
type Config struct {
	Settings Settings     `yaml:"settings"`
	Defaults FormatSpec   `yaml:"defaults"`
	Formats  []FormatSpec `yaml:"formats"`
}

// Settings controls the tool itself rather than any one bank format.
type Settings struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	RunLog    string `yaml:"run_log,omitempty"`    // CSV of per-file outcomes
	APIOutput string `yaml:"api_output,omitempty"` // JSON payload of import records
}

// FormatSpec describes one bank export format as written in the config file.
// Zero fields are filled from the defaults section.
type FormatSpec struct {
	Name             string          `yaml:"name,omitempty"`
	SourcePath       string          `yaml:"source_path,omitempty"`
	FilenamePattern  string          `yaml:"filename_pattern,omitempty"`
	UseRegex         *bool           `yaml:"use_regex,omitempty"`
	Extension        string          `yaml:"extension,omitempty"`
	Encoding         string          `yaml:"encoding,omitempty"`
	Delimiter        string          `yaml:"delimiter,omitempty"`
	HeaderRows       *int            `yaml:"header_rows,omitempty"`
	FooterRows       *int            `yaml:"footer_rows,omitempty"`
	InputColumns     []string        `yaml:"input_columns,omitempty,flow"`
	OutputColumns    []string        `yaml:"output_columns,omitempty,flow"`
	APIColumns       []string        `yaml:"api_columns,omitempty,flow"`
	DateFormat       string          `yaml:"date_format,omitempty"`
	DateDedupe       *bool           `yaml:"date_dedupe,omitempty"`
	CDFlag           []string        `yaml:"cd_flag,omitempty,flow"` // column, outflow marker, inflow marker
	PayeeToMemo      *bool           `yaml:"payee_to_memo,omitempty"`
	CurrencyDivisor  decimal.Decimal `yaml:"currency_divisor,omitempty"`
	OutputPrefix     string          `yaml:"output_prefix,omitempty"`
	OutputExtension  string          `yaml:"output_extension,omitempty"`
	DeleteSource     *bool           `yaml:"delete_source,omitempty"`
	Preprocessor     string          `yaml:"preprocessor,omitempty"`
	PreprocessorArgs []string        `yaml:"preprocessor_args,omitempty"`
	AccountID        string          `yaml:"account_id,omitempty"`
}

// Load reads a bank2ynab.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks that every format has a unique name.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Formats))
	for i, f := range c.Formats {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if key == "" {
			return fmt.Errorf("format %d has no name", i+1)
		}
		if seen[key] {
			return fmt.Errorf("duplicate format name %q", f.Name)
		}
		seen[key] = true
	}
	return nil
}

// Default returns a Config with sensible defaults and no formats.
func Default() *Config {
	return &Config{
		Settings: Settings{
			LogLevel:  "info",
			LogFormat: "console",
			RunLog:    "bank2ynab-log.csv",
		},
		Defaults: FormatSpec{
			Extension:       ".csv",
			Delimiter:       ",",
			HeaderRows:      intPtr(1),
			FooterRows:      intPtr(0),
			OutputColumns:   append([]string(nil), model.CanonicalColumns...),
			APIColumns:      append([]string(nil), schema.DefaultAPIColumns...),
			OutputPrefix:    "fixed_",
			OutputExtension: ".csv",
			UseRegex:        boolPtr(false),
			DateDedupe:      boolPtr(false),
			PayeeToMemo:     boolPtr(false),
			DeleteSource:    boolPtr(false),
		},
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
