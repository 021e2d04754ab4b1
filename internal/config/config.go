package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/stmt2csv/internal/model"
)

// Config is a statement layout: where each column renders and which
// text marks the start of a transaction.
type Config struct {
	Name                string                         `yaml:"name"`
	DateLength          int                            `yaml:"date_length"`
	ZeroMarker          string                         `yaml:"zero_marker"`
	Columns             map[model.Column][]OffsetRange `yaml:"columns"`
	Boilerplate         []string                       `yaml:"boilerplate"`
	HeaderPatterns      []string                       `yaml:"header_patterns"`
	RepeatMarkers       []string                       `yaml:"repeat_markers,omitempty"`
	ChequeDepositMarker string                         `yaml:"cheque_deposit_marker"`
}

// OffsetRange is an inclusive range of horizontal pixel offsets.
type OffsetRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether x lies inside the range.
func (r OffsetRange) Contains(x int) bool {
	return x >= r.Min && x <= r.Max
}

// UnmarshalYAML accepts either a bare offset (136) or a {min, max} mapping.
func (r *OffsetRange) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var x int
		if err := value.Decode(&x); err != nil {
			return fmt.Errorf("parsing offset %q: %w", value.Value, err)
		}
		r.Min, r.Max = x, x
		return nil
	}
	type plain OffsetRange
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = OffsetRange(p)
	return nil
}

// MarshalYAML writes single-offset ranges as a bare integer.
func (r OffsetRange) MarshalYAML() (any, error) {
	if r.Min == r.Max {
		return r.Min, nil
	}
	type plain OffsetRange
	return plain(r), nil
}

// Load reads a layout YAML file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}
	return nil
}

// Validate checks that every column has offsets and every pattern compiles.
func (c *Config) Validate() error {
	if c.DateLength <= 0 {
		return fmt.Errorf("date_length must be positive, got %d", c.DateLength)
	}
	for _, col := range model.Columns {
		ranges, ok := c.Columns[col]
		if !ok || len(ranges) == 0 {
			return fmt.Errorf("column %s has no offsets", col)
		}
		for _, r := range ranges {
			if r.Min > r.Max {
				return fmt.Errorf("column %s: offset range %d-%d is inverted", col, r.Min, r.Max)
			}
		}
	}
	for col := range c.Columns {
		if !isKnownColumn(col) {
			return fmt.Errorf("unknown column %q", col)
		}
	}
	if len(c.HeaderPatterns) == 0 {
		return fmt.Errorf("at least one header pattern is required")
	}
	if _, err := c.HeaderRegexp(); err != nil {
		return err
	}
	return nil
}

// HeaderRegexp combines the header patterns into one expression anchored
// at the start of the line.
func (c *Config) HeaderRegexp() (*regexp.Regexp, error) {
	for _, p := range c.HeaderPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("compiling header pattern %q: %w", p, err)
		}
	}
	re, err := regexp.Compile("^(?:" + strings.Join(c.HeaderPatterns, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("compiling header patterns: %w", err)
	}
	return re, nil
}

func isKnownColumn(col model.Column) bool {
	for _, c := range model.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Default returns the layout observed for OCBC statements rendered by
// pdfminer's HTML converter.
func Default() *Config {
	return &Config{
		Name:       "ocbc",
		DateLength: 6,
		ZeroMarker: "0.00",
		Columns: map[model.Column][]OffsetRange{
			model.ColumnTransactionDate: {{Min: 43, Max: 46}},
			model.ColumnValueDate:       {{Min: 91, Max: 96}},
			model.ColumnDescription:     {{Min: 136, Max: 136}},
			model.ColumnCheque:          {{Min: 270, Max: 290}},
			model.ColumnWithdrawal:      {{Min: 321, Max: 328}},
			model.ColumnDeposit:         {{Min: 406, Max: 412}},
			model.ColumnBalance:         {{Min: 502, Max: 502}},
		},
		Boilerplate: []string{
			"BALANCE B/F",
			"BALANCE C/F",
			"Description",
			"Total Withdrawals/Deposits",
			"Total Interest Paid This Year",
			"Average Balance",
		},
		HeaderPatterns: []string{
			".*GIRO",
			".*TRANSFER",
			"PAYMENT",
			"COMM",
			"FAST",
			".*CHARGE",
			".*PURCHAS",
			".*FEE",
			".*REBATE",
			".*BILL",
			"CHEQUE DEPOSIT",
			"DEBIT",
			"CREDIT",
		},
		RepeatMarkers:       []string{"CASH REBATE"},
		ChequeDepositMarker: "CHEQUE DEPOSIT",
	}
}
