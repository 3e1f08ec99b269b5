// Package config loads the networth configuration from a TOML or YAML file,
// a .env file and NETWORTH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"github.com/plenert-macdonald/networth"
	"github.com/plenert-macdonald/networth/report"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("config: unknown file format")

// Config represents the application configuration.
type Config struct {
	Sources    []Source `toml:"sources" yaml:"sources"`
	PricesFile string   `toml:"prices_file" yaml:"prices_file"`
	ReportFile string   `toml:"report_file" yaml:"report_file"`
	Report     Report   `toml:"report" yaml:"report"`
}

// Source is one input file. Account and Commodity only apply to bank
// statements (.qif, .iif).
type Source struct {
	Path      string `toml:"path" yaml:"path"`
	Account   string `toml:"account" yaml:"account"`
	Commodity string `toml:"commodity" yaml:"commodity"`
}

// Report holds the valuation parameters.
type Report struct {
	Commodity     string  `toml:"commodity" yaml:"commodity"`
	DecimalPoints *int    `toml:"decimal_points" yaml:"decimal_points"`
	AsOf          string  `toml:"as_of" yaml:"as_of"`
	Groups        []Group `toml:"groups" yaml:"groups"`
}

// Group is a named set of account prefixes.
type Group struct {
	Name     string   `toml:"name" yaml:"name"`
	Accounts []string `toml:"accounts" yaml:"accounts"`
	Kind     string   `toml:"kind" yaml:"kind"`
	TaxRate  float64  `toml:"tax_rate" yaml:"tax_rate"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	points := 2
	return &Config{
		ReportFile: "report.html",
		Report: Report{
			Commodity:     "PLN",
			DecimalPoints: &points,
			Groups:        defaultGroups(),
		},
	}
}

func defaultGroups() []Group {
	return []Group{
		{Name: "Liquid Assets", Accounts: []string{"Assets:Liquid"}, Kind: string(networth.Asset)},
		{Name: "Fixed Assets", Accounts: []string{"Assets:Fixed"}, Kind: string(networth.Asset)},
		{Name: "High Risk Assets", Accounts: []string{"Assets:HighRisk"}, Kind: string(networth.Asset), TaxRate: 0.32},
		{Name: "Income", Accounts: []string{"Income"}, Kind: string(networth.Income)},
		{Name: "Expenses", Accounts: []string{"Expenses"}, Kind: string(networth.Expense)},
	}
}

// Load reads the configuration file at path, if any, over the defaults and
// applies the environment. A .env file is loaded first: the given one, or
// the one of the current directory when it exists.
func Load(path string, envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := c.decode(filepath.Ext(path), data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) decode(ext string, data []byte) error {
	file := Config{}
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, ext)
	}
	c.merge(file)
	return nil
}

// merge overrides c with every value set in other.
func (c *Config) merge(other Config) {
	if len(other.Sources) > 0 {
		c.Sources = other.Sources
	}
	c.PricesFile = getOrDefault(other.PricesFile, c.PricesFile)
	c.ReportFile = getOrDefault(other.ReportFile, c.ReportFile)
	c.Report.Commodity = getOrDefault(other.Report.Commodity, c.Report.Commodity)
	c.Report.AsOf = getOrDefault(other.Report.AsOf, c.Report.AsOf)
	if other.Report.DecimalPoints != nil {
		c.Report.DecimalPoints = other.Report.DecimalPoints
	}
	if len(other.Report.Groups) > 0 {
		c.Report.Groups = other.Report.Groups
	}
}

// applyEnv overrides the configuration with the NETWORTH_* variables.
// NETWORTH_LEDGER_FILES replaces the sources with a list of paths.
func (c *Config) applyEnv() {
	if files := os.Getenv("NETWORTH_LEDGER_FILES"); files != "" {
		c.Sources = nil
		for _, path := range filepath.SplitList(files) {
			if path = strings.TrimSpace(path); path != "" {
				c.Sources = append(c.Sources, Source{Path: path})
			}
		}
	}
	c.PricesFile = getEnvOrDefault("NETWORTH_PRICES_FILE", c.PricesFile)
	c.ReportFile = getEnvOrDefault("NETWORTH_REPORT_FILE", c.ReportFile)
	c.Report.Commodity = getEnvOrDefault("NETWORTH_COMMODITY", c.Report.Commodity)
}

// Validate reports every missing or invalid value at once.
func (c *Config) Validate() error {
	var problems []string

	if len(c.Sources) == 0 {
		problems = append(problems, "no ledger file")
	}
	for i, s := range c.Sources {
		if s.Path == "" {
			problems = append(problems, fmt.Sprintf("sources[%d]: missing path", i))
		}
	}
	if c.Report.Commodity == "" {
		problems = append(problems, "report.commodity: missing")
	}
	if c.Report.DecimalPoints == nil {
		problems = append(problems, "report.decimal_points: missing")
	} else if *c.Report.DecimalPoints < 0 {
		problems = append(problems, "report.decimal_points: negative")
	}
	if c.Report.AsOf != "" {
		if _, err := time.Parse(time.DateOnly, c.Report.AsOf); err != nil {
			problems = append(problems, fmt.Sprintf("report.as_of: %q is not a YYYY-MM-DD date", c.Report.AsOf))
		}
	}
	for i, g := range c.Report.Groups {
		if g.Name == "" {
			problems = append(problems, fmt.Sprintf("report.groups[%d]: missing name", i))
		}
		if len(g.Accounts) == 0 {
			problems = append(problems, fmt.Sprintf("report.groups[%d]: no accounts", i))
		}
		switch networth.GroupKind(g.Kind) {
		case networth.Asset, networth.Income, networth.Expense:
		default:
			problems = append(problems, fmt.Sprintf("report.groups[%d]: kind %q is not asset, income or expense", i, g.Kind))
		}
		if g.TaxRate < 0 || g.TaxRate >= 1 {
			problems = append(problems, fmt.Sprintf("report.groups[%d]: tax_rate %v outside [0, 1)", i, g.TaxRate))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Groups converts the configured groups.
func (c *Config) Groups() []networth.Group {
	groups := make([]networth.Group, 0, len(c.Report.Groups))
	for _, g := range c.Report.Groups {
		groups = append(groups, networth.Group{
			Name:     g.Name,
			Prefixes: g.Accounts,
			Kind:     networth.GroupKind(g.Kind),
			TaxRate:  decimal.NewFromFloat(g.TaxRate),
		})
	}
	return groups
}

// Params returns the report parameters.
func (c *Config) Params() (report.Params, error) {
	p := report.Params{
		Commodity:     c.Report.Commodity,
		DecimalPoints: 2,
		Groups:        c.Groups(),
	}
	if c.Report.DecimalPoints != nil {
		p.DecimalPoints = int32(*c.Report.DecimalPoints)
	}
	if c.Report.AsOf != "" {
		on, err := time.Parse(time.DateOnly, c.Report.AsOf)
		if err != nil {
			return report.Params{}, fmt.Errorf("report.as_of: %w", err)
		}
		p.AsOf = on
	}
	return p, nil
}

func getOrDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	return getOrDefault(os.Getenv(key), defaultValue)
}
