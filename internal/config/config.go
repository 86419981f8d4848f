// Package config holds the loader's runtime settings: connection, input
// files, and the per-import sheet names. Sheet names are the only part the
// hospital changes between exports, so they are overridable from a YAML
// file; the column candidate tables are code.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SheetNames holds the workbook tab name used by each import kind.
type SheetNames struct {
	Beds       string `yaml:"beds"`
	Cases      string `yaml:"cases"`
	Scores     string `yaml:"scores"`
	Discharges string `yaml:"discharges"`
	GRD        string `yaml:"grd"`
}

// DefaultSheetNames are the tab names of the hospital's current exports.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Beds:       "Camas",
		Cases:      "Data Casos",
		Scores:     "Data Casos",
		Discharges: "UCCC",
		GRD:        "egresos 2024-2025",
	}
}

// Config is the assembled runtime configuration for one invocation.
type Config struct {
	DSN       string
	LogFormat string
	// File is the workbook a single-kind import reads.
	File string
	// BedsFile and CasesFile feed "import all".
	BedsFile  string
	CasesFile string
	Sheets    SheetNames
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		LogFormat: "text",
		Sheets:    DefaultSheetNames(),
	}
}

type fileConfig struct {
	Sheets SheetNames `yaml:"sheets"`
}

// LoadFile merges sheet-name overrides from a YAML file. Empty fields keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.Sheets.Beds != "" {
		c.Sheets.Beds = fc.Sheets.Beds
	}
	if fc.Sheets.Cases != "" {
		c.Sheets.Cases = fc.Sheets.Cases
	}
	if fc.Sheets.Scores != "" {
		c.Sheets.Scores = fc.Sheets.Scores
	}
	if fc.Sheets.Discharges != "" {
		c.Sheets.Discharges = fc.Sheets.Discharges
	}
	if fc.Sheets.GRD != "" {
		c.Sheets.GRD = fc.Sheets.GRD
	}
	return nil
}

// Validate checks the settings that do not require a database.
func (c *Config) Validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// ValidateWithDSN additionally requires a connection string.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return errors.New("database DSN required (flag --dsn or env DATABASE_URL)")
	}
	return nil
}
