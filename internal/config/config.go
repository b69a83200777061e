package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dayselect-dr/internal/calendar"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Port     string        `yaml:"port"`
	Timezone string        `yaml:"timezone"`
	Redis    RedisConfig   `yaml:"redis"`
	Program  ProgramConfig `yaml:"program"`
}

// RedisConfig points at the meter/settings store. An empty Addr selects the
// in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

// ProgramConfig carries the DR program rules that are data, not code:
// thresholds, lookback bounds, and the holiday/off-peak calendar.
type ProgramConfig struct {
	ContractValueThreshold float64  `yaml:"contract_value_threshold"`
	MinCapacityKW          float64  `yaml:"min_capacity_kw"`
	BaselineDays           int      `yaml:"baseline_days"`
	LookbackLimitDays      int      `yaml:"lookback_limit_days"`
	Holidays               []string `yaml:"holidays"`      // "2006-01-02"
	OffPeakDays            []string `yaml:"off_peak_days"` // "2006-01-02"
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Port:     "8080",
		Timezone: "Asia/Taipei",
		Program: ProgramConfig{
			ContractValueThreshold: 100,
			MinCapacityKW:          20,
			BaselineDays:           20,
			LookbackLimitDays:      90,
		},
	}
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaulting or validating it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Port == "" {
		c.Port = def.Port
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Program.ContractValueThreshold == 0 {
		c.Program.ContractValueThreshold = def.Program.ContractValueThreshold
	}
	if c.Program.MinCapacityKW == 0 {
		c.Program.MinCapacityKW = def.Program.MinCapacityKW
	}
	if c.Program.BaselineDays == 0 {
		c.Program.BaselineDays = def.Program.BaselineDays
	}
	if c.Program.LookbackLimitDays == 0 {
		c.Program.LookbackLimitDays = def.Program.LookbackLimitDays
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.Program.BaselineDays <= 0 {
		return errors.New("program.baseline_days must be positive")
	}
	if c.Program.LookbackLimitDays < c.Program.BaselineDays {
		return fmt.Errorf("program.lookback_limit_days (%d) must cover program.baseline_days (%d)",
			c.Program.LookbackLimitDays, c.Program.BaselineDays)
	}
	if _, err := c.HolidaySet(); err != nil {
		return err
	}
	return nil
}

// Location resolves the program timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// HolidaySet merges the configured holidays and off-peak special days into
// one excluded-day set.
func (c *Config) HolidaySet() (calendar.DateSet, error) {
	set := calendar.DateSet{}
	for _, raw := range append(append([]string{}, c.Program.Holidays...), c.Program.OffPeakDays...) {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid calendar day %q: %w", raw, err)
		}
		set.Add(day)
	}
	return set, nil
}
