// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults when the configuration leaves them unset.
const (
	DefaultDatasetPath   = "airports.csv"
	DefaultCheckInterval = 5 * time.Second
	DefaultGeocoderURL   = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent     = "airport_locator"
	DefaultTimeout       = 10 * time.Second
	DefaultAddress       = "Boston, MA"
	DefaultNearest       = 5
	DefaultMaxElevation  = 10000
)

// Config represents the root configuration file structure.
type Config struct {
	Dataset  Dataset  `yaml:"dataset" json:"dataset"`
	Geocoder Geocoder `yaml:"geocoder" json:"geocoder"`
	Defaults Defaults `yaml:"defaults" json:"defaults"`
}

// Dataset describes where the airports CSV comes from.
// S3 takes precedence over Path when set.
type Dataset struct {
	S3 *S3 `yaml:"s3,omitempty" json:"s3,omitempty"`

	Path string `yaml:"path" json:"path"`

	// how often the source is asked whether it changed
	CheckInterval time.Duration `yaml:"check_interval,omitempty" json:"check_interval,omitempty"`
}

// S3 locates the dataset in an S3-compatible object store.
// Credentials fall back to MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
type S3 struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	Key       string `yaml:"key" json:"key"`
	Region    string `yaml:"region,omitempty" json:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty" json:"-"`
	SecretKey string `yaml:"secret_key,omitempty" json:"-"`
	UseSSL    bool   `yaml:"use_ssl,omitempty" json:"use_ssl,omitempty"`
}

// Geocoder configures the Nominatim-compatible address lookup.
type Geocoder struct {
	URL          string        `yaml:"url" json:"url"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	CountryCodes string        `yaml:"country_codes,omitempty" json:"country_codes,omitempty"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	Disabled     bool          `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Defaults are the initial selector values presented to the user.
type Defaults struct {
	Address      string `yaml:"address" json:"address"`
	Nearest      int    `yaml:"nearest" json:"nearest"`
	MinElevation int    `yaml:"min_elevation" json:"min_elevation"`
	MaxElevation int    `yaml:"max_elevation" json:"max_elevation"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadOptional is Load that falls back to Default when the file does not
// exist. found reports whether the file was read.
func LoadOptional(path string) (cfg *Config, found bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Dataset.Path == "" {
		c.Dataset.Path = DefaultDatasetPath
	}
	if c.Dataset.CheckInterval <= 0 {
		c.Dataset.CheckInterval = DefaultCheckInterval
	}
	if s3 := c.Dataset.S3; s3 != nil {
		if s3.AccessKey == "" {
			s3.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
		}
		if s3.SecretKey == "" {
			s3.SecretKey = os.Getenv("MINIO_SECRET_KEY")
		}
	}

	if c.Geocoder.URL == "" {
		c.Geocoder.URL = DefaultGeocoderURL
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = DefaultUserAgent
	}
	if c.Geocoder.Timeout <= 0 {
		c.Geocoder.Timeout = DefaultTimeout
	}

	if c.Defaults.Address == "" {
		c.Defaults.Address = DefaultAddress
	}
	if c.Defaults.Nearest <= 0 {
		c.Defaults.Nearest = DefaultNearest
	}
	if c.Defaults.MaxElevation <= 0 {
		c.Defaults.MaxElevation = DefaultMaxElevation
	}
	if c.Defaults.MinElevation > c.Defaults.MaxElevation {
		c.Defaults.MinElevation = 0
	}
}
