// Package config provides the process-wide defaults used when writing DICOM
// volumes: the fixed metadata strings and the UID namespace roots. Values can
// be overridden from a YAML file; the codec treats a loaded Config as
// read-only.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the DICOM write defaults loaded from YAML.
type Config struct {
	// Metadata holds the default descriptive strings stamped on written
	// files when the caller supplies no metadata of its own.
	Metadata struct {
		PatientName       string `yaml:"patientName"`
		PatientID         string `yaml:"patientID"`
		SeriesDescription string `yaml:"seriesDescription"`
	} `yaml:"metadata"`

	// UIDRoots holds the namespace roots under which fresh study, series
	// and instance identifiers are generated. Each root must be a valid
	// dotted-decimal UID prefix.
	UIDRoots struct {
		Study    string `yaml:"study"`
		Series   string `yaml:"series"`
		Instance string `yaml:"instance"`
	} `yaml:"uidRoots"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}

	cfg.Metadata.PatientName = "DefaultDcmvolPatient"
	cfg.Metadata.PatientID = "DefaultDcmvolPatientID"
	cfg.Metadata.SeriesDescription = "Series generated by dcmvol"

	// Dotted-decimal roots, one per identifier kind, so that generated
	// study, series and instance UIDs never collide across kinds.
	cfg.UIDRoots.Study = "1.2.276.0.7230010.3.1.2"
	cfg.UIDRoots.Series = "1.2.276.0.7230010.3.1.3"
	cfg.UIDRoots.Instance = "1.2.276.0.7230010.3.1.4"

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
