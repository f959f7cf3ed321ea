// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

// Package config loads the optional dartsctl.yaml project file that seeds
// the CLI flag defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/ludachrisnyc/Connect-the-Darts/internal/android"
)

// Config captures the project-level bootstrap settings.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	SDK    SDKConfig    `yaml:"sdk"`
}

// DeviceConfig describes the virtual device to provision.
type DeviceConfig struct {
	Name    string `yaml:"name"`
	API     int    `yaml:"api"`
	Variant string `yaml:"variant"`
	Profile string `yaml:"profile"`
}

// SDKConfig points at the SDK inputs.
type SDKConfig struct {
	PropertiesFile string `yaml:"properties_file"`
	ToolsArchive   string `yaml:"tools_archive"`
	ToolsURL       string `yaml:"tools_url"`
	ToolsChecksum  string `yaml:"tools_checksum"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Name:    android.DefaultDeviceName,
			API:     android.DefaultAPILevel,
			Variant: android.DefaultVariant,
			Profile: android.DefaultDeviceProfile,
		},
		SDK: SDKConfig{
			PropertiesFile: "local.properties",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise
// returns the default configuration.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Device.Name == "" {
		c.Device.Name = defaults.Device.Name
	}
	if c.Device.API == 0 {
		c.Device.API = defaults.Device.API
	}
	if c.Device.Variant == "" {
		c.Device.Variant = defaults.Device.Variant
	}
	if c.Device.Profile == "" {
		c.Device.Profile = defaults.Device.Profile
	}
	if c.SDK.PropertiesFile == "" {
		c.SDK.PropertiesFile = defaults.SDK.PropertiesFile
	}
}

// Validate rejects settings the SDK tools would choke on.
func (c Config) Validate() error {
	if c.Device.Name == "" {
		return fmt.Errorf("device.name must not be empty")
	}
	if c.Device.API <= 0 {
		return fmt.Errorf("device.api must be a positive API level, got %d", c.Device.API)
	}
	if c.Device.Variant == "" {
		return fmt.Errorf("device.variant must not be empty")
	}
	return nil
}

// Resolve picks the configuration file for this invocation: the explicit
// flag wins, then dartsctl.yaml in the working directory, then the user
// config dir. Empty means no file; defaults apply.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if _, err := os.Stat("dartsctl.yaml"); err == nil {
		return "dartsctl.yaml"
	}
	p := filepath.Join(xdg.ConfigHome, "dartsctl", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
