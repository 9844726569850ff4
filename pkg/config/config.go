// Package config loads the device-info TOML configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level configuration.
type Config struct {
	General      GeneralConfig      `toml:"general"`
	Kernel       KernelConfig       `toml:"kernel"`
	Properties   PropertiesConfig   `toml:"properties"`
	Device       DeviceConfig       `toml:"device"`
	Restrictions RestrictionsConfig `toml:"restrictions"`
	Tap          TapConfig          `toml:"tap"`
}

// GeneralConfig holds logging and cache settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	CacheDir string `toml:"cache_dir"`
	// CacheTTL is how long the formatted kernel version is memoized.
	// Zero disables the cache.
	CacheTTL Duration `toml:"cache_ttl"`
}

// KernelConfig controls where the kernel version is read from.
type KernelConfig struct {
	ProcVersion string `toml:"proc_version"`
	HideBuilder bool   `toml:"hide_builder"`
}

// PropertiesConfig lists property sources. Overrides win over files,
// files win over the host fallback.
type PropertiesConfig struct {
	BuildPropFiles []string          `toml:"build_prop_files"`
	HostFallback   bool              `toml:"host_fallback"`
	Overrides      map[string]string `toml:"overrides"`
}

// DeviceConfig describes what the device offers.
type DeviceConfig struct {
	WifiOnly           bool     `toml:"wifi_only"`
	ShowManual         bool     `toml:"show_manual"`
	ShowRegulatoryInfo bool     `toml:"show_regulatory_info"`
	FeedbackReporter   string   `toml:"feedback_reporter"`
	InstalledPackages  []string `toml:"installed_packages"`
	ResolvableActions  []string `toml:"resolvable_actions"`
	QGPVersionPath     string   `toml:"qgp_version_path"`
	MBNVersionPath     string   `toml:"mbn_version_path"`
	SELinuxEnforcePath string   `toml:"selinux_enforce_path"`
}

// RestrictionsConfig lists user restrictions by origin.
type RestrictionsConfig struct {
	Admin  []string `toml:"admin"`
	System []string `toml:"system"`
}

// TapConfig tunes tap handling.
type TapConfig struct {
	Window Duration `toml:"window"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.General.LogLevel)] {
		return fmt.Errorf("config: invalid log_level %q", c.General.LogLevel)
	}
	if c.Kernel.ProcVersion == "" {
		return fmt.Errorf("config: kernel.proc_version must not be empty")
	}
	if c.General.CacheTTL.Duration > 0 && c.General.CacheDir == "" {
		return fmt.Errorf("config: cache_ttl set without cache_dir")
	}
	for k := range c.Properties.Overrides {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("config: empty property name in overrides")
		}
	}
	return nil
}

// Duration is a time.Duration read from a Go duration string such as
// "500ms" or "10m". An empty string is zero.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("config: duration %q is negative", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
