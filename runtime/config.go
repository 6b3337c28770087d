// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime assembles Aura's effect implementations, journal,
// ceremony runtime, guard chain, anti-entropy, AMP, and protocol packages
// into one running node.
package runtime

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aura-net/aura/internal/aurerr"
)

// AuraConfig is the node's static configuration snapshot, loaded once at
// startup and never mutated thereafter. Environment variables
// in ${VAR_NAME} or ${VAR_NAME:-default} form are substituted before
// parsing.
type AuraConfig struct {
	DeviceName string         `yaml:"device_name"`
	Network    NetworkConfig  `yaml:"network"`
	Ceremony   CeremonyConfig `yaml:"ceremony"`
	AMP        AMPConfig      `yaml:"amp"`
	SyncConfig SyncConfig     `yaml:"sync"`
	Metrics    MetricsConfig  `yaml:"metrics"`
	LogLevel   string         `yaml:"log_level"`
}

// NetworkConfig configures the injected transport's dial targets; the
// transport implementation itself lives outside this module.
type NetworkConfig struct {
	ListenAddr string   `yaml:"listen_addr"`
	Peers      []string `yaml:"peers"`
}

// CeremonyConfig bounds threshold ceremony timeouts; it has no retry
// settings.
type CeremonyConfig struct {
	DKGTimeout     Duration `yaml:"dkg_timeout"`
	SignTimeout    Duration `yaml:"sign_timeout"`
	ReshareTimeout Duration `yaml:"reshare_timeout"`
}

// AMPConfig bounds per-channel ratchet skip tolerance.
type AMPConfig struct {
	SkipWindow uint32 `yaml:"skip_window"`
}

// SyncConfig bounds anti-entropy reconciliation cadence.
type SyncConfig struct {
	Interval    Duration `yaml:"interval"`
	BloomBits   uint32   `yaml:"bloom_bits"`
	BloomHashes uint32   `yaml:"bloom_hashes"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Duration wraps time.Duration for YAML unmarshaling as a Go duration
// string ("30s", "5m") rather than a raw nanosecond integer.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: invalid duration %q: %v", aurerr.ErrDecodeFailed, s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName, defaultValue := groups[1], ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// LoadAuraConfig reads and parses path, substituting ${VAR} environment
// references first, then applies defaults to the zero-valued ceremony
// timeouts, AMP skip window, sync settings, metrics namespace and log
// level. Other fields keep whatever the file set.
func LoadAuraConfig(path string) (*AuraConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config %s: %v", aurerr.ErrStorageIO, path, err)
	}
	expanded := substituteEnvVars(string(data))
	var cfg AuraConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config %s: %v", aurerr.ErrDecodeFailed, path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AuraConfig) applyDefaults() {
	if c.Ceremony.DKGTimeout == 0 {
		c.Ceremony.DKGTimeout = Duration(30 * time.Second)
	}
	if c.Ceremony.SignTimeout == 0 {
		c.Ceremony.SignTimeout = Duration(10 * time.Second)
	}
	if c.Ceremony.ReshareTimeout == 0 {
		c.Ceremony.ReshareTimeout = Duration(60 * time.Second)
	}
	if c.AMP.SkipWindow == 0 {
		c.AMP.SkipWindow = 64
	}
	if c.SyncConfig.Interval == 0 {
		c.SyncConfig.Interval = Duration(5 * time.Second)
	}
	if c.SyncConfig.BloomBits == 0 {
		c.SyncConfig.BloomBits = 4096
	}
	if c.SyncConfig.BloomHashes == 0 {
		c.SyncConfig.BloomHashes = 4
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "aura"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
