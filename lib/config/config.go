// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/ref"
	"github.com/gossamer-forge/gossamer/lib/roles"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for a Gossamer client.
type Config struct {
	// Environment identifies the deployment type (development, production).
	Environment Environment `yaml:"environment"`

	// Identity is the client's own identity in canonical hex form.
	Identity string `yaml:"identity"`

	// Store configures record persistence.
	Store StoreConfig `yaml:"store"`

	// Network configures the push network connection.
	Network NetworkConfig `yaml:"network"`

	// Forge configures the centralized-host poll source.
	Forge ForgeConfig `yaml:"forge"`

	// Poll configures the background poll loop.
	Poll PollConfig `yaml:"poll"`

	// Roles configures the contributor tier boundaries. Zero values
	// use the standard layout.
	Roles RolesConfig `yaml:"roles"`

	// Containers lists the tracked containers.
	Containers []ContainerConfig `yaml:"containers"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains fields that can be overridden per environment.
type Overrides struct {
	Store   *StoreConfig   `yaml:"store,omitempty"`
	Network *NetworkConfig `yaml:"network,omitempty"`
	Forge   *ForgeConfig   `yaml:"forge,omitempty"`
	Poll    *PollConfig    `yaml:"poll,omitempty"`
}

// StoreConfig configures record persistence.
type StoreConfig struct {
	// Path is the SQLite database file. Empty selects the
	// in-memory backend (state is lost on exit).
	Path string `yaml:"path"`

	// QuotaBytes caps the in-memory backend's footprint. Zero
	// means unbounded. Ignored for the SQLite backend.
	QuotaBytes int64 `yaml:"quota_bytes"`
}

// NetworkConfig configures the push network connection.
type NetworkConfig struct {
	// Relays lists relay URLs (wss://). At least one is required.
	Relays []string `yaml:"relays"`
}

// ForgeConfig configures the centralized-host poll source.
type ForgeConfig struct {
	// BaseURL is the REST API root. HTTPS required.
	// Default: https://api.github.com
	BaseURL string `yaml:"base_url"`

	// Token is the bearer token. Prefer TokenFile so the token
	// stays out of the config file.
	Token string `yaml:"token"`

	// TokenFile is a file whose trimmed contents are the token.
	// Takes precedence over Token when set.
	TokenFile string `yaml:"token_file"`
}

// PollConfig configures the background poll loop.
type PollConfig struct {
	// Interval is the period between poll cycles ("5m"). "0"
	// disables periodic polling.
	// Default: 5m
	Interval string `yaml:"interval"`

	// Timeout bounds one poll cycle ("30s").
	// Default: 30s
	Timeout string `yaml:"timeout"`
}

// RolesConfig configures the contributor tier boundaries.
type RolesConfig struct {
	// OwnerWeight is the weight that makes a contributor an owner.
	OwnerWeight int `yaml:"owner_weight"`

	// MaintainerMin is the lowest weight of the maintainer tier.
	MaintainerMin int `yaml:"maintainer_min"`
}

// ContainerConfig is one tracked container, optionally bound to a
// centralized-host repository for polling.
type ContainerConfig struct {
	// Owner is the owning identity in canonical hex form.
	Owner string `yaml:"owner"`

	// Name is the container name.
	Name string `yaml:"name"`

	// ForgeOwner and ForgeRepo bind this container to a repository
	// on the configured forge. Both empty disables polling for
	// this container.
	ForgeOwner string `yaml:"forge_owner"`
	ForgeRepo  string `yaml:"forge_repo"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Store: StoreConfig{
			Path: filepath.Join(homeDir, ".local", "share", "gossamer", "records.db"),
		},
		Forge: ForgeConfig{
			BaseURL: "https://api.github.com",
		},
		Poll: PollConfig{
			Interval: "5m",
			Timeout:  "30s",
		},
	}
}

// Load loads configuration from the GOSSAMER_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if GOSSAMER_CONFIG is not set,
// this fails. This ensures deterministic, auditable configuration with
// no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("GOSSAMER_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("GOSSAMER_CONFIG environment variable not set; " +
			"set it to the path of your gossamer.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Store != nil {
		if overrides.Store.Path != "" {
			c.Store.Path = overrides.Store.Path
		}
		if overrides.Store.QuotaBytes != 0 {
			c.Store.QuotaBytes = overrides.Store.QuotaBytes
		}
	}

	if overrides.Network != nil && len(overrides.Network.Relays) > 0 {
		c.Network.Relays = overrides.Network.Relays
	}

	if overrides.Forge != nil {
		if overrides.Forge.BaseURL != "" {
			c.Forge.BaseURL = overrides.Forge.BaseURL
		}
		if overrides.Forge.Token != "" {
			c.Forge.Token = overrides.Forge.Token
		}
		if overrides.Forge.TokenFile != "" {
			c.Forge.TokenFile = overrides.Forge.TokenFile
		}
	}

	if overrides.Poll != nil {
		if overrides.Poll.Interval != "" {
			c.Poll.Interval = overrides.Poll.Interval
		}
		if overrides.Poll.Timeout != "" {
			c.Poll.Timeout = overrides.Poll.Timeout
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Store.Path = expandVars(c.Store.Path, vars)
	c.Forge.TokenFile = expandVars(c.Forge.TokenFile, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Identity == "" {
		errs = append(errs, fmt.Errorf("identity is required"))
	} else if _, err := identity.Parse(c.Identity); err != nil {
		errs = append(errs, fmt.Errorf("identity: %w", err))
	}

	if len(c.Network.Relays) == 0 {
		errs = append(errs, fmt.Errorf("network.relays needs at least one relay"))
	}
	for _, relay := range c.Network.Relays {
		if err := validateRelayURL(relay, c.Environment); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := c.Poll.IntervalDuration(); err != nil {
		errs = append(errs, fmt.Errorf("poll.interval: %w", err))
	}
	if timeout, err := c.Poll.TimeoutDuration(); err != nil {
		errs = append(errs, fmt.Errorf("poll.timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("poll.timeout must be positive"))
	}

	if policy := c.Roles.Policy(); policy != roles.DefaultPolicy() {
		if err := policy.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	needForge := false
	seen := make(map[ref.Container]bool)
	for i, container := range c.Containers {
		resolved, err := container.Resolve()
		if err != nil {
			errs = append(errs, fmt.Errorf("containers[%d]: %w", i, err))
			continue
		}
		if seen[resolved] {
			errs = append(errs, fmt.Errorf("containers[%d]: duplicate container %s", i, resolved))
		}
		seen[resolved] = true
		if (container.ForgeOwner == "") != (container.ForgeRepo == "") {
			errs = append(errs, fmt.Errorf("containers[%d]: forge_owner and forge_repo go together", i))
		}
		if container.ForgeOwner != "" {
			needForge = true
		}
	}

	if needForge {
		if c.Forge.BaseURL == "" {
			errs = append(errs, fmt.Errorf("forge.base_url is required when containers bind forge repositories"))
		}
		if c.Forge.Token == "" && c.Forge.TokenFile == "" {
			errs = append(errs, fmt.Errorf("forge.token or forge.token_file is required when containers bind forge repositories"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// validateRelayURL checks one relay URL. Production requires wss;
// development also accepts ws for local relays.
func validateRelayURL(raw string, env Environment) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("relay %q: %w", raw, err)
	}
	switch parsed.Scheme {
	case "wss":
		return nil
	case "ws":
		if env == Development {
			return nil
		}
		return fmt.Errorf("relay %q: ws only allowed in development", raw)
	default:
		return fmt.Errorf("relay %q: scheme must be wss", raw)
	}
}

// SelfIdentity returns the parsed client identity.
func (c *Config) SelfIdentity() (identity.Identity, error) {
	return identity.Parse(c.Identity)
}

// Resolve parses the container's owner and name into a Container.
func (cc ContainerConfig) Resolve() (ref.Container, error) {
	owner, err := identity.Parse(cc.Owner)
	if err != nil {
		return ref.Container{}, fmt.Errorf("owner: %w", err)
	}
	return ref.New(owner, cc.Name)
}

// Policy returns the configured role policy, or the standard layout
// when unset.
func (r RolesConfig) Policy() roles.Policy {
	if r.OwnerWeight == 0 && r.MaintainerMin == 0 {
		return roles.DefaultPolicy()
	}
	return roles.Policy{OwnerWeight: r.OwnerWeight, MaintainerMin: r.MaintainerMin}
}

// IntervalDuration returns the parsed poll interval. Zero disables
// periodic polling.
func (p PollConfig) IntervalDuration() (time.Duration, error) {
	if p.Interval == "" || p.Interval == "0" {
		return 0, nil
	}
	return time.ParseDuration(p.Interval)
}

// TimeoutDuration returns the parsed poll timeout.
func (p PollConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, fmt.Errorf("timeout is required")
	}
	return time.ParseDuration(p.Timeout)
}

// ResolveToken returns the forge bearer token, reading TokenFile when
// set.
func (f ForgeConfig) ResolveToken() (string, error) {
	if f.TokenFile != "" {
		data, err := os.ReadFile(f.TokenFile)
		if err != nil {
			return "", fmt.Errorf("reading forge token: %w", err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("forge token file %s is empty", f.TokenFile)
		}
		return token, nil
	}
	return f.Token, nil
}
