// Package config loads the application configuration: the repositories
// to watch and the claim-handling policy knobs layered on top of the
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Config represents the application configuration.
type Config struct {
	DefaultFormat        string   `yaml:"default_format,omitempty"`
	ProbabilityBenchmark *float64 `yaml:"probability_benchmark,omitempty"` // 0-100
	ScanInterval         string   `yaml:"scan_interval,omitempty"`         // Go duration string
	ListenAddr           string   `yaml:"listen_addr,omitempty"`

	// Repositories to watch. Each entry may carry policy overrides that
	// win over the global policy block.
	Repositories []RepositoryEntry `yaml:"repositories,omitempty"`

	// Policy applies to every repository unless overridden per entry.
	Policy *PolicyOverrides `yaml:"policy,omitempty"`
}

// RepositoryEntry names one watched repository and its local policy.
type RepositoryEntry struct {
	Repo   string           `yaml:"repo"` // owner/name
	Policy *PolicyOverrides `yaml:"policy,omitempty"`
}

// PolicyOverrides allows customizing the per-repository claim policy.
// Nil fields preserve the defaults.
type PolicyOverrides struct {
	GracePeriodDays    *int  `yaml:"grace_period_days,omitempty"`
	MaxNudges          *int  `yaml:"max_nudges,omitempty"`
	NudgeIntervals     []int `yaml:"nudge_intervals,omitempty"`
	AutoReleaseEnabled *bool `yaml:"auto_release_enabled,omitempty"`
	NotifyMaintainers  *bool `yaml:"notify_maintainers,omitempty"`
	CommunityNudging   *bool `yaml:"community_nudging,omitempty"`

	ComplexityWeights *ComplexityWeightOverrides `yaml:"complexity_weights,omitempty"`
	RiskThresholds    *RiskThresholdOverrides    `yaml:"risk_thresholds,omitempty"`
}

// ComplexityWeightOverrides customizes the grace period multipliers per
// complexity tier.
type ComplexityWeightOverrides struct {
	Low    *float64 `yaml:"low,omitempty"`
	Medium *float64 `yaml:"medium,omitempty"`
	High   *float64 `yaml:"high,omitempty"`
}

// RiskThresholdOverrides customizes the risk score boundaries.
type RiskThresholdOverrides struct {
	High   *float64 `yaml:"high,omitempty"`
	Medium *float64 `yaml:"medium,omitempty"`
	Low    *float64 `yaml:"low,omitempty"`
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".crumbwatch"
	}
	return filepath.Join(configDir, "crumbwatch")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the
// current directory.
func LocalConfigPath() string {
	return ".crumbwatch.yaml"
}

// Load loads the configuration from disk. It first loads the global
// config from the XDG config directory, then merges any local
// .crumbwatch.yaml on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{DefaultFormat: "table"}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config. Local values
// take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}
	if local.ProbabilityBenchmark != nil {
		result.ProbabilityBenchmark = local.ProbabilityBenchmark
	} else {
		result.ProbabilityBenchmark = global.ProbabilityBenchmark
	}
	if local.ScanInterval != "" {
		result.ScanInterval = local.ScanInterval
	} else {
		result.ScanInterval = global.ScanInterval
	}
	if local.ListenAddr != "" {
		result.ListenAddr = local.ListenAddr
	} else {
		result.ListenAddr = global.ListenAddr
	}

	if len(local.Repositories) > 0 {
		result.Repositories = local.Repositories
	} else {
		result.Repositories = global.Repositories
	}

	result.Policy = mergePolicy(global.Policy, local.Policy)

	return result
}

func mergePolicy(global, local *PolicyOverrides) *PolicyOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &PolicyOverrides{}

	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.GracePeriodDays != nil {
			result.GracePeriodDays = local.GracePeriodDays
		}
		if local.MaxNudges != nil {
			result.MaxNudges = local.MaxNudges
		}
		if len(local.NudgeIntervals) > 0 {
			result.NudgeIntervals = local.NudgeIntervals
		}
		if local.AutoReleaseEnabled != nil {
			result.AutoReleaseEnabled = local.AutoReleaseEnabled
		}
		if local.NotifyMaintainers != nil {
			result.NotifyMaintainers = local.NotifyMaintainers
		}
		if local.CommunityNudging != nil {
			result.CommunityNudging = local.CommunityNudging
		}
		if local.ComplexityWeights != nil {
			result.ComplexityWeights = local.ComplexityWeights
		}
		if local.RiskThresholds != nil {
			result.RiskThresholds = local.RiskThresholds
		}
	}

	return result
}

// ApplyTo overlays the set override fields onto a repository config.
func (p *PolicyOverrides) ApplyTo(cfg *model.RepositoryConfig) {
	if p == nil {
		return
	}
	if p.GracePeriodDays != nil {
		cfg.GracePeriodDays = *p.GracePeriodDays
	}
	if p.MaxNudges != nil {
		cfg.MaxNudges = *p.MaxNudges
	}
	if len(p.NudgeIntervals) > 0 {
		cfg.NudgeIntervals = p.NudgeIntervals
	}
	if p.AutoReleaseEnabled != nil {
		cfg.AutoReleaseEnabled = *p.AutoReleaseEnabled
	}
	if p.NotifyMaintainers != nil {
		cfg.NotifyMaintainers = *p.NotifyMaintainers
	}
	if p.CommunityNudging != nil {
		cfg.CommunityNudging = *p.CommunityNudging
	}
	if cw := p.ComplexityWeights; cw != nil {
		if cw.Low != nil {
			cfg.ComplexityWeights.Low = *cw.Low
		}
		if cw.Medium != nil {
			cfg.ComplexityWeights.Medium = *cw.Medium
		}
		if cw.High != nil {
			cfg.ComplexityWeights.High = *cw.High
		}
	}
	if rt := p.RiskThresholds; rt != nil {
		if rt.High != nil {
			cfg.RiskThresholds.High = *rt.High
		}
		if rt.Medium != nil {
			cfg.RiskThresholds.Medium = *rt.Medium
		}
		if rt.Low != nil {
			cfg.RiskThresholds.Low = *rt.Low
		}
	}
}

// RepositoryConfigs materializes the watched repositories as policy
// configs: defaults, then the global policy block, then the per-entry
// overrides. Entries without an owner/name form are skipped.
func (c *Config) RepositoryConfigs() []*model.RepositoryConfig {
	configs := make([]*model.RepositoryConfig, 0, len(c.Repositories))
	for _, entry := range c.Repositories {
		owner, name, ok := strings.Cut(entry.Repo, "/")
		if !ok || owner == "" || name == "" {
			continue
		}
		cfg := model.DefaultRepositoryConfig(owner, name)
		c.Policy.ApplyTo(cfg)
		entry.Policy.ApplyTo(cfg)
		configs = append(configs, cfg)
	}
	return configs
}

// ScanIntervalDuration parses the configured scan interval. Unset or
// invalid values fall back to the given default.
func (c *Config) ScanIntervalDuration(fallback time.Duration) time.Duration {
	if c.ScanInterval == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.ScanInterval)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN
// environment variable. Following 12-factor practice, tokens are only
// read from the environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// GetWebhookSecret returns the webhook signing secret from the
// CRUMBWATCH_WEBHOOK_SECRET environment variable. Empty means
// signature verification is disabled.
func (c *Config) GetWebhookSecret() string {
	return os.Getenv("CRUMBWATCH_WEBHOOK_SECRET")
}

// Save saves the configuration to the global config path.
func (c *Config) Save() error {
	configDir := DefaultConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ToYAML returns the config as a YAML string.
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// DefaultConfig returns a fully populated config with all default
// values, useful for generating a complete config file template.
func DefaultConfig() *Config {
	stock := model.DefaultRepositoryConfig("owner", "repo")
	benchmark := 40.0

	return &Config{
		DefaultFormat:        "table",
		ProbabilityBenchmark: &benchmark,
		ScanInterval:         "1h",
		ListenAddr:           ":8080",
		Repositories:         []RepositoryEntry{},
		Policy: &PolicyOverrides{
			GracePeriodDays:    &stock.GracePeriodDays,
			MaxNudges:          &stock.MaxNudges,
			NudgeIntervals:     stock.NudgeIntervals,
			AutoReleaseEnabled: &stock.AutoReleaseEnabled,
			NotifyMaintainers:  &stock.NotifyMaintainers,
			CommunityNudging:   &stock.CommunityNudging,
			ComplexityWeights: &ComplexityWeightOverrides{
				Low:    &stock.ComplexityWeights.Low,
				Medium: &stock.ComplexityWeights.Medium,
				High:   &stock.ComplexityWeights.High,
			},
			RiskThresholds: &RiskThresholdOverrides{
				High:   &stock.RiskThresholds.High,
				Medium: &stock.RiskThresholds.Medium,
				Low:    &stock.RiskThresholds.Low,
			},
		},
	}
}

// MinimalConfig returns a minimal config template with comments.
func MinimalConfig() string {
	return `# crumbwatch configuration file
# See: crumbwatch config defaults  (for all available options)

# Output format: table, json, or markdown
default_format: table

# Repositories to watch
# repositories:
#   - repo: owner/name
#   - repo: owner/other
#     policy:
#       grace_period_days: 14
#       auto_release_enabled: false

# Global policy overrides (optional)
# policy:
#   max_nudges: 3
#   nudge_intervals: [3, 7, 14]

# Alert when completion probability drops below this percentage
# probability_benchmark: 40
`
}

// ConfigPathInfo contains information about config file paths.
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs.
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// SaveTo writes content to a specific path, creating directories as
// needed.
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
