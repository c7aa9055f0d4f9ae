// Copyright 2024-2026 Aiku AI

package connector

import (
	_ "embed"
	"fmt"
	"os"

	up "go.mau.fi/util/configupgrade"
	"go.mau.fi/zeroconfig"
	"gopkg.in/yaml.v3"
)

//go:embed example-config.yaml
var ExampleConfig string

// Config holds the bridge configuration.
type Config struct {
	// ListenAddr is the listen address for the inbound webhook server.
	// Defaults to ":3001".
	ListenAddr string `yaml:"listen_addr"`

	Webhook WebhookConfig `yaml:"webhook"`
	Media   MediaConfig   `yaml:"media"`
	Hosting HostingConfig `yaml:"hosting"`
	Publish PublishConfig `yaml:"publish"`
	Mirror  MirrorConfig  `yaml:"mirror"`

	Logging zeroconfig.Config `yaml:"logging"`
}

// WebhookConfig configures inbound webhook verification.
type WebhookConfig struct {
	// Secret enables HMAC-SHA256 verification of inbound webhook bodies via
	// the X-Signature-256 header. Leave empty to disable verification.
	Secret string `yaml:"secret"`
}

// MediaConfig configures attachment classification and uploads.
type MediaConfig struct {
	// SkipFirst drops the first media slot before classification, for
	// providers that use it for a non-content entry.
	SkipFirst bool `yaml:"skip_first"`
	// MaxConcurrentUploads bounds parallel image uploads. Defaults to 4.
	MaxConcurrentUploads int `yaml:"max_concurrent_uploads"`
	// UploadTimeout is the per-image upload timeout in seconds.
	UploadTimeout int `yaml:"upload_timeout"`
	// TextFetchTimeout is the text attachment fetch timeout in seconds.
	TextFetchTimeout int `yaml:"text_fetch_timeout"`
}

// HostingConfig configures the image hosting collaborator.
type HostingConfig struct {
	BaseURL   string `yaml:"base_url"`
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// PublishConfig configures the outbound publish collaborator.
type PublishConfig struct {
	// Endpoint receives assembled posts as JSON.
	Endpoint string `yaml:"endpoint"`
}

// MirrorConfig configures the optional AMQP envelope mirror.
type MirrorConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	return node.Decode((*rawConfig)(c))
}

// PostProcess applies environment overrides for credentials and validates
// required fields. The env names match what the surrounding process
// historically provided.
func (c *Config) PostProcess() error {
	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		c.Hosting.CloudName = v
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		c.Hosting.APIKey = v
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		c.Hosting.APISecret = v
	}
	if v := os.Getenv("API_POST_ENDPOINT"); v != "" {
		c.Publish.Endpoint = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		c.Webhook.Secret = v
	}

	if c.Publish.Endpoint == "" {
		return fmt.Errorf("publish.endpoint is required")
	}
	return nil
}

func upgradeConfig(helper up.Helper) {
	helper.Copy(up.Str, "listen_addr")
	helper.Copy(up.Str, "webhook", "secret")
	helper.Copy(up.Bool, "media", "skip_first")
	helper.Copy(up.Int, "media", "max_concurrent_uploads")
	helper.Copy(up.Int, "media", "upload_timeout")
	helper.Copy(up.Int, "media", "text_fetch_timeout")
	helper.Copy(up.Str, "hosting", "base_url")
	helper.Copy(up.Str, "hosting", "cloud_name")
	helper.Copy(up.Str, "hosting", "api_key")
	helper.Copy(up.Str, "hosting", "api_secret")
	helper.Copy(up.Str, "publish", "endpoint")
	helper.Copy(up.Bool, "mirror", "enabled")
	helper.Copy(up.Str, "mirror", "url")
	helper.Copy(up.Str, "mirror", "exchange")
	helper.Copy(up.Map, "logging")
}

// UpgradeConfig layers a user config over the embedded example: known keys
// keep their user values, new keys pick up example defaults, and obsolete
// keys fall away. Returns the upgraded YAML.
func UpgradeConfig(data []byte) ([]byte, error) {
	var base, cfg yaml.Node
	if err := yaml.Unmarshal([]byte(ExampleConfig), &base); err != nil {
		return nil, fmt.Errorf("failed to parse example config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	helper := up.NewHelper(&base, &cfg)
	upgradeConfig(helper)

	out, err := yaml.Marshal(&base)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upgraded config: %w", err)
	}
	return out, nil
}

// LoadConfig reads a config file and layers it over the embedded example
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	upgraded, err := UpgradeConfig(data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(upgraded, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
