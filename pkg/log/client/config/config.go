package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/ty"
)

// ErrConfiguration is matched by every configuration failure. Those are
// fatal at startup.
var ErrConfiguration = errors.New("configuration error")

// Sentinel errors returned by LoadConfig and LoadProfiles so callers can
// detect exact failure modes using errors.Is().
var (
	ErrConfigParse    = fmt.Errorf("%w: invalid config content", ErrConfiguration)
	ErrConfigNotFound = fmt.Errorf("%w: config file not found", ErrConfiguration)
	ErrNoProfiles     = fmt.Errorf("%w: no AWS profiles found", ErrConfiguration)
)

const (
	// EnvConfigPath is the environment variable used to override the config path
	EnvConfigPath = "LAMBDALOGS_CONFIG"

	// DefaultConfigDir is the directory under the user's home where the config
	// file is expected when no explicit path or env var is provided.
	DefaultConfigDir = ".lambdalogs"

	// DefaultConfigFile is the config filename to look for in the default dir.
	DefaultConfigFile = "config.yaml"

	DefaultLogGroupPrefix = "/aws/lambda/"
	DefaultPageSize       = 100
	// MaxPageSize is the FilterLogEvents upper limit.
	MaxPageSize = 10000
)

type Config struct {
	Profiles            []client.Profile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	AWSConfigFiles      []string         `json:"awsConfigFiles,omitempty" yaml:"awsConfigFiles,omitempty"`
	AWSCredentialsFiles []string         `json:"awsCredentialsFiles,omitempty" yaml:"awsCredentialsFiles,omitempty"`
	Discover            ty.Opt[bool]     `json:"discover" yaml:"discover,omitempty"`
	Endpoint            ty.Opt[string]   `json:"endpoint" yaml:"endpoint,omitempty"`
	LogGroupPrefix      string           `json:"logGroupPrefix,omitempty" yaml:"logGroupPrefix,omitempty"`
	PageSize            int              `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`

	// Path is the file the config was read from, empty when none was found.
	Path string `json:"-" yaml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if !c.Discover.Set {
		c.Discover.S(true)
	}
	if strings.TrimSpace(c.LogGroupPrefix) == "" {
		c.LogGroupPrefix = DefaultLogGroupPrefix
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if len(c.AWSConfigFiles) == 0 {
		c.AWSConfigFiles = []string{defaultAWSFile("AWS_CONFIG_FILE", "config")}
	}
	if len(c.AWSCredentialsFiles) == 0 {
		c.AWSCredentialsFiles = []string{defaultAWSFile("AWS_SHARED_CREDENTIALS_FILE", "credentials")}
	}
	for i := range c.AWSConfigFiles {
		c.AWSConfigFiles[i] = expandHome(c.AWSConfigFiles[i])
	}
	for i := range c.AWSCredentialsFiles {
		c.AWSCredentialsFiles[i] = expandHome(c.AWSCredentialsFiles[i])
	}
}

// Validate checks values a file could get wrong.
func (c *Config) Validate() error {
	problems := []string{}

	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		problems = append(problems, fmt.Sprintf("pageSize must be between 1 and %d, got %d", MaxPageSize, c.PageSize))
	}
	for i, p := range c.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			problems = append(problems, fmt.Sprintf("profile #%d has no name", i+1))
		}
	}
	if c.Endpoint.Set && c.Endpoint.Valid && !strings.HasPrefix(c.Endpoint.Value, "http") {
		problems = append(problems, fmt.Sprintf("endpoint %q must be an http(s) url", c.Endpoint.Value))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrConfigParse, strings.Join(problems, "\n  "))
	}
	return nil
}

// EndpointURL returns the custom CloudWatch endpoint, empty when unset.
func (c *Config) EndpointURL() string {
	if c.Endpoint.Set && c.Endpoint.Valid {
		return c.Endpoint.Value
	}
	return ""
}

// ResolvePath returns the config file to read: the explicit path, then
// LAMBDALOGS_CONFIG, then $HOME/.lambdalogs/config.yaml if it exists.
// An empty result means no file should be read.
func ResolvePath(configPath string) string {
	if p := strings.TrimSpace(configPath); p != "" {
		return p
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
		if _, err := os.Stat(defaultPath); err == nil {
			return defaultPath
		}
	}
	return ""
}

// DefaultPath is where the configure command writes when nothing else is set.
func DefaultPath() string {
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// LoadConfig reads the config file. When no path is given and no default
// file exists the default config is returned.
func LoadConfig(configPath string) (*Config, error) {
	path := ResolvePath(configPath)
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfiguration, path, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON %s: %v", ErrConfigParse, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML %s: %v", ErrConfigParse, path, err)
		}
	default:
		// Try JSON then YAML as a fallback
		if err := json.Unmarshal(data, &config); err == nil {
			break
		}
		config = Config{}
		if err := yaml.Unmarshal(data, &config); err == nil {
			break
		}
		return nil, fmt.Errorf("%w: unsupported or invalid config format for file: %s", ErrConfigParse, path)
	}

	config.Path = path
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig writes the config as YAML, creating the parent directory.
func SaveConfig(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func defaultAWSFile(env, name string) string {
	if p := strings.TrimSpace(os.Getenv(env)); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".aws", name)
	}
	return filepath.Join(home, ".aws", name)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
