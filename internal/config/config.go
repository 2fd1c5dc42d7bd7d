// Where: deploy/internal/config/config.go
// What: Deployment configuration model and loader.
// Why: Resolve project, registry, service, and migration settings from one place.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "deploy.yaml"

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds everything a pipeline needs for one invocation.
type Config struct {
	ProjectID string          `yaml:"project_id"`
	Region    string          `yaml:"region"`
	Registry  string          `yaml:"registry"`
	Services  []Service       `yaml:"services"`
	Terraform TerraformConfig `yaml:"terraform"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Migration MigrationConfig `yaml:"migration"`
	Summary   []string        `yaml:"summary"`

	// Version is resolved once per invocation and never read from the file.
	Version string `yaml:"-"`
	// RootDir is the working directory every relative path is resolved against.
	RootDir string `yaml:"-"`
}

// Service is one independently deployable container image.
type Service struct {
	Name       string `yaml:"name"`
	Dockerfile string `yaml:"dockerfile"`
}

// TerraformConfig locates the terraform root module and its variables file.
type TerraformConfig struct {
	Dir      string `yaml:"dir"`
	VarsFile string `yaml:"vars_file"`
}

// SecretsConfig names Secret Manager secrets.
type SecretsConfig struct {
	DBPassword string `yaml:"db_password"`
}

// EndpointsConfig describes how one service's env vars are derived from
// other services' URLs.
type EndpointsConfig struct {
	Target  string            `yaml:"target"`
	Sources map[string]string `yaml:"sources"`
	Vars    []EndpointVar     `yaml:"vars"`
}

// EndpointVar is a derived env var rendered from source URLs.
type EndpointVar struct {
	Name     string `yaml:"name"`
	Template string `yaml:"value"`
	Update   bool   `yaml:"update"`
}

// MigrationConfig holds database and proxy settings for schema migrations.
type MigrationConfig struct {
	InstanceConnection string        `yaml:"instance_connection"`
	Database           string        `yaml:"database"`
	User               string        `yaml:"user"`
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	ProxyPath          string        `yaml:"proxy_path"`
	ProxyURL           string        `yaml:"proxy_url"`
	SettleDelay        time.Duration `yaml:"settle_delay"`
	ReadyTimeout       time.Duration `yaml:"ready_timeout"`
	StopTimeout        time.Duration `yaml:"stop_timeout"`
	Schema             string        `yaml:"schema"`
}

// RegistryHost returns the region-scoped Artifact Registry host.
func (c Config) RegistryHost() string {
	return c.Region + "-docker.pkg.dev"
}

// RegistryURL returns the repository prefix images are pushed under.
func (c Config) RegistryURL() string {
	return fmt.Sprintf("%s/%s/%s", c.RegistryHost(), c.ProjectID, c.Registry)
}

// ImageRef returns the full image reference for a service and tag.
func (c Config) ImageRef(service, tag string) string {
	return fmt.Sprintf("%s/%s:%s", c.RegistryURL(), service, tag)
}

// ImageRepo returns the image repository for a service without a tag.
func (c Config) ImageRepo(service string) string {
	return c.RegistryURL() + "/" + service
}

// TerraformDir returns the terraform working directory.
func (c Config) TerraformDir() string {
	return c.path(c.Terraform.Dir)
}

// VarsFilePath returns the terraform variables file path.
func (c Config) VarsFilePath() string {
	return filepath.Join(c.TerraformDir(), c.Terraform.VarsFile)
}

// ProxyPath returns the local Cloud SQL proxy binary path.
func (c Config) ProxyPath() string {
	return c.path(c.Migration.ProxyPath)
}

func (c Config) path(rel string) string {
	if filepath.IsAbs(rel) || c.RootDir == "" {
		return rel
	}
	return filepath.Join(c.RootDir, rel)
}

// Defaults returns the built-in configuration.
func Defaults() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the built-in configuration overlaid with the file at path.
// A missing file is an error only when required is set.
func Load(path string, required bool) (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if strings.TrimSpace(string(payload)) == "" {
		return cfg, nil
	}
	if err := Validate(payload); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
