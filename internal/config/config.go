package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported backend types
const (
	TypeDropbox = "dropbox"
	TypeLocal   = "local"
)

// envTag marks scalars whose value is expanded from the environment
const envTag = "!ENV"

// Settings contains the credentials and tuning of a single backend
type Settings struct {
	APIKey   string        `yaml:"api_key"`
	RootPath string        `yaml:"root_path"`
	Timeout  time.Duration `yaml:"timeout"`
	PageSize uint32        `yaml:"page_size"`
	Verify   bool          `yaml:"verify"`
}

// BackendConfig pairs a backend type with its settings
type BackendConfig struct {
	Type   string   `yaml:"type"`
	Config Settings `yaml:"config"`
}

// CloudConfig is the parsed configuration file. It is not modified after Load.
type CloudConfig struct {
	CloudStore []BackendConfig `yaml:"cloudstore"`

	source string
}

// Load reads and validates the configuration file at path
func Load(path string) (*CloudConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	cfg.source = path
	return cfg, nil
}

// Parse decodes and validates a configuration document
func Parse(data []byte) (*CloudConfig, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	if err := expandEnvTags(&root); err != nil {
		return nil, err
	}

	var cfg CloudConfig
	if root.Kind != 0 {
		if err := root.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("invalid config structure: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Source returns the path the configuration was loaded from, if any
func (c *CloudConfig) Source() string {
	return c.source
}

// Cloud returns the default backend, the first entry of cloudstore
func (c *CloudConfig) Cloud() BackendConfig {
	return c.CloudStore[0]
}

// Backend returns the first entry of the given type. An empty name selects the default.
func (c *CloudConfig) Backend(name string) (BackendConfig, error) {
	if name == "" {
		return c.Cloud(), nil
	}
	for _, b := range c.CloudStore {
		if strings.EqualFold(b.Type, name) {
			return b, nil
		}
	}
	return BackendConfig{}, fmt.Errorf("backend %q is not configured", name)
}

// expandEnvTags rewrites every !ENV scalar in place with its expanded value
func expandEnvTags(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == envTag {
		var missing []string
		node.Value = os.Expand(node.Value, func(name string) string {
			value, ok := os.LookupEnv(name)
			if !ok {
				missing = append(missing, name)
			}
			return value
		})
		if len(missing) > 0 {
			return fmt.Errorf("line %d: environment variable %s is not set",
				node.Line, strings.Join(missing, ", "))
		}
		node.Tag = "!!str"
		return nil
	}

	for _, child := range node.Content {
		if err := expandEnvTags(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *CloudConfig) validate() error {
	var errs []error

	if len(c.CloudStore) == 0 {
		errs = append(errs, errors.New("cloudstore must list at least one backend"))
	}

	for i, b := range c.CloudStore {
		switch strings.ToLower(b.Type) {
		case TypeDropbox:
			if strings.TrimSpace(b.Config.APIKey) == "" {
				errs = append(errs, fmt.Errorf("cloudstore[%d]: api_key is required for dropbox", i))
			}
		case TypeLocal:
			if b.Config.RootPath == "" {
				errs = append(errs, fmt.Errorf("cloudstore[%d]: root_path is required for local", i))
			}
		case "":
			errs = append(errs, fmt.Errorf("cloudstore[%d]: type is required", i))
		default:
			errs = append(errs, fmt.Errorf("cloudstore[%d]: unsupported type %q", i, b.Type))
		}

		if b.Config.Timeout < 0 {
			errs = append(errs, fmt.Errorf("cloudstore[%d]: timeout must not be negative", i))
		}
	}

	return combineErrors(errs)
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return NewValidationError(errs)
}

// ValidationError represents multiple configuration validation errors
type ValidationError struct {
	Errors []error
}

// NewValidationError creates a new ValidationError
func NewValidationError(errs []error) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	msgs := []string{"configuration validation failed:"}
	for _, err := range ve.Errors {
		msgs = append(msgs, "  - "+err.Error())
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual validation errors to errors.Is and errors.As
func (ve *ValidationError) Unwrap() []error {
	return ve.Errors
}
