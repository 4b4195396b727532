package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/input-output-hk/s3ctl/s3"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

const (
	envPrefix = "S3CTL"

	// endpointEnv is the endpoint override variable shared with other S3 tooling.
	endpointEnv = "S3_ENDPOINT"
)

// Config represents the CLI configuration.
// Precedence: flags, then environment, then config file, then defaults.
type Config struct {
	// Storage configuration
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Region    string `yaml:"region" mapstructure:"region"`
	Backend   string `yaml:"backend" mapstructure:"backend"`
	PathStyle bool   `yaml:"path_style" mapstructure:"path_style"`
	Strict    bool   `yaml:"strict" mapstructure:"strict"`

	// Timeout bounds a whole command; zero means no timeout
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Output configuration
	OutputFormat string `yaml:"output" mapstructure:"output"`
	ColorOutput  bool   `yaml:"color" mapstructure:"color"`

	// Logging configuration
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:      s3types.BackendAWS,
		OutputFormat: string(OutputYAML),
		ColorOutput:  true,
		LogLevel:     "warn",
	}
}

// newViper creates a viper instance wired to the environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The unprefixed variable keeps working alongside S3CTL_ENDPOINT.
	_ = v.BindEnv("endpoint", envPrefix+"_ENDPOINT", endpointEnv)

	defaults := DefaultConfig()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("output", defaults.OutputFormat)
	v.SetDefault("color", defaults.ColorOutput)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("endpoint", "")
	v.SetDefault("region", "")
	v.SetDefault("path_style", false)
	v.SetDefault("strict", false)
	v.SetDefault("timeout", time.Duration(0))
	return v
}

// bindFlags binds persistent flags to their configuration keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"endpoint":   "endpoint",
		"region":     "region",
		"backend":    "backend",
		"path_style": "path-style",
		"strict":     "strict",
		"timeout":    "timeout",
		"output":     "output",
		"color":      "color",
		"log_level":  "log-level",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// readConfigFile reads cfgFile, or $HOME/.s3ctl/config.yaml when cfgFile is
// empty. A missing default file is not an error.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".s3ctl"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// LoadConfig resolves the configuration from v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig validates the configuration.
func ValidateConfig(config *Config) error {
	switch config.Backend {
	case s3types.BackendAWS, s3types.BackendMinio:
	default:
		return fmt.Errorf("unsupported backend %q: must be %s or %s",
			config.Backend, s3types.BackendAWS, s3types.BackendMinio)
	}
	switch OutputFormat(config.OutputFormat) {
	case OutputYAML, OutputJSON:
	default:
		return fmt.Errorf("unsupported output format %q: must be yaml or json", config.OutputFormat)
	}
	if config.Backend == s3types.BackendMinio && config.Endpoint == "" {
		return fmt.Errorf("the minio backend requires --endpoint or %s", endpointEnv)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// facadeOptions translates the configuration into facade options.
func (c *Config) facadeOptions() []s3types.Option {
	opts := []s3types.Option{
		s3.WithBackend(c.Backend),
		s3.WithStrictValidation(c.Strict),
	}
	if c.Endpoint != "" {
		opts = append(opts, s3.WithEndpoint(c.Endpoint))
	}
	if c.Region != "" {
		opts = append(opts, s3.WithRegion(c.Region))
	}
	if c.PathStyle {
		opts = append(opts, s3.WithForcePathStyle(true))
	}
	return opts
}
