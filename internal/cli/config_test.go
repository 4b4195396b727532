package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "aws", config.Backend)
	assert.Equal(t, "yaml", config.OutputFormat)
	assert.True(t, config.ColorOutput)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Empty(t, config.Endpoint)
	assert.NoError(t, ValidateConfig(config))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "minio with endpoint",
			modify: func(c *Config) { c.Backend = "minio"; c.Endpoint = "http://localhost:9000" },
		},
		{
			name:   "json output",
			modify: func(c *Config) { c.OutputFormat = "json" },
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Backend = "gcs" },
			wantErr: `unsupported backend "gcs"`,
		},
		{
			name:    "unknown output",
			modify:  func(c *Config) { c.OutputFormat = "table" },
			wantErr: `unsupported output format "table"`,
		},
		{
			name:    "minio without endpoint",
			modify:  func(c *Config) { c.Backend = "minio" },
			wantErr: "requires --endpoint or S3_ENDPOINT",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: "timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := ValidateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "http://localhost:4566")
	t.Setenv("S3CTL_REGION", "eu-central-1")
	t.Setenv("S3CTL_OUTPUT", "json")
	t.Setenv("S3CTL_TIMEOUT", "30s")
	t.Setenv("S3CTL_PATH_STYLE", "true")

	config, err := LoadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4566", config.Endpoint)
	assert.Equal(t, "eu-central-1", config.Region)
	assert.Equal(t, "json", config.OutputFormat)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.True(t, config.PathStyle)
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "http://localhost:4566")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")
	flags.String("region", "", "")
	flags.String("backend", "aws", "")
	flags.Bool("path-style", false, "")
	flags.Bool("strict", false, "")
	flags.Duration("timeout", 0, "")
	flags.String("output", "yaml", "")
	flags.Bool("color", true, "")
	flags.String("log-level", "warn", "")
	require.NoError(t, flags.Parse([]string{"--endpoint", "http://minio:9000", "--backend", "minio", "--strict"}))

	v := newViper()
	require.NoError(t, bindFlags(v, flags))

	config, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", config.Endpoint)
	assert.Equal(t, "minio", config.Backend)
	assert.True(t, config.Strict)
}

func TestReadConfigFile(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		t.Setenv("S3CTL_LOG_LEVEL", "")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: debug\ncolor: false\n"), 0o600))

		v := newViper()
		require.NoError(t, readConfigFile(v, path))

		config, err := LoadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "debug", config.LogLevel)
		assert.False(t, config.ColorOutput)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		err := readConfigFile(newViper(), filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("missing default file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		assert.NoError(t, readConfigFile(newViper(), ""))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output: [json\n"), 0o600))
		assert.Error(t, readConfigFile(newViper(), path))
	})
}

func TestConfig_FacadeOptions(t *testing.T) {
	config := DefaultConfig()
	assert.Len(t, config.facadeOptions(), 2)

	config.Endpoint = "http://localhost:4566"
	config.Region = "eu-west-1"
	config.PathStyle = true
	assert.Len(t, config.facadeOptions(), 5)
}
