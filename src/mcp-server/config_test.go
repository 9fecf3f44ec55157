// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv neutralizes the connection environment so tests see only what they
// set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GRAMPS_MCP_CONFIG_FILE", "")
	t.Setenv("GRAMPS_API_URL", "")
	t.Setenv("GRAMPS_USERNAME", "")
	t.Setenv("GRAMPS_PASSWORD", "")
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFromEnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRAMPS_API_URL", "https://gramps.example.org")
	t.Setenv("GRAMPS_USERNAME", "ada")
	t.Setenv("GRAMPS_PASSWORD", "s3cret")

	config, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://gramps.example.org", config.Gramps.APIURL)
	assert.Equal(t, "ada", config.Gramps.Username)
	assert.Equal(t, 30, config.Gramps.Timeout)
	assert.Equal(t, 5, config.Defaults.Generations)
	assert.Equal(t, 20, config.Defaults.PageSize)
}

func TestLoadConfigJSON(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.json", `{
		"gramps": {
			"apiUrl": "https://gramps.example.org/",
			"username": "ada",
			"password": "s3cret",
			"timeoutSeconds": 60
		},
		"defaults": {
			"generations": 3,
			"pageSize": 50
		}
	}`)

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://gramps.example.org", config.Gramps.APIURL, "trailing slash must be stripped")
	assert.Equal(t, 60, config.Gramps.Timeout)
	assert.Equal(t, 3, config.Defaults.Generations)
	assert.Equal(t, 50, config.Defaults.PageSize)
}

func TestLoadConfigYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", `
gramps:
  apiUrl: https://gramps.example.org
  username: ada
  password: s3cret
defaults:
  generations: 7
`)

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ada", config.Gramps.Username)
	assert.Equal(t, 7, config.Defaults.Generations)
	assert.Equal(t, 20, config.Defaults.PageSize, "unset values keep their defaults")
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.json", `{
		"gramps": {
			"apiUrl": "https://stale.example.org",
			"username": "stale",
			"password": "stale"
		}
	}`)

	t.Setenv("GRAMPS_API_URL", "https://fresh.example.org")
	t.Setenv("GRAMPS_PASSWORD", "fresh-secret")

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://fresh.example.org", config.Gramps.APIURL)
	assert.Equal(t, "stale", config.Gramps.Username, "unset env vars must not clobber file values")
	assert.Equal(t, "fresh-secret", config.Gramps.Password)
}

func TestLoadConfigFileFromEnvVar(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yml", `
gramps:
  apiUrl: https://gramps.example.org
  username: ada
  password: s3cret
`)
	t.Setenv("GRAMPS_MCP_CONFIG_FILE", path)

	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://gramps.example.org", config.Gramps.APIURL)
}

func TestLoadConfigInvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.json", `{
		"gramps": {
			"apiUrl": "https://gramps.example.org",
			"username": "ada",
			"password": "s3cret",
			"timeoutSeconds": -5
		},
		"defaults": {
			"generations": 0,
			"pageSize": -1
		}
	}`)

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, config.Gramps.Timeout)
	assert.Equal(t, 5, config.Defaults.Generations)
	assert.Equal(t, 20, config.Defaults.PageSize)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing API URL",
			setup:   func(t *testing.T) string { return "" },
			wantErr: "API URL is required",
		},
		{
			name: "missing credentials",
			setup: func(t *testing.T) string {
				t.Setenv("GRAMPS_API_URL", "https://gramps.example.org")
				return ""
			},
			wantErr: "credentials are required",
		},
		{
			name: "unreadable config file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.json")
			},
			wantErr: "failed to read config file",
		},
		{
			name: "malformed JSON",
			setup: func(t *testing.T) string {
				return writeConfig(t, "config.json", `{not json`)
			},
			wantErr: "failed to parse JSON",
		},
		{
			name: "malformed YAML",
			setup: func(t *testing.T) string {
				return writeConfig(t, "config.yaml", "gramps: [unclosed")
			},
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := tt.setup(t)

			_, err := loadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDetectConfigFormat(t *testing.T) {
	assert.Equal(t, configFormatYAML, detectConfigFormat("/etc/gramps/config.yaml"))
	assert.Equal(t, configFormatYAML, detectConfigFormat("config.YML"))
	assert.Equal(t, configFormatJSON, detectConfigFormat("config.json"))
	assert.Equal(t, configFormatJSON, detectConfigFormat("config"))
}
