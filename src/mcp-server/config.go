// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config represents the MCP server configuration structure.
// It contains the record store connection settings and default values for
// lineage traversal operations.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// GRAMPS_MCP_CONFIG_FILE environment variable. Connection credentials can also
// be supplied (or overridden) through GRAMPS_API_URL, GRAMPS_USERNAME, and
// GRAMPS_PASSWORD. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Gramps: Connection settings for the genealogy record store
	Gramps struct {
		// APIURL: Base URL of the record store API (e.g., "https://gramps.example.org")
		APIURL string `json:"apiUrl" yaml:"apiUrl"`
		// Username, Password: credentials for the token exchange
		Username string `json:"username,omitempty" yaml:"username,omitempty"`
		Password string `json:"password,omitempty" yaml:"password,omitempty"`
		// CABundle: optional PEM bundle path for self-signed store certificates
		CABundle string `json:"caBundle,omitempty" yaml:"caBundle,omitempty"`
		// Timeout: per-request timeout in seconds
		Timeout int `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
	} `json:"gramps" yaml:"gramps"`

	// Defaults: Default settings for lineage traversal operations
	Defaults struct {
		// Generations: Default generation bound when a tool call does not set one
		Generations int `json:"generations" yaml:"generations"`
		// PageSize: Default page size for search tools
		PageSize int `json:"pageSize" yaml:"pageSize"`
	} `json:"defaults" yaml:"defaults"`
}

// detectConfigFormat determines the configuration file format based on file
// extension. Extension matching is case-insensitive; anything that is not
// .yaml or .yml is treated as JSON.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
// It supports both JSON and YAML formats for configuration flexibility.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads MCP server configuration from a JSON or YAML file and
// merges environment overrides.
//
// Configuration Priority:
//  1. Default values are set
//  2. GRAMPS_MCP_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//  4. Environment variables override config file values
//     (GRAMPS_API_URL, GRAMPS_USERNAME, GRAMPS_PASSWORD)
//
// The file format is detected from the extension (.json, .yaml, .yml). The
// returned configuration is validated: a base URL, username, and password must
// be present from some source, and a trailing slash on the URL is stripped.
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.Gramps.Timeout = 30
	config.Defaults.Generations = 5
	config.Defaults.PageSize = 20

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv("GRAMPS_MCP_CONFIG_FILE")
	}

	// Try to load from file if path is provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Detect format and unmarshal accordingly
		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Gramps.Timeout <= 0 {
			config.Gramps.Timeout = 30
		}
		if config.Defaults.Generations <= 0 {
			config.Defaults.Generations = 5
		}
		if config.Defaults.PageSize <= 0 {
			config.Defaults.PageSize = 20
		}
	}

	// Environment overrides for connection settings
	if url := os.Getenv("GRAMPS_API_URL"); url != "" {
		config.Gramps.APIURL = url
	}
	if username := os.Getenv("GRAMPS_USERNAME"); username != "" {
		config.Gramps.Username = username
	}
	if password := os.Getenv("GRAMPS_PASSWORD"); password != "" {
		config.Gramps.Password = password
	}

	config.Gramps.APIURL = strings.TrimRight(config.Gramps.APIURL, "/")

	if config.Gramps.APIURL == "" {
		return nil, fmt.Errorf("record store API URL is required (set gramps.apiUrl or GRAMPS_API_URL)")
	}
	if config.Gramps.Username == "" || config.Gramps.Password == "" {
		return nil, fmt.Errorf("record store credentials are required (set gramps.username/password or GRAMPS_USERNAME/GRAMPS_PASSWORD)")
	}

	return config, nil
}
