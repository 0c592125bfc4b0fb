// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the dashboard configuration from defaults, YAML
// files, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appDir   = "n8n-dashboard"
	fileName = "n8n-dashboard"
	// EnvPrefix is prepended to every environment variable derived from a
	// config key, e.g. N8N_DASHBOARD_DATABASE_DSN.
	EnvPrefix = "n8n_dashboard"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Security SecurityConfig `mapstructure:"security" yaml:"security"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Language string         `mapstructure:"language" yaml:"language"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	BodyLimit int    `mapstructure:"body_limit" yaml:"body_limit"`
}

type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// StorageConfig selects the blob backend for uploaded library files.
type StorageConfig struct {
	Backend  string   `mapstructure:"backend" yaml:"backend"`
	Dir      string   `mapstructure:"dir" yaml:"dir"`
	Compress bool     `mapstructure:"compress" yaml:"compress"`
	S3       S3Config `mapstructure:"s3" yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Region    string `mapstructure:"region" yaml:"region"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// CatalogConfig points at the GitHub contents API listing of templates.
type CatalogConfig struct {
	RepoURL string        `mapstructure:"repo_url" yaml:"repo_url"`
	Token   string        `mapstructure:"token" yaml:"token,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// EngineConfig is the fallback n8n instance used when a user has not saved
// settings of their own.
type EngineConfig struct {
	Host   string `mapstructure:"host" yaml:"host,omitempty"`
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

type SecurityConfig struct {
	TokenKey   string        `mapstructure:"token_key" yaml:"token_key,omitempty"`
	SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults returns the default key/value map used by LoadConfig.
func Defaults() map[string]any {
	return map[string]any{
		"server.addr":           ":3000",
		"server.body_limit":     4 * 1024 * 1024,
		"database.type":         "sqlite",
		"database.dsn":          "./n8n-dashboard.db",
		"storage.backend":       "fs",
		"storage.dir":           "./data/workflows",
		"storage.compress":      false,
		"storage.s3.endpoint":   "",
		"storage.s3.bucket":     "workflows",
		"storage.s3.access_key": "",
		"storage.s3.secret_key": "",
		"storage.s3.region":     "",
		"storage.s3.use_ssl":    true,
		"catalog.repo_url":      "",
		"catalog.token":         "",
		"catalog.timeout":       "10s",
		"engine.host":           "",
		"engine.api_key":        "",
		"security.token_key":    "",
		"security.session_ttl":  "720h",
		"log.level":             "info",
		"log.format":            "text",
		"language":              "en",
	}
}

// legacyEnv maps config keys to the environment variable names used by
// earlier deployments of the dashboard.
var legacyEnv = map[string]string{
	"catalog.repo_url": "GITHUB_REPO_URL",
	"catalog.token":    "GITHUB_TOKEN",
	"engine.host":      "N8N_HOST_URL",
	"engine.api_key":   "N8N_API_KEY",
}

// flagKeys maps persistent CLI flag names to config keys.
var flagKeys = map[string]string{
	"db-type":   "database.type",
	"db-dsn":    "database.dsn",
	"lang":      "language",
	"log-level": "log.level",
	"addr":      "server.addr",
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "n8n-dashboard")
		default:
			configDir = "/etc/" + appDir
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, appDir)
	}

	return filepath.Join(configDir, fileName+".yaml"), nil
}

// LoadConfig builds a T from defaults, config files, environment and the
// flags of cmd. An explicit file path, when given, must exist.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")

	if explicitPath != nil && *explicitPath != "" {
		v.SetConfigFile(*explicitPath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envName := strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, legacy); err != nil {
			return c, err
		}
	}

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&c, hook); err != nil {
		return c, err
	}

	return c, nil
}

// Load is LoadConfig specialised to Config with the package defaults.
func Load(cmd *cobra.Command, explicitPath *string) (Config, error) {
	return LoadConfig[Config](cmd, Defaults(), explicitPath)
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may carry API keys and the token sealing key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}
