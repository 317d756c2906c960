package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vlquery/vlq/internal/model"

	"github.com/spf13/viper"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 3000
	defaultQueryTimeout = model.DefaultTimeout
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	BaseURL      string        `mapstructure:"base-url"`
	QueryTimeout time.Duration `mapstructure:"query-timeout"`
	Tenant       string        `mapstructure:"tenant"`

	APIPort int    `mapstructure:"api-port"`
	APIAddr string `mapstructure:"api-addr"`

	SnapshotPath string `mapstructure:"snapshot-path"`

	BackupBucketURL      string `mapstructure:"backup-bucket-url"`
	BackupS3Endpoint     string `mapstructure:"backup-s3-endpoint"`
	BackupS3Region       string `mapstructure:"backup-s3-region"`
	BackupS3AccessKey    string `mapstructure:"backup-s3-access-key"`
	BackupS3SecretKey    string `mapstructure:"backup-s3-secret-key"`
	BackupS3SessionToken string `mapstructure:"backup-s3-session-token"`
	BackupS3UseSSL       bool   `mapstructure:"backup-s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultSnapshotPath := filepath.Join(home, ".local", "share", "vlq", "snapshots.duckdb")

	v := viper.New()
	v.SetEnvPrefix("VLQ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("base-url", model.DefaultBaseURL)
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("tenant", "")
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("snapshot-path", defaultSnapshotPath)
	v.SetDefault("backup-bucket-url", "")
	v.SetDefault("backup-s3-endpoint", "")
	v.SetDefault("backup-s3-region", "")
	v.SetDefault("backup-s3-access-key", "")
	v.SetDefault("backup-s3-secret-key", "")
	v.SetDefault("backup-s3-session-token", "")
	v.SetDefault("backup-s3-use-ssl", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultConfigPath := filepath.Join(home, ".config", "vlq", "config.yml")
		v.SetConfigFile(defaultConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.QueryTimeout <= 0 {
		return cfg, fmt.Errorf("invalid query-timeout: %s", cfg.QueryTimeout)
	}

	// Expand ~ in snapshot-path
	if strings.HasPrefix(cfg.SnapshotPath, "~/") {
		cfg.SnapshotPath = filepath.Join(home, cfg.SnapshotPath[2:])
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
