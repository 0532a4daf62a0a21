package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BackupConfig controls the periodic database file backup.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

type Config struct {
	Server struct {
		Port            int    `yaml:"port"`
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup BackupConfig `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Business struct {
		// UTCOffsetMinutes is the fixed business timezone offset.
		// No DST rules apply.
		UTCOffsetMinutes int `yaml:"utc_offset_minutes"`
	} `yaml:"business"`

	Telegram struct {
		BotToken       string  `yaml:"bot_token"`
		ManagerChatIDs []int64 `yaml:"manager_chat_ids"`
	} `yaml:"telegram"`

	Sheets struct {
		Enabled         bool   `yaml:"enabled"`
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
	} `yaml:"sheets"`

	Receipts struct {
		Dir string `yaml:"dir"`
	} `yaml:"receipts"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.JWTSecret == "" {
		return nil, fmt.Errorf("server.jwt_secret is required")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/padelpoint.db"
	}
	if cfg.Business.UTCOffsetMinutes == 0 {
		cfg.Business.UTCOffsetMinutes = 300
	}
	if cfg.Receipts.Dir == "" {
		cfg.Receipts.Dir = "data/receipts"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) TokenTTL() time.Duration {
	if c.Server.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Server.TokenTTLMinutes) * time.Minute
}

func (c *Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
