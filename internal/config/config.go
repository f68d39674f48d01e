// Package config loads config.toml, .env and TCCB_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// AppConfig is the application configuration.
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Log     LogConfig     `toml:"log"`
	Roster  RosterConfig  `toml:"roster"`
	Session SessionConfig `toml:"session"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int     `toml:"port"`
	DevMode     bool    `toml:"dev_mode"`
	OpenBrowser bool    `toml:"open_browser"`
	UploadRate  float64 `toml:"upload_rate"`  // uploads per second
	UploadBurst int     `toml:"upload_burst"` // burst size of the upload limiter
	MaxUploadMB int64   `toml:"max_upload_mb"`
}

// DataConfig configures the data directory holding the SQLite file.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// LogConfig configures zap and the rotating file sink.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"` // empty: stdout only
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// RosterConfig tunes the importer.
type RosterConfig struct {
	DefaultDepartment string `toml:"default_department"`
	Workers           int    `toml:"workers"`
}

// SessionConfig selects and configures the session backend.
type SessionConfig struct {
	Backend       string `toml:"backend"`
	TTLMinutes    int    `toml:"ttl_minutes"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	RedisPassword string `toml:"redis_password"`
}

// TTL returns the session lifetime.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// LoadConfigInfo describes where values came from.
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			OpenBrowser: true,
			UploadRate:  2,
			UploadBurst: 5,
			MaxUploadMB: 20,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Roster: RosterConfig{
			DefaultDepartment: "Chưa xác định",
			Workers:           4,
		},
		Session: SessionConfig{
			Backend:    SessionMemory,
			TTLMinutes: 240,
			RedisAddr:  "127.0.0.1:6379",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml next to the executable, then .env,
// then TCCB_* variables.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	return LoadFrom(filepath.Join(exeDir, "config.toml"))
}

// LoadFrom loads the given TOML file (a missing file means defaults) and
// applies environment overrides.
func LoadFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, info, fmt.Errorf("read config: %w", err)
	default:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	return config, info, config.Validate()
}

// LoadConfig loads the configuration, discarding the load info.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

func applyEnv(c *AppConfig, info *LoadConfigInfo) error {
	if v := strings.TrimSpace(os.Getenv("TCCB_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TCCB_PORT: %w", err)
		}
		c.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv("TCCB_DATA_DIR"); v != "" {
		c.Data.DataDir = v
	}
	if v := os.Getenv("TCCB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TCCB_SESSION_BACKEND"); v != "" {
		c.Session.Backend = v
	}
	if v := os.Getenv("TCCB_REDIS_ADDR"); v != "" {
		c.Session.RedisAddr = v
	}
	if v := os.Getenv("TCCB_REDIS_PASSWORD"); v != "" {
		c.Session.RedisPassword = v
	}
	return nil
}

// Validate checks value ranges.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("invalid session.backend %q", c.Session.Backend)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid server.max_upload_mb %d", c.Server.MaxUploadMB)
	}
	return nil
}

// SaveConfig writes config.toml next to the executable.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}

// EnsureDataDir creates the data directory. Relative paths are resolved
// against the executable directory.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
