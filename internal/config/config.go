package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parchment-games/hexcrawl/pkg/visibility"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	Map     MapConfig     `yaml:"map"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig holds JWT authentication settings
type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address        string `yaml:"address"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	SnapshotPrefix string `yaml:"snapshot_prefix"`
	RevokedPrefix  string `yaml:"revoked_prefix"`
}

// MapConfig holds the initial map settings for a fresh campaign
type MapConfig struct {
	Width                int     `yaml:"width"`
	Height               int     `yaml:"height"`
	HexSize              float64 `yaml:"hex_size"` // pixels, corner to center
	DefaultSightDistance int     `yaml:"default_sight_distance"`
	DefaultRevealMode    string  `yaml:"default_reveal_mode"` // "permanent" or "lineOfSight"
}

// SessionConfig holds campaign session settings
type SessionConfig struct {
	MaxMembers int `yaml:"max_members"`
	// Flood fills larger than this require the confirmed flag on apply.
	FloodFillConfirmThreshold int `yaml:"flood_fill_confirm_threshold"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.SnapshotPrefix == "" {
		cfg.Redis.SnapshotPrefix = "hexcrawl:campaign:"
	}
	if cfg.Redis.RevokedPrefix == "" {
		cfg.Redis.RevokedPrefix = "hexcrawl:revoked:"
	}
	if cfg.Map.Width == 0 {
		cfg.Map.Width = 30
	}
	if cfg.Map.Height == 0 {
		cfg.Map.Height = 20
	}
	if cfg.Map.HexSize == 0 {
		cfg.Map.HexSize = 24
	}
	if cfg.Map.DefaultSightDistance == 0 {
		cfg.Map.DefaultSightDistance = 2
	}
	if cfg.Map.DefaultRevealMode == "" {
		cfg.Map.DefaultRevealMode = string(visibility.RevealPermanent)
	}
	if cfg.Session.MaxMembers == 0 {
		cfg.Session.MaxMembers = 12
	}
	if cfg.Session.FloodFillConfirmThreshold == 0 {
		cfg.Session.FloodFillConfirmThreshold = 20
	}

	return &cfg, nil
}
