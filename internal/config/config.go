package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Bond-009/siderite/internal/constants"
)

// Server holds all configuration for the core connection pipeline.
// Gameplay, world, and persistence concerns live outside the core and
// are not represented here.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Session
	OnlineMode  bool   `yaml:"online_mode"`
	MaxPlayers  int    `yaml:"max_players"`
	MOTD        string `yaml:"motd"`
	FaviconPath string `yaml:"favicon_path"`

	// Framing
	CompressionThreshold int `yaml:"compression_threshold"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error (default: info)
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:          "[::]",
		Port:                 25565,
		OnlineMode:           true,
		MaxPlayers:           constants.DefaultMaxPlayers,
		MOTD:                 "A Minecraft Server",
		CompressionThreshold: 256,
		LogLevel:             "info",
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
