package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/hexhaven/hexhaven/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// GameSettings contains defaults applied to rooms that do not override them
type GameSettings struct {
	SnapshotDir          string `hcl:"snapshot_dir,optional"`
	VictoryPoints        int    `hcl:"victory_points,optional"`
	BoardSize            string `hcl:"board_size,optional"`
	TurnTimeLimitSeconds int    `hcl:"turn_time_limit_seconds,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "hexhaven-server.log",
		},
		Game: GameSettings{
			SnapshotDir:   "snapshots",
			VictoryPoints: 10,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = "hexhaven-server.log"
	}
	if config.Game.SnapshotDir == "" {
		config.Game.SnapshotDir = "snapshots"
	}
	if config.Game.VictoryPoints == 0 {
		config.Game.VictoryPoints = 10
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Game.VictoryPoints < 3 {
		return fmt.Errorf("victory points target too low: %d", c.Game.VictoryPoints)
	}

	switch game.BoardSize(c.Game.BoardSize) {
	case "", game.SizeStandard, game.SizeExtended:
	default:
		return fmt.Errorf("invalid board size: %s", c.Game.BoardSize)
	}

	if c.Game.TurnTimeLimitSeconds < 0 {
		return fmt.Errorf("turn time limit must not be negative: %d", c.Game.TurnTimeLimitSeconds)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoomDefaults converts the configured game block into room settings
func (c *ServerConfig) RoomDefaults() game.Settings {
	return game.Settings{
		VictoryPointsToWin:   c.Game.VictoryPoints,
		BoardSize:            game.BoardSize(c.Game.BoardSize),
		TurnTimeLimitSeconds: c.Game.TurnTimeLimitSeconds,
	}
}
