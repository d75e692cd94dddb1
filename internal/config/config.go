package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Data     DataConfig     `toml:"data"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type GameConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	Seed     int64         `toml:"seed"` // 0 means seed from the clock
	Map      string        `toml:"map"`
	Skill    int           `toml:"skill"` // 1-5, filters thing spawns
}

type DataConfig struct {
	Dir        string `toml:"dir"`         // YAML tables
	ScriptsDir string `toml:"scripts_dir"` // Lua behaviors
}

// DatabaseConfig points at the session snapshot store. An empty DSN
// disables persistence entirely.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	SaveInterval    time.Duration `toml:"save_interval"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration, used when no config file
// exists.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			TickRate: time.Second / 35,
			Seed:     0,
			Map:      "E1M1",
			Skill:    3,
		},
		Data: DataConfig{
			Dir:        "data",
			ScriptsDir: "scripts",
		},
		Database: DatabaseConfig{
			DSN:             "",
			MaxOpenConns:    5,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			SaveInterval:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
