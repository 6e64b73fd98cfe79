package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the lanerunner server.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Per-connection session loop
	TickRate         time.Duration `yaml:"tick_rate"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	SendQueueSize    int           `yaml:"send_queue_size"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`

	// Gameplay
	Lanes LanesConfig `yaml:"lanes"`
	Spawn SpawnConfig `yaml:"spawn"`
	Game  GameConfig  `yaml:"game"`

	// Match history (optional)
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:         "info",
		BindAddress:      "0.0.0.0",
		Port:             8080,
		TickRate:         16 * time.Millisecond,
		SnapshotInterval: 100 * time.Millisecond,
		SendQueueSize:    256,
		WriteTimeout:     10 * time.Second,
		ReadTimeout:      60 * time.Second,
		Lanes:            DefaultLanes(),
		Spawn:            DefaultSpawn(),
		Game:             DefaultGame(),
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "lanerunner",
			Password: "lanerunner",
			DBName:   "lanerunner",
			SSLMode:  "disable",
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

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

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}
