package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Operator OperatorConfig `mapstructure:"operator"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig is optional: when Addr is empty the remote relay is disabled
// and synchronization runs over the local hub only.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

type OperatorConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SyncConfig struct {
	// ThrottleMs bounds outgoing FULL_SYNC broadcasts: at most one per
	// interval, trailing-edge (the latest state always eventually sends).
	ThrottleMs int `mapstructure:"throttleMs"`
	// RoomCode keys the remote relay channel. Empty means "generate one".
	RoomCode string `mapstructure:"roomCode"`
}

type DefaultsConfig struct {
	PreLevelSeconds int `mapstructure:"preLevelSeconds"`
	// PollHintMs is advertised to viewers as the suggested render cadence.
	PollHintMs int `mapstructure:"pollHintMs"`
}

func (s SyncConfig) ThrottleInterval() time.Duration {
	if s.ThrottleMs <= 0 {
		return time.Second
	}
	return time.Duration(s.ThrottleMs) * time.Millisecond
}

var GlobalConfig *Config

func LoadConfig(path string) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	GlobalConfig = &cfg
}
