package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"TICTACTOE_HTTP_PORT" env-default:"9090"`
	Board    Board  `yaml:"board"`
	Redis    Redis  `yaml:"redis"`
}

type Board struct {
	// Dimensions - default row and column count for matches created without one.
	Dimensions      int `yaml:"dimensions" env:"TICTACTOE_BOARD_DIMENSIONS" env-default:"3"`
	WinLength       int `yaml:"win-length" env:"TICTACTOE_BOARD_WIN_LENGTH" env-default:"3"`
	MaxDimension    int `yaml:"max-dimension" env:"TICTACTOE_BOARD_MAX_DIMENSION" env-default:"32"`
	MaxBotDimension int `yaml:"max-bot-dimension" env:"TICTACTOE_BOARD_MAX_BOT_DIMENSION" env-default:"4"`
}

// Redis - optional store for solved positions.
type Redis struct {
	Enabled bool   `yaml:"enabled" env:"TICTACTOE_REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"TICTACTOE_REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"TICTACTOE_REDIS_PORT" env-default:"6379"`
}

var ErrInvalidLogLevel = errors.New("invalid log level")

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if _, err := config.SlogLevel(); err != nil {
		return nil, err
	}

	return config, nil
}

// SlogLevel - log-level as a slog level; accepts debug, info, warn and error.
func (that *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, that.LogLevel)
	}

	return level, nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
