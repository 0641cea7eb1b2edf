package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"TTT_HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"TTT_SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Enabled      bool          `yaml:"enabled" env:"TTT_REDIS_ENABLED" env-default:"false"`
	Host         string        `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port         string        `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
	TTL          time.Duration `yaml:"ttl" env:"TTT_REDIS_TTL" env-default:"0s"`
	PurgeOnStart bool          `yaml:"purge-on-start" env:"TTT_REDIS_PURGE_ON_START" env-default:"false"`
}

type Game struct {
	HumanMark        string        `yaml:"human-mark" env:"TTT_GAME_HUMAN_MARK" env-default:"X"`
	AIMark           string        `yaml:"ai-mark" env:"TTT_GAME_AI_MARK" env-default:"O"`
	AIFirst          bool          `yaml:"ai-first" env:"TTT_GAME_AI_FIRST" env-default:"false"`
	AIMoveDelay      time.Duration `yaml:"ai-move-delay" env:"TTT_GAME_AI_MOVE_DELAY" env-default:"300ms"`
	AutoRestartDelay time.Duration `yaml:"auto-restart-delay" env:"TTT_GAME_AUTO_RESTART_DELAY" env-default:"5s"`
	SearchTimeout    time.Duration `yaml:"search-timeout" env:"TTT_GAME_SEARCH_TIMEOUT" env-default:"2s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path, environment variables override it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
