package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	TCPAddr  string `env:"TCP_ADDR" envDefault:":5000"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	AccountsFile string `env:"ACCOUNTS_FILE" envDefault:"login.txt"`
	ScoresFile   string `env:"SCORES_FILE" envDefault:"scoreboard.txt"`
	PostgresDSN  string `env:"POSTGRES_DSN"`

	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"blackjack:events"`

	StartingScore   int64         `env:"STARTING_SCORE" envDefault:"500"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
