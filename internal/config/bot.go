package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:"localhost:5000"`
	User       string `env:"BOT_USER" envDefault:"bot"`
	Password   string `env:"BOT_PASSWORD" envDefault:"bot"`
	Room       string `env:"BOT_ROOM" envDefault:"lobby"`
	Stake      int64  `env:"BOT_STAKE" envDefault:"100"`
	Policy     string `env:"BOT_POLICY" envDefault:"advanced"`
	Register   bool   `env:"BOT_REGISTER" envDefault:"true"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
