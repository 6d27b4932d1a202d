package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type TableConfig struct {
	Countdown   int           `env:"TABLE_COUNTDOWN" envDefault:"30"`
	Tick        time.Duration `env:"TABLE_TICK" envDefault:"1s"`
	SettleDelay time.Duration `env:"TABLE_SETTLE_DELAY" envDefault:"400ms"`
	BotThink    time.Duration `env:"BOT_THINK" envDefault:"5s"`
	BotStake    int64         `env:"BOT_STAKE" envDefault:"100"`
	BotStakeAt  int           `env:"BOT_STAKE_AT" envDefault:"20"`
	BotWealth   int64         `env:"BOT_WEALTH" envDefault:"1000"`
}

func LoadTable() (TableConfig, error) {
	var cfg TableConfig
	err := env.Parse(&cfg)
	return cfg, err
}
