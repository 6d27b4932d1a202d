package config

import (
	"testing"
	"time"
)

func TestLoadTableDefaults(t *testing.T) {
	cfg, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if cfg.Countdown != 30 || cfg.Tick != time.Second {
		t.Fatalf("unexpected clock config: %+v", cfg)
	}
	if cfg.SettleDelay != 400*time.Millisecond || cfg.BotThink != 5*time.Second {
		t.Fatalf("unexpected delays: %+v", cfg)
	}
	if cfg.BotStake != 100 || cfg.BotStakeAt != 20 || cfg.BotWealth != 1000 {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}

func TestLoadAppComposes(t *testing.T) {
	t.Setenv("TABLE_TICK", "250ms")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadApp()
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}
	if cfg.Table.Tick != 250*time.Millisecond || cfg.Log.Level != "warn" || cfg.Server.TCPAddr != ":5000" {
		t.Fatalf("unexpected app config: %+v", cfg)
	}
}
