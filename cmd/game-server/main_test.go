package main

import (
	"context"
	"testing"
	"time"

	"blackjack-server/internal/config"
	"blackjack-server/internal/events"
	"blackjack-server/internal/store"
)

func TestRegistryOptionsFromConfig(t *testing.T) {
	t.Setenv("TABLE_COUNTDOWN", "20")
	t.Setenv("BOT_THINK", "2s")
	t.Setenv("STARTING_SCORE", "750")

	cfg, err := config.LoadApp()
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	opts := registryOptions(cfg)
	if opts.StartingScore != 750 || opts.BotWealth != 1000 {
		t.Fatalf("registry options = %+v", opts)
	}
	if opts.Table.Countdown != 20 || opts.Table.BotThink != 2*time.Second || opts.Table.Tick != time.Second {
		t.Fatalf("table options = %+v", opts.Table)
	}
}

func TestOpenStoreDefaultsToFiles(t *testing.T) {
	ctx := context.Background()
	cfg := config.ServerConfig{DataDir: t.TempDir(), AccountsFile: "login.txt", ScoresFile: "scoreboard.txt"}
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeStore()
	if _, ok := st.(*store.FileStore); !ok {
		t.Fatalf("store = %T, want *store.FileStore", st)
	}
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpenPublisherWithoutRedis(t *testing.T) {
	pub, closePub := openPublisher(context.Background(), config.ServerConfig{})
	defer closePub()
	if _, ok := pub.(events.Nop); !ok {
		t.Fatalf("publisher = %T, want events.Nop", pub)
	}
}
