package main

import (
	"context"

	"blackjack-server/internal/config"
	"blackjack-server/internal/events"
	"blackjack-server/internal/registry"
	"blackjack-server/internal/store"

	"github.com/rs/zerolog/log"
)

// backingStore is what the registry persists to and the health check pings.
type backingStore interface {
	registry.Store
	Ping(ctx context.Context) error
}

// openStore uses Postgres when a DSN is configured and flat files otherwise.
func openStore(ctx context.Context, cfg config.ServerConfig) (backingStore, func(), error) {
	if cfg.PostgresDSN == "" {
		fs, err := store.NewFileStore(cfg.DataDir, cfg.AccountsFile, cfg.ScoresFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.DataDir).Msg("store_files")
		return fs, func() {}, nil
	}
	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	log.Info().Msg("store_postgres")
	return st, st.Close, nil
}

// openPublisher publishes to Redis through a bounded queue when an address
// is configured. An unreachable Redis is logged and events are dropped.
func openPublisher(ctx context.Context, cfg config.ServerConfig) (events.Publisher, func()) {
	if cfg.RedisAddr == "" {
		return events.Nop{}, func() {}
	}
	rp := events.NewRedisPublisher(cfg.RedisAddr, cfg.RedisChannel)
	if err := rp.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis_unreachable")
	}
	async := events.NewAsync(rp, 256)
	asyncCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	async.Start(asyncCtx)
	log.Info().Str("addr", cfg.RedisAddr).Str("channel", cfg.RedisChannel).Msg("events_redis")
	return async, func() {
		cancel()
		<-async.Done()
		_ = rp.Close()
	}
}
